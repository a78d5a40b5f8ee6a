package socs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"socsbot/internal/components/telemetry/teltest"

	"github.com/stretchr/testify/require"
)

func TestClientFetchSendsCookie(t *testing.T) {
	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte(formPage))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{Site: server.URL + "/register.php"}, &teltest.Recorder{})
	require.NoError(t, err)

	body, err := client.Fetch(context.Background(), "PHPSESSID=abc123")
	require.NoError(t, err)
	require.Equal(t, "PHPSESSID=abc123", gotCookie)

	items, found := Extract(body)
	require.True(t, found)
	require.Len(t, items, 4)
}

func TestClientFetchWithoutCookie(t *testing.T) {
	var sawCookie bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawCookie = r.Header["Cookie"]
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{Site: server.URL}, &teltest.Recorder{})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "")
	require.NoError(t, err)
	require.False(t, sawCookie)
}

func TestClientFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	rec := &teltest.Recorder{}
	client, err := NewClient(ClientOptions{Site: server.URL}, rec)
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "a=b")
	require.ErrorContains(t, err, "403")
	require.Contains(t, rec.IDs("broken"), "socs_scraper: client.fetch")
}

func TestClientFetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(ClientOptions{Site: url}, &teltest.Recorder{})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "a=b")
	require.Error(t, err)
}

func TestNewClientRequiresSite(t *testing.T) {
	require.Panics(t, func() {
		NewClient(ClientOptions{}, &teltest.Recorder{})
	})
}

func TestNewClientRejectsRelativeSite(t *testing.T) {
	_, err := NewClient(ClientOptions{Site: "/register.php"}, &teltest.Recorder{})
	require.Error(t, err)
}
