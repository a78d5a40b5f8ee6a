package telemetry

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

const (
	report_resty_request  = "resty.request"
	report_resty_response = "resty.response"
	report_resty_error    = "resty.error"
)

type requestSeqKey struct{}

func requestSeq(req *resty.Request) uint64 {
	n, _ := req.Context().Value(requestSeqKey{}).(uint64)
	return n
}

// InstrumentResty reports the requests a client makes through tel. Every request
// gets a sequence number so its request and response reports can be paired up.
func InstrumentResty(client *resty.Client, tel API) {
	var seq atomic.Uint64

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		n := seq.Add(1)
		req.SetContext(context.WithValue(req.Context(), requestSeqKey{}, n))
		tel.ReportDebug(report_resty_request, n, req.Method, req.URL, formatHeaders(req.Header))
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		tel.ReportDebug(
			report_resty_response,
			requestSeq(res.Request),
			res.Status(),
			res.Time().String(),
			len(res.Body()),
		)
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		tel.ReportWarning(report_resty_error, err, requestSeq(req), req.Method, req.URL)
	})
}

// formatHeaders renders headers one "Key: Value" per line sorted by key, with the
// values of session cookies hidden.
func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var lines []string
	for _, k := range keys {
		for _, v := range headers[k] {
			if http.CanonicalHeaderKey(k) == "Cookie" {
				v = redactCookie(v)
			}
			lines = append(lines, k+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

func redactCookie(cookie string) string {
	pairs := strings.Split(cookie, ";")
	for i, pair := range pairs {
		name, _, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			pairs[i] = "<redacted>"
			continue
		}
		pairs[i] = name + "=<redacted>"
	}
	return strings.Join(pairs, "; ")
}
