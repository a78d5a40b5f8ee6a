// Package commands implements the on-demand chat commands, each one reads or
// writes the shared state and produces the text reply.
package commands

import (
	"context"
	"errors"
	"fmt"

	"socsbot/internal/components/assert"
	"socsbot/internal/components/telemetry"
	"socsbot/internal/state"

	"github.com/antzucaro/matchr"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownCommand  = errors.New("unknown command")
)

const (
	SetCookie = "set_cookie"
	GetCookie = "get_cookie"
	GetCache  = "get_cache"
	Latest    = "latest"
)

const (
	InvalidCookieReply = "Please provide a valid cookie string"
	NoCookieReply      = "Please set a cookie first using the `/set_cookie` command"
	EmptyCacheReply    = "Cache is empty (this is weird; probably means expired cookie)"
)

// Spec describes a command for registration with the chat platform.
type Spec struct {
	Name        string
	Description string
	Args        []string
}

var Specs = []Spec{
	{Name: SetCookie, Description: "Set the cookie for client", Args: []string{"key", "value"}},
	{Name: GetCookie, Description: "Get the cookie from client"},
	{Name: GetCache, Description: "Get the cache of the element"},
	{Name: Latest, Description: "Get the latest list of SOCS competitions"},
}

// Notifier posts a list to a channel.
type Notifier interface {
	Send(ctx context.Context, channel int64, list []string)
}

type Dispatcher struct {
	state    *state.State
	notifier Notifier
	tel      telemetry.API
}

func NewDispatcher(st *state.State, notifier Notifier, tel telemetry.API) Dispatcher {
	assert.NotNil(st, "state")
	assert.NotNil(notifier, "notifier")
	assert.NotNil(tel, "telemetry")

	return Dispatcher{
		state:    st,
		notifier: notifier,
		tel:      telemetry.NewScopedAPI("commands", tel),
	}
}

// SetCookie stores "key=value" as the session cookie used by the next fetch.
func (d Dispatcher) SetCookie(key, value string) (string, error) {
	if key == "" || value == "" {
		return InvalidCookieReply, fmt.Errorf("%w: cookie key and value are both required", ErrInvalidArgument)
	}

	cookie := fmt.Sprintf("%s=%s", key, value)
	d.state.SetCookie(cookie)
	d.tel.ReportDebug("cookie updated", key)

	return fmt.Sprintf("COOKIE: %s", cookie), nil
}

func (d Dispatcher) GetCookie() string {
	cookie := d.state.Cookie()
	if cookie == "" {
		return NoCookieReply
	}
	return fmt.Sprintf("COOKIE: %s", cookie)
}

func (d Dispatcher) GetCache() string {
	cache := d.state.Cache()
	if len(cache) == 0 {
		return EmptyCacheReply
	}
	return fmt.Sprintf("CACHE: %q", []string(cache))
}

// ForceLatest posts the cached list right away regardless of the time window.
// The reply is empty when the list was sent.
func (d Dispatcher) ForceLatest(ctx context.Context) string {
	snapshot := d.state.Snapshot()
	if len(snapshot.Cache) == 0 {
		return EmptyCacheReply
	}

	d.notifier.Send(ctx, snapshot.Channel, snapshot.Cache)
	return ""
}

// Dispatch routes a command by name. Argument errors come back together with the
// reply that should be shown to the user.
func (d Dispatcher) Dispatch(ctx context.Context, name string, args []string) (string, error) {
	switch name {
	case SetCookie:
		if len(args) != 2 {
			return InvalidCookieReply, fmt.Errorf("%w: set_cookie takes exactly 2 arguments, got %d", ErrInvalidArgument, len(args))
		}
		return d.SetCookie(args[0], args[1])
	case GetCookie:
		return d.GetCookie(), nil
	case GetCache:
		return d.GetCache(), nil
	case Latest:
		return d.ForceLatest(ctx), nil
	default:
		err := fmt.Errorf("%w: %q", ErrUnknownCommand, name)
		suggestion, ok := Suggest(name)
		if !ok {
			return "", err
		}
		return fmt.Sprintf("Unknown command /%s, did you mean /%s?", name, suggestion), err
	}
}

// minSuggestionSimilarity is the jaro-winkler similarity above which an unknown
// command is taken to be a typo of a known one.
const minSuggestionSimilarity = 0.85

// Suggest returns the known command closest to name if it is similar enough.
func Suggest(name string) (string, bool) {
	var best string
	var bestSimilarity float64
	for _, spec := range Specs {
		similarity := matchr.JaroWinkler(name, spec.Name, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = spec.Name
		}
	}
	if bestSimilarity < minSuggestionSimilarity {
		return "", false
	}
	return best, true
}
