// Package poller runs the background loop that fetches the competition page inside the
// configured time window and posts the list whenever it changes.
package poller

import (
	"context"
	"fmt"
	"time"

	"socsbot/internal/components/assert"
	"socsbot/internal/components/chrono"
	"socsbot/internal/components/telemetry"
	"socsbot/internal/state"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_poller_fetch   = "poller.fetch"
	report_poller_extract = "poller.extract"
	report_poller_items   = "poller.items"
)

var tracer = otel.Tracer("socsbot/poller")

// PageFetcher returns the raw page body fetched with the given session cookie.
type PageFetcher interface {
	Fetch(ctx context.Context, cookie string) (string, error)
}

// ExtractFunc pulls the list out of a page, found is false when nothing usable was on it.
type ExtractFunc func(document string) (items []string, found bool)

// Notifier posts a list to a channel, it must not block the loop on delivery failures.
type Notifier interface {
	Send(ctx context.Context, channel int64, list []string)
}

type Options struct {
	Window   Window
	Interval time.Duration
}

type Poller struct {
	state    *state.State
	fetcher  PageFetcher
	extract  ExtractFunc
	notifier Notifier
	time     chrono.TimeAPI
	tel      telemetry.API

	window   Window
	interval time.Duration

	fetches metric.Int64Counter
}

func New(
	opts Options,
	st *state.State,
	fetcher PageFetcher,
	extract ExtractFunc,
	notifier Notifier,
	clock chrono.TimeAPI,
	tel telemetry.API,
) *Poller {
	assert.NotNil(st, "state")
	assert.NotNil(fetcher, "fetcher")
	assert.NotNil(extract, "extract")
	assert.NotNil(notifier, "notifier")
	assert.NotNil(clock, "clock")
	assert.NotNil(tel, "telemetry")
	assert.PositiveDuration(opts.Interval, "interval")

	fetches, _ := otel.Meter("socsbot/poller").Int64Counter(
		"poller.fetches",
		metric.WithDescription("page fetch attempts by outcome"),
	)

	return &Poller{
		state:    st,
		fetcher:  fetcher,
		extract:  extract,
		notifier: notifier,
		time:     clock,
		tel:      telemetry.NewScopedAPI("poller", tel),
		window:   opts.Window,
		interval: opts.Interval,
		fetches:  fetches,
	}
}

// Start launches the loop in a new goroutine the first time it is called, later calls
// (ex. the chat platform reconnecting and signalling ready again) are no-ops.
// It reports whether this call started the loop.
func (p *Poller) Start(ctx context.Context) bool {
	if !p.state.TryStartLoop() {
		p.tel.ReportDebug("loop already running")
		return false
	}
	go p.run(ctx)
	return true
}

func (p *Poller) run(ctx context.Context) {
	p.Seed(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.Tick(ctx)

		select {
		case <-ctx.Done():
			p.tel.ReportDebug("loop stopped", ctx.Err())
			return
		case <-ticker.C:
		}
	}
}

// fetchList fetches and extracts, ok is false when either step produced nothing usable.
// No lock is held here.
func (p *Poller) fetchList(ctx context.Context, cookie string) (list state.List, ok bool) {
	ctx, span := tracer.Start(ctx, "poller:fetchList")
	defer span.End()

	body, err := p.fetcher.Fetch(ctx, cookie)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		p.fetches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "transport_error")))
		p.tel.ReportWarning(report_poller_fetch, fmt.Errorf("cycle skipped: %w", err))
		return nil, false
	}

	items, found := p.extract(body)
	if !found {
		span.SetStatus(codes.Error, "list not found")
		p.fetches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "not_found")))
		p.tel.ReportWarning(
			report_poller_extract,
			"list not found on page, the session cookie may have expired",
			len(body),
		)
		return nil, false
	}

	span.SetAttributes(attribute.Int("items", len(items)))
	p.fetches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
	p.tel.ReportCount(report_poller_items, int64(len(items)))
	return state.List(items), true
}

// Seed fills the cache once at startup without consulting the window and without
// notifying, so only changes observed after startup are posted.
func (p *Poller) Seed(ctx context.Context) {
	list, ok := p.fetchList(ctx, p.state.Cookie())
	if !ok || len(list) == 0 {
		return
	}
	if p.state.ReplaceIfChanged(list) {
		p.tel.ReportDebug("cache seeded", len(list))
	}
}

// Tick runs a single iteration of the loop at the current time.
func (p *Poller) Tick(ctx context.Context) {
	now := p.time.Now()

	if p.window.Eligible(now, p.state.QueriedThisWindow()) {
		p.query(ctx, now)
		p.state.SetQueriedThisWindow(true)
	}

	if p.state.RearmOutsideWindow(p.window.MinuteInWindow(now)) {
		p.tel.ReportDebug("window left, gate re-armed")
	}
}

func (p *Poller) query(ctx context.Context, now time.Time) {
	ctx, span := tracer.Start(ctx, "poller:query")
	defer span.End()

	p.tel.ReportDebug("window open, fetching", now.In(p.location()).Format(time.RFC3339))

	list, ok := p.fetchList(ctx, p.state.Cookie())
	if !ok || !p.state.ReplaceIfChanged(list) {
		return
	}
	span.AddEvent("list changed", trace.WithAttributes(attribute.Int("entries", len(list))))
	p.notifier.Send(ctx, p.state.Channel(), list)
}

func (p *Poller) location() *time.Location {
	if p.window.Location == nil {
		return time.UTC
	}
	return p.window.Location
}
