// Package socs fetches the competition form page and extracts the list of
// competitions offered in its `cid` dropdown.
package socs

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"socsbot/internal/components/assert"
	"socsbot/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	report_client_fetch = "client.fetch"
)

var tracer = otel.Tracer("socsbot/scrapers/socs")

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	Site string
	// Timeout defaults to 30 seconds.
	Timeout time.Duration
	// CloudflareBypass wraps the transport with cloudflare-bp, it should be
	// left off when talking to local test servers.
	CloudflareBypass bool
}

// Client issues the cookie-authenticated GET against the configured page.
type Client struct {
	site string
	http *resty.Client
	tel  telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel, "telemetry")
	assert.NotEmptyStr(opts.Site, "site")

	tel = telemetry.NewScopedAPI("socs_scraper", tel)

	parsed, err := url.Parse(opts.Site)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("site must be an absolute url: %q", opts.Site)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}

	httpClient := resty.New()
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	// the session cookie is owned by the bot state, cookies set by the site are not replayed
	httpClient.SetCookieJar(nil)
	httpClient.SetHeader("user-agent", userAgent)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsed.Hostname()))
	httpClient.SetTimeout(timeout)

	// 1 request per second at most, the page is only ever needed a couple of times a day
	rateLimiter := rate.NewLimiter(1, 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)

	return &Client{
		site: opts.Site,
		http: httpClient,
		tel:  tel,
	}, nil
}

// Fetch returns the body of the page, requested with `Cookie: <cookie>`.
// Non-2xx responses are returned as errors.
func (c *Client) Fetch(ctx context.Context, cookie string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	req := c.http.R().SetContext(ctx)
	if cookie != "" {
		req.SetHeader("Cookie", cookie)
	}

	res, err := req.Get(c.site)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		c.tel.ReportBroken(report_client_fetch, fmt.Errorf("get: %w", err))
		return "", fmt.Errorf("fetch %s: %w", c.site, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode()))

	if res.IsError() {
		err = fmt.Errorf("fetch %s: unexpected status %s", c.site, res.Status())
		span.SetStatus(codes.Error, "unexpected status")
		c.tel.ReportBroken(report_client_fetch, err)
		return "", err
	}

	return res.String(), nil
}
