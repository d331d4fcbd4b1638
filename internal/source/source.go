// Package source implements paper search clients for the platforms the
// pipeline can draw from, plus an aggregator that fans a query out across
// them. Every client is tolerant of missing fields: records are normalized
// at this boundary so downstream stages never see empty titles or abstracts.
package source

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/OsamaMoftah/AiResearcher/internal/model"
	"github.com/OsamaMoftah/AiResearcher/internal/resilience"
)

const userAgent = "AiResearcher/1.0"

const (
	maxAbstractLen = 400
	maxAuthors     = 5
)

// Source is a single paper search platform.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, max int) ([]model.Paper, error)
}

// clientConfig holds the shared knobs of every platform client.
type clientConfig struct {
	baseURL string
	http    *http.Client
}

// Option configures a platform client.
type Option func(*clientConfig)

// WithBaseURL overrides the platform endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *clientConfig) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *clientConfig) { c.http = h }
}

func newClientConfig(defaultBase string, opts ...Option) clientConfig {
	cfg := clientConfig{
		baseURL: defaultBase,
		http: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
			},
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// fetch performs a GET with retry on transient failures and returns the
// response body.
func (c clientConfig) fetch(ctx context.Context, url string) ([]byte, error) {
	return resilience.DoVal(ctx, resilience.DefaultRetryConfig(), func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, eris.Wrap(err, "source: create request")
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "source: request")
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("source: HTTP %d", resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "source: read body")
		}
		return body, nil
	})
}

// normalize fills missing record fields with defaults and applies the
// abstract and author caps.
func normalize(p *model.Paper) {
	if p.Title == "" {
		p.Title = model.DefaultTitle
	}
	if p.Abstract == "" {
		p.Abstract = model.DefaultAbstract
	}
	if len(p.Abstract) > maxAbstractLen {
		p.Abstract = p.Abstract[:maxAbstractLen] + "..."
	}
	if len(p.Authors) > maxAuthors {
		p.Authors = p.Authors[:maxAuthors]
	}
	if p.Year == 0 {
		p.Year = time.Now().Year()
	}
}

// yearFrom parses the leading 4-digit year of a date string, falling back
// to the current year.
func yearFrom(s string) int {
	if len(s) >= 4 {
		if y, err := parseYear(s[:4]); err == nil {
			return y
		}
	}
	return time.Now().Year()
}

func parseYear(s string) (int, error) {
	var y int
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, eris.Errorf("source: bad year %q", s)
		}
		y = y*10 + int(r-'0')
	}
	return y, nil
}
