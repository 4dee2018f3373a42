// Package pokemoem fetches per-creature battle usage reports.
package pokemoem

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/corey/pokesrc/internal/adapters/httpjson"
	"github.com/corey/pokesrc/internal/ports"
)

// Client implements ports.UsageFetcher.
type Client struct {
	base string
	http *http.Client
	form int
	rule int
}

// Option configures a Client.
type Option func(*Client)

// WithForm selects an alternate form (0 is the base form).
func WithForm(form int) Option {
	return func(c *Client) { c.form = form }
}

// WithRule selects the battle rule set (0 is singles).
func WithRule(rule int) Option {
	return func(c *Client) { c.rule = rule }
}

// New creates a Client rooted at base
// (e.g. https://api.pokemoem.com/battlestat/details/today).
func New(base string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{base: strings.TrimRight(base, "/"), http: httpClient}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchUsage fetches {base}/{id}/{form}?rule={rule}.
func (c *Client) FetchUsage(ctx context.Context, id int) (*ports.UsageReport, error) {
	url := fmt.Sprintf("%s/%d/%d?rule=%d", c.base, id, c.form, c.rule)
	report, err := httpjson.Get[ports.UsageReport](ctx, c.http, url)
	if err != nil {
		return nil, err
	}
	return &report, nil
}
