// Package census contains a client for the US Census Bureau data API
// and models for the entities it serves.
package census

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Semior001/gocensus/app/store"
	cache "github.com/go-pkgz/expirable-cache/v2"
	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

// DefaultBaseURL points to the production census data API.
const DefaultBaseURL = "https://api.census.gov/data"

// Client makes requests to the census data API.
type Client struct {
	log    *slog.Logger
	cl     *http.Client
	base   string
	apiKey string

	catalogs   store.Interface
	catalogTTL time.Duration

	vars cache.Cache[string, []Variable]
}

// Opts contains options for the client.
type Opts struct {
	BaseURL string
	APIKey  string

	// Catalogs, when set, persists catalog documents between runs,
	// refreshed after CatalogTTL.
	Catalogs   store.Interface
	CatalogTTL time.Duration
}

// NewClient creates new census client.
func NewClient(lg *slog.Logger, cl *http.Client, opts Opts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	return &Client{
		log:        lg,
		cl:         cl,
		base:       strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		catalogs:   opts.Catalogs,
		catalogTTL: opts.CatalogTTL,
		vars: cache.NewCache[string, []Variable]().
			WithLRU().
			WithMaxKeys(4),
	}
}

// VarCacheStat returns variable cache stats.
func (c *Client) VarCacheStat() cache.Stats { return c.vars.Stat() }

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.cl.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return nil, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	bts, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return bts, nil
}

// fetchCatalog returns the catalog document body, served from the persistent
// cache while it's fresh.
func (c *Client) fetchCatalog(ctx context.Context, u string) ([]byte, error) {
	if c.catalogs != nil {
		p, err := c.catalogs.Get(ctx, u)
		switch {
		case err == nil && time.Since(p.FetchedAt) < c.catalogTTL:
			return p.Body, nil
		case err != nil && !errors.Is(err, store.ErrNotFound):
			c.log.WarnCtx(ctx, "failed to read catalog cache",
				slog.String("url", u), slog.Any("err", err))
		}
	}

	bts, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	if c.catalogs != nil {
		p := store.Payload{URL: u, Body: bts, FetchedAt: time.Now()}
		if err := c.catalogs.Put(ctx, p); err != nil {
			c.log.WarnCtx(ctx, "failed to store catalog",
				slog.String("url", u), slog.Any("err", err))
		}
	}

	return bts, nil
}

// table fetches a tabular census API response.
func (c *Client) table(ctx context.Context, u string, params []Param) ([][]string, error) {
	bts, err := c.get(ctx, u+"?"+encodeParams(params))
	if err != nil {
		return nil, err
	}

	var rows [][]string
	if err := json.Unmarshal(bts, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal table: %w", err)
	}

	return rows, nil
}

// Param is a single query parameter of a census API call.
type Param struct{ Key, Value string }

// encodeParams assembles a query string preserving the parameter order.
// The census API rejects over-encoded geography clauses, so commas, colons
// and asterisks are left as-is.
func encodeParams(params []Param) string {
	pairs := lo.Map(params, func(p Param, _ int) string {
		return p.Key + "=" + escapeValue(p.Value)
	})
	return strings.Join(pairs, "&")
}

var valueUnescaper = strings.NewReplacer("%2C", ",", "%3A", ":", "%2A", "*", "+", "%20")

func escapeValue(s string) string { return valueUnescaper.Replace(url.QueryEscape(s)) }
