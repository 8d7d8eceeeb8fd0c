// Package cmd contains commands for the application.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Semior001/gocensus/app/census"
	"github.com/Semior001/gocensus/app/store"
	"github.com/Semior001/gocensus/pkg/logx"
	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
	"golang.org/x/exp/slog"
)

// ClientGroup defines options for constructing the census client.
type ClientGroup struct {
	BaseURL       string        `long:"base-url" env:"BASE_URL" default:"https://api.census.gov/data" description:"census API base URL"`
	APIKey        string        `long:"api-key" env:"API_KEY" description:"census API key"`
	Timeout       time.Duration `long:"timeout" env:"TIMEOUT" default:"1m" description:"timeout for API calls"`
	MaxConcurrent int           `long:"max-concurrent" env:"MAX_CONCURRENT" default:"4" description:"max concurrent API calls"`

	CachePath string        `long:"cache-path" env:"CACHE_PATH" description:"parent dir for catalog cache bolt files, empty disables the cache"`
	CacheTTL  time.Duration `long:"cache-ttl" env:"CACHE_TTL" default:"24h" description:"how long cached catalogs stay fresh"`
}

// Client builds the census client out of the options. The returned closer
// must be called when the client is no longer needed.
func (g ClientGroup) Client(lg *slog.Logger) (cl *census.Client, closeFn func() error, err error) {
	closeFn = func() error { return nil }

	var catalogs store.Interface
	if g.CachePath != "" {
		b, err := store.NewBolt(g.CachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("make catalog cache: %w", err)
		}
		catalogs, closeFn = b, b.Close
	}

	rq := requester.New(http.Client{Timeout: g.Timeout},
		middleware.MaxConcurrent(g.MaxConcurrent),
		middleware.Header("User-Agent", "gocensus"),
		logx.RequestID(),
		logx.LoggingRoundTripper(lg.With(slog.String("prefix", "http")), logx.RoundTripperOpts{
			Level:        slog.LevelDebug,
			SecretParams: []string{"key"},
		}),
	)

	cl = census.NewClient(lg.With(slog.String("prefix", "census")), rq.Client(), census.Opts{
		BaseURL:    g.BaseURL,
		APIKey:     g.APIKey,
		Catalogs:   catalogs,
		CatalogTTL: g.CacheTTL,
	})

	return cl, closeFn, nil
}

// DatasetGroup defines options locating a single dataset.
type DatasetGroup struct {
	Year int    `long:"year" env:"YEAR" required:"true" description:"vintage year of the dataset"`
	Path string `long:"path" env:"PATH" required:"true" description:"dataset path, e.g. acs/acs5"`
}

// FilterGroup defines regex filters for search commands.
type FilterGroup struct {
	Filters []string `long:"filter" short:"f" description:"regex filter in field=regex form"`
	Op      string   `long:"op" default:"and" choice:"and" choice:"or" description:"logical operator to combine filters"`
}

func (g FilterGroup) parse() ([]census.Filter, census.Op, error) {
	filters, err := parseFilters(g.Filters)
	if err != nil {
		return nil, "", err
	}
	return filters, census.Op(g.Op), nil
}

func parseFilters(raw []string) ([]census.Filter, error) {
	filters := make([]census.Filter, 0, len(raw))
	for _, s := range raw {
		field, expr, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("filter %q is not in field=regex form", s)
		}

		f, err := census.Match(field, expr)
		if err != nil {
			return nil, fmt.Errorf("make filter on %s: %w", field, err)
		}

		filters = append(filters, f)
	}
	return filters, nil
}

func commandCtx() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
}

func printItems[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("encode item: %w", err)
		}
	}
	return nil
}

func closeAndLog(closeFn func() error) {
	if err := closeFn(); err != nil {
		slog.Error("failed to close catalog cache", slog.Any("err", err))
	}
}
