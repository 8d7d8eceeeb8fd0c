package logx

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/requester/middleware"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

// RequestID tags every outgoing request with a generated id, for correlating
// log entries of a single call.
func RequestID() middleware.RoundTripperHandler {
	return func(next http.RoundTripper) http.RoundTripper {
		return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			id := uuid.New().String()
			req = req.WithContext(ContextWithRequestID(req.Context(), id))
			req.Header.Set("X-Request-Id", id)
			return next.RoundTrip(req)
		})
	}
}

// RoundTripperOpts contains options for client logger.
type RoundTripperOpts struct {
	Level slog.Level
	// SecretParams are masked in logged URLs, the census API key travels
	// in the query string.
	SecretParams  []string
	SecretHeaders []string
}

// LoggingRoundTripper logs every client request.
func LoggingRoundTripper(lg *slog.Logger, opts RoundTripperOpts) middleware.RoundTripperHandler {
	return func(next http.RoundTripper) http.RoundTripper {
		return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			le := logEntry{}

			le.Request.URL = maskParams(req.URL, opts.SecretParams)
			le.Request.Method = req.Method
			le.Request.Headers = map[string]string{}
			for k, vals := range req.Header {
				if lo.Contains(opts.SecretHeaders, k) {
					le.Request.Headers[k] = "***"
					continue
				}
				le.Request.Headers[k] = strings.Join(vals, ",")
			}

			lg.LogAttrs(req.Context(), opts.Level, "request sent", slog.Any("request", le.Request))

			start := time.Now()
			resp, err := next.RoundTrip(req)
			le.Elapsed = time.Since(start)
			le.Error = err

			if err != nil {
				lg.LogAttrs(req.Context(), slog.LevelWarn, "request failed",
					slog.Any("elapsed", le.Elapsed),
					slog.Any("err", le.Error),
				)
				return resp, err
			}

			le.Response.Headers = map[string]string{}
			for k, vals := range resp.Header {
				if lo.Contains(opts.SecretHeaders, k) {
					le.Response.Headers[k] = "***"
					continue
				}
				le.Response.Headers[k] = strings.Join(vals, ",")
			}

			resp.Body, le.Response.ResponseBody = copyAndTrim(resp.Body)
			le.Response.StatusCode = resp.StatusCode

			lg.LogAttrs(req.Context(), opts.Level, "response received",
				slog.Any("response", le.Response),
				slog.Any("elapsed", le.Elapsed),
			)

			return resp, err
		})
	}
}

// maskParams hides values of the given query parameters, the rest of the URL
// is kept as-is to not spoil the census-specific encoding.
func maskParams(u *url.URL, secret []string) string {
	if len(secret) == 0 || u.RawQuery == "" {
		return u.String()
	}

	masked := *u
	pairs := strings.Split(masked.RawQuery, "&")
	for i, pair := range pairs {
		key, _, ok := strings.Cut(pair, "=")
		if ok && lo.Contains(secret, key) {
			pairs[i] = key + "=***"
		}
	}
	masked.RawQuery = strings.Join(pairs, "&")

	return masked.String()
}

type logEntry struct {
	Request struct {
		Method  string
		URL     string
		Headers map[string]string
	}
	Response struct {
		StatusCode   int
		Headers      map[string]string
		ResponseBody string
	}
	Error   error
	Elapsed time.Duration
}

const trimBodyAt = 1024

func copyAndTrim(r io.ReadCloser) (rd io.ReadCloser, result string) {
	if r == nil {
		return nil, ""
	}

	rd, result, read := readPortion(r, trimBodyAt)
	if read == trimBodyAt {
		result = result[:trimBodyAt] + "..."
	}
	result = strings.ReplaceAll(result, "\n", "")
	result = strings.ReplaceAll(result, "\t", "")

	return rd, result
}

func readPortion(src io.ReadCloser, limit int64) (rd io.ReadCloser, portion string, read int64) {
	buf := &bytes.Buffer{}

	read, err := io.CopyN(buf, src, limit)
	if err != nil {
		return io.NopCloser(bytes.NewReader(buf.Bytes())), buf.String(), read
	}

	return &closer{rd: io.MultiReader(buf, src), closeFn: src.Close}, buf.String(), read
}

type closer struct {
	rd      io.Reader
	closeFn func() error
}

func (c *closer) Read(p []byte) (n int, err error) { return c.rd.Read(p) }
func (c *closer) Close() error                     { return c.closeFn() }
