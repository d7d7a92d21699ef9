package ghibli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL   = "https://ghibliapi.vercel.app"
	DefaultUserAgent = "ghibligraph/1.0"

	FilmsPath = "/films"
)

// ErrEmptyBody is returned when the upstream answers 2xx with no payload or a JSON null.
var ErrEmptyBody = errors.New("ghibli: empty response body")

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ghibli: unexpected status code %d from %s", e.StatusCode, e.URL)
}

// FilmPath returns the upstream path of a single film.
func FilmPath(id string) string {
	return FilmsPath + "/" + url.PathEscape(id)
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	tracer     trace.Tracer
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient. No timeout is set by default;
// callers bound requests through the context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: http.DefaultClient,
		userAgent:  DefaultUserAgent,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tracer:     otel.Tracer("ghibligraph/internal/platform/ghibli"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues exactly one GET for path and decodes the JSON body into target.
func (c *Client) Get(ctx context.Context, path string, target any) (err error) {
	u := c.baseURL + path

	ctx, span := c.tracer.Start(ctx, "ghibli.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodGet),
			attribute.String("ghibli.path", path),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("ghibli: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ghibli: get %s: %w", u, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, URL: u}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ghibli: read body: %w", err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return ErrEmptyBody
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("ghibli: decode %s: %w", u, err)
	}
	return nil
}
