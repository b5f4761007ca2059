package marketplace

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"portals_watcher/pkg/httpx"
	"portals_watcher/pkg/logx"
)

// Числа в ответах бывают и числами, и строками, поэтому декодируем через json.Number.
var json = jsoniter.Config{ //nolint:gochecknoglobals
	UseNumber:              true,
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

const (
	maxResponseBytes = 4 << 20
	logFieldMaxLen   = 2048
)

type ClientOptions struct {
	BaseURL    string
	AuthToken  string
	AuthScheme string
	Timeout    time.Duration
	Transport  http.RoundTripper
}

// Client — тонкая обёртка над HTTP JSON API маркетплейса.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(opts ClientOptions) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("marketplace base url is required")
	}

	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid marketplace base url: %w", err)
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	transport = httpx.NewLoggingRoundTripper(
		transport,
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLogFieldMaxLen(logFieldMaxLen),
	)

	if opts.AuthToken != "" {
		scheme := opts.AuthScheme
		if scheme == "" {
			scheme = "Bearer"
		}

		transport = httpx.NewAuthRoundTripper(transport, httpx.StaticToken(opts.AuthToken), scheme)
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
	}, nil
}

// getJSON выполняет GET и возвращает декодированное тело как дерево any.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values) (any, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var doc any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	return doc, nil
}

// StatusError — ответ апстрима с кодом вне 2xx.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

func floorPath(collection string) string {
	return "/collections/" + url.PathEscape(collection) + "/floor"
}

func listingsPath(collection string) string {
	return "/collections/" + url.PathEscape(collection) + "/listings"
}
