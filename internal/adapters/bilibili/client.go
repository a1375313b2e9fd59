package bilibili

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goware/urlx"
	"github.com/pkg/errors"

	"bilibili-favorites-service/internal/contextkeys"
	"bilibili-favorites-service/internal/core/port"
)

const (
	// DefaultBaseURL is the public web API of the platform.
	DefaultBaseURL = "https://api.bilibili.com"
	DefaultTimeout = 30 * time.Second

	// The API answers 412 to requests that do not look like they come from a browser.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	referer   = "https://www.bilibili.com"

	maxErrorBody = 1024
)

type Config struct {
	// BaseURL in the form [scheme://]host[:port]. Defaults to DefaultBaseURL.
	BaseURL string

	// SESSDATA is the login cookie; only needed for private favorite lists.
	SESSDATA string

	Timeout time.Duration
}

// Client is a Bilibili web API client. It is safe for concurrent use.
type Client struct {
	baseURL    url.URL
	sessdata   string
	httpClient *http.Client
}

var (
	_ port.FavoriteListPort = (*Client)(nil)
	_ port.VideoPort        = (*Client)(nil)
)

// NewClient validates cfg and builds a client. No request is made.
func NewClient(cfg Config) (*Client, error) {
	address := cfg.BaseURL
	if address == "" {
		address = DefaultBaseURL
	}

	u, err := urlx.ParseWithDefaultScheme(address, "https")
	if err != nil {
		return nil, errors.Wrapf(err, "invalid bilibili api address %q", address)
	}
	if (u.Path != "" && u.Path != "/") || u.Opaque != "" || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return nil, errors.New("address must be base server address in the form [scheme://]host[:port]")
	}
	u.Path = ""

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    *u,
		sessdata:   cfg.SESSDATA,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Address returns the base address requests are sent to.
func (c *Client) Address() string {
	return c.baseURL.String()
}

// envelope is the wrapper every API response comes in.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// get performs a GET and returns the data field of the envelope.
func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "BilibiliClient",
		"path":      path,
	})

	u := url.URL{Scheme: c.baseURL.Scheme, Host: c.baseURL.Host, Path: path, RawQuery: query.Encode()}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set(contextkeys.TraceIDHeader, traceID)
	}
	if c.sessdata != "" {
		req.AddCookie(&http.Cookie{Name: "SESSDATA", Value: c.sessdata})
	}

	logger.Debug("Sending request to bilibili", port.Fields{"query": u.RawQuery})
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Request to bilibili failed", err, nil)
		return nil, &TransportError{Op: "GET " + path, Err: err}
	}
	defer safeClose(resp.Body)

	data, err := parseResponse(resp)
	if err != nil {
		logger.Warn("Bilibili returned an error", port.Fields{
			"status_code": resp.StatusCode,
			"error":       err.Error(),
		})
		return nil, err
	}

	logger.Debug("Received response from bilibili", port.Fields{
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return data, nil
}

// errorFromResponse creates an error from a non-2xx response, or nil.
func errorFromResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
}

// parseResponse unwraps the envelope. A non-zero code is returned as *ResponseCodeError.
func parseResponse(resp *http.Response) (json.RawMessage, error) {
	if err := errorFromResponse(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &TransportError{Op: "decode response", Err: err}
	}
	if env.Code != 0 {
		return nil, &ResponseCodeError{Code: env.Code, Message: env.Message}
	}
	return env.Data, nil
}

func safeClose(closer io.Closer) {
	if closer == nil {
		return
	}
	_ = closer.Close()
}
