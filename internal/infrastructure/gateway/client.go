package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DanielPopoola/gulfpay/internal/config"
	"github.com/DanielPopoola/gulfpay/internal/domain"
)

const (
	DefaultBaseURL = "https://api.tap.company/v2"

	defaultTimeout        = 30 * time.Second
	defaultConnectTimeout = 10 * time.Second
)

// Client talks to the upstream payment API. Every call is a single attempt;
// callers that want retries wrap the client.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	amounts    *domain.AmountResolver
	metrics    *Metrics
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient fails with a *domain.ConfigurationError when the secret key is blank.
func NewClient(cfg config.ClientConfig, opts ...Option) (*Client, error) {
	secretKey := strings.TrimSpace(cfg.SecretKey)
	if secretKey == "" {
		return nil, &domain.ConfigurationError{
			Field:   "client.secret_key",
			Message: "secret key must not be blank",
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.TimeoutDuration()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	connectTimeout := cfg.ConnectTimeoutDuration()
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: connectTimeout}).DialContext

	c := &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		amounts: domain.NewAmountResolver(cfg.DefaultCurrency),
		logger:  slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Amounts returns the resolver configured with the client's default currency.
func (c *Client) Amounts() *domain.AmountResolver {
	return c.amounts
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (map[string]any, error) {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.request(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (map[string]any, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (map[string]any, error) {
	return c.request(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (map[string]any, error) {
	return c.request(ctx, http.MethodDelete, path, nil)
}

func (c *Client) request(ctx context.Context, method, path string, reqBody any) (result map[string]any, err error) {
	start := time.Now()
	defer func() {
		c.metrics.observe(method, err, time.Since(start))
	}()

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Accept", "application/json")
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WarnContext(ctx, "api request failed", "method", method, "path", path, "error", err)
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(err)
	}

	c.logger.DebugContext(ctx, "api request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		decoded, err := decodeBody(body)
		if err != nil {
			return nil, newDecodeError(err)
		}
		return decoded, nil

	case resp.StatusCode == http.StatusUnauthorized:
		return nil, newAuthenticationError(resp.StatusCode)

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		decoded, err := decodeBody(body)
		if err != nil {
			return nil, newDecodeError(err)
		}
		return nil, classify(resp.StatusCode, decoded)

	default:
		// Server errors keep their status even when the body is not JSON.
		decoded, err := decodeBody(body)
		if err != nil {
			decoded = map[string]any{}
		}
		return nil, classify(resp.StatusCode, decoded)
	}
}

// decodeBody decodes a JSON object keeping numbers as json.Number. An empty
// body is an empty object.
func decodeBody(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var decoded map[string]any
	if err := decoder.Decode(&decoded); err != nil {
		return nil, err
	}
	if decoded == nil {
		decoded = map[string]any{}
	}
	return decoded, nil
}
