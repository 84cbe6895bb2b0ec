package woocommerce

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
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/vignerons/storefront-backend/pkg/config"
	pkgerrors "github.com/vignerons/storefront-backend/pkg/errors"
)

const (
	// restAPIPath is the base path of the WooCommerce REST API (keyed access).
	restAPIPath = "/wp-json/wc/v3"
	// storeAPIPath is the base path of the cart-facing Store API.
	storeAPIPath = "/wp-json/wc/store/v1"
	// jwtAuthPath is the WordPress JWT plugin token endpoint.
	jwtAuthPath = "/wp-json/jwt-auth/v1/token"
	// vendorAPIPath is the marketplace plugin vendor directory.
	vendorAPIPath = "/wp-json/wcfmmp/v1"

	// cartTokenHeader binds Store API cart sessions to a caller-provided token.
	cartTokenHeader = "Cart-Token"

	responseBodyLimit int64 = 1 << 20

	// The backend rate-limits bursts with 429; retry a bounded number of
	// times with exponential delay before degrading to a dependency error.
	maxRetries    = 2
	retryBaseWait = time.Second
)

var errStoreURLRequired = errors.New("woocommerce store url is required")

// Client talks to the WooCommerce REST + Store APIs and the WordPress JWT
// endpoint of the commerce backend.
type Client struct {
	httpClient     *http.Client
	storeURL       string
	consumerKey    string
	consumerSecret string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the WooCommerce client from configuration.
func NewClient(cfg config.WooCommerceConfig, opts ...Option) (*Client, error) {
	storeURL := strings.TrimRight(strings.TrimSpace(cfg.StoreURL), "/")
	if storeURL == "" {
		return nil, errStoreURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		httpClient:     &http.Client{Timeout: timeout},
		storeURL:       storeURL,
		consumerKey:    strings.TrimSpace(cfg.ConsumerKey),
		consumerSecret: strings.TrimSpace(cfg.ConsumerSecret),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

type requestSpec struct {
	method    string
	path      string
	query     url.Values
	body      any
	headers   map[string]string
	keyedAuth bool
}

// doJSON executes the request, retrying on HTTP 429 with exponential backoff,
// and decodes a 2xx response body into dest.
func (c *Client) doJSON(ctx context.Context, spec requestSpec, dest any) error {
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(retryBaseWait))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return c.attempt(ctx, spec, dest)
	})
}

func (c *Client) attempt(ctx context.Context, spec requestSpec, dest any) error {
	endpoint := c.storeURL + spec.path
	query := url.Values{}
	for key, values := range spec.query {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	if spec.keyedAuth {
		query.Set("consumer_key", c.consumerKey)
		query.Set("consumer_secret", c.consumerSecret)
	}
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var body io.Reader
	if spec.body != nil {
		raw, err := json.Marshal(spec.body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if spec.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range spec.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commerce backend unreachable")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return retry.RetryableError(pkgerrors.New(pkgerrors.CodeRateLimit, "commerce backend rate limited"))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyLimit)).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode commerce response")
	}
	return nil
}

type apiErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeAPIError(resp *http.Response) error {
	payload := apiErrorPayload{}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}

	message := strings.TrimSpace(payload.Message)
	if message == "" {
		message = fmt.Sprintf("commerce backend returned %d", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, message)
	case http.StatusBadRequest:
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, message).WithDetails(map[string]any{
			"status": resp.StatusCode,
			"code":   payload.Code,
		})
	}
}
