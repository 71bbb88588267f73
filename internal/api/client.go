package api

import (
	"bytes"
	"context"
	"crypto/md5" // #nosec G501 -- MD5 request signing is mandated by the vendor protocol
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/imou-core/internal/infrastructure/config"
	"github.com/nerrad567/imou-core/internal/infrastructure/logging"
)

// Result codes defined by the vendor protocol.
const (
	codeSuccess      = "0"
	codeTokenExpired = "TK1002"
	codeSignCheck    = "OP1008"
)

// tokenRefreshMargin is how long before the reported expiry the client
// proactively refreshes the access token.
const tokenRefreshMargin = 60 * time.Second

// Client talks to the Imou OpenAPI cloud service.
//
// It manages the access token lifecycle and exposes one typed method per
// endpoint (see endpoints.go). All endpoint methods return the "data" object
// of the result envelope as a map; field extraction and validation belong to
// the callers, which know which fields they require.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	cfg        config.APIConfig
	httpClient *http.Client
	logger     *logging.Logger

	// token state, guarded by mu.
	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
	connected   bool
}

// NewClient creates a new API client from configuration.
//
// The client is not connected until Connect() is called; endpoint methods
// authenticate lazily if needed.
//
// Parameters:
//   - cfg: API configuration (credentials, base URL, timeout)
//   - logger: Structured logger (use logging.Nop() to silence)
//
// Returns:
//   - *Client: Configured client
func NewClient(cfg config.APIConfig, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		logger: logger.With("component", "api"),
	}
}

// Connect authenticates against the accessToken endpoint and stores the token.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: If the request fails or the token is missing from the response
func (c *Client) Connect(ctx context.Context) error {
	data, err := c.call(ctx, "accessToken", map[string]any{})
	if err != nil {
		return err
	}

	token, ok := data["accessToken"].(string)
	if !ok || token == "" {
		return fmt.Errorf("%w: accessToken not found in %v", ErrInvalidResponse, data)
	}

	// expireTime is the remaining validity in seconds.
	expireSeconds, ok := data["expireTime"].(float64)
	if !ok {
		return fmt.Errorf("%w: expireTime not found in %v", ErrInvalidResponse, data)
	}

	c.mu.Lock()
	c.accessToken = token
	c.tokenExpiry = time.Now().Add(time.Duration(expireSeconds) * time.Second)
	c.connected = true
	c.mu.Unlock()

	c.logger.Debug("access token obtained", "expires_in_s", expireSeconds)
	return nil
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// Timeout returns the configured request timeout.
func (c *Client) Timeout() time.Duration {
	return c.cfg.GetTimeout()
}

// IsConnected reports whether the client holds a valid access token.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected && time.Now().Before(c.tokenExpiry)
}

// token returns the current access token, refreshing it if it is missing or
// close to expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	valid := c.connected && time.Now().Add(tokenRefreshMargin).Before(c.tokenExpiry)
	tok := c.accessToken
	c.mu.Unlock()

	if valid {
		return tok, nil
	}

	if err := c.Connect(ctx); err != nil {
		return "", err
	}

	c.mu.Lock()
	tok = c.accessToken
	c.mu.Unlock()
	return tok, nil
}

// envelope is the request wrapper mandated by the vendor protocol.
type envelope struct {
	System system         `json:"system"`
	ID     string         `json:"id"`
	Params map[string]any `json:"params"`
}

// system carries the request signature.
type system struct {
	Ver   string `json:"ver"`
	AppID string `json:"appId"`
	Sign  string `json:"sign"`
	Time  int64  `json:"time"`
	Nonce string `json:"nonce"`
}

// resultEnvelope is the response wrapper returned by every endpoint.
type resultEnvelope struct {
	Result struct {
		Code string          `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	} `json:"result"`
}

// call performs one signed API request and returns the result data object.
//
// Endpoints other than accessToken get the current token injected into params.
// On a token-expired result code the client re-authenticates and retries once.
func (c *Client) call(ctx context.Context, endpoint string, params map[string]any) (map[string]any, error) {
	if endpoint != "accessToken" {
		tok, err := c.token(ctx)
		if err != nil {
			return nil, err
		}
		params["token"] = tok
	}

	data, code, err := c.doRequest(ctx, endpoint, params)
	if err == nil || code != codeTokenExpired {
		return data, err
	}

	// Token rejected server-side: force a fresh login and retry once.
	c.logger.Debug("access token rejected, re-authenticating", "endpoint", endpoint)
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	tok, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	params["token"] = tok

	data, _, err = c.doRequest(ctx, endpoint, params)
	return data, err
}

// doRequest executes a single HTTP round trip. It returns the vendor result
// code alongside the error so call() can detect token expiry.
func (c *Client) doRequest(ctx context.Context, endpoint string, params map[string]any) (map[string]any, string, error) {
	body, err := json.Marshal(envelope{
		System: c.signedSystem(),
		ID:     uuid.New().String(),
		Params: params,
	})
	if err != nil {
		return nil, "", fmt.Errorf("marshaling request for %s: %w", endpoint, err)
	}

	url := fmt.Sprintf("%s/%s", c.cfg.BaseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("api request", "endpoint", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrConnectionFailed, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading %s response: %w", ErrConnectionFailed, endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: %s returned HTTP %d", ErrConnectionFailed, endpoint, resp.StatusCode)
	}

	var parsed resultEnvelope
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, "", fmt.Errorf("%w: parsing %s response %q: %w", ErrInvalidResponse, endpoint, raw, err)
	}
	if parsed.Result.Code == "" {
		return nil, "", fmt.Errorf("%w: result code not found in %q", ErrInvalidResponse, raw)
	}

	if parsed.Result.Code != codeSuccess {
		kind := ErrAPIError
		if parsed.Result.Code == codeSignCheck {
			kind = ErrNotAuthorized
		}
		return nil, parsed.Result.Code, fmt.Errorf("%w: %s: code %s (%s)",
			kind, endpoint, parsed.Result.Code, parsed.Result.Msg)
	}

	// Some endpoints (set operations) return no data object at all.
	data := map[string]any{}
	if len(parsed.Result.Data) > 0 {
		if err := json.Unmarshal(parsed.Result.Data, &data); err != nil {
			return nil, "", fmt.Errorf("%w: parsing %s data %q: %w", ErrInvalidResponse, endpoint, parsed.Result.Data, err)
		}
	}

	return data, parsed.Result.Code, nil
}

// signedSystem builds the system block with a fresh timestamp, nonce, and
// signature as required by the vendor protocol.
func (c *Client) signedSystem() system {
	ts := time.Now().Unix()
	nonce := uuid.New().String()
	return system{
		Ver:   "1.0",
		AppID: c.cfg.AppID,
		Sign:  sign(ts, nonce, c.cfg.AppSecret),
		Time:  ts,
		Nonce: nonce,
	}
}

// sign computes the MD5 hex digest the vendor expects over time, nonce and
// app secret.
func sign(ts int64, nonce, secret string) string {
	payload := fmt.Sprintf("time:%d,nonce:%s,appSecret:%s", ts, nonce, secret)
	digest := md5.Sum([]byte(payload)) // #nosec G401 -- vendor-mandated signing scheme
	return hex.EncodeToString(digest[:])
}
