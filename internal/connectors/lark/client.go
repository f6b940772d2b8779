package lark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.DocumentAPI = (*Client)(nil)

// latestRevision addresses the newest revision of a document.
const latestRevision = "-1"

// maxErrorBody bounds how much of a non-JSON error body is kept.
const maxErrorBody = 512

// Client calls the open platform docx, drive and application APIs.
type Client struct {
	baseURL     string
	http        *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a client authorised with a cached tenant access token
// for the configured application.
func NewClient(ctx context.Context, cfg domain.LarkConfig) *Client {
	cfg.Defaults()
	baseURL := cfg.APIBaseURL()

	plain := &http.Client{Timeout: cfg.Timeout}
	source := oauth2.ReuseTokenSource(nil, NewTenantTokenSource(ctx, baseURL, cfg.AppID, cfg.AppSecret, plain))

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &oauth2.Transport{
			Source: source,
			Base:   http.DefaultTransport,
		},
	}
	return &Client{
		baseURL:     baseURL,
		http:        httpClient,
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
	}
}

// NewClientWithHTTPClient creates a client that sends every request through
// httpClient, which is responsible for authorisation.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client, rps float64) *Client {
	if rps <= 0 {
		rps = domain.DefaultRequestsPerSecond
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        httpClient,
		rateLimiter: NewRateLimiter(rps),
	}
}

// envelope is the common response wrapper of the open platform.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// doJSON sends a JSON request and decodes the envelope's data into out.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	return c.send(ctx, req, path, out)
}

// send waits for the rate limiter, performs req and validates the envelope.
func (c *Client) send(ctx context.Context, req *http.Request, path string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	c.rateLimiter.UpdateFromResponse(resp)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &APIError{HTTPStatus: resp.StatusCode, Msg: statusMessage(resp.StatusCode, raw), Path: path}
		}
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	if env.Code != 0 || resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Msg
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{HTTPStatus: resp.StatusCode, Code: env.Code, Msg: msg, Path: path}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// mutationQuery targets the latest revision with a fresh client token.
func mutationQuery() url.Values {
	return url.Values{
		"document_revision_id": {latestRevision},
		"client_token":         {uuid.NewString()},
	}
}

// statusMessage returns a short message for a non-JSON response body.
func statusMessage(status int, body []byte) string {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return msg
}
