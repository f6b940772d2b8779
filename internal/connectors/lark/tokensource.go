package lark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const tenantTokenPath = "/open-apis/auth/v3/tenant_access_token/internal"

// expiryMargin is subtracted from the platform's expiry so a token is
// never used in its last minutes.
const expiryMargin = 5 * time.Minute

// TenantTokenSource exchanges application credentials for a tenant access
// token. Wrap it in oauth2.ReuseTokenSource to cache the token.
type TenantTokenSource struct {
	ctx        context.Context
	baseURL    string
	appID      string
	appSecret  string
	httpClient *http.Client
}

// NewTenantTokenSource creates a token source for the given credentials.
// httpClient must not itself be authorised by this token source.
func NewTenantTokenSource(ctx context.Context, baseURL, appID, appSecret string, httpClient *http.Client) *TenantTokenSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TenantTokenSource{
		ctx:        ctx,
		baseURL:    baseURL,
		appID:      appID,
		appSecret:  appSecret,
		httpClient: httpClient,
	}
}

type tenantTokenRequest struct {
	AppID     string `json:"app_id"`
	AppSecret string `json:"app_secret"`
}

type tenantTokenResponse struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"`
}

// Token implements oauth2.TokenSource.
func (s *TenantTokenSource) Token() (*oauth2.Token, error) {
	body, err := json.Marshal(tenantTokenRequest{AppID: s.appID, AppSecret: s.appSecret})
	if err != nil {
		return nil, fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.baseURL+tenantTokenPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request tenant token: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	var out tenantTokenResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &APIError{
			HTTPStatus: resp.StatusCode,
			Msg:        statusMessage(resp.StatusCode, raw),
			Path:       tenantTokenPath,
		}
	}
	if out.Code != 0 || resp.StatusCode != http.StatusOK || out.TenantAccessToken == "" {
		msg := out.Msg
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{HTTPStatus: resp.StatusCode, Code: out.Code, Msg: msg, Path: tenantTokenPath}
	}

	token := &oauth2.Token{
		AccessToken: out.TenantAccessToken,
		TokenType:   "Bearer",
	}
	if out.Expire > 0 {
		lifetime := time.Duration(out.Expire) * time.Second
		if lifetime > 2*expiryMargin {
			lifetime -= expiryMargin
		}
		token.Expiry = time.Now().Add(lifetime)
	}
	return token, nil
}
