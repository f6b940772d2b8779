package lark

import (
	"context"
	"fmt"
	"net/http"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

const scopesPath = "/open-apis/application/v6/scopes"

type scopeWire struct {
	ScopeName   string `json:"scope_name"`
	ScopeType   string `json:"scope_type"`
	GrantStatus int    `json:"grant_status"`
}

type scopesData struct {
	Scopes []scopeWire `json:"scopes"`
}

// ListScopes returns the permission scopes requested by the application.
func (c *Client) ListScopes(ctx context.Context) ([]domain.Scope, error) {
	var data scopesData
	if err := c.doJSON(ctx, http.MethodGet, scopesPath, nil, nil, &data); err != nil {
		return nil, fmt.Errorf("list scopes: %w", err)
	}
	scopes := make([]domain.Scope, 0, len(data.Scopes))
	for _, s := range data.Scopes {
		scopes = append(scopes, domain.Scope{Name: s.ScopeName, Type: s.ScopeType, GrantStatus: s.GrantStatus})
	}
	return scopes, nil
}
