package file

import (
	"strings"
	"time"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyAppID             = "lark.app_id"
	KeyAppSecret         = "lark.app_secret"
	KeyDomain            = "lark.domain"
	KeyBaseURL           = "lark.base_url"
	KeyMediaMaxMB        = "lark.media_max_mb"
	KeyRequestsPerSecond = "lark.requests_per_second"
	KeyTimeoutSeconds    = "lark.timeout_seconds"
)

// Environment overrides.
const (
	EnvAppID     = "DOCSYNC_APP_ID"
	EnvAppSecret = "DOCSYNC_APP_SECRET"
	EnvDomain    = "DOCSYNC_DOMAIN"
)

// LoadLarkConfig builds the open platform configuration from the store,
// overlays non-empty environment variables read through getenv and fills
// defaults.
func LoadLarkConfig(store driven.ConfigStore, getenv func(string) string) domain.LarkConfig {
	cfg := domain.LarkConfig{
		AppID:             store.GetString(KeyAppID),
		AppSecret:         store.GetString(KeyAppSecret),
		Domain:            domain.LarkDomain(store.GetString(KeyDomain)),
		BaseURL:           store.GetString(KeyBaseURL),
		MediaMaxMB:        store.GetInt(KeyMediaMaxMB),
		RequestsPerSecond: store.GetFloat(KeyRequestsPerSecond),
		Timeout:           time.Duration(store.GetInt(KeyTimeoutSeconds)) * time.Second,
	}

	if getenv != nil {
		if v := strings.TrimSpace(getenv(EnvAppID)); v != "" {
			cfg.AppID = v
		}
		if v := strings.TrimSpace(getenv(EnvAppSecret)); v != "" {
			cfg.AppSecret = v
		}
		if v := strings.TrimSpace(getenv(EnvDomain)); v != "" {
			cfg.Domain = domain.LarkDomain(v)
		}
	}

	cfg.Defaults()
	return cfg
}

// SaveCredentials persists the application id and secret.
func SaveCredentials(store driven.ConfigStore, appID, appSecret string) error {
	if err := store.Set(KeyAppID, appID); err != nil {
		return err
	}
	return store.Set(KeyAppSecret, appSecret)
}
