package domain

import (
	"fmt"
	"strings"
	"time"
)

// LarkDomain selects the regional deployment of the open platform.
type LarkDomain string

const (
	DomainFeishu LarkDomain = "feishu"
	DomainLark   LarkDomain = "lark"
)

// Defaults for LarkConfig.
const (
	DefaultMediaMaxMB        = 20
	DefaultRequestsPerSecond = 5.0
	DefaultTimeout           = 30 * time.Second
)

// LarkConfig holds the application credentials and client limits.
type LarkConfig struct {
	AppID     string
	AppSecret string
	Domain    LarkDomain

	// BaseURL overrides the API host derived from Domain.
	BaseURL string

	// MediaMaxMB caps the size of a downloaded image.
	MediaMaxMB int

	// RequestsPerSecond throttles calls to the open platform.
	RequestsPerSecond float64

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// Defaults fills zero fields with default values.
func (c *LarkConfig) Defaults() {
	c.Domain = LarkDomain(strings.ToLower(strings.TrimSpace(string(c.Domain))))
	if c.Domain != DomainLark {
		c.Domain = DomainFeishu
	}
	if c.MediaMaxMB <= 0 {
		c.MediaMaxMB = DefaultMediaMaxMB
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// APIBaseURL returns the open platform host for the configured domain.
func (c LarkConfig) APIBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if c.Domain == DomainLark {
		return "https://open.larksuite.com"
	}
	return "https://open.feishu.cn"
}

// DocumentURL returns the browser URL of a docx document.
func (c LarkConfig) DocumentURL(documentID string) string {
	if c.Domain == DomainLark {
		return fmt.Sprintf("https://larksuite.com/docx/%s", documentID)
	}
	return fmt.Sprintf("https://feishu.cn/docx/%s", documentID)
}

// MediaMaxBytes returns MediaMaxMB in bytes.
func (c LarkConfig) MediaMaxBytes() int64 {
	return int64(c.MediaMaxMB) * 1024 * 1024
}

// DocToolsCapability reports whether the document tools can be enabled,
// and why not when they cannot.
func (c LarkConfig) DocToolsCapability() (bool, string) {
	var missing []string
	if strings.TrimSpace(c.AppID) == "" {
		missing = append(missing, "app id")
	}
	if strings.TrimSpace(c.AppSecret) == "" {
		missing = append(missing, "app secret")
	}
	if len(missing) > 0 {
		return false, fmt.Sprintf("%s: %s", ErrCredentialsMissing, strings.Join(missing, " and "))
	}
	return true, ""
}
