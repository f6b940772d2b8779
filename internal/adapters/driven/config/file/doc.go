// Package file provides the file-based configuration store.
//
// Configuration lives in ~/.docsync/config.toml:
//
//	[lark]
//	app_id = "cli_xxx"
//	app_secret = "..."
//	domain = "feishu"
//	media_max_mb = 20
//	requests_per_second = 5.0
//	timeout_seconds = 30
//
// The DOCSYNC_APP_ID, DOCSYNC_APP_SECRET and DOCSYNC_DOMAIN environment
// variables take precedence over the file.
package file
