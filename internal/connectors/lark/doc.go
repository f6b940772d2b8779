// Package lark implements the remote document service on top of the
// Lark / Feishu open platform.
//
// The [Client] implements [driven.DocumentAPI]: every method is a single
// call to one open platform endpoint. Responses use the platform envelope
//
//	{"code": 0, "msg": "success", "data": {...}}
//
// and any non-zero code or non-2xx status is returned as an [*APIError]
// carrying the platform's message. The client never retries.
//
// # Authentication
//
// Calls are authorised with a tenant access token obtained from the
// application id and secret. [TenantTokenSource] exchanges the credentials
// and is wrapped in oauth2.ReuseTokenSource, so the token is cached until
// shortly before it expires and refreshed transparently by the transport.
//
// # Rate Limiting
//
// A token bucket throttles requests proactively (5 requests per second by
// default). When the platform answers 429, the reset delay from the
// x-ogw-ratelimit-reset or Retry-After header holds back the next calls.
//
// # Idempotency
//
// Mutating docx calls (create children, batch delete, patch) send
// document_revision_id=-1 (latest revision) and a fresh client_token so a
// request replayed by an intermediary is applied at most once.
//
// # Pagination
//
// ListBlocks, ListChildren and ListFolder follow page_token / has_more until
// the last page and return the concatenated items.
//
// # Example Usage
//
//	client := lark.NewClient(ctx, cfg)
//	converted, err := client.Convert(ctx, "# Title\n\nHello")
//	if err != nil {
//	    return err
//	}
//	inserted, err := client.CreateChildren(ctx, docID, docID, converted.Blocks)
package lark
