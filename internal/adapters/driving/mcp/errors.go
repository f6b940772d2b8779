// Package mcp provides an MCP (Model Context Protocol) server adapter for docsync.
// It exposes the document synchronisation operations as tools so AI
// assistants can read and write Lark / Feishu documents.
package mcp

import "errors"

// ErrMissingDocumentService is returned when the document tools are enabled
// but no document service is provided.
var ErrMissingDocumentService = errors.New("mcp: document service is required")
