package mcp

import (
	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Documents runs the document synchronisation operations.
	Documents driving.DocumentService

	// Config gates the document tools on configured credentials.
	Config domain.LarkConfig
}

// Validate ensures the document service is set whenever the document tools
// can be enabled.
func (p *Ports) Validate() error {
	if ok, _ := p.Config.DocToolsCapability(); ok && p.Documents == nil {
		return ErrMissingDocumentService
	}
	return nil
}
