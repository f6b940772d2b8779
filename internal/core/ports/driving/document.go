package driving

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// DocumentService exposes the document synchronisation flows.
type DocumentService interface {
	// Read returns the plain text, metadata and block statistics of a document.
	Read(ctx context.Context, documentID string) (*domain.ReadResult, error)

	// Create creates an empty document, optionally inside a folder.
	Create(ctx context.Context, title, folderToken string) (*domain.CreateResult, error)

	// Write replaces the whole content of a document with markdown.
	Write(ctx context.Context, documentID, markdown string) (*domain.WriteResult, error)

	// Append adds markdown to the end of a document.
	Append(ctx context.Context, documentID, markdown string) (*domain.AppendResult, error)

	// UpdateBlock replaces the text of a single block.
	UpdateBlock(ctx context.Context, documentID, blockID, text string) error

	// DeleteBlock removes a single block from its parent.
	DeleteBlock(ctx context.Context, documentID, blockID string) error

	// ListBlocks returns every block of a document.
	ListBlocks(ctx context.Context, documentID string) ([]domain.Block, error)

	// GetBlock returns a single block.
	GetBlock(ctx context.Context, documentID, blockID string) (*domain.Block, error)

	// ListFolder returns the files of a drive folder.
	ListFolder(ctx context.Context, folderToken string) ([]domain.FileEntry, error)

	// AppScopes returns the application's granted and pending scopes.
	AppScopes(ctx context.Context) (*domain.ScopesResult, error)
}
