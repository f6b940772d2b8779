package driven

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// DocumentAPI is the remote document service.
//
// Each method is one remote call. Implementations validate the response
// status and return an error carrying the remote message on failure; they
// do not retry.
type DocumentAPI interface {
	// Convert turns markdown into an unpersisted block tree.
	Convert(ctx context.Context, markdown string) (*domain.ConvertResult, error)

	// CreateChildren inserts blocks as children of parentID and returns the
	// persisted blocks.
	CreateChildren(ctx context.Context, documentID, parentID string, blocks []domain.Block) ([]domain.Block, error)

	// ListBlocks returns every block of the document, root page included.
	ListBlocks(ctx context.Context, documentID string) ([]domain.Block, error)

	// ListChildren returns the direct children of a block in order.
	ListChildren(ctx context.Context, documentID, blockID string) ([]domain.Block, error)

	// DeleteChildren removes the children of parentID in [start, end) and
	// returns the number removed.
	DeleteChildren(ctx context.Context, documentID, parentID string, start, end int) (int, error)

	// GetBlock fetches a single block.
	GetBlock(ctx context.Context, documentID, blockID string) (*domain.Block, error)

	// PatchBlock applies an update to a block.
	PatchBlock(ctx context.Context, documentID, blockID string, patch domain.BlockPatch) error

	// UploadMedia uploads binary content against a placeholder block and
	// returns the media token.
	UploadMedia(ctx context.Context, upload domain.MediaUpload) (string, error)

	// CreateDocument creates an empty document, optionally inside a folder.
	CreateDocument(ctx context.Context, title, folderToken string) (*domain.DocumentInfo, error)

	// GetDocument fetches document metadata.
	GetDocument(ctx context.Context, documentID string) (*domain.DocumentInfo, error)

	// RawContent returns the document's plain text.
	RawContent(ctx context.Context, documentID string) (string, error)

	// ListFolder returns the files of a drive folder.
	ListFolder(ctx context.Context, folderToken string) ([]domain.FileEntry, error)

	// ListScopes returns the application's permission scopes.
	ListScopes(ctx context.Context) ([]domain.Scope, error)
}
