package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService synchronises markdown content into remote documents.
type DocumentService struct {
	api    driven.DocumentAPI
	images *ImageResolver
	config domain.LarkConfig
}

// NewDocumentService creates a new document service.
// The config selects the domain used for document URLs.
func NewDocumentService(api driven.DocumentAPI, images *ImageResolver, cfg domain.LarkConfig) *DocumentService {
	cfg.Defaults()
	return &DocumentService{
		api:    api,
		images: images,
		config: cfg,
	}
}

// Read returns the document's plain text with its metadata and a count of
// blocks per type. The three remote reads run concurrently and all must
// succeed.
func (s *DocumentService) Read(ctx context.Context, documentID string) (*domain.ReadResult, error) {
	if err := requireField("document token", documentID); err != nil {
		return nil, err
	}

	var (
		content string
		info    *domain.DocumentInfo
		blocks  []domain.Block
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		content, err = s.api.RawContent(gctx, documentID)
		return err
	})
	g.Go(func() error {
		var err error
		info, err = s.api.GetDocument(gctx, documentID)
		return err
	})
	g.Go(func() error {
		var err error
		blocks, err = s.api.ListBlocks(gctx, documentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	var structured []string
	for _, b := range blocks {
		name := b.BlockType.String()
		if domain.IsStructured(b.BlockType) && counts[name] == 0 {
			structured = append(structured, name)
		}
		counts[name]++
	}

	result := &domain.ReadResult{
		Title:      info.Title,
		Content:    content,
		RevisionID: info.RevisionID,
		BlockCount: len(blocks),
		BlockTypes: counts,
	}
	if len(structured) > 0 {
		result.Hint = fmt.Sprintf(
			"This document contains %s which are NOT included in the plain text above. Use doc_list_blocks to get full content.",
			strings.Join(structured, ", "))
	}
	return result, nil
}

// Create creates an empty document, inside folderToken when set.
func (s *DocumentService) Create(ctx context.Context, title, folderToken string) (*domain.CreateResult, error) {
	if err := requireField("title", title); err != nil {
		return nil, err
	}

	doc, err := s.api.CreateDocument(ctx, title, folderToken)
	if err != nil {
		return nil, err
	}

	logger.Info("Created document %s", doc.DocumentID)
	return &domain.CreateResult{
		DocumentID: doc.DocumentID,
		Title:      doc.Title,
		URL:        s.config.DocumentURL(doc.DocumentID),
	}, nil
}

// Write replaces the document's content with markdown.
//
// The clear and the insert are separate remote transactions. When a step
// after a non-empty clear fails, the returned error is a
// *domain.ClearedError: the document has been left empty.
func (s *DocumentService) Write(ctx context.Context, documentID, markdown string) (*domain.WriteResult, error) {
	if err := requireField("document token", documentID); err != nil {
		return nil, err
	}

	logger.Section("Replace Document")

	deleted, err := s.clear(ctx, documentID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Cleared %d block(s) from %s", deleted, documentID)

	result := &domain.WriteResult{BlocksDeleted: deleted}

	converted, err := s.api.Convert(ctx, markdown)
	if err != nil {
		return nil, afterClear(deleted, "convert", err)
	}
	if len(converted.Blocks) == 0 {
		logger.Info("Markdown converted to no blocks; document %s left empty", documentID)
		return result, nil
	}

	inserted, filtered, err := s.insert(ctx, documentID, converted.Blocks)
	if err != nil {
		return nil, afterClear(deleted, "insert", err)
	}

	report := s.images.Resolve(ctx, documentID, markdown, inserted)

	result.BlocksAdded = len(inserted)
	result.ImagesProcessed = report.Processed()
	result.Warning = filtered.Warning()
	result.Images = report

	logger.Info("Replaced document %s: %d deleted, %d added, %d image(s)",
		documentID, result.BlocksDeleted, result.BlocksAdded, result.ImagesProcessed)
	return result, nil
}

// Append adds markdown to the end of the document. Markdown that converts
// to no blocks is an error.
func (s *DocumentService) Append(ctx context.Context, documentID, markdown string) (*domain.AppendResult, error) {
	if err := requireField("document token", documentID); err != nil {
		return nil, err
	}

	converted, err := s.api.Convert(ctx, markdown)
	if err != nil {
		return nil, err
	}
	if len(converted.Blocks) == 0 {
		return nil, domain.ErrEmptyContent
	}

	inserted, filtered, err := s.insert(ctx, documentID, converted.Blocks)
	if err != nil {
		return nil, err
	}

	report := s.images.Resolve(ctx, documentID, markdown, inserted)

	ids := make([]string, 0, len(inserted))
	for _, b := range inserted {
		ids = append(ids, b.BlockID)
	}

	logger.Info("Appended %d block(s) to document %s", len(inserted), documentID)
	return &domain.AppendResult{
		BlocksAdded:     len(inserted),
		ImagesProcessed: report.Processed(),
		BlockIDs:        ids,
		Warning:         filtered.Warning(),
		Images:          report,
	}, nil
}

// UpdateBlock replaces the text of a block with a single plain text run.
func (s *DocumentService) UpdateBlock(ctx context.Context, documentID, blockID, text string) error {
	if err := requireField("document token", documentID); err != nil {
		return err
	}
	if err := requireField("block id", blockID); err != nil {
		return err
	}

	if _, err := s.api.GetBlock(ctx, documentID, blockID); err != nil {
		return err
	}
	if err := s.api.PatchBlock(ctx, documentID, blockID, domain.TextPatch(text)); err != nil {
		return err
	}

	logger.Debug("Updated text of block %s", blockID)
	return nil
}

// DeleteBlock removes a block from its parent. The block's position is
// looked up from the parent's current children on every call.
func (s *DocumentService) DeleteBlock(ctx context.Context, documentID, blockID string) error {
	if err := requireField("document token", documentID); err != nil {
		return err
	}
	if err := requireField("block id", blockID); err != nil {
		return err
	}

	block, err := s.api.GetBlock(ctx, documentID, blockID)
	if err != nil {
		return err
	}

	parentID := block.ParentID
	if parentID == "" {
		parentID = documentID
	}

	children, err := s.api.ListChildren(ctx, documentID, parentID)
	if err != nil {
		return err
	}

	index := -1
	for i, child := range children {
		if child.BlockID == blockID {
			index = i
			break
		}
	}
	if index < 0 {
		return domain.ErrBlockNotFound
	}

	if _, err := s.api.DeleteChildren(ctx, documentID, parentID, index, index+1); err != nil {
		return err
	}

	logger.Debug("Deleted block %s at index %d of %s", blockID, index, parentID)
	return nil
}

// ListBlocks returns every block of the document.
func (s *DocumentService) ListBlocks(ctx context.Context, documentID string) ([]domain.Block, error) {
	if err := requireField("document token", documentID); err != nil {
		return nil, err
	}
	return s.api.ListBlocks(ctx, documentID)
}

// GetBlock returns a single block.
func (s *DocumentService) GetBlock(ctx context.Context, documentID, blockID string) (*domain.Block, error) {
	if err := requireField("document token", documentID); err != nil {
		return nil, err
	}
	if err := requireField("block id", blockID); err != nil {
		return nil, err
	}
	return s.api.GetBlock(ctx, documentID, blockID)
}

// ListFolder returns the files of a drive folder.
func (s *DocumentService) ListFolder(ctx context.Context, folderToken string) ([]domain.FileEntry, error) {
	if err := requireField("folder token", folderToken); err != nil {
		return nil, err
	}
	return s.api.ListFolder(ctx, folderToken)
}

// AppScopes splits the application's scopes into granted and pending.
func (s *DocumentService) AppScopes(ctx context.Context) (*domain.ScopesResult, error) {
	scopes, err := s.api.ListScopes(ctx)
	if err != nil {
		return nil, err
	}

	result := &domain.ScopesResult{
		Granted: []domain.Scope{},
		Pending: []domain.Scope{},
	}
	for _, scope := range scopes {
		if scope.Granted() {
			result.Granted = append(result.Granted, scope)
		} else {
			result.Pending = append(result.Pending, scope)
		}
	}
	result.Summary = fmt.Sprintf("%d granted, %d pending", len(result.Granted), len(result.Pending))
	return result, nil
}

// clear deletes every direct child of the root page and returns the count.
func (s *DocumentService) clear(ctx context.Context, documentID string) (int, error) {
	blocks, err := s.api.ListBlocks(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("clear document: %w", err)
	}

	count := 0
	for _, b := range blocks {
		if b.ParentID == documentID && b.BlockType != domain.BlockTypePage {
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}

	if _, err := s.api.DeleteChildren(ctx, documentID, documentID, 0, count); err != nil {
		return 0, fmt.Errorf("clear document: %w", err)
	}
	return count, nil
}

// insert filters out blocks that cannot be created and appends the rest to
// the root page. No remote call is made when nothing is left to insert.
func (s *DocumentService) insert(ctx context.Context, documentID string, blocks []domain.Block) ([]domain.Block, domain.FilterResult, error) {
	filtered := domain.FilterForInsert(blocks)
	if len(filtered.Skipped) > 0 {
		logger.Warn("Skipping unsupported block types: %s", strings.Join(filtered.Skipped, ", "))
	}
	if len(filtered.Blocks) == 0 {
		return nil, filtered, nil
	}

	inserted, err := s.api.CreateChildren(ctx, documentID, documentID, filtered.Blocks)
	if err != nil {
		return nil, filtered, err
	}
	return inserted, filtered, nil
}

// afterClear marks err as leaving the document empty when blocks were
// deleted before it.
func afterClear(deleted int, stage string, err error) error {
	if deleted == 0 {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return &domain.ClearedError{Deleted: deleted, Stage: stage, Err: err}
}

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
	}
	return nil
}
