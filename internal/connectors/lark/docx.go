package lark

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

const (
	docxDocumentsPath = "/open-apis/docx/v1/documents"
	convertPath       = "/open-apis/docx/v1/documents/blocks/convert"

	// blockPageSize is the largest page the blocks endpoints accept.
	blockPageSize = 500
)

type convertRequest struct {
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

type convertData struct {
	FirstLevelBlockIDs []string       `json:"first_level_block_ids"`
	Blocks             []domain.Block `json:"blocks"`
}

type createChildrenRequest struct {
	Children []domain.Block `json:"children"`
}

type createChildrenData struct {
	Children []domain.Block `json:"children"`
}

type blockPage struct {
	Items     []domain.Block `json:"items"`
	HasMore   bool           `json:"has_more"`
	PageToken string         `json:"page_token"`
}

type batchDeleteRequest struct {
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`
}

type blockData struct {
	Block domain.Block `json:"block"`
}

type documentWire struct {
	DocumentID string `json:"document_id"`
	RevisionID int64  `json:"revision_id"`
	Title      string `json:"title"`
}

type documentData struct {
	Document documentWire `json:"document"`
}

type createDocumentRequest struct {
	Title       string `json:"title,omitempty"`
	FolderToken string `json:"folder_token,omitempty"`
}

type rawContentData struct {
	Content string `json:"content"`
}

func documentPath(documentID string) string {
	return docxDocumentsPath + "/" + url.PathEscape(documentID)
}

func blockPath(documentID, blockID string) string {
	return documentPath(documentID) + "/blocks/" + url.PathEscape(blockID)
}

func childrenPath(documentID, blockID string) string {
	return blockPath(documentID, blockID) + "/children"
}

// Convert turns markdown into blocks with the convert endpoint.
func (c *Client) Convert(ctx context.Context, markdown string) (*domain.ConvertResult, error) {
	var data convertData
	req := convertRequest{ContentType: "markdown", Content: markdown}
	if err := c.doJSON(ctx, http.MethodPost, convertPath, nil, req, &data); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return &domain.ConvertResult{
		Blocks:             data.Blocks,
		FirstLevelBlockIDs: data.FirstLevelBlockIDs,
	}, nil
}

// CreateChildren appends blocks to the end of parentID's children.
func (c *Client) CreateChildren(ctx context.Context, documentID, parentID string, blocks []domain.Block) ([]domain.Block, error) {
	var data createChildrenData
	path := childrenPath(documentID, parentID)
	req := createChildrenRequest{Children: blocks}
	if err := c.doJSON(ctx, http.MethodPost, path, mutationQuery(), req, &data); err != nil {
		return nil, fmt.Errorf("create children: %w", err)
	}
	return data.Children, nil
}

// ListBlocks returns every block of the document in document order.
func (c *Client) ListBlocks(ctx context.Context, documentID string) ([]domain.Block, error) {
	blocks, err := c.listBlockPages(ctx, documentPath(documentID)+"/blocks")
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return blocks, nil
}

// ListChildren returns the direct children of blockID in order.
func (c *Client) ListChildren(ctx context.Context, documentID, blockID string) ([]domain.Block, error) {
	blocks, err := c.listBlockPages(ctx, childrenPath(documentID, blockID))
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return blocks, nil
}

func (c *Client) listBlockPages(ctx context.Context, path string) ([]domain.Block, error) {
	var all []domain.Block
	pageToken := ""
	for {
		query := url.Values{
			"page_size":            {strconv.Itoa(blockPageSize)},
			"document_revision_id": {latestRevision},
		}
		if pageToken != "" {
			query.Set("page_token", pageToken)
		}

		var page blockPage
		if err := c.doJSON(ctx, http.MethodGet, path, query, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)

		if !page.HasMore || page.PageToken == "" {
			return all, nil
		}
		pageToken = page.PageToken
	}
}

// DeleteChildren removes the children of parentID in [start, end).
func (c *Client) DeleteChildren(ctx context.Context, documentID, parentID string, start, end int) (int, error) {
	if start < 0 || end <= start {
		return 0, fmt.Errorf("%w: delete range [%d, %d)", domain.ErrInvalidInput, start, end)
	}
	path := childrenPath(documentID, parentID) + "/batch_delete"
	req := batchDeleteRequest{StartIndex: start, EndIndex: end}
	if err := c.doJSON(ctx, http.MethodDelete, path, mutationQuery(), req, nil); err != nil {
		return 0, fmt.Errorf("delete children: %w", err)
	}
	return end - start, nil
}

// GetBlock fetches a single block.
func (c *Client) GetBlock(ctx context.Context, documentID, blockID string) (*domain.Block, error) {
	var data blockData
	query := url.Values{"document_revision_id": {latestRevision}}
	if err := c.doJSON(ctx, http.MethodGet, blockPath(documentID, blockID), query, nil, &data); err != nil {
		return nil, fmt.Errorf("get block: %w", err)
	}
	return &data.Block, nil
}

// PatchBlock sends an update request body for a block.
func (c *Client) PatchBlock(ctx context.Context, documentID, blockID string, patch domain.BlockPatch) error {
	if err := c.doJSON(ctx, http.MethodPatch, blockPath(documentID, blockID), mutationQuery(), patch, nil); err != nil {
		return fmt.Errorf("patch block: %w", err)
	}
	return nil
}

// CreateDocument creates an empty document, inside folderToken when set.
func (c *Client) CreateDocument(ctx context.Context, title, folderToken string) (*domain.DocumentInfo, error) {
	var data documentData
	req := createDocumentRequest{Title: title, FolderToken: folderToken}
	if err := c.doJSON(ctx, http.MethodPost, docxDocumentsPath, nil, req, &data); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return toDocumentInfo(data.Document), nil
}

// GetDocument fetches document metadata.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*domain.DocumentInfo, error) {
	var data documentData
	if err := c.doJSON(ctx, http.MethodGet, documentPath(documentID), nil, nil, &data); err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return toDocumentInfo(data.Document), nil
}

// RawContent returns the document's plain text.
func (c *Client) RawContent(ctx context.Context, documentID string) (string, error) {
	var data rawContentData
	query := url.Values{"lang": {"0"}}
	if err := c.doJSON(ctx, http.MethodGet, documentPath(documentID)+"/raw_content", query, nil, &data); err != nil {
		return "", fmt.Errorf("get raw content: %w", err)
	}
	return data.Content, nil
}

func toDocumentInfo(d documentWire) *domain.DocumentInfo {
	return &domain.DocumentInfo{
		DocumentID: d.DocumentID,
		Title:      d.Title,
		RevisionID: d.RevisionID,
	}
}
