package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/logger"
)

// Tool names.
const (
	ToolDocRead        = "doc_read"
	ToolDocCreate      = "doc_create"
	ToolDocWrite       = "doc_write"
	ToolDocAppend      = "doc_append"
	ToolDocUpdateBlock = "doc_update_block"
	ToolDocDeleteBlock = "doc_delete_block"
	ToolDocListBlocks  = "doc_list_blocks"
	ToolDocGetBlock    = "doc_get_block"
	ToolFolderList     = "folder_list"
	ToolAppScopes      = "app_scopes"
)

// Registration describes the outcome of registering the document tools.
type Registration struct {
	Enabled bool
	Reason  string
	Tools   []string
}

// DocInput identifies a document.
type DocInput struct {
	DocToken string `json:"doc_token" jsonschema:"document token, the last path segment of the docx URL"`
}

// CreateInput is the input schema for doc_create.
type CreateInput struct {
	Title       string `json:"title" jsonschema:"title of the new document"`
	FolderToken string `json:"folder_token,omitempty" jsonschema:"folder to create the document in (default: root)"`
}

// ContentInput is the input schema for doc_write and doc_append.
type ContentInput struct {
	DocToken string `json:"doc_token" jsonschema:"document token, the last path segment of the docx URL"`
	Content  string `json:"content" jsonschema:"markdown content; http(s) images are uploaded into the document"`
}

// BlockInput identifies a block inside a document.
type BlockInput struct {
	DocToken string `json:"doc_token" jsonschema:"document token, the last path segment of the docx URL"`
	BlockID  string `json:"block_id" jsonschema:"block id as returned by doc_list_blocks"`
}

// UpdateBlockInput is the input schema for doc_update_block.
type UpdateBlockInput struct {
	DocToken string `json:"doc_token" jsonschema:"document token, the last path segment of the docx URL"`
	BlockID  string `json:"block_id" jsonschema:"block id as returned by doc_list_blocks"`
	Content  string `json:"content" jsonschema:"new plain text of the block"`
}

// FolderInput is the input schema for folder_list.
type FolderInput struct {
	FolderToken string `json:"folder_token" jsonschema:"drive folder token"`
}

// ScopesInput is the (empty) input schema for app_scopes.
type ScopesInput struct{}

// ErrorOutput is the text content of every failed tool call.
// DocumentCleared reports that doc_write emptied the document before
// failing.
type ErrorOutput struct {
	Error           string `json:"error"`
	DocumentCleared bool   `json:"document_cleared,omitempty"`
}

// ReadOutput is the output of doc_read.
type ReadOutput struct {
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	RevisionID int64          `json:"revision_id"`
	BlockCount int            `json:"block_count"`
	BlockTypes map[string]int `json:"block_types,omitzero"`
	Hint       string         `json:"hint,omitempty"`
}

// CreateOutput is the output of doc_create.
type CreateOutput struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
}

// ImageFailureOutput describes an image that could not be placed.
type ImageFailureOutput struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// WriteOutput is the output of doc_write.
type WriteOutput struct {
	Success         bool                 `json:"success"`
	BlocksDeleted   int                  `json:"blocks_deleted"`
	BlocksAdded     int                  `json:"blocks_added"`
	ImagesProcessed int                  `json:"images_processed"`
	Warning         string               `json:"warning,omitempty"`
	ImageFailures   []ImageFailureOutput `json:"image_failures,omitempty"`
}

// AppendOutput is the output of doc_append.
type AppendOutput struct {
	Success         bool                 `json:"success"`
	BlocksAdded     int                  `json:"blocks_added"`
	ImagesProcessed int                  `json:"images_processed"`
	BlockIDs        []string             `json:"block_ids,omitzero"`
	Warning         string               `json:"warning,omitempty"`
	ImageFailures   []ImageFailureOutput `json:"image_failures,omitempty"`
}

// UpdateBlockOutput is the output of doc_update_block.
type UpdateBlockOutput struct {
	Success bool   `json:"success"`
	BlockID string `json:"block_id"`
}

// DeleteBlockOutput is the output of doc_delete_block.
type DeleteBlockOutput struct {
	Success        bool   `json:"success"`
	DeletedBlockID string `json:"deleted_block_id"`
}

// ListBlocksOutput is the output of doc_list_blocks. Blocks are passed
// through as returned by the platform.
type ListBlocksOutput struct {
	Blocks []map[string]any `json:"blocks,omitzero"`
}

// GetBlockOutput is the output of doc_get_block.
type GetBlockOutput struct {
	Block map[string]any `json:"block,omitzero"`
}

// FileOutput is a drive folder entry.
type FileOutput struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	URL   string `json:"url,omitempty"`
}

// FolderListOutput is the output of folder_list.
type FolderListOutput struct {
	Files []FileOutput `json:"files,omitzero"`
}

// ScopeOutput is an application permission scope.
type ScopeOutput struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ScopesOutput is the output of app_scopes.
type ScopesOutput struct {
	Granted []ScopeOutput `json:"granted,omitzero"`
	Pending []ScopeOutput `json:"pending,omitzero"`
	Summary string        `json:"summary"`
}

// registerTools registers the document tools when credentials are
// configured.
func (s *Server) registerTools() Registration {
	if ok, reason := s.ports.Config.DocToolsCapability(); !ok {
		return Registration{Reason: reason}
	}

	reg := Registration{Enabled: true}
	add := func(name, description string) *mcp.Tool {
		reg.Tools = append(reg.Tools, name)
		return &mcp.Tool{Name: name, Description: description}
	}

	mcp.AddTool(s.server, add(ToolDocRead,
		"Read a document as plain text with block statistics"), s.handleDocRead)
	mcp.AddTool(s.server, add(ToolDocCreate,
		"Create an empty document"), s.handleDocCreate)
	mcp.AddTool(s.server, add(ToolDocWrite,
		"Replace the whole content of a document with markdown"), s.handleDocWrite)
	mcp.AddTool(s.server, add(ToolDocAppend,
		"Append markdown to the end of a document"), s.handleDocAppend)
	mcp.AddTool(s.server, add(ToolDocUpdateBlock,
		"Replace the text of a single block"), s.handleDocUpdateBlock)
	mcp.AddTool(s.server, add(ToolDocDeleteBlock,
		"Delete a single block"), s.handleDocDeleteBlock)
	mcp.AddTool(s.server, add(ToolDocListBlocks,
		"List every block of a document, including tables and images"), s.handleDocListBlocks)
	mcp.AddTool(s.server, add(ToolDocGetBlock,
		"Get a single block"), s.handleDocGetBlock)
	mcp.AddTool(s.server, add(ToolFolderList,
		"List the files of a drive folder"), s.handleFolderList)
	mcp.AddTool(s.server, add(ToolAppScopes,
		"List the application's granted and pending permission scopes"), s.handleAppScopes)

	return reg
}

// toolError converts a failure into an error result whose text content
// is the {"error": message} payload. The structured output is left zero.
func toolError[Out any](tool string, err error) (*mcp.CallToolResult, Out, error) {
	logger.Warn("Tool %s failed: %v", tool, err)
	var zero Out
	data, merr := json.Marshal(ErrorOutput{Error: err.Error(), DocumentCleared: domain.IsCleared(err)})
	if merr != nil {
		return nil, zero, merr
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, zero, nil
}

// blockObject re-encodes a block as a generic JSON object.
func blockObject(b *domain.Block) (map[string]any, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func imageFailures(report domain.ImageReport) []ImageFailureOutput {
	var out []ImageFailureOutput
	for _, f := range report.Failures() {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		out = append(out, ImageFailureOutput{Index: f.Index, URL: f.URL, Stage: string(f.Stage), Error: msg})
	}
	return out
}

func (s *Server) handleDocRead(ctx context.Context, _ *mcp.CallToolRequest, input DocInput) (*mcp.CallToolResult, ReadOutput, error) {
	result, err := s.ports.Documents.Read(ctx, input.DocToken)
	if err != nil {
		return toolError[ReadOutput](ToolDocRead, err)
	}
	blockTypes := result.BlockTypes
	if blockTypes == nil {
		blockTypes = map[string]int{}
	}
	return nil, ReadOutput{
		Title:      result.Title,
		Content:    result.Content,
		RevisionID: result.RevisionID,
		BlockCount: result.BlockCount,
		BlockTypes: blockTypes,
		Hint:       result.Hint,
	}, nil
}

func (s *Server) handleDocCreate(ctx context.Context, _ *mcp.CallToolRequest, input CreateInput) (*mcp.CallToolResult, CreateOutput, error) {
	result, err := s.ports.Documents.Create(ctx, input.Title, input.FolderToken)
	if err != nil {
		return toolError[CreateOutput](ToolDocCreate, err)
	}
	return nil, CreateOutput{DocumentID: result.DocumentID, Title: result.Title, URL: result.URL}, nil
}

func (s *Server) handleDocWrite(ctx context.Context, _ *mcp.CallToolRequest, input ContentInput) (*mcp.CallToolResult, WriteOutput, error) {
	result, err := s.ports.Documents.Write(ctx, input.DocToken, input.Content)
	if err != nil {
		return toolError[WriteOutput](ToolDocWrite, err)
	}
	return nil, WriteOutput{
		Success:         true,
		BlocksDeleted:   result.BlocksDeleted,
		BlocksAdded:     result.BlocksAdded,
		ImagesProcessed: result.ImagesProcessed,
		Warning:         result.Warning,
		ImageFailures:   imageFailures(result.Images),
	}, nil
}

func (s *Server) handleDocAppend(ctx context.Context, _ *mcp.CallToolRequest, input ContentInput) (*mcp.CallToolResult, AppendOutput, error) {
	result, err := s.ports.Documents.Append(ctx, input.DocToken, input.Content)
	if err != nil {
		return toolError[AppendOutput](ToolDocAppend, err)
	}
	ids := result.BlockIDs
	if ids == nil {
		ids = []string{}
	}
	return nil, AppendOutput{
		Success:         true,
		BlocksAdded:     result.BlocksAdded,
		ImagesProcessed: result.ImagesProcessed,
		BlockIDs:        ids,
		Warning:         result.Warning,
		ImageFailures:   imageFailures(result.Images),
	}, nil
}

func (s *Server) handleDocUpdateBlock(ctx context.Context, _ *mcp.CallToolRequest, input UpdateBlockInput) (*mcp.CallToolResult, UpdateBlockOutput, error) {
	if err := s.ports.Documents.UpdateBlock(ctx, input.DocToken, input.BlockID, input.Content); err != nil {
		return toolError[UpdateBlockOutput](ToolDocUpdateBlock, err)
	}
	return nil, UpdateBlockOutput{Success: true, BlockID: input.BlockID}, nil
}

func (s *Server) handleDocDeleteBlock(ctx context.Context, _ *mcp.CallToolRequest, input BlockInput) (*mcp.CallToolResult, DeleteBlockOutput, error) {
	if err := s.ports.Documents.DeleteBlock(ctx, input.DocToken, input.BlockID); err != nil {
		return toolError[DeleteBlockOutput](ToolDocDeleteBlock, err)
	}
	return nil, DeleteBlockOutput{Success: true, DeletedBlockID: input.BlockID}, nil
}

func (s *Server) handleDocListBlocks(ctx context.Context, _ *mcp.CallToolRequest, input DocInput) (*mcp.CallToolResult, ListBlocksOutput, error) {
	blocks, err := s.ports.Documents.ListBlocks(ctx, input.DocToken)
	if err != nil {
		return toolError[ListBlocksOutput](ToolDocListBlocks, err)
	}
	out := ListBlocksOutput{Blocks: make([]map[string]any, 0, len(blocks))}
	for i := range blocks {
		obj, err := blockObject(&blocks[i])
		if err != nil {
			return toolError[ListBlocksOutput](ToolDocListBlocks, err)
		}
		out.Blocks = append(out.Blocks, obj)
	}
	return nil, out, nil
}

func (s *Server) handleDocGetBlock(ctx context.Context, _ *mcp.CallToolRequest, input BlockInput) (*mcp.CallToolResult, GetBlockOutput, error) {
	block, err := s.ports.Documents.GetBlock(ctx, input.DocToken, input.BlockID)
	if err != nil {
		return toolError[GetBlockOutput](ToolDocGetBlock, err)
	}
	obj, err := blockObject(block)
	if err != nil {
		return toolError[GetBlockOutput](ToolDocGetBlock, err)
	}
	return nil, GetBlockOutput{Block: obj}, nil
}

func (s *Server) handleFolderList(ctx context.Context, _ *mcp.CallToolRequest, input FolderInput) (*mcp.CallToolResult, FolderListOutput, error) {
	entries, err := s.ports.Documents.ListFolder(ctx, input.FolderToken)
	if err != nil {
		return toolError[FolderListOutput](ToolFolderList, err)
	}
	files := make([]FileOutput, len(entries))
	for i, e := range entries {
		files[i] = FileOutput{Token: e.Token, Name: e.Name, Type: e.Type, URL: e.URL}
	}
	return nil, FolderListOutput{Files: files}, nil
}

func (s *Server) handleAppScopes(ctx context.Context, _ *mcp.CallToolRequest, _ ScopesInput) (*mcp.CallToolResult, ScopesOutput, error) {
	result, err := s.ports.Documents.AppScopes(ctx)
	if err != nil {
		return toolError[ScopesOutput](ToolAppScopes, err)
	}
	return nil, ScopesOutput{
		Granted: scopeOutputs(result.Granted),
		Pending: scopeOutputs(result.Pending),
		Summary: result.Summary,
	}, nil
}

func scopeOutputs(scopes []domain.Scope) []ScopeOutput {
	out := make([]ScopeOutput, len(scopes))
	for i, sc := range scopes {
		out[i] = ScopeOutput{Name: sc.Name, Type: sc.Type}
	}
	return out
}
