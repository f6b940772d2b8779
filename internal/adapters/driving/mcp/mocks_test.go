package mcp

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	read    *domain.ReadResult
	create  *domain.CreateResult
	write   *domain.WriteResult
	appendR *domain.AppendResult
	blocks  []domain.Block
	block   *domain.Block
	files   []domain.FileEntry
	scopes  *domain.ScopesResult
	err     error

	lastDoc     string
	lastBlock   string
	lastContent string
}

func (m *mockDocumentService) Read(_ context.Context, doc string) (*domain.ReadResult, error) {
	m.lastDoc = doc
	return m.read, m.err
}

func (m *mockDocumentService) Create(_ context.Context, title, _ string) (*domain.CreateResult, error) {
	m.lastContent = title
	return m.create, m.err
}

func (m *mockDocumentService) Write(_ context.Context, doc, markdown string) (*domain.WriteResult, error) {
	m.lastDoc, m.lastContent = doc, markdown
	return m.write, m.err
}

func (m *mockDocumentService) Append(_ context.Context, doc, markdown string) (*domain.AppendResult, error) {
	m.lastDoc, m.lastContent = doc, markdown
	return m.appendR, m.err
}

func (m *mockDocumentService) UpdateBlock(_ context.Context, doc, block, text string) error {
	m.lastDoc, m.lastBlock, m.lastContent = doc, block, text
	return m.err
}

func (m *mockDocumentService) DeleteBlock(_ context.Context, doc, block string) error {
	m.lastDoc, m.lastBlock = doc, block
	return m.err
}

func (m *mockDocumentService) ListBlocks(_ context.Context, doc string) ([]domain.Block, error) {
	m.lastDoc = doc
	return m.blocks, m.err
}

func (m *mockDocumentService) GetBlock(_ context.Context, doc, block string) (*domain.Block, error) {
	m.lastDoc, m.lastBlock = doc, block
	return m.block, m.err
}

func (m *mockDocumentService) ListFolder(_ context.Context, _ string) ([]domain.FileEntry, error) {
	return m.files, m.err
}

func (m *mockDocumentService) AppScopes(_ context.Context) (*domain.ScopesResult, error) {
	return m.scopes, m.err
}

var testConfig = domain.LarkConfig{AppID: "cli_test", AppSecret: "secret"}
