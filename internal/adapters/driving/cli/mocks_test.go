package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/adapters/driven/config/file"
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
	lastFolder  string
	lastContent string
}

func (m *mockDocumentService) Read(_ context.Context, doc string) (*domain.ReadResult, error) {
	m.lastDoc = doc
	return m.read, m.err
}

func (m *mockDocumentService) Create(_ context.Context, title, folder string) (*domain.CreateResult, error) {
	m.lastContent, m.lastFolder = title, folder
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

func (m *mockDocumentService) ListFolder(_ context.Context, folder string) ([]domain.FileEntry, error) {
	m.lastFolder = folder
	return m.files, m.err
}

func (m *mockDocumentService) AppScopes(_ context.Context) (*domain.ScopesResult, error) {
	return m.scopes, m.err
}

// setupTestServices installs a temporary config store and the given mock.
// A nil mock leaves the document service to be built from configuration.
func setupTestServices(t *testing.T, mock *mockDocumentService) {
	t.Helper()
	t.Setenv(file.EnvAppID, "")
	t.Setenv(file.EnvAppSecret, "")
	t.Setenv(file.EnvDomain, "")

	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	configStore = store
	larkConfig = domain.LarkConfig{}
	documentService = nil
	if mock != nil {
		documentService = mock
	}

	t.Cleanup(func() {
		configStore = nil
		larkConfig = domain.LarkConfig{}
		documentService = nil
	})
}

// execute runs the root command with args and stdin, returning combined output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores flag defaults so values do not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
