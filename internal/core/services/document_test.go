package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

func newTestDocumentService(api *fakeDocumentAPI, fetcher *fakeFetcher) *DocumentService {
	if fetcher == nil {
		fetcher = &fakeFetcher{}
	}
	return NewDocumentService(api, NewImageResolver(api, fetcher), domain.LarkConfig{})
}

func TestDocumentService_Read(t *testing.T) {
	t.Run("returns content, metadata and block statistics", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.title = "Plan"
		api.revision = 9
		api.rawContent = "Title\nHello\n"
		api.seed(
			domain.Block{BlockType: domain.BlockTypeHeading1},
			domain.Block{BlockType: domain.BlockTypeText},
			domain.Block{BlockType: domain.BlockTypeImage},
			domain.Block{BlockType: domain.BlockTypeText},
			domain.Block{BlockType: domain.BlockTypeCode},
			domain.Block{BlockType: domain.BlockTypeImage},
		)
		svc := newTestDocumentService(api, nil)

		result, err := svc.Read(context.Background(), "D1")

		require.NoError(t, err)
		assert.Equal(t, "Plan", result.Title)
		assert.Equal(t, "Title\nHello\n", result.Content)
		assert.Equal(t, int64(9), result.RevisionID)
		assert.Equal(t, 7, result.BlockCount)
		assert.Equal(t, map[string]int{"Page": 1, "Heading1": 1, "Text": 2, "Image": 2, "Code": 1}, result.BlockTypes)
		assert.Equal(t,
			"This document contains Image, Code which are NOT included in the plain text above. Use doc_list_blocks to get full content.",
			result.Hint)
	})

	t.Run("no hint for plain documents", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.seed(domain.Block{BlockType: domain.BlockTypeText})
		svc := newTestDocumentService(api, nil)

		result, err := svc.Read(context.Background(), "D1")

		require.NoError(t, err)
		assert.Empty(t, result.Hint)
	})

	t.Run("fails when any read fails", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.errs["RawContent"] = errors.New("forbidden")
		svc := newTestDocumentService(api, nil)

		_, err := svc.Read(context.Background(), "D1")

		assert.EqualError(t, err, "forbidden")
	})

	t.Run("requires document token", func(t *testing.T) {
		svc := newTestDocumentService(newFakeDocumentAPI("D1"), nil)

		_, err := svc.Read(context.Background(), " ")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestDocumentService_Create(t *testing.T) {
	t.Run("derives feishu url", func(t *testing.T) {
		api := newFakeDocumentAPI("doxNew")
		svc := newTestDocumentService(api, nil)

		result, err := svc.Create(context.Background(), "Notes", "")

		require.NoError(t, err)
		assert.Equal(t, &domain.CreateResult{
			DocumentID: "doxNew",
			Title:      "Notes",
			URL:        "https://feishu.cn/docx/doxNew",
		}, result)
	})

	t.Run("derives lark url", func(t *testing.T) {
		api := newFakeDocumentAPI("doxNew")
		svc := NewDocumentService(api, NewImageResolver(api, &fakeFetcher{}), domain.LarkConfig{Domain: domain.DomainLark})

		result, err := svc.Create(context.Background(), "Notes", "fld")

		require.NoError(t, err)
		assert.Equal(t, "https://larksuite.com/docx/doxNew", result.URL)
	})

	t.Run("requires title", func(t *testing.T) {
		api := newFakeDocumentAPI("doxNew")
		svc := newTestDocumentService(api, nil)

		_, err := svc.Create(context.Background(), "", "")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Zero(t, api.called("CreateDocument"))
	})

	t.Run("propagates remote failure", func(t *testing.T) {
		api := newFakeDocumentAPI("doxNew")
		api.errs["CreateDocument"] = errors.New("folder not found")
		svc := newTestDocumentService(api, nil)

		_, err := svc.Create(context.Background(), "Notes", "bad")

		assert.EqualError(t, err, "folder not found")
	})
}

func TestDocumentService_Write(t *testing.T) {
	t.Run("replaces existing children", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.seed(domain.Block{BlockType: domain.BlockTypeText}, domain.Block{BlockType: domain.BlockTypeText})
		svc := newTestDocumentService(api, nil)

		result, err := svc.Write(context.Background(), "D1", "# Title\n\nHello")

		require.NoError(t, err)
		assert.Equal(t, 2, result.BlocksDeleted)
		assert.Equal(t, 2, result.BlocksAdded)
		assert.Equal(t, 0, result.ImagesProcessed)
		assert.Empty(t, result.Warning)
		assert.Equal(t, []deleteCall{{ParentID: "D1", Start: 0, End: 2}}, api.deletes)
		assert.Len(t, api.childrenOf("D1"), 2)
	})

	t.Run("zero converted blocks still clears", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.seed(domain.Block{BlockType: domain.BlockTypeText})
		svc := newTestDocumentService(api, nil)

		result, err := svc.Write(context.Background(), "D1", "")

		require.NoError(t, err)
		assert.Equal(t, 1, result.BlocksDeleted)
		assert.Equal(t, 0, result.BlocksAdded)
		assert.Zero(t, api.called("CreateChildren"))
		assert.Empty(t, api.childrenOf("D1"))
	})

	t.Run("empty document skips delete", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		svc := newTestDocumentService(api, nil)

		result, err := svc.Write(context.Background(), "D1", "Hello")

		require.NoError(t, err)
		assert.Equal(t, 0, result.BlocksDeleted)
		assert.Equal(t, 1, result.BlocksAdded)
		assert.Zero(t, api.called("DeleteChildren"))
	})

	t.Run("is idempotent", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		svc := newTestDocumentService(api, nil)
		markdown := "# Title\n\nOne\n\nTwo"

		first, err := svc.Write(context.Background(), "D1", markdown)
		require.NoError(t, err)
		second, err := svc.Write(context.Background(), "D1", markdown)
		require.NoError(t, err)

		assert.Equal(t, first.BlocksAdded, second.BlocksAdded)
		assert.Equal(t, first.BlocksAdded, second.BlocksDeleted)
		assert.Len(t, api.childrenOf("D1"), first.BlocksAdded)
	})

	t.Run("skips uncreatable blocks with a warning", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.convert = func(string) ([]domain.Block, error) {
			return []domain.Block{
				{BlockType: domain.BlockTypeText},
				{BlockType: domain.BlockTypeTable},
				{BlockType: domain.BlockTypeTableCell},
				{BlockType: domain.BlockTypeTableCell},
			}, nil
		}
		svc := newTestDocumentService(api, nil)

		result, err := svc.Write(context.Background(), "D1", "| a |")

		require.NoError(t, err)
		assert.Equal(t, 1, result.BlocksAdded)
		assert.Equal(t,
			"Skipped unsupported block types: Table, TableCell. Tables are not supported via this API.",
			result.Warning)
		require.Len(t, api.created, 1)
		for _, b := range api.created[0] {
			assert.False(t, domain.IsUncreatable(b.BlockType))
		}
	})

	t.Run("nothing insertable makes no insert call", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.convert = func(string) ([]domain.Block, error) {
			return []domain.Block{{BlockType: domain.BlockTypeTable}}, nil
		}
		svc := newTestDocumentService(api, nil)

		result, err := svc.Write(context.Background(), "D1", "| a |")

		require.NoError(t, err)
		assert.Equal(t, 0, result.BlocksAdded)
		assert.NotEmpty(t, result.Warning)
		assert.Zero(t, api.called("CreateChildren"))
	})

	t.Run("insert failure after clear reports cleared document", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.seed(domain.Block{BlockType: domain.BlockTypeText}, domain.Block{BlockType: domain.BlockTypeText})
		cause := errors.New("invalid param")
		api.errs["CreateChildren"] = cause
		svc := newTestDocumentService(api, nil)

		_, err := svc.Write(context.Background(), "D1", "Hello")

		require.Error(t, err)
		var cleared *domain.ClearedError
		require.ErrorAs(t, err, &cleared)
		assert.Equal(t, 2, cleared.Deleted)
		assert.Equal(t, "insert", cleared.Stage)
		assert.ErrorIs(t, err, cause)
		assert.Empty(t, api.childrenOf("D1"))
	})

	t.Run("convert failure on empty document is a plain error", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.errs["Convert"] = errors.New("content too large")
		svc := newTestDocumentService(api, nil)

		_, err := svc.Write(context.Background(), "D1", "Hello")

		require.Error(t, err)
		assert.False(t, domain.IsCleared(err))
		assert.Contains(t, err.Error(), "content too large")
	})

	t.Run("clear failure stops before convert", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.errs["ListBlocks"] = errors.New("no permission")
		svc := newTestDocumentService(api, nil)

		_, err := svc.Write(context.Background(), "D1", "Hello")

		require.Error(t, err)
		assert.Zero(t, api.called("Convert"))
	})

	t.Run("resolves images", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		fetcher := &fakeFetcher{images: map[string][]byte{"https://x.test/a.png": {1}}}
		svc := newTestDocumentService(api, fetcher)

		result, err := svc.Write(context.Background(), "D1", "Intro\n\n![a](https://x.test/a.png)")

		require.NoError(t, err)
		assert.Equal(t, 2, result.BlocksAdded)
		assert.Equal(t, 1, result.ImagesProcessed)
		assert.Equal(t, 1, result.Images.Attempted())
	})
}

func TestDocumentService_Append(t *testing.T) {
	t.Run("empty content fails without insert", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		svc := newTestDocumentService(api, nil)

		_, err := svc.Append(context.Background(), "D1", "")

		assert.ErrorIs(t, err, domain.ErrEmptyContent)
		assert.EqualError(t, err, "content is empty")
		assert.Zero(t, api.called("CreateChildren"))
	})

	t.Run("appends after existing content", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.seed(domain.Block{BlockID: "old", BlockType: domain.BlockTypeText})
		svc := newTestDocumentService(api, nil)

		result, err := svc.Append(context.Background(), "D1", "One\n\nTwo")

		require.NoError(t, err)
		assert.Equal(t, 2, result.BlocksAdded)
		assert.Len(t, result.BlockIDs, 2)
		assert.Zero(t, api.called("DeleteChildren"))

		children := api.childrenOf("D1")
		require.Len(t, children, 3)
		assert.Equal(t, "old", children[0].BlockID)
		assert.Equal(t, result.BlockIDs, []string{children[1].BlockID, children[2].BlockID})
	})

	t.Run("reports skipped types", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.convert = func(string) ([]domain.Block, error) {
			return []domain.Block{{BlockType: domain.BlockTypeText}, {BlockType: domain.BlockTypeTableCell}}, nil
		}
		svc := newTestDocumentService(api, nil)

		result, err := svc.Append(context.Background(), "D1", "x")

		require.NoError(t, err)
		assert.Equal(t,
			"Skipped unsupported block types: TableCell. Tables are not supported via this API.",
			result.Warning)
	})

	t.Run("propagates insert failure", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.errs["CreateChildren"] = errors.New("rate limited")
		svc := newTestDocumentService(api, nil)

		_, err := svc.Append(context.Background(), "D1", "x")

		assert.EqualError(t, err, "rate limited")
	})
}

func TestDocumentService_UpdateBlock(t *testing.T) {
	t.Run("patches text of existing block", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.seed(domain.Block{BlockID: "B1", BlockType: domain.BlockTypeText})
		svc := newTestDocumentService(api, nil)

		err := svc.UpdateBlock(context.Background(), "D1", "B1", "New text")

		require.NoError(t, err)
		require.Len(t, api.patches, 1)
		assert.Equal(t, "B1", api.patches[0].BlockID)
		assert.Equal(t, domain.TextPatch("New text"), api.patches[0].Patch)
	})

	t.Run("missing block is not patched", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		svc := newTestDocumentService(api, nil)

		err := svc.UpdateBlock(context.Background(), "D1", "nope", "x")

		require.Error(t, err)
		assert.Zero(t, api.called("PatchBlock"))
	})

	t.Run("requires block id", func(t *testing.T) {
		svc := newTestDocumentService(newFakeDocumentAPI("D1"), nil)

		err := svc.UpdateBlock(context.Background(), "D1", "", "x")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestDocumentService_DeleteBlock(t *testing.T) {
	t.Run("deletes block at its current index", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.seed(
			domain.Block{BlockID: "B1", BlockType: domain.BlockTypeText},
			domain.Block{BlockID: "B2", BlockType: domain.BlockTypeText},
			domain.Block{BlockID: "B3", BlockType: domain.BlockTypeText},
		)
		svc := newTestDocumentService(api, nil)

		require.NoError(t, svc.DeleteBlock(context.Background(), "D1", "B2"))
		assert.Equal(t, []deleteCall{{ParentID: "D1", Start: 1, End: 2}}, api.deletes)

		// B3 shifted to index 1 and is still found.
		require.NoError(t, svc.DeleteBlock(context.Background(), "D1", "B3"))
		assert.Equal(t, deleteCall{ParentID: "D1", Start: 1, End: 2}, api.deletes[1])
		assert.Len(t, api.childrenOf("D1"), 1)
	})

	t.Run("uses nested parent", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.seed(
			domain.Block{BlockID: "L1", BlockType: domain.BlockTypeBullet},
			domain.Block{BlockID: "L1a", ParentID: "L1", BlockType: domain.BlockTypeText},
		)
		svc := newTestDocumentService(api, nil)

		require.NoError(t, svc.DeleteBlock(context.Background(), "D1", "L1a"))
		assert.Equal(t, []deleteCall{{ParentID: "L1", Start: 0, End: 1}}, api.deletes)
	})

	t.Run("block missing from parent children", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.seed(domain.Block{BlockID: "B1", BlockType: domain.BlockTypeText})
		api.detached = []domain.Block{{BlockID: "B5", BlockType: domain.BlockTypeText}}
		svc := newTestDocumentService(api, nil)

		err := svc.DeleteBlock(context.Background(), "D1", "B5")

		assert.ErrorIs(t, err, domain.ErrBlockNotFound)
		assert.EqualError(t, err, "block not found")
		assert.Zero(t, api.called("DeleteChildren"))
	})

	t.Run("get failure stops", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		svc := newTestDocumentService(api, nil)

		err := svc.DeleteBlock(context.Background(), "D1", "ghost")

		require.Error(t, err)
		assert.Zero(t, api.called("ListChildren"))
		assert.Zero(t, api.called("DeleteChildren"))
	})
}

func TestDocumentService_Passthroughs(t *testing.T) {
	api := newFakeDocumentAPI("D1")
	api.seed(domain.Block{BlockID: "B1", BlockType: domain.BlockTypeText})
	api.files = []domain.FileEntry{{Token: "dox1", Name: "A", Type: "docx", URL: "https://x/dox1"}}
	svc := newTestDocumentService(api, nil)
	ctx := context.Background()

	blocks, err := svc.ListBlocks(ctx, "D1")
	require.NoError(t, err)
	assert.Len(t, blocks, 2)

	block, err := svc.GetBlock(ctx, "D1", "B1")
	require.NoError(t, err)
	assert.Equal(t, "B1", block.BlockID)

	files, err := svc.ListFolder(ctx, "fld")
	require.NoError(t, err)
	assert.Equal(t, api.files, files)

	_, err = svc.ListFolder(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetBlock(ctx, "D1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentService_AppScopes(t *testing.T) {
	t.Run("splits by grant status", func(t *testing.T) {
		api := newFakeDocumentAPI("D1")
		api.scopes = []domain.Scope{
			{Name: "docx:document", GrantStatus: 1},
			{Name: "drive:drive", GrantStatus: 2},
			{Name: "wiki:wiki", GrantStatus: 0},
		}
		svc := newTestDocumentService(api, nil)

		result, err := svc.AppScopes(context.Background())

		require.NoError(t, err)
		assert.Len(t, result.Granted, 1)
		assert.Len(t, result.Pending, 2)
		assert.Equal(t, "1 granted, 2 pending", result.Summary)
	})

	t.Run("empty lists are not nil", func(t *testing.T) {
		svc := newTestDocumentService(newFakeDocumentAPI("D1"), nil)

		result, err := svc.AppScopes(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, result.Granted)
		assert.NotNil(t, result.Pending)
		assert.Equal(t, "0 granted, 0 pending", result.Summary)
	})
}
