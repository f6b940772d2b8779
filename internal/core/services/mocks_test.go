package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// --- Mock implementations ---

type patchCall struct {
	BlockID string
	Patch   domain.BlockPatch
}

type deleteCall struct {
	ParentID   string
	Start, End int
}

// fakeDocumentAPI implements driven.DocumentAPI over an in-memory document
// and records the calls it receives.
type fakeDocumentAPI struct {
	mu sync.Mutex

	documentID string
	title      string
	revision   int64
	rawContent string

	// blocks holds every non-root block in document order.
	blocks []domain.Block
	nextID int

	// convert overrides the default paragraph-per-block conversion.
	convert func(markdown string) ([]domain.Block, error)

	// errs fails the named method.
	errs map[string]error

	uploadErrs map[string]error
	patchErrs  map[string]error

	// detached blocks are returned by GetBlock but are nobody's child.
	detached []domain.Block

	files  []domain.FileEntry
	scopes []domain.Scope

	calls   []string
	created [][]domain.Block
	uploads []domain.MediaUpload
	patches []patchCall
	deletes []deleteCall
}

func newFakeDocumentAPI(documentID string) *fakeDocumentAPI {
	return &fakeDocumentAPI{
		documentID: documentID,
		title:      "Doc",
		revision:   1,
		errs:       make(map[string]error),
		uploadErrs: make(map[string]error),
		patchErrs:  make(map[string]error),
	}
}

// seed adds existing top-level blocks to the document.
func (f *fakeDocumentAPI) seed(blocks ...domain.Block) {
	for _, b := range blocks {
		if b.ParentID == "" {
			b.ParentID = f.documentID
		}
		if b.BlockID == "" {
			f.nextID++
			b.BlockID = fmt.Sprintf("seed_%d", f.nextID)
		}
		f.blocks = append(f.blocks, b)
	}
}

func (f *fakeDocumentAPI) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method)
	return f.errs[method]
}

func (f *fakeDocumentAPI) called(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (f *fakeDocumentAPI) childrenOf(parentID string) []domain.Block {
	var out []domain.Block
	for _, b := range f.blocks {
		if b.ParentID == parentID {
			out = append(out, b)
		}
	}
	return out
}

// defaultConvert turns each paragraph into one block: "# " headings,
// "![...](...)" images and text for everything else.
func defaultConvert(markdown string) ([]domain.Block, error) {
	var blocks []domain.Block
	for i, para := range strings.Split(markdown, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b := domain.Block{BlockID: fmt.Sprintf("tmp_%d", i), BlockType: domain.BlockTypeText}
		switch {
		case strings.HasPrefix(para, "# "):
			b.BlockType = domain.BlockTypeHeading1
		case strings.HasPrefix(para, "!["):
			b.BlockType = domain.BlockTypeImage
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func (f *fakeDocumentAPI) Convert(_ context.Context, markdown string) (*domain.ConvertResult, error) {
	if err := f.record("Convert"); err != nil {
		return nil, err
	}
	convert := f.convert
	if convert == nil {
		convert = defaultConvert
	}
	blocks, err := convert(markdown)
	if err != nil {
		return nil, err
	}
	return &domain.ConvertResult{Blocks: blocks}, nil
}

func (f *fakeDocumentAPI) CreateChildren(_ context.Context, _, parentID string, blocks []domain.Block) ([]domain.Block, error) {
	if err := f.record("CreateChildren"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.created = append(f.created, blocks)
	inserted := make([]domain.Block, 0, len(blocks))
	for _, b := range blocks {
		f.nextID++
		b.BlockID = fmt.Sprintf("blk_%d", f.nextID)
		b.ParentID = parentID
		f.blocks = append(f.blocks, b)
		inserted = append(inserted, b)
	}
	return inserted, nil
}

func (f *fakeDocumentAPI) ListBlocks(_ context.Context, documentID string) ([]domain.Block, error) {
	if err := f.record("ListBlocks"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	root := domain.Block{BlockID: documentID, BlockType: domain.BlockTypePage}
	for _, b := range f.childrenOf(documentID) {
		root.Children = append(root.Children, b.BlockID)
	}
	return append([]domain.Block{root}, f.blocks...), nil
}

func (f *fakeDocumentAPI) ListChildren(_ context.Context, _, blockID string) ([]domain.Block, error) {
	if err := f.record("ListChildren"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.childrenOf(blockID), nil
}

func (f *fakeDocumentAPI) DeleteChildren(_ context.Context, _, parentID string, start, end int) (int, error) {
	if err := f.record("DeleteChildren"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletes = append(f.deletes, deleteCall{ParentID: parentID, Start: start, End: end})
	doomed := make(map[string]bool)
	for i, b := range f.childrenOf(parentID) {
		if i >= start && i < end {
			doomed[b.BlockID] = true
		}
	}
	kept := f.blocks[:0]
	for _, b := range f.blocks {
		if !doomed[b.BlockID] {
			kept = append(kept, b)
		}
	}
	f.blocks = kept
	return len(doomed), nil
}

func (f *fakeDocumentAPI) GetBlock(_ context.Context, _, blockID string) (*domain.Block, error) {
	if err := f.record("GetBlock"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range append(f.blocks, f.detached...) {
		if b.BlockID == blockID {
			found := b
			return &found, nil
		}
	}
	return nil, errors.New("invalid param")
}

func (f *fakeDocumentAPI) PatchBlock(_ context.Context, _, blockID string, patch domain.BlockPatch) error {
	if err := f.record("PatchBlock"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.patchErrs[blockID]; err != nil {
		return err
	}
	f.patches = append(f.patches, patchCall{BlockID: blockID, Patch: patch})
	return nil
}

func (f *fakeDocumentAPI) UploadMedia(_ context.Context, upload domain.MediaUpload) (string, error) {
	if err := f.record("UploadMedia"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.uploadErrs[upload.ParentNode]; err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, upload)
	return "media_" + upload.ParentNode, nil
}

func (f *fakeDocumentAPI) CreateDocument(_ context.Context, title, _ string) (*domain.DocumentInfo, error) {
	if err := f.record("CreateDocument"); err != nil {
		return nil, err
	}
	return &domain.DocumentInfo{DocumentID: f.documentID, Title: title, RevisionID: 1}, nil
}

func (f *fakeDocumentAPI) GetDocument(_ context.Context, documentID string) (*domain.DocumentInfo, error) {
	if err := f.record("GetDocument"); err != nil {
		return nil, err
	}
	return &domain.DocumentInfo{DocumentID: documentID, Title: f.title, RevisionID: f.revision}, nil
}

func (f *fakeDocumentAPI) RawContent(_ context.Context, _ string) (string, error) {
	if err := f.record("RawContent"); err != nil {
		return "", err
	}
	return f.rawContent, nil
}

func (f *fakeDocumentAPI) ListFolder(_ context.Context, _ string) ([]domain.FileEntry, error) {
	if err := f.record("ListFolder"); err != nil {
		return nil, err
	}
	return f.files, nil
}

func (f *fakeDocumentAPI) ListScopes(_ context.Context) ([]domain.Scope, error) {
	if err := f.record("ListScopes"); err != nil {
		return nil, err
	}
	return f.scopes, nil
}

// fakeFetcher implements driven.ImageFetcher from a URL map.
type fakeFetcher struct {
	mu      sync.Mutex
	images  map[string][]byte
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, url)
	data, ok := f.images[url]
	if !ok {
		return nil, errors.New("failed to download image: 404 Not Found")
	}
	return data, nil
}
