package services

import (
	"context"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/logger"
)

// ImageResolver fills the image placeholders created by an insert with the
// images referenced from the source markdown.
type ImageResolver struct {
	api     driven.DocumentAPI
	fetcher driven.ImageFetcher
}

// NewImageResolver creates a new image resolver.
func NewImageResolver(api driven.DocumentAPI, fetcher driven.ImageFetcher) *ImageResolver {
	return &ImageResolver{
		api:     api,
		fetcher: fetcher,
	}
}

// Resolve pairs the markdown's image URLs with the inserted image blocks by
// position and, one pair at a time, downloads the image, uploads it against
// the placeholder and patches the placeholder to reference it.
//
// A failing pair is logged and recorded in the report; the remaining pairs
// are still processed. Patched pairs are never rolled back.
func (r *ImageResolver) Resolve(ctx context.Context, documentID, markdown string, inserted []domain.Block) domain.ImageReport {
	pairs := domain.CorrelateImages(domain.ExtractImageRefs(markdown), inserted)
	if len(pairs) == 0 {
		return domain.ImageReport{}
	}

	logger.Debug("Resolving %d image(s) for document %s", len(pairs), documentID)

	report := domain.ImageReport{Outcomes: make([]domain.ImageOutcome, 0, len(pairs))}
	for _, pair := range pairs {
		outcome := r.resolvePair(ctx, documentID, pair)
		if !outcome.OK() {
			logger.Error("Failed to process image %d (%s) at %s: %v", outcome.Index, outcome.URL, outcome.Stage, outcome.Err)
		} else {
			logger.Debug("Image %d -> block %s (media %s)", outcome.Index, outcome.BlockID, outcome.MediaToken)
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	logger.Info("Images processed: %d/%d", report.Processed(), report.Attempted())
	return report
}

func (r *ImageResolver) resolvePair(ctx context.Context, documentID string, pair domain.ImagePair) domain.ImageOutcome {
	outcome := domain.ImageOutcome{
		Index:    pair.Ref.Index,
		URL:      pair.Ref.URL,
		BlockID:  pair.Block.BlockID,
		FileName: domain.ImageFileName(pair.Ref.URL, pair.Ref.Index),
		Stage:    domain.ImageStageDownload,
	}

	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome
	}

	data, err := r.fetcher.Fetch(ctx, pair.Ref.URL)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Stage = domain.ImageStageUpload
	token, err := r.api.UploadMedia(ctx, domain.MediaUpload{
		DocumentID: documentID,
		ParentNode: pair.Block.BlockID,
		FileName:   outcome.FileName,
		Data:       data,
	})
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.MediaToken = token

	outcome.Stage = domain.ImageStagePatch
	if err := r.api.PatchBlock(ctx, documentID, pair.Block.BlockID, domain.ReplaceImagePatch(token)); err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Stage = domain.ImageStageDone
	return outcome
}
