package distcontent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Batch ingestion pipeline.
//
// Files are processed sequentially so progress reporting is deterministic
// and strictly monotonic. One file's failure never aborts the rest; the
// batch aggregates per-file outcomes and is considered partially
// successful as long as at least one file went through.
//
// Re-running a batch with the same files creates new, distinct records.
// There is no dedup and no idempotency key.

// IngestBatch creates one content record per staged file, each
// independently uploaded and sharing the request's common metadata and
// distributor allow-list.
func (s *service) IngestBatch(ctx context.Context, req BatchIngestRequest) (*BatchResult, error) {
	if !req.Kind.Valid() {
		return nil, ErrInvalidContentKind
	}
	if len(req.Files) == 0 {
		return nil, &ValidationError{Section: "files", Field: "files", Message: "at least one file is required"}
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}

	total := len(req.Files)
	result := &BatchResult{Items: make([]BatchItemResult, 0, total)}

	for i := range req.Files {
		file := &req.Files[i]

		contentID, err := s.ingestOne(ctx, req, file, status)
		if err != nil {
			s.logger.Error("batch file ingestion failed",
				"kind", req.Kind, "file_name", file.FileName, "error", err)
			result.Failed++
			result.Items = append(result.Items, BatchItemResult{FileName: file.FileName, Err: err})
		} else {
			result.Succeeded++
			result.Items = append(result.Items, BatchItemResult{FileName: file.FileName, ContentID: contentID})
		}

		if req.Progress != nil {
			req.Progress(i+1, total)
		}
	}

	return result, nil
}

// ingestOne handles a single staged file: title derivation, artifact
// upload, record creation, allow-list application.
func (s *service) ingestOne(ctx context.Context, req BatchIngestRequest, file *PendingFile, status ContentStatus) (uuid.UUID, error) {
	title := file.Title
	if title == "" {
		title = DeriveTitle(file.FileName)
	}

	id := uuid.New()
	artifact, err := s.uploadArtifact(ctx, id, file)
	if err != nil {
		return uuid.Nil, err
	}

	now := time.Now().UTC()
	item := &ContentItem{
		ID:        id,
		Kind:      req.Kind,
		Title:     title,
		Category:  req.Category,
		Language:  req.Language,
		Status:    status,
		ProductID: req.ProductID,
		Artifact:  *artifact,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repository.CreateContent(ctx, item); err != nil {
		return uuid.Nil, fmt.Errorf("create %s record: %w", req.Kind, err)
	}

	if err := s.SetAccessList(ctx, req.Kind, id, req.DistributorIDs); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}
