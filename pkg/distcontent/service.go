package distcontent

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the distributor content library.
type Service interface {
	// Content operations
	CreateContent(ctx context.Context, req CreateContentRequest) (*ContentItem, error)
	GetContent(ctx context.Context, kind ContentKind, id uuid.UUID) (*ContentItem, error)
	UpdateContent(ctx context.Context, req UpdateContentRequest) error
	DeleteContent(ctx context.Context, kind ContentKind, id uuid.UUID) error
	ListContent(ctx context.Context, kind ContentKind) ([]*ContentItem, error)

	// Sharing resolver. An empty access list means the item is visible to
	// every distributor; a non-empty list restricts visibility to exactly
	// the listed organizations.
	GetAccessList(ctx context.Context, kind ContentKind, contentID uuid.UUID) ([]uuid.UUID, error)
	SetAccessList(ctx context.Context, kind ContentKind, contentID uuid.UUID, distributorIDs []string) error

	// Batch ingestion pipeline
	IngestBatch(ctx context.Context, req BatchIngestRequest) (*BatchResult, error)

	// Release publication
	CreateRelease(ctx context.Context, req CreateReleaseRequest) (*ReleaseResult, error)
	PublishRelease(ctx context.Context, id uuid.UUID) error
	GetRelease(ctx context.Context, id uuid.UUID) (*Release, error)
	GetReleaseTargets(ctx context.Context, id uuid.UUID) (*ReleaseTargets, error)
	ListReleases(ctx context.Context) ([]*Release, error)
	DeleteRelease(ctx context.Context, id uuid.UUID) error

	// Translation fan-out
	TranslateContent(ctx context.Context, req TranslateContentRequest) (*TranslationSummary, error)

	// Targeting lookups
	ListDistributors(ctx context.Context) ([]*Distributor, error)
	SearchDevices(ctx context.Context, query string) ([]*Device, error)
}
