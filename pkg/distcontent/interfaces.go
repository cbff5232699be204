package distcontent

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Repository defines the interface for content, release and sharing
// persistence. Sharing and target insert/delete operations return the
// affected row count so the service can verify writes actually applied;
// backend authorization rules may silently discard writes and a count is
// the only way to notice.
type Repository interface {
	// Content operations
	CreateContent(ctx context.Context, item *ContentItem) error
	GetContent(ctx context.Context, kind ContentKind, id uuid.UUID) (*ContentItem, error)
	UpdateContent(ctx context.Context, item *ContentItem) error
	DeleteContent(ctx context.Context, kind ContentKind, id uuid.UUID) error
	ListContent(ctx context.Context, kind ContentKind) ([]*ContentItem, error)

	// Sharing operations ({kind}_distributors join relations)
	ListSharing(ctx context.Context, kind ContentKind, contentID uuid.UUID) ([]uuid.UUID, error)
	DeleteSharing(ctx context.Context, kind ContentKind, contentID uuid.UUID) (int64, error)
	InsertSharing(ctx context.Context, kind ContentKind, contentID uuid.UUID, distributorIDs []uuid.UUID) (int64, error)

	// Release operations
	CreateRelease(ctx context.Context, release *Release) error
	GetRelease(ctx context.Context, id uuid.UUID) (*Release, error)
	UpdateRelease(ctx context.Context, release *Release) error
	DeleteRelease(ctx context.Context, id uuid.UUID) error
	ListReleases(ctx context.Context) ([]*Release, error)

	// Release target operations (release_target_distributors /
	// release_target_devices; distinct from the sharing relations)
	InsertReleaseDistributors(ctx context.Context, releaseID uuid.UUID, distributorIDs []uuid.UUID) (int64, error)
	InsertReleaseDevices(ctx context.Context, releaseID uuid.UUID, deviceIDs []uuid.UUID) (int64, error)
	GetReleaseTargets(ctx context.Context, releaseID uuid.UUID) (*ReleaseTargets, error)
	DeleteReleaseTargets(ctx context.Context, releaseID uuid.UUID) error

	// Targeting lookups (read-only here)
	ListDistributors(ctx context.Context) ([]*Distributor, error)
	SearchDevices(ctx context.Context, query string) ([]*Device, error)
}

// BlobStore defines the interface for object storage backends. Upload
// returns the durable public URL for the stored object.
type BlobStore interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error)
	Delete(ctx context.Context, objectKey string) error
	GetDownloadURL(ctx context.Context, objectKey string, downloadFilename string) (string, error)
}

// Translator is the client interface for the serverless translation
// endpoint. One call carries every (field, language) combination; the
// backend loops internally and reports per-combination outcomes.
type Translator interface {
	Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error)
}

// TranslateRequest is the wire request to the translation backend.
type TranslateRequest struct {
	ContentType     string            `json:"contentType"`
	ContentID       uuid.UUID         `json:"contentId"`
	SourceLanguage  string            `json:"sourceLanguage"`
	TargetLanguages []string          `json:"targetLanguages"`
	Fields          map[string]string `json:"fields"`
}

// FieldResult is one per-(field, language) outcome from the backend.
type FieldResult struct {
	Field       string `json:"field"`
	Language    string `json:"language"`
	Success     bool   `json:"success"`
	Translation string `json:"translation,omitempty"`
	Error       string `json:"error,omitempty"`
}

// TranslateResponse is the wire response from the translation backend.
type TranslateResponse struct {
	Success bool          `json:"success"`
	Results []FieldResult `json:"results"`
}

// Notifier is called when a release with the notify flag is published.
type Notifier interface {
	ReleasePublished(ctx context.Context, release *Release) error
}

// NoopNotifier discards publish notifications.
type NoopNotifier struct{}

// NewNoopNotifier creates a Notifier that does nothing.
func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

// ReleasePublished implements Notifier.
func (NoopNotifier) ReleasePublished(ctx context.Context, release *Release) error { return nil }

// ObjectKeyGenerator produces storage keys for uploaded artifacts. Keys
// must not collide across repeated uploads for the same logical item.
type ObjectKeyGenerator interface {
	Key(id uuid.UUID, fileName string) string
}
