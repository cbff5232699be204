package distcontent

import "github.com/google/uuid"

// Request/Response DTOs

// CreateContentRequest contains parameters for creating one content item.
type CreateContentRequest struct {
	Kind      ContentKind
	Title     string
	Category  string
	Version   string
	Language  string
	Status    ContentStatus
	ProductID *uuid.UUID
	File      *PendingFile // optional primary artifact
}

// UpdateContentRequest contains parameters for updating a content item.
type UpdateContentRequest struct {
	Item *ContentItem
}

// BatchIngestRequest contains parameters for ingesting a batch of staged
// files that share common metadata and one uniform distributor allow-list.
type BatchIngestRequest struct {
	Kind      ContentKind
	Files     []PendingFile
	Category  string
	Language  string
	Status    ContentStatus
	ProductID *uuid.UUID

	// DistributorIDs is the allow-list applied to every resulting item.
	// Empty (after sentinel filtering) means visible to all distributors.
	DistributorIDs []string

	// Progress, when set, observes (current, total) after each file
	// completes, successful or not. Calls are strictly monotonic and end
	// at (total, total).
	Progress func(current, total int)
}

// BatchItemResult is the per-file outcome of a batch ingestion.
type BatchItemResult struct {
	FileName  string
	ContentID uuid.UUID
	Err       error
}

// BatchResult aggregates a batch ingestion. The batch is considered
// partially successful, not failed, as long as Succeeded > 0.
type BatchResult struct {
	Succeeded int
	Failed    int
	Items     []BatchItemResult
}

// CreateReleaseRequest contains parameters for the release publication
// flow. DistributorIDs/DeviceIDs are consulted only for the matching
// targeting mode; empty-string selection sentinels are filtered out.
type CreateReleaseRequest struct {
	Name        string
	Version     string
	ReleaseType ReleaseType
	ProductID   *uuid.UUID
	Description string
	Mandatory   bool
	Notify      bool

	Targeting      TargetingMode
	DistributorIDs []string
	DeviceIDs      []string

	File *PendingFile

	// PublishNow publishes immediately after targets are bound. A publish
	// failure does not undo the created release; it surfaces as a warning
	// on the result.
	PublishNow bool
}

// ReleaseResult is the outcome of the release publication flow. Warning
// is set when the release was created and targeted but the optional
// immediate publish failed.
type ReleaseResult struct {
	Release   *Release
	Published bool
	Warning   string
}

// TranslateContentRequest contains parameters for the translation fan-out.
type TranslateContentRequest struct {
	Kind            ContentKind
	ContentID       uuid.UUID
	SourceLanguage  string
	TargetLanguages []string

	// Fields maps field name to source-language text. Empty values are
	// skipped.
	Fields map[string]string

	// OnStatus, when set, observes per-language status transitions
	// (translating, then success or error).
	OnStatus func(language string, status TranslationStatus)
}

// TranslationSummary is the reconciled outcome of a translation fan-out.
// Partial success is a valid terminal state: Succeeded/Failed qualify the
// overall result while Statuses names the specific languages that failed.
type TranslationSummary struct {
	Statuses  map[string]TranslationStatus
	Succeeded int
	Failed    int
}
