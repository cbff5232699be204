package distcontent

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// ContentKind identifies one of the shareable content families managed by
// the admin console. Releases are deliberately not a ContentKind: their
// targeting uses dedicated relations, not the generic sharing mechanism.
type ContentKind string

// Content kind constants (typed).
const (
	KindDocumentation    ContentKind = "documentation"
	KindMarketingAsset   ContentKind = "marketing_asset"
	KindTrainingMaterial ContentKind = "training_material"
	KindAnnouncement     ContentKind = "announcement"
)

// Valid reports whether k is a known content kind.
func (k ContentKind) Valid() bool {
	switch k {
	case KindDocumentation, KindMarketingAsset, KindTrainingMaterial, KindAnnouncement:
		return true
	}
	return false
}

// Table returns the relational table holding items of this kind.
func (k ContentKind) Table() string {
	switch k {
	case KindDocumentation:
		return "documentation"
	case KindMarketingAsset:
		return "marketing_assets"
	case KindTrainingMaterial:
		return "training_materials"
	case KindAnnouncement:
		return "announcements"
	}
	return ""
}

// SharingTable returns the per-kind join relation holding sharing rows.
func (k ContentKind) SharingTable() string {
	return string(k) + "_distributors"
}

// SharingColumn returns the content-id column name in the sharing relation.
func (k ContentKind) SharingColumn() string {
	return string(k) + "_id"
}

// ContentStatus is the lifecycle state of a content item.
type ContentStatus string

// Content status constants (typed).
const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
	StatusArchived  ContentStatus = "archived"
)

// Valid reports whether s is a known content status.
func (s ContentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Artifact is a reference to an uploaded file in object storage.
type Artifact struct {
	URL       string `json:"url,omitempty"`
	ObjectKey string `json:"object_key,omitempty"`
	FileName  string `json:"file_name,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
	Format    string `json:"format,omitempty"`
}

// ContentItem is one piece of shareable content: a manual, a marketing
// asset, a training video, an announcement. All kinds share identity,
// status and an optional primary artifact; kind-specific fields ride in
// Category/Version/Language as the kind needs them.
type ContentItem struct {
	ID        uuid.UUID     `json:"id"`
	Kind      ContentKind   `json:"kind"`
	Title     string        `json:"title"`
	Category  string        `json:"category,omitempty"`
	Version   string        `json:"version,omitempty"`
	Language  string        `json:"language,omitempty"`
	Status    ContentStatus `json:"status"`
	ProductID *uuid.UUID    `json:"product_id,omitempty"`
	Artifact  Artifact      `json:"artifact"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Distributor is a distributor organization. Read-only from this
// subsystem; sourced from distributor management.
type Distributor struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Region    string    `json:"region,omitempty"`
	UserCount int       `json:"user_count"`
}

// Device is a customer-owned device, shown in release targeting search.
type Device struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SerialNumber string    `json:"serial_number"`
	CustomerName string    `json:"customer_name,omitempty"`
}

// ReleaseType classifies a software release artifact.
type ReleaseType string

// Release type constants (typed).
const (
	ReleaseTypeFirmware ReleaseType = "firmware"
	ReleaseTypeSoftware ReleaseType = "software"
	ReleaseTypeDriver   ReleaseType = "driver"
)

// Valid reports whether t is a known release type.
func (t ReleaseType) Valid() bool {
	switch t {
	case ReleaseTypeFirmware, ReleaseTypeSoftware, ReleaseTypeDriver:
		return true
	}
	return false
}

// TargetingMode selects who a release is rolled out to. Exactly one mode
// applies per release.
type TargetingMode string

// Targeting mode constants (typed).
const (
	TargetAll          TargetingMode = "all"
	TargetDistributors TargetingMode = "distributors"
	TargetDevices      TargetingMode = "devices"
)

// Valid reports whether m is a known targeting mode.
func (m TargetingMode) Valid() bool {
	switch m {
	case TargetAll, TargetDistributors, TargetDevices:
		return true
	}
	return false
}

// ReleaseStatus is the lifecycle state of a release.
type ReleaseStatus string

// Release status constants (typed).
const (
	ReleaseStatusDraft     ReleaseStatus = "draft"
	ReleaseStatusPublished ReleaseStatus = "published"
)

// Release is a software/firmware/driver release with its own targeting
// mode, kept separate from the generic content sharing mechanism.
type Release struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Version     string        `json:"version"`
	ReleaseType ReleaseType   `json:"release_type"`
	ProductID   *uuid.UUID    `json:"product_id,omitempty"`
	Description string        `json:"description,omitempty"`
	Artifact    Artifact      `json:"artifact"`
	Mandatory   bool          `json:"mandatory"`
	Notify      bool          `json:"notify"`
	Targeting   TargetingMode `json:"targeting"`
	Status      ReleaseStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ReleaseTargets holds the bound targets for a release. Both slices are
// empty when the targeting mode is "all".
type ReleaseTargets struct {
	DistributorIDs []uuid.UUID `json:"distributor_ids"`
	DeviceIDs      []uuid.UUID `json:"device_ids"`
}

// PendingFile is a file staged for batch ingestion. Title may be left
// empty to have a display title derived from the file name. Never
// persisted; it exists only for the duration of the batch call.
type PendingFile struct {
	FileName  string
	Title     string
	Format    string
	SizeBytes int64
	Data      io.Reader
}

// TranslationStatus is the per-language outcome state of a translation
// fan-out, used for operator feedback.
type TranslationStatus string

// Translation status constants (typed).
const (
	TranslationPending     TranslationStatus = "pending"
	TranslationTranslating TranslationStatus = "translating"
	TranslationSuccess     TranslationStatus = "success"
	TranslationError       TranslationStatus = "error"
)
