package distcontent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrContentNotFound indicates a content item was not found
	ErrContentNotFound = errors.New("content not found")

	// ErrReleaseNotFound indicates a release was not found
	ErrReleaseNotFound = errors.New("release not found")

	// ErrInvalidContentKind indicates an unknown content kind
	ErrInvalidContentKind = errors.New("invalid content kind")

	// ErrInvalidTargetingMode indicates an unknown release targeting mode
	ErrInvalidTargetingMode = errors.New("invalid targeting mode")

	// ErrWriteNotApplied indicates a write that reported no transport error
	// but affected fewer rows than requested. Backend authorization rules
	// can silently discard writes; without this check the data would appear
	// saved when it was not.
	ErrWriteNotApplied = errors.New("write reported success but was not applied")

	// ErrProviderNotConfigured indicates the translation backend has no
	// translation provider configured. Distinguishable from a per-language
	// failure so operators can tell "service is down" from "one language
	// failed".
	ErrProviderNotConfigured = errors.New("translation provider not configured")

	// ErrTranslatorNotConfigured indicates the service was built without a
	// translator client
	ErrTranslatorNotConfigured = errors.New("translator not configured")

	// ErrStorageNotConfigured indicates the service was built without a
	// blob store
	ErrStorageNotConfigured = errors.New("blob store not configured")
)

// SharingError represents an error applying or reading a sharing allow-list.
type SharingError struct {
	Kind      ContentKind
	ContentID uuid.UUID
	Op        string
	Err       error
}

func (e *SharingError) Error() string {
	return fmt.Sprintf("sharing operation %s failed for %s %s: %v", e.Op, e.Kind, e.ContentID, e.Err)
}

func (e *SharingError) Unwrap() error {
	return e.Err
}

// StorageError represents an error from a blob storage backend.
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ValidationError is a pre-flight validation failure. Section names the
// form section holding the offending field so the UI can redirect the
// operator there; no network call has been made when one is returned.
type ValidationError struct {
	Section string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed in %s: %s: %s", e.Section, e.Field, e.Message)
}

// SagaStep identifies one step of the release publication flow.
type SagaStep string

// Saga step constants (typed).
const (
	StepValidate SagaStep = "validate"
	StepUpload   SagaStep = "upload"
	StepCreate   SagaStep = "create"
	StepTarget   SagaStep = "target"
	StepPublish  SagaStep = "publish"
)

// SagaError is a step-scoped failure of the release publication flow.
// Committed lists the steps that already took effect; there is no
// automatic rollback, so the caller needs them to know what state the
// system was left in (e.g. an uploaded artifact with no record, or a
// created release with no bound targets).
type SagaError struct {
	Step      SagaStep
	Committed []SagaStep
	ReleaseID uuid.UUID
	ObjectKey string
	Err       error
}

func (e *SagaError) Error() string {
	committed := "none"
	if len(e.Committed) > 0 {
		parts := make([]string, len(e.Committed))
		for i, s := range e.Committed {
			parts[i] = string(s)
		}
		committed = strings.Join(parts, ",")
	}
	return fmt.Sprintf("release %s failed at step %s (committed: %s): %v", e.ReleaseID, e.Step, committed, e.Err)
}

func (e *SagaError) Unwrap() error {
	return e.Err
}

// verifyAffected converts a short row count into ErrWriteNotApplied. It is
// the single verified-write primitive; every mutating call whose row count
// is observable goes through it.
func verifyAffected(op string, want, got int64) error {
	if got < want {
		return fmt.Errorf("%s: affected %d of %d rows: %w", op, got, want, ErrWriteNotApplied)
	}
	return nil
}
