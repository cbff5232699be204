package distcontent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Release publication flow.
//
// Steps: validate -> upload artifact -> create record -> bind targets ->
// optional immediate publish. Steps 2-4 are not wrapped in a compensating
// transaction: a failure after the upload leaves the artifact in storage,
// and a failure after the create leaves a release with no bound targets
// (operationally "visible to nobody"). SagaError reports which steps
// already committed so the operator knows what to repair; the error also
// carries the object key so an orphaned artifact can be reaped.

// CreateRelease runs the publication flow for a new release. Validation
// failures stop before any network call and name the form section holding
// the offending field. A publish failure after a successful create+target
// surfaces as a warning on the result, not an error: the release exists
// and is queryable regardless.
func (s *service) CreateRelease(ctx context.Context, req CreateReleaseRequest) (*ReleaseResult, error) {
	distributorIDs, deviceIDs, err := validateReleaseRequest(&req)
	if err != nil {
		return nil, err
	}

	id := uuid.New()

	// Step 2: upload artifact.
	artifact, err := s.uploadArtifact(ctx, id, req.File)
	if err != nil {
		return nil, &SagaError{Step: StepUpload, ReleaseID: id, Err: err}
	}

	// Step 3: create release record.
	now := time.Now().UTC()
	release := &Release{
		ID:          id,
		Name:        req.Name,
		Version:     req.Version,
		ReleaseType: req.ReleaseType,
		ProductID:   req.ProductID,
		Description: req.Description,
		Artifact:    *artifact,
		Mandatory:   req.Mandatory,
		Notify:      req.Notify,
		Targeting:   req.Targeting,
		Status:      ReleaseStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repository.CreateRelease(ctx, release); err != nil {
		// The uploaded artifact is orphaned here; accepted risk, the key
		// travels with the error for manual cleanup.
		return nil, &SagaError{
			Step:      StepCreate,
			Committed: []SagaStep{StepUpload},
			ReleaseID: id,
			ObjectKey: artifact.ObjectKey,
			Err:       err,
		}
	}

	// Step 4: bind targets. Mode "all" writes no rows.
	if err := s.bindReleaseTargets(ctx, release, distributorIDs, deviceIDs); err != nil {
		return nil, &SagaError{
			Step:      StepTarget,
			Committed: []SagaStep{StepUpload, StepCreate},
			ReleaseID: id,
			ObjectKey: artifact.ObjectKey,
			Err:       fmt.Errorf("release exists with no bound targets, manual re-targeting required: %w", err),
		}
	}

	result := &ReleaseResult{Release: release}

	// Step 5: optional immediate publish. Never rolls back steps 2-4.
	if req.PublishNow {
		if err := s.PublishRelease(ctx, id); err != nil {
			result.Warning = fmt.Sprintf("release created but publish failed: %v", err)
			s.logger.Warn("release publish failed after create",
				"release_id", id, "name", req.Name, "error", err)
		} else {
			result.Published = true
			release.Status = ReleaseStatusPublished
		}
	}

	return result, nil
}

// bindReleaseTargets writes the target rows for the chosen mode. Inserts
// are verified writes: a short row count is an error, not a success.
func (s *service) bindReleaseTargets(ctx context.Context, release *Release, distributorIDs, deviceIDs []uuid.UUID) error {
	switch release.Targeting {
	case TargetAll:
		return nil
	case TargetDistributors:
		affected, err := s.repository.InsertReleaseDistributors(ctx, release.ID, distributorIDs)
		if err != nil {
			return err
		}
		return verifyAffected("insert release distributors", int64(len(distributorIDs)), affected)
	case TargetDevices:
		affected, err := s.repository.InsertReleaseDevices(ctx, release.ID, deviceIDs)
		if err != nil {
			return err
		}
		return verifyAffected("insert release devices", int64(len(deviceIDs)), affected)
	}
	return ErrInvalidTargetingMode
}

// PublishRelease marks a release published and, when its notify flag is
// set, notifies the targeted distributors.
func (s *service) PublishRelease(ctx context.Context, id uuid.UUID) error {
	release, err := s.repository.GetRelease(ctx, id)
	if err != nil {
		return err
	}

	release.Status = ReleaseStatusPublished
	release.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateRelease(ctx, release); err != nil {
		return fmt.Errorf("publish release %s: %w", id, err)
	}

	if release.Notify {
		if err := s.notifier.ReleasePublished(ctx, release); err != nil {
			return fmt.Errorf("release %s published but notification failed: %w", id, err)
		}
	}

	return nil
}

func (s *service) GetRelease(ctx context.Context, id uuid.UUID) (*Release, error) {
	return s.repository.GetRelease(ctx, id)
}

func (s *service) GetReleaseTargets(ctx context.Context, id uuid.UUID) (*ReleaseTargets, error) {
	return s.repository.GetReleaseTargets(ctx, id)
}

func (s *service) ListReleases(ctx context.Context) ([]*Release, error) {
	return s.repository.ListReleases(ctx)
}

// DeleteRelease removes a release, its target rows and its artifact.
func (s *service) DeleteRelease(ctx context.Context, id uuid.UUID) error {
	release, err := s.repository.GetRelease(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repository.DeleteReleaseTargets(ctx, id); err != nil {
		return fmt.Errorf("delete release targets: %w", err)
	}

	if release.Artifact.ObjectKey != "" && s.blobStore != nil {
		if err := s.blobStore.Delete(ctx, release.Artifact.ObjectKey); err != nil {
			return &StorageError{Key: release.Artifact.ObjectKey, Op: "delete", Err: err}
		}
	}

	return s.repository.DeleteRelease(ctx, id)
}

// validateReleaseRequest checks all mandatory fields before any network
// call and resolves the raw target id selections for the chosen mode.
func validateReleaseRequest(req *CreateReleaseRequest) (distributorIDs, deviceIDs []uuid.UUID, err error) {
	if req.Name == "" {
		return nil, nil, &ValidationError{Section: "details", Field: "name", Message: "name is required"}
	}
	if req.Version == "" {
		return nil, nil, &ValidationError{Section: "details", Field: "version", Message: "version is required"}
	}
	if !req.ReleaseType.Valid() {
		return nil, nil, &ValidationError{Section: "details", Field: "release_type", Message: "release type is required"}
	}
	if req.File == nil {
		return nil, nil, &ValidationError{Section: "file", Field: "file", Message: "release artifact is required"}
	}
	if !req.Targeting.Valid() {
		return nil, nil, &ValidationError{Section: "targeting", Field: "targeting", Message: "targeting mode is required"}
	}

	switch req.Targeting {
	case TargetDistributors:
		distributorIDs, err = normalizeSelection(req.DistributorIDs)
		if err != nil {
			return nil, nil, &ValidationError{Section: "targeting", Field: "distributor_ids", Message: err.Error()}
		}
		if len(distributorIDs) == 0 {
			return nil, nil, &ValidationError{Section: "targeting", Field: "distributor_ids", Message: "select at least one distributor"}
		}
	case TargetDevices:
		deviceIDs, err = normalizeSelection(req.DeviceIDs)
		if err != nil {
			return nil, nil, &ValidationError{Section: "targeting", Field: "device_ids", Message: err.Error()}
		}
		if len(deviceIDs) == 0 {
			return nil, nil, &ValidationError{Section: "targeting", Field: "device_ids", Message: "select at least one device"}
		}
	}

	return distributorIDs, deviceIDs, nil
}
