package distcontent_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visumlabs/distributor-content/pkg/distcontent"
	"github.com/visumlabs/distributor-content/pkg/distcontent/repo/memory"
	memorystorage "github.com/visumlabs/distributor-content/pkg/distcontent/storage/memory"
)

func releaseReq() distcontent.CreateReleaseRequest {
	return distcontent.CreateReleaseRequest{
		Name:        "Palm Firmware",
		Version:     "2.1.0",
		ReleaseType: distcontent.ReleaseTypeFirmware,
		Targeting:   distcontent.TargetAll,
		File: &distcontent.PendingFile{
			FileName:  "palm_fw_2.1.0.bin",
			Format:    "bin",
			SizeBytes: 64,
			Data:      strings.NewReader("firmware image"),
		},
	}
}

func TestCreateReleaseValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*distcontent.CreateReleaseRequest)
		wantSection string
	}{
		{
			name:        "missing name",
			mutate:      func(r *distcontent.CreateReleaseRequest) { r.Name = "" },
			wantSection: "details",
		},
		{
			name:        "missing version",
			mutate:      func(r *distcontent.CreateReleaseRequest) { r.Version = "" },
			wantSection: "details",
		},
		{
			name:        "missing release type",
			mutate:      func(r *distcontent.CreateReleaseRequest) { r.ReleaseType = "" },
			wantSection: "details",
		},
		{
			name:        "missing artifact",
			mutate:      func(r *distcontent.CreateReleaseRequest) { r.File = nil },
			wantSection: "file",
		},
		{
			name: "distributors mode with empty selection",
			mutate: func(r *distcontent.CreateReleaseRequest) {
				r.Targeting = distcontent.TargetDistributors
				r.DistributorIDs = []string{""}
			},
			wantSection: "targeting",
		},
		{
			name: "devices mode with no selection",
			mutate: func(r *distcontent.CreateReleaseRequest) {
				r.Targeting = distcontent.TargetDevices
			},
			wantSection: "targeting",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.New()
			store := newCountingStore(memorystorage.New())
			svc, err := distcontent.New(
				distcontent.WithRepository(repo),
				distcontent.WithBlobStore(store),
			)
			require.NoError(t, err)

			req := releaseReq()
			tt.mutate(&req)

			_, err = svc.CreateRelease(context.Background(), req)
			var vErr *distcontent.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantSection, vErr.Section)

			// Validation stops the flow before any network call
			assert.Zero(t, store.uploadCount())
			releases, err := repo.ListReleases(context.Background())
			require.NoError(t, err)
			assert.Empty(t, releases)
		})
	}
}

func TestCreateReleaseTargetAll(t *testing.T) {
	svc, repo, store := setupService(t)
	ctx := context.Background()

	result, err := svc.CreateRelease(ctx, releaseReq())
	require.NoError(t, err)
	require.NotNil(t, result.Release)
	assert.False(t, result.Published)
	assert.Empty(t, result.Warning)

	assert.Equal(t, distcontent.ReleaseStatusDraft, result.Release.Status)
	assert.Equal(t, 1, store.Len())
	assert.NotEmpty(t, result.Release.Artifact.URL)
	assert.Contains(t, result.Release.Artifact.ObjectKey, result.Release.ID.String())

	// Mode "all" writes no target rows
	targets, err := repo.GetReleaseTargets(ctx, result.Release.ID)
	require.NoError(t, err)
	assert.Empty(t, targets.DistributorIDs)
	assert.Empty(t, targets.DeviceIDs)
}

func TestCreateReleaseBindsDistributorTargets(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	d1, d2 := uuid.New(), uuid.New()

	req := releaseReq()
	req.Targeting = distcontent.TargetDistributors
	req.DistributorIDs = []string{d1.String(), "", d2.String()}

	result, err := svc.CreateRelease(ctx, req)
	require.NoError(t, err)

	targets, err := svc.GetReleaseTargets(ctx, result.Release.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{d1, d2}, targets.DistributorIDs)
	assert.Empty(t, targets.DeviceIDs)
}

func TestCreateReleaseBindsDeviceTargets(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	dev := uuid.New()

	req := releaseReq()
	req.Targeting = distcontent.TargetDevices
	req.DeviceIDs = []string{dev.String()}

	result, err := svc.CreateRelease(ctx, req)
	require.NoError(t, err)

	targets, err := svc.GetReleaseTargets(ctx, result.Release.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{dev}, targets.DeviceIDs)
	assert.Empty(t, targets.DistributorIDs)
}

func TestCreateReleasePublishNow(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _, _ := setupService(t, distcontent.WithNotifier(notifier))
	ctx := context.Background()

	req := releaseReq()
	req.Notify = true
	req.PublishNow = true

	result, err := svc.CreateRelease(ctx, req)
	require.NoError(t, err)
	assert.True(t, result.Published)
	assert.Empty(t, result.Warning)
	assert.Equal(t, distcontent.ReleaseStatusPublished, result.Release.Status)
	assert.Equal(t, []uuid.UUID{result.Release.ID}, notifier.notified)
}

func TestCreateReleasePublishFailureIsWarning(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("notification service down")}
	svc, _, _ := setupService(t, distcontent.WithNotifier(notifier))
	ctx := context.Background()

	req := releaseReq()
	req.Notify = true
	req.PublishNow = true

	result, err := svc.CreateRelease(ctx, req)
	require.NoError(t, err) // created, targeted; publish failure is not fatal
	assert.False(t, result.Published)
	assert.Contains(t, result.Warning, "publish failed")

	// The release still exists and is queryable
	got, err := svc.GetRelease(ctx, result.Release.ID)
	require.NoError(t, err)
	assert.Equal(t, "Palm Firmware", got.Name)
}

func TestCreateReleaseTargetBindFailure(t *testing.T) {
	repo := &failingTargetRepo{Repository: memory.New()}
	svc, err := distcontent.New(
		distcontent.WithRepository(repo),
		distcontent.WithBlobStore(memorystorage.New()),
	)
	require.NoError(t, err)
	ctx := context.Background()

	req := releaseReq()
	req.Targeting = distcontent.TargetDistributors
	req.DistributorIDs = []string{uuid.New().String()}

	_, err = svc.CreateRelease(ctx, req)
	var sagaErr *distcontent.SagaError
	require.ErrorAs(t, err, &sagaErr)
	assert.Equal(t, distcontent.StepTarget, sagaErr.Step)
	assert.Equal(t, []distcontent.SagaStep{distcontent.StepUpload, distcontent.StepCreate}, sagaErr.Committed)

	// The release record committed; it needs manual re-targeting, not
	// re-creation.
	got, err := svc.GetRelease(ctx, sagaErr.ReleaseID)
	require.NoError(t, err)
	assert.Equal(t, distcontent.ReleaseStatusDraft, got.Status)
}

func TestCreateReleaseCreateFailureReportsOrphanedArtifact(t *testing.T) {
	repo := &failingCreateReleaseRepo{Repository: memory.New()}
	store := memorystorage.New()
	svc, err := distcontent.New(
		distcontent.WithRepository(repo),
		distcontent.WithBlobStore(store),
	)
	require.NoError(t, err)

	_, err = svc.CreateRelease(context.Background(), releaseReq())
	var sagaErr *distcontent.SagaError
	require.ErrorAs(t, err, &sagaErr)
	assert.Equal(t, distcontent.StepCreate, sagaErr.Step)
	assert.Equal(t, []distcontent.SagaStep{distcontent.StepUpload}, sagaErr.Committed)

	// The artifact stays in storage; the error names its key for cleanup.
	assert.NotEmpty(t, sagaErr.ObjectKey)
	_, ok := store.Get(sagaErr.ObjectKey)
	assert.True(t, ok)
}

func TestPublishExistingRelease(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	result, err := svc.CreateRelease(ctx, releaseReq())
	require.NoError(t, err)
	require.Equal(t, distcontent.ReleaseStatusDraft, result.Release.Status)

	require.NoError(t, svc.PublishRelease(ctx, result.Release.ID))

	got, err := svc.GetRelease(ctx, result.Release.ID)
	require.NoError(t, err)
	assert.Equal(t, distcontent.ReleaseStatusPublished, got.Status)
}

func TestDeleteReleaseRemovesTargetsAndArtifact(t *testing.T) {
	svc, _, store := setupService(t)
	ctx := context.Background()

	req := releaseReq()
	req.Targeting = distcontent.TargetDistributors
	req.DistributorIDs = []string{uuid.New().String()}

	result, err := svc.CreateRelease(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	require.NoError(t, svc.DeleteRelease(ctx, result.Release.ID))
	assert.Equal(t, 0, store.Len())

	_, err = svc.GetRelease(ctx, result.Release.ID)
	assert.ErrorIs(t, err, distcontent.ErrReleaseNotFound)

	targets, err := svc.GetReleaseTargets(ctx, result.Release.ID)
	require.NoError(t, err)
	assert.Empty(t, targets.DistributorIDs)
}
