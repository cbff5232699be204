package distcontent_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visumlabs/distributor-content/pkg/distcontent"
	"github.com/visumlabs/distributor-content/pkg/distcontent/repo/memory"
)

func TestGetAccessListEmptyMeansPublic(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	ids, err := svc.GetAccessList(ctx, distcontent.KindDocumentation, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestSetAccessListRoundTrip(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	contentID := uuid.New()
	a, b := uuid.New(), uuid.New()

	err := svc.SetAccessList(ctx, distcontent.KindTrainingMaterial, contentID, []string{a.String(), b.String()})
	require.NoError(t, err)

	ids, err := svc.GetAccessList(ctx, distcontent.KindTrainingMaterial, contentID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, ids)
}

func TestSetAccessListFullReplace(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	contentID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, svc.SetAccessList(ctx, distcontent.KindAnnouncement, contentID, []string{a.String(), b.String()}))
	require.NoError(t, svc.SetAccessList(ctx, distcontent.KindAnnouncement, contentID, []string{c.String()}))

	ids, err := svc.GetAccessList(ctx, distcontent.KindAnnouncement, contentID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c}, ids)
}

func TestSetAccessListEmptyClearsAllRows(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	contentID := uuid.New()
	a, b := uuid.New(), uuid.New()

	require.NoError(t, svc.SetAccessList(ctx, distcontent.KindDocumentation, contentID, []string{a.String(), b.String()}))
	require.NoError(t, svc.SetAccessList(ctx, distcontent.KindDocumentation, contentID, []string{}))

	ids, err := svc.GetAccessList(ctx, distcontent.KindDocumentation, contentID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSetAccessListFiltersEmptySentinel(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	contentID := uuid.New()
	a := uuid.New()

	require.NoError(t, svc.SetAccessList(ctx, distcontent.KindMarketingAsset, contentID, []string{"", a.String(), ""}))

	ids, err := svc.GetAccessList(ctx, distcontent.KindMarketingAsset, contentID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a}, ids)

	// All sentinels is the same as clearing the list
	require.NoError(t, svc.SetAccessList(ctx, distcontent.KindMarketingAsset, contentID, []string{"", ""}))
	ids, err = svc.GetAccessList(ctx, distcontent.KindMarketingAsset, contentID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSetAccessListRejectsInvalidID(t *testing.T) {
	svc, _, _ := setupService(t)

	err := svc.SetAccessList(context.Background(), distcontent.KindDocumentation, uuid.New(), []string{"not-a-uuid"})
	require.Error(t, err)

	var sharingErr *distcontent.SharingError
	assert.ErrorAs(t, err, &sharingErr)
}

func TestSetAccessListDetectsSilentlyDiscardedWrite(t *testing.T) {
	repo := &silentWriteRepo{Repository: memory.New()}
	svc, err := distcontent.New(distcontent.WithRepository(repo))
	require.NoError(t, err)

	err = svc.SetAccessList(context.Background(), distcontent.KindDocumentation, uuid.New(), []string{uuid.New().String()})
	require.Error(t, err)
	assert.ErrorIs(t, err, distcontent.ErrWriteNotApplied)
}

func TestSetAccessListInvalidKind(t *testing.T) {
	svc, _, _ := setupService(t)
	err := svc.SetAccessList(context.Background(), distcontent.ContentKind("bogus"), uuid.New(), nil)
	assert.ErrorIs(t, err, distcontent.ErrInvalidContentKind)
}
