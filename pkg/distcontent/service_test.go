package distcontent_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visumlabs/distributor-content/pkg/distcontent"
	"github.com/visumlabs/distributor-content/pkg/distcontent/repo/memory"
	memorystorage "github.com/visumlabs/distributor-content/pkg/distcontent/storage/memory"
)

func TestNewRequiresRepository(t *testing.T) {
	_, err := distcontent.New(distcontent.WithBlobStore(memorystorage.New()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository")
}

func TestCreateContentWithArtifact(t *testing.T) {
	svc, _, store := setupService(t)
	ctx := context.Background()

	item, err := svc.CreateContent(ctx, distcontent.CreateContentRequest{
		Kind:     distcontent.KindDocumentation,
		Title:    "Visum Palm User Manual",
		Category: "manuals",
		Language: "en",
		File: &distcontent.PendingFile{
			FileName:  "visum_palm_user_manual_v2.pdf",
			Format:    "pdf",
			SizeBytes: 42,
			Data:      strings.NewReader("%PDF-1.7"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, distcontent.StatusDraft, item.Status)
	assert.Contains(t, item.Artifact.ObjectKey, item.ID.String())
	assert.Equal(t, "visum_palm_user_manual_v2.pdf", item.Artifact.FileName)

	data, ok := store.Get(item.Artifact.ObjectKey)
	require.True(t, ok)
	assert.Equal(t, "%PDF-1.7", string(data))

	got, err := svc.GetContent(ctx, distcontent.KindDocumentation, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Visum Palm User Manual", got.Title)
}

func TestCreateContentWithoutStorage(t *testing.T) {
	svc, err := distcontent.New(distcontent.WithRepository(memory.New()))
	require.NoError(t, err)

	_, err = svc.CreateContent(context.Background(), distcontent.CreateContentRequest{
		Kind:  distcontent.KindAnnouncement,
		Title: "Maintenance Window",
		File: &distcontent.PendingFile{
			FileName: "notice.txt",
			Data:     strings.NewReader("downtime"),
		},
	})
	assert.ErrorIs(t, err, distcontent.ErrStorageNotConfigured)
}

func TestCreateContentInvalidKind(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.CreateContent(context.Background(), distcontent.CreateContentRequest{
		Kind:  "podcasts",
		Title: "Episode 1",
	})
	assert.ErrorIs(t, err, distcontent.ErrInvalidContentKind)
}

func TestUpdateContentBumpsUpdatedAt(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	item, err := svc.CreateContent(ctx, distcontent.CreateContentRequest{
		Kind:  distcontent.KindTrainingMaterial,
		Title: "Onboarding Deck",
	})
	require.NoError(t, err)
	created := item.UpdatedAt

	item.Title = "Onboarding Deck v2"
	require.NoError(t, svc.UpdateContent(ctx, distcontent.UpdateContentRequest{Item: item}))

	got, err := svc.GetContent(ctx, distcontent.KindTrainingMaterial, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Onboarding Deck v2", got.Title)
	assert.False(t, got.UpdatedAt.Before(created))
}

func TestDeleteContentCascades(t *testing.T) {
	svc, repo, store := setupService(t)
	ctx := context.Background()

	item, err := svc.CreateContent(ctx, distcontent.CreateContentRequest{
		Kind:  distcontent.KindMarketingAsset,
		Title: "Launch Banner",
		File: &distcontent.PendingFile{
			FileName: "banner.png",
			Format:   "png",
			Data:     strings.NewReader("png bytes"),
		},
	})
	require.NoError(t, err)
	require.NoError(t, svc.SetAccessList(ctx, distcontent.KindMarketingAsset, item.ID, []string{uuid.New().String()}))
	require.Equal(t, 1, store.Len())

	require.NoError(t, svc.DeleteContent(ctx, distcontent.KindMarketingAsset, item.ID))

	assert.Equal(t, 0, store.Len())
	_, err = svc.GetContent(ctx, distcontent.KindMarketingAsset, item.ID)
	assert.ErrorIs(t, err, distcontent.ErrContentNotFound)

	ids, err := repo.ListSharing(ctx, distcontent.KindMarketingAsset, item.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeleteContentUnknownID(t *testing.T) {
	svc, _, _ := setupService(t)

	err := svc.DeleteContent(context.Background(), distcontent.KindDocumentation, uuid.New())
	assert.ErrorIs(t, err, distcontent.ErrContentNotFound)
}

func TestListContentIsolatedPerKind(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateContent(ctx, distcontent.CreateContentRequest{
		Kind:  distcontent.KindDocumentation,
		Title: "Manual",
	})
	require.NoError(t, err)
	_, err = svc.CreateContent(ctx, distcontent.CreateContentRequest{
		Kind:  distcontent.KindAnnouncement,
		Title: "Notice",
	})
	require.NoError(t, err)

	docs, err := svc.ListContent(ctx, distcontent.KindDocumentation)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Manual", docs[0].Title)

	announcements, err := svc.ListContent(ctx, distcontent.KindAnnouncement)
	require.NoError(t, err)
	assert.Len(t, announcements, 1)
}

func TestTargetingLookups(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()

	repo.SeedDistributor(&distcontent.Distributor{ID: uuid.New(), Name: "Nordic Medical Supply"})
	repo.SeedDevice(&distcontent.Device{ID: uuid.New(), Name: "Palm unit 1042", SerialNumber: "VP-1042"})
	repo.SeedDevice(&distcontent.Device{ID: uuid.New(), Name: "Pro unit 2001", SerialNumber: "VX-2001"})

	distributors, err := svc.ListDistributors(ctx)
	require.NoError(t, err)
	require.Len(t, distributors, 1)
	assert.Equal(t, "Nordic Medical Supply", distributors[0].Name)

	devices, err := svc.SearchDevices(ctx, "VP-")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "VP-1042", devices[0].SerialNumber)
}
