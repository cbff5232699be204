package distcontent_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/visumlabs/distributor-content/pkg/distcontent"
	"github.com/visumlabs/distributor-content/pkg/distcontent/repo/memory"
	memorystorage "github.com/visumlabs/distributor-content/pkg/distcontent/storage/memory"
)

func setupService(t *testing.T, opts ...distcontent.Option) (distcontent.Service, *memory.Repository, *memorystorage.Backend) {
	t.Helper()

	repo := memory.New()
	store := memorystorage.New()

	base := []distcontent.Option{
		distcontent.WithRepository(repo),
		distcontent.WithBlobStore(store),
	}
	svc, err := distcontent.New(append(base, opts...)...)
	require.NoError(t, err)
	return svc, repo, store
}

// countingStore wraps a BlobStore and fails the uploads whose ordinal
// (1-based) appears in failOn.
type countingStore struct {
	inner   distcontent.BlobStore
	mu      sync.Mutex
	uploads int
	failOn  map[int]bool
}

func newCountingStore(inner distcontent.BlobStore, failOn ...int) *countingStore {
	m := make(map[int]bool, len(failOn))
	for _, n := range failOn {
		m[n] = true
	}
	return &countingStore{inner: inner, failOn: m}
}

func (c *countingStore) Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error) {
	c.mu.Lock()
	c.uploads++
	n := c.uploads
	c.mu.Unlock()

	if c.failOn[n] {
		return "", errors.New("simulated upload failure")
	}
	return c.inner.Upload(ctx, objectKey, reader)
}

func (c *countingStore) Delete(ctx context.Context, objectKey string) error {
	return c.inner.Delete(ctx, objectKey)
}

func (c *countingStore) GetDownloadURL(ctx context.Context, objectKey string, downloadFilename string) (string, error) {
	return c.inner.GetDownloadURL(ctx, objectKey, downloadFilename)
}

func (c *countingStore) uploadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploads
}

// silentWriteRepo simulates a backend authorization rule quietly
// discarding sharing writes: inserts report success but zero rows.
type silentWriteRepo struct {
	*memory.Repository
}

func (r *silentWriteRepo) InsertSharing(ctx context.Context, kind distcontent.ContentKind, contentID uuid.UUID, distributorIDs []uuid.UUID) (int64, error) {
	return 0, nil
}

// failingTargetRepo fails release target binding.
type failingTargetRepo struct {
	*memory.Repository
}

func (r *failingTargetRepo) InsertReleaseDistributors(ctx context.Context, releaseID uuid.UUID, distributorIDs []uuid.UUID) (int64, error) {
	return 0, errors.New("simulated target insert failure")
}

// failingCreateReleaseRepo fails release record creation.
type failingCreateReleaseRepo struct {
	*memory.Repository
}

func (r *failingCreateReleaseRepo) CreateRelease(ctx context.Context, release *distcontent.Release) error {
	return errors.New("simulated create failure")
}

// stubTranslator returns a canned response or error.
type stubTranslator struct {
	resp    *distcontent.TranslateResponse
	err     error
	lastReq *distcontent.TranslateRequest
}

func (s *stubTranslator) Translate(ctx context.Context, req distcontent.TranslateRequest) (*distcontent.TranslateResponse, error) {
	s.lastReq = &req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

// recordingNotifier records publish notifications and can fail.
type recordingNotifier struct {
	err      error
	notified []uuid.UUID
}

func (n *recordingNotifier) ReleasePublished(ctx context.Context, release *distcontent.Release) error {
	if n.err != nil {
		return n.err
	}
	n.notified = append(n.notified, release.ID)
	return nil
}
