// Package memory provides an in-memory Repository for tests and dev.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/visumlabs/distributor-content/pkg/distcontent"
)

type contentKey struct {
	kind distcontent.ContentKind
	id   uuid.UUID
}

// Repository implements distcontent.Repository using in-memory maps.
type Repository struct {
	mu           sync.RWMutex
	contents     map[contentKey]*distcontent.ContentItem
	sharing      map[contentKey][]uuid.UUID
	releases     map[uuid.UUID]*distcontent.Release
	relDistribs  map[uuid.UUID][]uuid.UUID
	relDevices   map[uuid.UUID][]uuid.UUID
	distributors map[uuid.UUID]*distcontent.Distributor
	devices      map[uuid.UUID]*distcontent.Device
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{
		contents:     make(map[contentKey]*distcontent.ContentItem),
		sharing:      make(map[contentKey][]uuid.UUID),
		releases:     make(map[uuid.UUID]*distcontent.Release),
		relDistribs:  make(map[uuid.UUID][]uuid.UUID),
		relDevices:   make(map[uuid.UUID][]uuid.UUID),
		distributors: make(map[uuid.UUID]*distcontent.Distributor),
		devices:      make(map[uuid.UUID]*distcontent.Device),
	}
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, item *distcontent.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy to avoid external modifications
	itemCopy := *item
	r.contents[contentKey{item.Kind, item.ID}] = &itemCopy
	return nil
}

func (r *Repository) GetContent(ctx context.Context, kind distcontent.ContentKind, id uuid.UUID) (*distcontent.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.contents[contentKey{kind, id}]
	if !exists {
		return nil, distcontent.ErrContentNotFound
	}
	itemCopy := *item
	return &itemCopy, nil
}

func (r *Repository) UpdateContent(ctx context.Context, item *distcontent.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := contentKey{item.Kind, item.ID}
	if _, exists := r.contents[key]; !exists {
		return distcontent.ErrContentNotFound
	}
	itemCopy := *item
	r.contents[key] = &itemCopy
	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, kind distcontent.ContentKind, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := contentKey{kind, id}
	if _, exists := r.contents[key]; !exists {
		return distcontent.ErrContentNotFound
	}
	delete(r.contents, key)
	return nil
}

func (r *Repository) ListContent(ctx context.Context, kind distcontent.ContentKind) ([]*distcontent.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*distcontent.ContentItem
	for key, item := range r.contents {
		if key.kind == kind {
			itemCopy := *item
			result = append(result, &itemCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Sharing operations

func (r *Repository) ListSharing(ctx context.Context, kind distcontent.ContentKind, contentID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.sharing[contentKey{kind, contentID}]
	out := make([]uuid.UUID, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *Repository) DeleteSharing(ctx context.Context, kind distcontent.ContentKind, contentID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := contentKey{kind, contentID}
	n := int64(len(r.sharing[key]))
	delete(r.sharing, key)
	return n, nil
}

func (r *Repository) InsertSharing(ctx context.Context, kind distcontent.ContentKind, contentID uuid.UUID, distributorIDs []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := contentKey{kind, contentID}
	rows := make([]uuid.UUID, len(distributorIDs))
	copy(rows, distributorIDs)
	r.sharing[key] = append(r.sharing[key], rows...)
	return int64(len(distributorIDs)), nil
}

// Release operations

func (r *Repository) CreateRelease(ctx context.Context, release *distcontent.Release) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	releaseCopy := *release
	r.releases[release.ID] = &releaseCopy
	return nil
}

func (r *Repository) GetRelease(ctx context.Context, id uuid.UUID) (*distcontent.Release, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	release, exists := r.releases[id]
	if !exists {
		return nil, distcontent.ErrReleaseNotFound
	}
	releaseCopy := *release
	return &releaseCopy, nil
}

func (r *Repository) UpdateRelease(ctx context.Context, release *distcontent.Release) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.releases[release.ID]; !exists {
		return distcontent.ErrReleaseNotFound
	}
	releaseCopy := *release
	r.releases[release.ID] = &releaseCopy
	return nil
}

func (r *Repository) DeleteRelease(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.releases[id]; !exists {
		return distcontent.ErrReleaseNotFound
	}
	delete(r.releases, id)
	return nil
}

func (r *Repository) ListReleases(ctx context.Context) ([]*distcontent.Release, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*distcontent.Release, 0, len(r.releases))
	for _, release := range r.releases {
		releaseCopy := *release
		result = append(result, &releaseCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Release target operations

func (r *Repository) InsertReleaseDistributors(ctx context.Context, releaseID uuid.UUID, distributorIDs []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]uuid.UUID, len(distributorIDs))
	copy(rows, distributorIDs)
	r.relDistribs[releaseID] = append(r.relDistribs[releaseID], rows...)
	return int64(len(distributorIDs)), nil
}

func (r *Repository) InsertReleaseDevices(ctx context.Context, releaseID uuid.UUID, deviceIDs []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]uuid.UUID, len(deviceIDs))
	copy(rows, deviceIDs)
	r.relDevices[releaseID] = append(r.relDevices[releaseID], rows...)
	return int64(len(deviceIDs)), nil
}

func (r *Repository) GetReleaseTargets(ctx context.Context, releaseID uuid.UUID) (*distcontent.ReleaseTargets, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	targets := &distcontent.ReleaseTargets{
		DistributorIDs: make([]uuid.UUID, len(r.relDistribs[releaseID])),
		DeviceIDs:      make([]uuid.UUID, len(r.relDevices[releaseID])),
	}
	copy(targets.DistributorIDs, r.relDistribs[releaseID])
	copy(targets.DeviceIDs, r.relDevices[releaseID])
	return targets, nil
}

func (r *Repository) DeleteReleaseTargets(ctx context.Context, releaseID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.relDistribs, releaseID)
	delete(r.relDevices, releaseID)
	return nil
}

// Targeting lookups

func (r *Repository) ListDistributors(ctx context.Context) ([]*distcontent.Distributor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*distcontent.Distributor, 0, len(r.distributors))
	for _, d := range r.distributors {
		dCopy := *d
		result = append(result, &dCopy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *Repository) SearchDevices(ctx context.Context, query string) ([]*distcontent.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var result []*distcontent.Device
	for _, d := range r.devices {
		if q == "" ||
			strings.Contains(strings.ToLower(d.Name), q) ||
			strings.Contains(strings.ToLower(d.SerialNumber), q) {
			dCopy := *d
			result = append(result, &dCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// SeedDistributor adds a distributor row; targeting lookups are read-only
// through the Repository interface, so tests and dev setups seed directly.
func (r *Repository) SeedDistributor(d *distcontent.Distributor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dCopy := *d
	r.distributors[d.ID] = &dCopy
}

// SeedDevice adds a device row for targeting search.
func (r *Repository) SeedDevice(d *distcontent.Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dCopy := *d
	r.devices[d.ID] = &dCopy
}
