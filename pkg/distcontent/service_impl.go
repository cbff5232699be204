package distcontent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/visumlabs/distributor-content/pkg/distcontent/objectkey"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	translator Translator
	notifier   Notifier
	keys       ObjectKeyGenerator
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the object storage backend
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithTranslator sets the translation backend client
func WithTranslator(t Translator) Option {
	return func(s *service) {
		s.translator = t
	}
}

// WithNotifier sets the release publish notifier
func WithNotifier(n Notifier) Option {
	return func(s *service) {
		s.notifier = n
	}
}

// WithObjectKeyGenerator overrides the artifact key naming strategy
func WithObjectKeyGenerator(g ObjectKeyGenerator) Option {
	return func(s *service) {
		s.keys = g
	}
}

// WithLogger sets the structured logger used for per-item diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		notifier: NewNoopNotifier(),
		keys:     objectkey.NewTimestampGenerator(),
		logger:   slog.Default(),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

// Content operations

func (s *service) CreateContent(ctx context.Context, req CreateContentRequest) (*ContentItem, error) {
	if !req.Kind.Valid() {
		return nil, ErrInvalidContentKind
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}

	now := time.Now().UTC()
	item := &ContentItem{
		ID:        uuid.New(),
		Kind:      req.Kind,
		Title:     req.Title,
		Category:  req.Category,
		Version:   req.Version,
		Language:  req.Language,
		Status:    status,
		ProductID: req.ProductID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.File != nil {
		artifact, err := s.uploadArtifact(ctx, item.ID, req.File)
		if err != nil {
			return nil, err
		}
		item.Artifact = *artifact
	}

	if err := s.repository.CreateContent(ctx, item); err != nil {
		return nil, fmt.Errorf("create %s: %w", req.Kind, err)
	}

	return item, nil
}

func (s *service) GetContent(ctx context.Context, kind ContentKind, id uuid.UUID) (*ContentItem, error) {
	if !kind.Valid() {
		return nil, ErrInvalidContentKind
	}
	return s.repository.GetContent(ctx, kind, id)
}

func (s *service) UpdateContent(ctx context.Context, req UpdateContentRequest) error {
	if req.Item == nil {
		return fmt.Errorf("content item is required")
	}
	if !req.Item.Kind.Valid() {
		return ErrInvalidContentKind
	}
	req.Item.UpdatedAt = time.Now().UTC()
	return s.repository.UpdateContent(ctx, req.Item)
}

// DeleteContent removes a content item together with its sharing rows and
// its stored artifact. The backend does not cascade either one; this is
// the caller's responsibility per the storage contract.
func (s *service) DeleteContent(ctx context.Context, kind ContentKind, id uuid.UUID) error {
	if !kind.Valid() {
		return ErrInvalidContentKind
	}

	item, err := s.repository.GetContent(ctx, kind, id)
	if err != nil {
		return err
	}

	if _, err := s.repository.DeleteSharing(ctx, kind, id); err != nil {
		return &SharingError{Kind: kind, ContentID: id, Op: "delete", Err: err}
	}

	if item.Artifact.ObjectKey != "" && s.blobStore != nil {
		if err := s.blobStore.Delete(ctx, item.Artifact.ObjectKey); err != nil {
			// The record is still live at this point; surface the failure
			// so the artifact does not leak silently.
			return &StorageError{Key: item.Artifact.ObjectKey, Op: "delete", Err: err}
		}
	}

	return s.repository.DeleteContent(ctx, kind, id)
}

func (s *service) ListContent(ctx context.Context, kind ContentKind) ([]*ContentItem, error) {
	if !kind.Valid() {
		return nil, ErrInvalidContentKind
	}
	return s.repository.ListContent(ctx, kind)
}

// Targeting lookups

func (s *service) ListDistributors(ctx context.Context) ([]*Distributor, error) {
	return s.repository.ListDistributors(ctx)
}

func (s *service) SearchDevices(ctx context.Context, query string) ([]*Device, error) {
	return s.repository.SearchDevices(ctx, query)
}

// uploadArtifact stores one staged file and returns its artifact
// reference. Keys are generated per upload so re-uploads for the same
// logical item never collide.
func (s *service) uploadArtifact(ctx context.Context, id uuid.UUID, file *PendingFile) (*Artifact, error) {
	if s.blobStore == nil {
		return nil, ErrStorageNotConfigured
	}

	key := s.keys.Key(id, file.FileName)
	url, err := s.blobStore.Upload(ctx, key, file.Data)
	if err != nil {
		return nil, &StorageError{Key: key, Op: "upload", Err: err}
	}

	return &Artifact{
		URL:       url,
		ObjectKey: key,
		FileName:  file.FileName,
		SizeBytes: file.SizeBytes,
		Format:    file.Format,
	}, nil
}
