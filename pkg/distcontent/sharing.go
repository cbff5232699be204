package distcontent

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Sharing resolver.
//
// Visibility uses a sparse allow-list: no rows for an item means "visible
// to all distributors", one or more rows means "visible only to the listed
// distributors". There is no explicit public flag; publicness is the empty
// state. Replacing the list is therefore always delete-then-conditionally-
// insert, never incremental.

// GetAccessList returns the distributor allow-list for a content item. An
// empty result is meaningful: the item is public.
func (s *service) GetAccessList(ctx context.Context, kind ContentKind, contentID uuid.UUID) ([]uuid.UUID, error) {
	if !kind.Valid() {
		return nil, ErrInvalidContentKind
	}

	ids, err := s.repository.ListSharing(ctx, kind, contentID)
	if err != nil {
		return nil, &SharingError{Kind: kind, ContentID: contentID, Op: "list", Err: err}
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}

// SetAccessList replaces the full allow-list for a content item in one
// logical operation. If the delete succeeds but the insert fails, the item
// is left public; that partial outcome is returned as an error so the
// caller retries rather than mistaking it for saved state.
//
// The insert is a verified write: an insert that reports success but
// affects fewer rows than requested (an authorization rule silently
// discarding the write) is an explicit ErrWriteNotApplied, never a silent
// success.
func (s *service) SetAccessList(ctx context.Context, kind ContentKind, contentID uuid.UUID, distributorIDs []string) error {
	if !kind.Valid() {
		return ErrInvalidContentKind
	}

	ids, err := normalizeSelection(distributorIDs)
	if err != nil {
		return &SharingError{Kind: kind, ContentID: contentID, Op: "normalize", Err: err}
	}

	if _, err := s.repository.DeleteSharing(ctx, kind, contentID); err != nil {
		return &SharingError{Kind: kind, ContentID: contentID, Op: "replace", Err: err}
	}

	if len(ids) == 0 {
		return nil
	}

	affected, err := s.repository.InsertSharing(ctx, kind, contentID, ids)
	if err != nil {
		return &SharingError{Kind: kind, ContentID: contentID, Op: "replace", Err: err}
	}
	if err := verifyAffected("insert sharing", int64(len(ids)), affected); err != nil {
		return &SharingError{Kind: kind, ContentID: contentID, Op: "replace", Err: err}
	}

	return nil
}

// normalizeSelection filters the empty-string sentinel that selection
// widgets use for "no selection" and parses the rest. The sentinel must
// never reach an allow-list or a target relation.
func normalizeSelection(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		if r == "" {
			continue
		}
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", r, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
