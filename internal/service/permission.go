package service

import (
	"context"
	"errors"

	"wikiboard/internal/domain"
	"wikiboard/internal/repository"
)

// PermissionResolver decides whether a user may act on a board at a given
// level. Resolution is board-scoped only; columns and cards never carry
// their own permissions.
//
// The check is not atomic with the action that follows it: a grant or the
// board's visibility can change between Resolve and the mutation. That
// TOCTOU window is a known property of the design, not serialized away.
type PermissionResolver struct {
	grants repository.GrantRepository
}

func NewPermissionResolver(grants repository.GrantRepository) *PermissionResolver {
	return &PermissionResolver{grants: grants}
}

// Resolve evaluates the layered rules in order, first match wins:
//
//  1. the owner is allowed at every level, including on soft-deleted
//     boards (deleted boards stay reachable to their owner for restore)
//  2. a soft-deleted board denies everyone else
//  3. a public board allows view to any caller
//  4. an explicit grant allows iff its level ranks at or above the
//     requested one; no grant means deny
//
// Returns nil on allow and domain.ErrPermissionDenied on deny.
func (r *PermissionResolver) Resolve(ctx context.Context, board *domain.Board, user domain.User, level domain.PermissionLevel) error {
	if user.ID != 0 && user.ID == board.OwnerID {
		return nil
	}
	if board.Deleted() {
		return domain.ErrPermissionDenied
	}
	if board.Visibility == domain.VisibilityPublic && level == domain.PermissionView {
		return nil
	}
	if user.ID == 0 {
		return domain.ErrPermissionDenied
	}

	grant, err := r.grants.Get(ctx, board.ID, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrPermissionDenied
		}
		return err
	}
	if grant.Level >= level {
		return nil
	}
	return domain.ErrPermissionDenied
}
