package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wikiboard/internal/domain"
	"wikiboard/internal/repository"
)

// BoardService orchestrates board and column operations. Board structure
// (the board itself, its columns, its grants) requires admin; the owner
// passes every check via the resolver.
type BoardService struct {
	boards  repository.BoardRepository
	columns repository.ColumnRepository
	cards   repository.CardRepository
	grants  repository.GrantRepository
	perms   *PermissionResolver
}

func NewBoardService(
	boards repository.BoardRepository,
	columns repository.ColumnRepository,
	cards repository.CardRepository,
	grants repository.GrantRepository,
	perms *PermissionResolver,
) *BoardService {
	return &BoardService{boards: boards, columns: columns, cards: cards, grants: grants, perms: perms}
}

// ColumnView is a column together with its ordered, non-deleted cards.
type ColumnView struct {
	Column *domain.Column `json:"column"`
	Cards  []*domain.Card `json:"cards"`
}

// BoardView is the renderable shape of a board the embed surface hands to
// the host renderer.
type BoardView struct {
	Board   *domain.Board `json:"board"`
	Columns []*ColumnView `json:"columns"`
}

// CreateBoard creates a board owned by user and seeds the three default
// columns (todo, doing, done). The name must be unique among non-deleted
// boards; a name freed by a soft delete can be reused.
func (s *BoardService) CreateBoard(ctx context.Context, user domain.User, name, description string, visibility domain.Visibility) (*domain.Board, error) {
	if !user.Registered {
		return nil, domain.ErrPermissionDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: board name is required", domain.ErrValidation)
	}
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}
	if !visibility.Valid() {
		return nil, fmt.Errorf("%w: unknown visibility %q", domain.ErrValidation, visibility)
	}

	exists, err := s.boards.NameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: board %q already exists", domain.ErrDuplicateName, name)
	}

	board := &domain.Board{
		Name:        name,
		Slug:        Slugify(name),
		Description: description,
		OwnerID:     user.ID,
		Visibility:  visibility,
	}
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, err
	}
	if _, err := s.columns.SeedDefaults(ctx, board.ID); err != nil {
		return nil, err
	}
	return board, nil
}

// GetBoard returns the full renderable view of a board: its columns in
// order, each with its ordered non-deleted cards.
func (s *BoardService) GetBoard(ctx context.Context, user domain.User, boardID int64) (*BoardView, error) {
	board, err := s.resolveBoard(ctx, user, boardID, domain.PermissionView)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, board)
}

// GetBoardBySlug resolves a board by its case-insensitive slug, falling
// back to the display name. This is the lookup the embed surface uses.
func (s *BoardService) GetBoardBySlug(ctx context.Context, user domain.User, slug string) (*BoardView, error) {
	board, err := s.boards.GetBySlug(ctx, slug)
	if err != nil {
		board, err = s.boards.GetByName(ctx, slug)
		if err != nil {
			return nil, err
		}
	}
	if err := s.perms.Resolve(ctx, board, user, domain.PermissionView); err != nil {
		return nil, err
	}
	return s.buildView(ctx, board)
}

// BoardExists answers the host renderer's "does this board exist" probe.
// It deliberately ignores permissions: existence is what the embed tag
// needs to decide whether to render at all.
func (s *BoardService) BoardExists(ctx context.Context, slug string) (bool, error) {
	if _, err := s.boards.GetBySlug(ctx, slug); err == nil {
		return true, nil
	} else if !isNotFound(err) {
		return false, err
	}
	if _, err := s.boards.GetByName(ctx, slug); err == nil {
		return true, nil
	} else if !isNotFound(err) {
		return false, err
	}
	return false, nil
}

// CanView reports whether the user may view the board, as a resolver
// check without building the full view. The websocket feed uses it.
func (s *BoardService) CanView(ctx context.Context, user domain.User, boardID int64) error {
	_, err := s.resolveBoard(ctx, user, boardID, domain.PermissionView)
	return err
}

// ListOwned returns the caller's own non-deleted boards.
func (s *BoardService) ListOwned(ctx context.Context, user domain.User) ([]*domain.Board, error) {
	return s.boards.ListOwned(ctx, user.ID)
}

// UpdateBoard replaces the board's name, description and visibility.
// Renames obey the same duplicate rule as creation.
func (s *BoardService) UpdateBoard(ctx context.Context, user domain.User, boardID int64, name, description string, visibility domain.Visibility) (*domain.Board, error) {
	board, err := s.resolveBoard(ctx, user, boardID, domain.PermissionAdmin)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: board name is required", domain.ErrValidation)
	}
	if !visibility.Valid() {
		return nil, fmt.Errorf("%w: unknown visibility %q", domain.ErrValidation, visibility)
	}
	if !strings.EqualFold(name, board.Name) {
		exists, err := s.boards.NameExists(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: board %q already exists", domain.ErrDuplicateName, name)
		}
	}

	board.Name = name
	board.Slug = Slugify(name)
	board.Description = description
	board.Visibility = visibility
	if err := s.boards.Update(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// DeleteBoard soft-deletes the board. Rows stay in place; every default
// read path filters them out, and only the owner can still resolve access.
func (s *BoardService) DeleteBoard(ctx context.Context, user domain.User, boardID int64) error {
	if _, err := s.resolveBoard(ctx, user, boardID, domain.PermissionAdmin); err != nil {
		return err
	}
	return s.boards.SoftDelete(ctx, boardID)
}

// AddColumn appends a column at the end of the board (position max+1).
func (s *BoardService) AddColumn(ctx context.Context, user domain.User, boardID int64, name, color string, wipLimit *int) (*domain.Column, error) {
	if _, err := s.resolveBoard(ctx, user, boardID, domain.PermissionAdmin); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: column name is required", domain.ErrValidation)
	}

	max, err := s.columns.MaxPosition(ctx, boardID)
	if err != nil {
		return nil, err
	}
	col := &domain.Column{BoardID: boardID, Name: name, Color: color, Position: max + 1, WIPLimit: wipLimit}
	if err := s.columns.Create(ctx, col); err != nil {
		return nil, err
	}
	return col, nil
}

// UpdateColumn replaces the column's name, color and WIP limit.
func (s *BoardService) UpdateColumn(ctx context.Context, user domain.User, columnID int64, name, color string, wipLimit *int) (*domain.Column, error) {
	col, err := s.columns.GetByID(ctx, columnID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveBoard(ctx, user, col.BoardID, domain.PermissionAdmin); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: column name is required", domain.ErrValidation)
	}

	col.Name = name
	col.Color = color
	col.WIPLimit = wipLimit
	if err := s.columns.Update(ctx, col); err != nil {
		return nil, err
	}
	return col, nil
}

// MoveColumn writes the caller-supplied position directly; siblings keep
// their positions, collisions included.
func (s *BoardService) MoveColumn(ctx context.Context, user domain.User, columnID int64, position int) error {
	col, err := s.columns.GetByID(ctx, columnID)
	if err != nil {
		return err
	}
	if _, err := s.resolveBoard(ctx, user, col.BoardID, domain.PermissionAdmin); err != nil {
		return err
	}
	if position < 1 {
		return fmt.Errorf("%w: position must be positive", domain.ErrValidation)
	}
	return s.columns.Move(ctx, columnID, position)
}

// SetGrant creates or replaces the explicit grant for targetUserID.
func (s *BoardService) SetGrant(ctx context.Context, user domain.User, boardID, targetUserID int64, level domain.PermissionLevel) error {
	if _, err := s.resolveBoard(ctx, user, boardID, domain.PermissionAdmin); err != nil {
		return err
	}
	if level < domain.PermissionView || level > domain.PermissionAdmin {
		return fmt.Errorf("%w: unknown permission level", domain.ErrValidation)
	}
	return s.grants.Upsert(ctx, &domain.PermissionGrant{BoardID: boardID, UserID: targetUserID, Level: level})
}

// RevokeGrant removes the explicit grant for targetUserID.
func (s *BoardService) RevokeGrant(ctx context.Context, user domain.User, boardID, targetUserID int64) error {
	if _, err := s.resolveBoard(ctx, user, boardID, domain.PermissionAdmin); err != nil {
		return err
	}
	return s.grants.Revoke(ctx, boardID, targetUserID)
}

// ListGrants returns the board's explicit grants.
func (s *BoardService) ListGrants(ctx context.Context, user domain.User, boardID int64) ([]*domain.PermissionGrant, error) {
	if _, err := s.resolveBoard(ctx, user, boardID, domain.PermissionAdmin); err != nil {
		return nil, err
	}
	return s.grants.ListForBoard(ctx, boardID)
}

func (s *BoardService) resolveBoard(ctx context.Context, user domain.User, boardID int64, level domain.PermissionLevel) (*domain.Board, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Resolve(ctx, board, user, level); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *BoardService) buildView(ctx context.Context, board *domain.Board) (*BoardView, error) {
	cols, err := s.columns.ListByBoard(ctx, board.ID)
	if err != nil {
		return nil, err
	}
	cards, err := s.cards.ListByBoard(ctx, board.ID)
	if err != nil {
		return nil, err
	}

	byColumn := make(map[int64][]*domain.Card, len(cols))
	for _, c := range cards {
		byColumn[c.ColumnID] = append(byColumn[c.ColumnID], c)
	}

	view := &BoardView{Board: board, Columns: make([]*ColumnView, 0, len(cols))}
	for _, col := range cols {
		view.Columns = append(view.Columns, &ColumnView{Column: col, Cards: byColumn[col.ID]})
	}
	return view, nil
}

// Slugify derives the human slug from a board name: lowercase, runs of
// non-alphanumerics collapsed to single dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
