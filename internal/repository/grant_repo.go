package repository

import (
	"context"
	"errors"

	"wikiboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GrantRepository persists explicit per-user board access overrides.
// At most one grant exists per (board, user); Upsert replaces the level.
type GrantRepository interface {
	Upsert(ctx context.Context, g *domain.PermissionGrant) error
	Get(ctx context.Context, boardID, userID int64) (*domain.PermissionGrant, error)
	ListForBoard(ctx context.Context, boardID int64) ([]*domain.PermissionGrant, error)
	Revoke(ctx context.Context, boardID, userID int64) error
}

type grantRepository struct {
	db *pgxpool.Pool
}

func NewGrantRepository(db *pgxpool.Pool) GrantRepository {
	return &grantRepository{db: db}
}

func (r *grantRepository) Upsert(ctx context.Context, g *domain.PermissionGrant) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO permission_grants (board_id, user_id, level)
		VALUES ($1, $2, $3)
		ON CONFLICT (board_id, user_id) DO UPDATE SET level = EXCLUDED.level
	`, g.BoardID, g.UserID, g.Level)
	return err
}

// Get returns domain.ErrNotFound when the user has no grant on the board.
func (r *grantRepository) Get(ctx context.Context, boardID, userID int64) (*domain.PermissionGrant, error) {
	var g domain.PermissionGrant
	err := r.db.QueryRow(ctx,
		`SELECT board_id, user_id, level FROM permission_grants WHERE board_id = $1 AND user_id = $2`,
		boardID, userID,
	).Scan(&g.BoardID, &g.UserID, &g.Level)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *grantRepository) ListForBoard(ctx context.Context, boardID int64) ([]*domain.PermissionGrant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT board_id, user_id, level FROM permission_grants WHERE board_id = $1 ORDER BY user_id`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []*domain.PermissionGrant
	for rows.Next() {
		var g domain.PermissionGrant
		if err := rows.Scan(&g.BoardID, &g.UserID, &g.Level); err != nil {
			return nil, err
		}
		grants = append(grants, &g)
	}
	return grants, rows.Err()
}

func (r *grantRepository) Revoke(ctx context.Context, boardID, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM permission_grants WHERE board_id = $1 AND user_id = $2`, boardID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
