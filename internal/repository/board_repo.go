package repository

import (
	"context"
	"errors"

	"wikiboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BoardRepository persists boards. Boards are only ever soft-deleted; all
// list/lookup paths except GetByID filter deleted rows out. GetByID
// returns deleted boards too so the permission resolver can apply the
// owner-only rule for deleted boards.
type BoardRepository interface {
	Create(ctx context.Context, b *domain.Board) error
	GetByID(ctx context.Context, id int64) (*domain.Board, error)
	GetByName(ctx context.Context, name string) (*domain.Board, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Board, error)
	ListOwned(ctx context.Context, ownerID int64) ([]*domain.Board, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, b *domain.Board) error
	SoftDelete(ctx context.Context, id int64) error
}

type boardRepository struct {
	db *pgxpool.Pool
}

func NewBoardRepository(db *pgxpool.Pool) BoardRepository {
	return &boardRepository{db: db}
}

const boardColumns = `board_id, name, COALESCE(slug, ''), COALESCE(description, ''), owner_id, visibility, created_at, updated_at, deleted_at`

func scanBoard(row pgx.Row) (*domain.Board, error) {
	var b domain.Board
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Slug,
		&b.Description,
		&b.OwnerID,
		&b.Visibility,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *boardRepository) Create(ctx context.Context, b *domain.Board) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO boards (name, slug, description, owner_id, visibility)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)
		RETURNING board_id, created_at, updated_at
	`, b.Name, b.Slug, b.Description, b.OwnerID, b.Visibility).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *boardRepository) GetByID(ctx context.Context, id int64) (*domain.Board, error) {
	return scanBoard(r.db.QueryRow(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE board_id = $1`, id))
}

func (r *boardRepository) GetByName(ctx context.Context, name string) (*domain.Board, error) {
	return scanBoard(r.db.QueryRow(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE LOWER(name) = LOWER($1) AND deleted_at IS NULL`, name))
}

func (r *boardRepository) GetBySlug(ctx context.Context, slug string) (*domain.Board, error) {
	return scanBoard(r.db.QueryRow(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE LOWER(slug) = LOWER($1) AND deleted_at IS NULL`, slug))
}

func (r *boardRepository) ListOwned(ctx context.Context, ownerID int64) ([]*domain.Board, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+boardColumns+` FROM boards WHERE owner_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []*domain.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// NameExists reports whether a non-deleted board already uses the name.
// Soft-deleted boards do not count, so a name can be reused after delete.
func (r *boardRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM boards WHERE LOWER(name) = LOWER($1) AND deleted_at IS NULL)`, name).Scan(&exists)
	return exists, err
}

func (r *boardRepository) Update(ctx context.Context, b *domain.Board) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE boards
		SET name = $1, slug = NULLIF($2, ''), description = $3, visibility = $4, updated_at = NOW()
		WHERE board_id = $5 AND deleted_at IS NULL
	`, b.Name, b.Slug, b.Description, b.Visibility, b.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *boardRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE boards SET deleted_at = NOW(), updated_at = NOW() WHERE board_id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
