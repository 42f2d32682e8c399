package repository

import (
	"context"
	"errors"

	"wikiboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ColumnRepository persists the ordered lanes of a board.
type ColumnRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Column, error)
	ListByBoard(ctx context.Context, boardID int64) ([]*domain.Column, error)
	MaxPosition(ctx context.Context, boardID int64) (int, error)
	Create(ctx context.Context, col *domain.Column) error
	Update(ctx context.Context, col *domain.Column) error
	Move(ctx context.Context, id int64, position int) error
	SeedDefaults(ctx context.Context, boardID int64) ([]*domain.Column, error)
}

type columnRepository struct {
	db *pgxpool.Pool
}

func NewColumnRepository(db *pgxpool.Pool) ColumnRepository {
	return &columnRepository{db: db}
}

const columnColumns = `column_id, board_id, name, COALESCE(color, ''), position, wip_limit`

func scanColumn(row pgx.Row) (*domain.Column, error) {
	var c domain.Column
	if err := row.Scan(&c.ID, &c.BoardID, &c.Name, &c.Color, &c.Position, &c.WIPLimit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *columnRepository) GetByID(ctx context.Context, id int64) (*domain.Column, error) {
	return scanColumn(r.db.QueryRow(ctx,
		`SELECT `+columnColumns+` FROM columns WHERE column_id = $1`, id))
}

func (r *columnRepository) ListByBoard(ctx context.Context, boardID int64) ([]*domain.Column, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+columnColumns+` FROM columns WHERE board_id = $1 ORDER BY position, column_id`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []*domain.Column
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (r *columnRepository) MaxPosition(ctx context.Context, boardID int64) (int, error) {
	var max int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) FROM columns WHERE board_id = $1`, boardID).Scan(&max)
	return max, err
}

func (r *columnRepository) Create(ctx context.Context, col *domain.Column) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO columns (board_id, name, color, position, wip_limit)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING column_id
	`, col.BoardID, col.Name, col.Color, col.Position, col.WIPLimit).Scan(&col.ID)
}

func (r *columnRepository) Update(ctx context.Context, col *domain.Column) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE columns SET name = $1, color = NULLIF($2, ''), wip_limit = $3 WHERE column_id = $4
	`, col.Name, col.Color, col.WIPLimit, col.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Move writes the caller-supplied position directly. Siblings are never
// renumbered, so two columns can end up sharing a position; callers derive
// collision-free values from the drag target.
func (r *columnRepository) Move(ctx context.Context, id int64, position int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE columns SET position = $1 WHERE column_id = $2`, position, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SeedDefaults creates the three starter lanes for a fresh board, in
// fixed order: todo, doing, done.
func (r *columnRepository) SeedDefaults(ctx context.Context, boardID int64) ([]*domain.Column, error) {
	cols := make([]*domain.Column, 0, len(domain.DefaultColumnNames))
	for i, name := range domain.DefaultColumnNames {
		col := &domain.Column{BoardID: boardID, Name: name, Position: i + 1}
		if err := r.Create(ctx, col); err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}
