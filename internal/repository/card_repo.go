package repository

import (
	"context"
	"errors"

	"wikiboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CardRepository persists cards. Every mutation carries the history
// entries describing it; the row change and the ledger appends run in one
// transaction, so a failed ledger write rolls the mutation back and the
// caller observes the prior state.
type CardRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Card, error)
	GetAnyByID(ctx context.Context, id int64) (*domain.Card, error)
	ListByColumn(ctx context.Context, columnID int64) ([]*domain.Card, error)
	ListByBoard(ctx context.Context, boardID int64) ([]*domain.Card, error)
	MaxPosition(ctx context.Context, columnID int64) (int, error)
	Create(ctx context.Context, card *domain.Card, entry *domain.HistoryEntry) error
	Update(ctx context.Context, card *domain.Card, entries []*domain.HistoryEntry) error
	Move(ctx context.Context, cardID, columnID int64, position int, entries []*domain.HistoryEntry) error
	SoftDelete(ctx context.Context, cardID int64, entry *domain.HistoryEntry) error
}

type cardRepository struct {
	db      *pgxpool.Pool
	history HistoryRepository
}

func NewCardRepository(db *pgxpool.Pool, history HistoryRepository) CardRepository {
	return &cardRepository{db: db, history: history}
}

const cardColumns = `card_id, column_id, board_id, title, COALESCE(description, ''), assignee_id, creator_id, priority, COALESCE(color, ''), position, due_date, created_at, updated_at, deleted_at`

func scanCard(row pgx.Row) (*domain.Card, error) {
	var c domain.Card
	if err := row.Scan(
		&c.ID, &c.ColumnID, &c.BoardID, &c.Title, &c.Description, &c.AssigneeID, &c.CreatorID,
		&c.Priority, &c.Color, &c.Position, &c.DueDate, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	return scanCard(r.db.QueryRow(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE card_id = $1 AND deleted_at IS NULL`, id))
}

// GetAnyByID returns the card even when soft-deleted. The history read
// path uses it: a deleted task's audit trail stays queryable.
func (r *cardRepository) GetAnyByID(ctx context.Context, id int64) (*domain.Card, error) {
	return scanCard(r.db.QueryRow(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE card_id = $1`, id))
}

func (r *cardRepository) ListByColumn(ctx context.Context, columnID int64) ([]*domain.Card, error) {
	return r.list(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE column_id = $1 AND deleted_at IS NULL ORDER BY position, card_id`, columnID)
}

func (r *cardRepository) ListByBoard(ctx context.Context, boardID int64) ([]*domain.Card, error) {
	return r.list(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE board_id = $1 AND deleted_at IS NULL ORDER BY position, card_id`, boardID)
}

func (r *cardRepository) list(ctx context.Context, query string, arg any) ([]*domain.Card, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// MaxPosition returns the highest position among non-deleted cards in the
// column, 0 for an empty column. Appends take max+1. The find-max and the
// insert are separate statements; two concurrent appends to the same
// column can race and produce duplicate positions (retained behavior,
// callers needing strict ordering add their own locking).
func (r *cardRepository) MaxPosition(ctx context.Context, columnID int64) (int, error) {
	var max int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) FROM cards WHERE column_id = $1 AND deleted_at IS NULL`, columnID).Scan(&max)
	return max, err
}

func (r *cardRepository) Create(ctx context.Context, card *domain.Card, entry *domain.HistoryEntry) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO cards (column_id, board_id, title, description, assignee_id, creator_id, priority, color, position, due_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)
			RETURNING card_id, created_at, updated_at
		`, card.ColumnID, card.BoardID, card.Title, card.Description, card.AssigneeID,
			card.CreatorID, card.Priority, card.Color, card.Position, card.DueDate,
		).Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt); err != nil {
			return err
		}
		entry.TaskID = card.ID
		return r.history.CreateWithTx(ctx, tx, entry)
	})
}

// Update replaces all mutable card fields; omitted optionals arrive as
// nil and are cleared, not left unchanged.
func (r *cardRepository) Update(ctx context.Context, card *domain.Card, entries []*domain.HistoryEntry) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE cards
			SET title = $1, description = $2, assignee_id = $3, priority = $4, color = NULLIF($5, ''), due_date = $6, updated_at = NOW()
			WHERE card_id = $7 AND deleted_at IS NULL
		`, card.Title, card.Description, card.AssigneeID, card.Priority, card.Color, card.DueDate, card.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		for _, e := range entries {
			if err := r.history.CreateWithTx(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

// Move reassigns the card's column and position as a single UPDATE: the
// pair is never observable half-applied. The vacated position in the old
// column is not compacted, and siblings in the target column are not
// shifted.
func (r *cardRepository) Move(ctx context.Context, cardID, columnID int64, position int, entries []*domain.HistoryEntry) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE cards SET column_id = $1, position = $2, updated_at = NOW()
			WHERE card_id = $3 AND deleted_at IS NULL
		`, columnID, position, cardID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		for _, e := range entries {
			if err := r.history.CreateWithTx(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *cardRepository) SoftDelete(ctx context.Context, cardID int64, entry *domain.HistoryEntry) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE cards SET deleted_at = NOW(), updated_at = NOW() WHERE card_id = $1 AND deleted_at IS NULL`, cardID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return r.history.CreateWithTx(ctx, tx, entry)
	})
}

func (r *cardRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
