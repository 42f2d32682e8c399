package repository

import (
	"context"

	"wikiboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentRepository persists card comments. Append-only: there is no
// update or delete. The insert and its ledger entry share a transaction.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment, entry *domain.HistoryEntry) error
	ListByCard(ctx context.Context, cardID int64) ([]*domain.Comment, error)
}

type commentRepository struct {
	db      *pgxpool.Pool
	history HistoryRepository
}

func NewCommentRepository(db *pgxpool.Pool, history HistoryRepository) CommentRepository {
	return &commentRepository{db: db, history: history}
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment, entry *domain.HistoryEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `
		INSERT INTO comments (card_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING comment_id, created_at
	`, c.CardID, c.UserID, c.Text).Scan(&c.ID, &c.CreatedAt); err != nil {
		return err
	}
	if err := r.history.CreateWithTx(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *commentRepository) ListByCard(ctx context.Context, cardID int64) ([]*domain.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT comment_id, card_id, user_id, text, created_at
		FROM comments
		WHERE card_id = $1
		ORDER BY created_at, comment_id
	`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.CardID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
