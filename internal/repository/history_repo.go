package repository

import (
	"context"

	"wikiboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepository is the append-only task history ledger. Entries are
// never updated or deleted, and they deliberately do not join against the
// cards table: history for a soft-deleted task stays readable.
type HistoryRepository interface {
	Create(ctx context.Context, e *domain.HistoryEntry) error
	CreateWithTx(ctx context.Context, tx pgx.Tx, e *domain.HistoryEntry) error
	ListByTask(ctx context.Context, taskID int64) ([]*domain.HistoryEntry, error)
	ListByActor(ctx context.Context, userID int64, limit int) ([]*domain.HistoryEntry, error)
	ListByChangeType(ctx context.Context, changeType string, limit int) ([]*domain.HistoryEntry, error)
}

type historyRepository struct {
	db *pgxpool.Pool
}

func NewHistoryRepository(db *pgxpool.Pool) HistoryRepository {
	return &historyRepository{db: db}
}

const historyInsert = `
	INSERT INTO task_history (task_id, field_name, old_value, new_value, changed_by, change_type, change_reason, ip_address, user_agent, request_id)
	VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''))
	RETURNING history_id, changed_at`

const historySelect = `
	SELECT history_id, task_id, field_name, old_value, new_value, changed_by, changed_at,
	       change_type, COALESCE(change_reason, ''), COALESCE(ip_address, ''), COALESCE(user_agent, ''), COALESCE(request_id, '')
	FROM task_history`

func (r *historyRepository) Create(ctx context.Context, e *domain.HistoryEntry) error {
	return r.db.QueryRow(ctx, historyInsert,
		e.TaskID, e.FieldName, e.OldValue, e.NewValue, e.ChangedBy, e.ChangeType, e.Reason, e.IP, e.UserAgent, e.RequestID,
	).Scan(&e.ID, &e.ChangedAt)
}

// CreateWithTx appends an entry inside the caller's transaction so the
// ledger write and the entity mutation commit or fail as one unit.
func (r *historyRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, e *domain.HistoryEntry) error {
	return tx.QueryRow(ctx, historyInsert,
		e.TaskID, e.FieldName, e.OldValue, e.NewValue, e.ChangedBy, e.ChangeType, e.Reason, e.IP, e.UserAgent, e.RequestID,
	).Scan(&e.ID, &e.ChangedAt)
}

func (r *historyRepository) ListByTask(ctx context.Context, taskID int64) ([]*domain.HistoryEntry, error) {
	rows, err := r.db.Query(ctx, historySelect+` WHERE task_id = $1 ORDER BY changed_at, history_id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHistoryEntries(rows)
}

func (r *historyRepository) ListByActor(ctx context.Context, userID int64, limit int) ([]*domain.HistoryEntry, error) {
	rows, err := r.db.Query(ctx,
		historySelect+` WHERE changed_by = $1 ORDER BY changed_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHistoryEntries(rows)
}

func (r *historyRepository) ListByChangeType(ctx context.Context, changeType string, limit int) ([]*domain.HistoryEntry, error) {
	rows, err := r.db.Query(ctx,
		historySelect+` WHERE change_type = $1 ORDER BY changed_at DESC LIMIT $2`, changeType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHistoryEntries(rows)
}

func scanHistoryEntries(rows pgx.Rows) ([]*domain.HistoryEntry, error) {
	var entries []*domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(
			&e.ID, &e.TaskID, &e.FieldName, &e.OldValue, &e.NewValue, &e.ChangedBy, &e.ChangedAt,
			&e.ChangeType, &e.Reason, &e.IP, &e.UserAgent, &e.RequestID,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
