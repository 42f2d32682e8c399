package repository

import (
	"context"
	"fmt"
	"strings"

	"wikiboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SearchFilters narrows a task search. Nil fields are not applied.
type SearchFilters struct {
	BoardID  *int64
	Status   *string
	Priority *domain.Priority
}

// SearchRow is a matched card together with the board and status names
// the match was evaluated against.
type SearchRow struct {
	Card       domain.Card
	BoardName  string
	StatusName string
}

// SearchRepository answers cross-entity keyword queries over cards,
// boards and columns. Matching is a case-insensitive substring match, not
// tokenized or stemmed.
type SearchRepository interface {
	AccessibleBoardIDs(ctx context.Context, userID int64) ([]int64, error)
	SearchCards(ctx context.Context, term string, boardIDs []int64, f SearchFilters, limit int) ([]*SearchRow, error)
}

type searchRepository struct {
	db *pgxpool.Pool
}

func NewSearchRepository(db *pgxpool.Pool) SearchRepository {
	return &searchRepository{db: db}
}

// AccessibleBoardIDs computes the boards the user may view: owned boards,
// public boards, and boards with an explicit grant at any level. For the
// anonymous caller (userID 0) that reduces to public boards.
func (r *searchRepository) AccessibleBoardIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT b.board_id
		FROM boards b
		LEFT JOIN permission_grants g ON g.board_id = b.board_id AND g.user_id = $1
		WHERE b.deleted_at IS NULL
		  AND (b.owner_id = $1 OR b.visibility = 'public' OR g.user_id IS NOT NULL)
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern neutralizes ILIKE metacharacters in the user's term
// so the SQL match is a literal substring match, the same predicate the
// scoring and snippet code apply in Go.
func escapeLikePattern(term string) string {
	return likeEscaper.Replace(term)
}

func (r *searchRepository) SearchCards(ctx context.Context, term string, boardIDs []int64, f SearchFilters, limit int) ([]*SearchRow, error) {
	query := `
		SELECT c.card_id, c.column_id, c.board_id, c.title, COALESCE(c.description, ''), c.assignee_id, c.creator_id,
		       c.priority, COALESCE(c.color, ''), c.position, c.due_date, c.created_at, c.updated_at, c.deleted_at,
		       b.name, col.name
		FROM cards c
		JOIN boards b ON b.board_id = c.board_id
		JOIN columns col ON col.column_id = c.column_id
		WHERE c.deleted_at IS NULL
		  AND b.deleted_at IS NULL
		  AND c.board_id = ANY($1)
		  AND (c.title ILIKE $2 OR c.description ILIKE $2 OR b.name ILIKE $2 OR col.name ILIKE $2)`
	args := []any{boardIDs, "%" + escapeLikePattern(term) + "%"}

	if f.BoardID != nil {
		args = append(args, *f.BoardID)
		query += fmt.Sprintf(" AND c.board_id = $%d", len(args))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		query += fmt.Sprintf(" AND LOWER(col.name) = LOWER($%d)", len(args))
	}
	if f.Priority != nil {
		args = append(args, *f.Priority)
		query += fmt.Sprintf(" AND c.priority = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY c.created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*SearchRow
	for rows.Next() {
		var sr SearchRow
		c := &sr.Card
		if err := rows.Scan(
			&c.ID, &c.ColumnID, &c.BoardID, &c.Title, &c.Description, &c.AssigneeID, &c.CreatorID,
			&c.Priority, &c.Color, &c.Position, &c.DueDate, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
			&sr.BoardName, &sr.StatusName,
		); err != nil {
			return nil, err
		}
		results = append(results, &sr)
	}
	return results, rows.Err()
}
