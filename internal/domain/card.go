package domain

import "time"

// Priority of a card.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Card is a unit of work. It belongs to exactly one column and,
// denormalized, to the owning board. Position is a dense integer within
// the column; appends take max+1, moves write the caller-supplied value.
type Card struct {
	ID          int64      `db:"card_id" json:"id"`
	ColumnID    int64      `db:"column_id" json:"column_id"`
	BoardID     int64      `db:"board_id" json:"board_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description,omitempty"`
	AssigneeID  *int64     `db:"assignee_id" json:"assignee_id,omitempty"`
	CreatorID   int64      `db:"creator_id" json:"creator_id"`
	Priority    Priority   `db:"priority" json:"priority"`
	Color       string     `db:"color" json:"color,omitempty"`
	Position    int        `db:"position" json:"position"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// Comment belongs to exactly one card. Comments are append-only: there is
// no edit or delete operation.
type Comment struct {
	ID        int64     `db:"comment_id" json:"id"`
	CardID    int64     `db:"card_id" json:"card_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
