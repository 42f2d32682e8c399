package domain

import "time"

// Visibility is the board-level default access class.
type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityInternal Visibility = "internal"
	VisibilityPublic   Visibility = "public"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityInternal, VisibilityPublic:
		return true
	}
	return false
}

// Board is the top-level kanban container. Boards are never physically
// deleted; DeletedAt marks a soft delete and all default read paths filter
// deleted boards out.
type Board struct {
	ID          int64      `db:"board_id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Slug        string     `db:"slug" json:"slug,omitempty"`
	Description string     `db:"description" json:"description,omitempty"`
	OwnerID     int64      `db:"owner_id" json:"owner_id"`
	Visibility  Visibility `db:"visibility" json:"visibility"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// Deleted reports whether the board has been soft-deleted.
func (b *Board) Deleted() bool {
	return b.DeletedAt != nil
}
