package domain

// Column is an ordered lane within a board. Position is a dense integer
// unique within the board for freshly seeded boards; moves write the
// caller-supplied position directly and may leave collisions (see
// repository.ColumnRepository.Move).
type Column struct {
	ID       int64  `db:"column_id" json:"id"`
	BoardID  int64  `db:"board_id" json:"board_id"`
	Name     string `db:"name" json:"name"`
	Color    string `db:"color" json:"color,omitempty"`
	Position int    `db:"position" json:"position"`
	WIPLimit *int   `db:"wip_limit" json:"wip_limit,omitempty"`
}

// DefaultColumnNames are seeded, in this order, for every new board.
var DefaultColumnNames = [3]string{"todo", "doing", "done"}
