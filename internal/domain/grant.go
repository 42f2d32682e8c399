package domain

// PermissionLevel is an ordered access level for a board. Higher levels
// include all lower ones.
type PermissionLevel int

const (
	PermissionView  PermissionLevel = 1
	PermissionEdit  PermissionLevel = 2
	PermissionAdmin PermissionLevel = 3
)

func (l PermissionLevel) String() string {
	switch l {
	case PermissionView:
		return "view"
	case PermissionEdit:
		return "edit"
	case PermissionAdmin:
		return "admin"
	}
	return "unknown"
}

// ParsePermissionLevel maps the wire representation to a level.
func ParsePermissionLevel(s string) (PermissionLevel, bool) {
	switch s {
	case "view":
		return PermissionView, true
	case "edit":
		return PermissionEdit, true
	case "admin":
		return PermissionAdmin, true
	}
	return 0, false
}

// PermissionGrant is an explicit per-user override of board access.
// At most one active grant exists per (board, user) pair.
type PermissionGrant struct {
	BoardID int64           `db:"board_id" json:"board_id"`
	UserID  int64           `db:"user_id" json:"user_id"`
	Level   PermissionLevel `db:"level" json:"level"`
}
