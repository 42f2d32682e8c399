package ws

// Event types pushed to subscribed board views.
const (
	EventCardCreated   = "card_created"
	EventCardUpdated   = "card_updated"
	EventCardMoved     = "card_moved"
	EventCardDeleted   = "card_deleted"
	EventCommentAdded  = "comment_added"
	EventColumnAdded   = "column_added"
	EventColumnMoved   = "column_moved"
	EventColumnUpdated = "column_updated"
	EventBoardUpdated  = "board_updated"
)

// Event is a change notification for an open board view. It tells the
// client to refresh; it carries identifiers, not entity payloads.
type Event struct {
	Type     string `json:"type"`
	BoardID  int64  `json:"board_id"`
	CardID   int64  `json:"card_id,omitempty"`
	ColumnID int64  `json:"column_id,omitempty"`
	ActorID  int64  `json:"actor_id,omitempty"`
}
