package domain

import "time"

// Change types recorded in the task history ledger.
const (
	ChangeTypeCreate  = "create"
	ChangeTypeUpdate  = "update"
	ChangeTypeMove    = "move"
	ChangeTypeDelete  = "delete"
	ChangeTypeComment = "comment"
)

// Provenance captures where a change came from. Attached to every history
// entry alongside the acting user.
type Provenance struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HistoryEntry is one append-only record of a field-level change to a
// task. Entries are never mutated or deleted and survive soft deletion of
// the task they describe.
type HistoryEntry struct {
	ID         int64     `db:"history_id" json:"id"`
	TaskID     int64     `db:"task_id" json:"task_id"`
	FieldName  string    `db:"field_name" json:"field_name"`
	OldValue   string    `db:"old_value" json:"old_value"`
	NewValue   string    `db:"new_value" json:"new_value"`
	ChangedBy  int64     `db:"changed_by" json:"changed_by"`
	ChangedAt  time.Time `db:"changed_at" json:"changed_at"`
	ChangeType string    `db:"change_type" json:"change_type"`
	Reason     string    `db:"change_reason" json:"change_reason,omitempty"`
	IP         string    `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  string    `db:"user_agent" json:"user_agent,omitempty"`
	RequestID  string    `db:"request_id" json:"request_id,omitempty"`
}
