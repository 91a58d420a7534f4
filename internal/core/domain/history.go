package domain

import "time"

// HistoryEntry is one immutable audit record of an action taken on a project.
// The ledger is append-only; entries are never updated or deleted.
type HistoryEntry struct {
	ID        string         `json:"id" bson:"_id"`
	ProjectID string         `json:"project_id" bson:"project_id"`
	UserID    string         `json:"user_id" bson:"user_id"`
	UserName  string         `json:"user_name" bson:"user_name"`
	Action    string         `json:"action" bson:"action"`
	OldStatus *ProjectStatus `json:"old_status,omitempty" bson:"old_status,omitempty"`
	NewStatus *ProjectStatus `json:"new_status,omitempty" bson:"new_status,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}
