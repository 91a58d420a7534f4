package domain

import "time"

// Comment belongs to exactly one project and is immutable once created.
// Author name and role are snapshotted at creation time so later profile
// edits do not rewrite history.
type Comment struct {
	ID        string    `json:"id" bson:"_id"`
	ProjectID string    `json:"project_id" bson:"project_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	UserName  string    `json:"user_name" bson:"user_name"`
	UserRole  Role      `json:"user_role" bson:"user_role"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
