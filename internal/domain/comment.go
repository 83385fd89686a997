package domain

import "time"

// Comment is a note attached to a task by a user.
type Comment struct {
	ID        string
	Text      string
	TaskID    string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
