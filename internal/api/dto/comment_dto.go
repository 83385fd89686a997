package dto

import (
	"time"

	"github.com/spec-kit/task-tracker/internal/domain"
)

// CommentResponse is the outward view of a comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	TaskID    string    `json:"task_id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommentRequest payload for new comments.
type CreateCommentRequest struct {
	Text     string `json:"text"`
	TaskID   string `json:"task_id"`
	AuthorID string `json:"author_id"`
}

// UpdateCommentRequest payload for comment edits.
type UpdateCommentRequest struct {
	Text string `json:"text"`
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		Text:      comment.Text,
		TaskID:    comment.TaskID,
		AuthorID:  comment.AuthorID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// NewCommentResponses maps a slice of domain comments.
func NewCommentResponses(comments []domain.Comment) []CommentResponse {
	items := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, NewCommentResponse(&comments[i]))
	}
	return items
}
