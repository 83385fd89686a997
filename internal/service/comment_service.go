package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/repository"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// CommentCreateInput carries fields for new comments.
type CommentCreateInput struct {
	Text     string
	TaskID   string
	AuthorID string
}

// CommentService coordinates comment lifecycle operations.
type CommentService struct {
	comments   repository.CommentRepository
	tasks      repository.TaskRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCommentService builds the service.
func NewCommentService(comments repository.CommentRepository, tasks repository.TaskRepository, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *CommentService {
	return &CommentService{comments: comments, tasks: tasks, users: users, dispatcher: dispatcher, logger: logger}
}

// List returns a page of all comments.
func (s *CommentService) List(ctx context.Context, limit, offset int) ([]domain.Comment, error) {
	return s.comments.List(ctx, limit, offset)
}

// ListByTask returns the comments attached to one task.
func (s *CommentService) ListByTask(ctx context.Context, taskID string, limit, offset int) ([]domain.Comment, error) {
	return s.comments.ListByTask(ctx, taskID, limit, offset)
}

// GetByID fetches a single comment.
func (s *CommentService) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", id)
		}
		return nil, err
	}
	return comment, nil
}

// Create stores a new comment; both the task and the author must exist.
func (s *CommentService) Create(ctx context.Context, actor string, input CommentCreateInput) (*domain.Comment, error) {
	if _, err := s.tasks.GetByID(ctx, input.TaskID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", input.TaskID)
		}
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, input.AuthorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("author", input.AuthorID)
		}
		return nil, err
	}

	comment := &domain.Comment{
		Text:     input.Text,
		TaskID:   input.TaskID,
		AuthorID: input.AuthorID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCommentAdded,
			TaskID:    comment.TaskID,
			Actor:     actor,
			Timestamp: time.Now(),
			Payload: events.CommentAddedPayload{
				CommentID:   comment.ID,
				AuthorID:    comment.AuthorID,
				TextPreview: preview(comment.Text, 80),
			},
		})
	}
	return comment, nil
}

// Update replaces the comment text.
func (s *CommentService) Update(ctx context.Context, id, text string) (*domain.Comment, error) {
	comment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comment.Text = text
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	if err := s.comments.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("comment", id)
		}
		return err
	}
	s.logger.Info("comment deleted", zap.String("comment_id", id))
	return nil
}

// preview truncates on a rune boundary so multi-byte text never yields an
// invalid UTF-8 fragment in event payloads.
func preview(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max])
}
