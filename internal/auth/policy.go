package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/domain"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

// Reason explains why an access check allowed or denied.
type Reason string

const (
	ReasonRoleAdmin     Reason = "ROLE_ADMIN"
	ReasonOwnerMatch    Reason = "OWNER_MATCH"
	ReasonAssigneeMatch Reason = "ASSIGNEE_MATCH"
	ReasonDenied        Reason = "DENIED"
)

// Decision is the outcome of a single access check. Produced per check,
// never persisted.
type Decision struct {
	Allow  bool
	Reason Reason
}

var denied = Decision{Allow: false, Reason: ReasonDenied}

// Predicate decides whether the caller identified by email owns or
// participates in a specific resource.
type Predicate func(ctx context.Context, email string) (Decision, error)

// TaskOwnershipStore resolves the recorded author/assignee of a task.
type TaskOwnershipStore interface {
	GetOwnership(ctx context.Context, id string) (*domain.TaskOwnership, error)
}

// CommentOwnershipStore resolves the recorded author of a comment.
type CommentOwnershipStore interface {
	GetAuthorEmail(ctx context.Context, id string) (string, error)
}

// Policy evaluates access rules for protected operations. Lookups are
// read-only and uncached so every check sees current ownership state.
type Policy struct {
	tasks    TaskOwnershipStore
	comments CommentOwnershipStore
	logger   *zap.Logger
}

// NewPolicy constructs the policy.
func NewPolicy(tasks TaskOwnershipStore, comments CommentOwnershipStore, logger *zap.Logger) *Policy {
	return &Policy{tasks: tasks, comments: comments, logger: logger}
}

// Authorize applies role escalation before the operation's ownership
// predicate: administrators bypass every ownership check. A nil predicate
// marks a purely role-gated operation, denied outright for non-admins. An
// anonymous caller is always denied.
func (p *Policy) Authorize(ctx context.Context, principal *Principal, pred Predicate) (Decision, error) {
	if principal == nil {
		return denied, nil
	}
	if principal.IsAdmin() {
		return Decision{Allow: true, Reason: ReasonRoleAdmin}, nil
	}
	if pred == nil {
		return denied, nil
	}
	return pred(ctx, principal.Email)
}

// CommentAuthor allows the recorded author of the comment. A missing comment
// propagates as not-found rather than silently denying: the comment-scoped
// endpoints 404 before denial is meaningful.
func (p *Policy) CommentAuthor(commentID string) Predicate {
	return func(ctx context.Context, email string) (Decision, error) {
		author, err := p.comments.GetAuthorEmail(ctx, commentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				p.logger.Warn("comment not found during access check", zap.String("comment_id", commentID))
				return denied, apperrors.NewNotFound("comment", commentID)
			}
			return denied, err
		}
		if author == email {
			return Decision{Allow: true, Reason: ReasonOwnerMatch}, nil
		}
		return denied, nil
	}
}

// TaskAssignee allows the task's current assignee. A missing task denies
// instead of erroring: this predicate guards mutating endpoints where "no
// such task" and "not your task" should both simply fail authorization.
func (p *Policy) TaskAssignee(taskID string) Predicate {
	return func(ctx context.Context, email string) (Decision, error) {
		ownership, err := p.tasks.GetOwnership(ctx, taskID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				p.logger.Debug("task not found during access check", zap.String("task_id", taskID))
				return denied, nil
			}
			return denied, err
		}
		if ownership.AssigneeEmail != nil && *ownership.AssigneeEmail == email {
			return Decision{Allow: true, Reason: ReasonAssigneeMatch}, nil
		}
		return denied, nil
	}
}

// TaskAuthorOrAssignee allows the task's author or its current assignee.
// Missing tasks deny, same as TaskAssignee.
func (p *Policy) TaskAuthorOrAssignee(taskID string) Predicate {
	return func(ctx context.Context, email string) (Decision, error) {
		ownership, err := p.tasks.GetOwnership(ctx, taskID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				p.logger.Debug("task not found during access check", zap.String("task_id", taskID))
				return denied, nil
			}
			return denied, err
		}
		if ownership.AuthorEmail == email {
			return Decision{Allow: true, Reason: ReasonOwnerMatch}, nil
		}
		if ownership.AssigneeEmail != nil && *ownership.AssigneeEmail == email {
			return Decision{Allow: true, Reason: ReasonAssigneeMatch}, nil
		}
		return denied, nil
	}
}
