package auth

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/domain"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

type fakeTaskStore struct {
	ownership map[string]*domain.TaskOwnership
}

func (f *fakeTaskStore) GetOwnership(_ context.Context, id string) (*domain.TaskOwnership, error) {
	if o, ok := f.ownership[id]; ok {
		return o, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeCommentStore struct {
	authors map[string]string
}

func (f *fakeCommentStore) GetAuthorEmail(_ context.Context, id string) (string, error) {
	if a, ok := f.authors[id]; ok {
		return a, nil
	}
	return "", pgx.ErrNoRows
}

func strPtr(s string) *string { return &s }

func newTestPolicy() *Policy {
	tasks := &fakeTaskStore{ownership: map[string]*domain.TaskOwnership{
		"task-1": {AuthorEmail: "author@example.com", AssigneeEmail: strPtr("assignee@example.com")},
		"task-2": {AuthorEmail: "author@example.com", AssigneeEmail: nil},
	}}
	comments := &fakeCommentStore{authors: map[string]string{
		"comment-1": "author@example.com",
	}}
	return NewPolicy(tasks, comments, zap.NewNop())
}

func TestAuthorizeAnonymousDenied(t *testing.T) {
	p := newTestPolicy()

	decision, err := p.Authorize(context.Background(), nil, p.CommentAuthor("comment-1"))
	require.NoError(t, err)
	assert.False(t, decision.Allow)
	assert.Equal(t, ReasonDenied, decision.Reason)
}

func TestAuthorizeAdminBypass(t *testing.T) {
	p := newTestPolicy()
	admin := &Principal{Email: "admin@example.com", Role: domain.RoleAdmin}

	preds := map[string]Predicate{
		"comment author":          p.CommentAuthor("comment-1"),
		"missing comment":         p.CommentAuthor("comment-missing"),
		"task assignee":           p.TaskAssignee("task-1"),
		"missing task":            p.TaskAssignee("task-missing"),
		"task author or assignee": p.TaskAuthorOrAssignee("task-1"),
		"role gate only":          nil,
	}
	for name, pred := range preds {
		t.Run(name, func(t *testing.T) {
			decision, err := p.Authorize(context.Background(), admin, pred)
			require.NoError(t, err)
			assert.True(t, decision.Allow)
			assert.Equal(t, ReasonRoleAdmin, decision.Reason)
		})
	}
}

func TestAuthorizeRoleGateDeniesUser(t *testing.T) {
	p := newTestPolicy()
	user := &Principal{Email: "author@example.com", Role: domain.RoleUser}

	decision, err := p.Authorize(context.Background(), user, nil)
	require.NoError(t, err)
	assert.False(t, decision.Allow)
}

func TestCommentAuthorPredicate(t *testing.T) {
	p := newTestPolicy()

	t.Run("author allowed", func(t *testing.T) {
		decision, err := p.CommentAuthor("comment-1")(context.Background(), "author@example.com")
		require.NoError(t, err)
		assert.True(t, decision.Allow)
		assert.Equal(t, ReasonOwnerMatch, decision.Reason)
	})

	t.Run("other user denied", func(t *testing.T) {
		decision, err := p.CommentAuthor("comment-1")(context.Background(), "other@example.com")
		require.NoError(t, err)
		assert.False(t, decision.Allow)
	})

	t.Run("missing comment surfaces not-found", func(t *testing.T) {
		decision, err := p.CommentAuthor("comment-missing")(context.Background(), "author@example.com")
		require.Error(t, err)
		assert.False(t, decision.Allow)

		var de *apperrors.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, 404, de.HTTPStatus)
	})
}

func TestTaskAssigneePredicate(t *testing.T) {
	p := newTestPolicy()

	t.Run("assignee allowed", func(t *testing.T) {
		decision, err := p.TaskAssignee("task-1")(context.Background(), "assignee@example.com")
		require.NoError(t, err)
		assert.True(t, decision.Allow)
		assert.Equal(t, ReasonAssigneeMatch, decision.Reason)
	})

	t.Run("author is not assignee", func(t *testing.T) {
		decision, err := p.TaskAssignee("task-1")(context.Background(), "author@example.com")
		require.NoError(t, err)
		assert.False(t, decision.Allow)
	})

	t.Run("unassigned task denies everyone", func(t *testing.T) {
		decision, err := p.TaskAssignee("task-2")(context.Background(), "assignee@example.com")
		require.NoError(t, err)
		assert.False(t, decision.Allow)
	})

	t.Run("missing task denies without error", func(t *testing.T) {
		decision, err := p.TaskAssignee("task-missing")(context.Background(), "assignee@example.com")
		require.NoError(t, err)
		assert.False(t, decision.Allow)
		assert.Equal(t, ReasonDenied, decision.Reason)
	})
}

func TestTaskAuthorOrAssigneePredicate(t *testing.T) {
	p := newTestPolicy()
	pred := p.TaskAuthorOrAssignee("task-1")

	t.Run("author allowed", func(t *testing.T) {
		decision, err := pred(context.Background(), "author@example.com")
		require.NoError(t, err)
		assert.True(t, decision.Allow)
		assert.Equal(t, ReasonOwnerMatch, decision.Reason)
	})

	t.Run("assignee allowed", func(t *testing.T) {
		decision, err := pred(context.Background(), "assignee@example.com")
		require.NoError(t, err)
		assert.True(t, decision.Allow)
		assert.Equal(t, ReasonAssigneeMatch, decision.Reason)
	})

	t.Run("other user denied", func(t *testing.T) {
		decision, err := pred(context.Background(), "stranger@example.com")
		require.NoError(t, err)
		assert.False(t, decision.Allow)
	})

	t.Run("missing task denies without error", func(t *testing.T) {
		decision, err := p.TaskAuthorOrAssignee("task-missing")(context.Background(), "author@example.com")
		require.NoError(t, err)
		assert.False(t, decision.Allow)
	})
}
