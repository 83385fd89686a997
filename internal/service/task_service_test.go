package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

type memoryTaskRepo struct {
	byID  map[string]*domain.Task
	users *memoryUserRepo
}

func newMemoryTaskRepo(users *memoryUserRepo) *memoryTaskRepo {
	return &memoryTaskRepo{byID: make(map[string]*domain.Task), users: users}
}

func (m *memoryTaskRepo) Create(_ context.Context, task *domain.Task) error {
	task.ID = uuid.NewString()
	copied := *task
	m.byID[task.ID] = &copied
	return nil
}

func (m *memoryTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := m.byID[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *task
	m.byID[task.ID] = &copied
	return nil
}

func (m *memoryTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	if task, ok := m.byID[id]; ok {
		copied := *task
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryTaskRepo) List(_ context.Context, _, _ int) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, t := range m.byID {
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (m *memoryTaskRepo) ListByAuthor(_ context.Context, authorID string, _, _ int) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, t := range m.byID {
		if t.AuthorID == authorID {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

func (m *memoryTaskRepo) ListByAssignee(_ context.Context, assigneeID string, _, _ int) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, t := range m.byID {
		if t.AssigneeID != nil && *t.AssigneeID == assigneeID {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

func (m *memoryTaskRepo) GetOwnership(ctx context.Context, id string) (*domain.TaskOwnership, error) {
	task, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	author, err := m.users.GetByID(ctx, task.AuthorID)
	if err != nil {
		return nil, err
	}
	ownership := &domain.TaskOwnership{AuthorEmail: author.Email}
	if task.AssigneeID != nil {
		if assignee, err := m.users.GetByID(ctx, *task.AssigneeID); err == nil {
			ownership.AssigneeEmail = &assignee.Email
		}
	}
	return ownership, nil
}

type capturingDispatcher struct {
	events []events.Event
}

func (c *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	c.events = append(c.events, event)
	return nil
}

func (c *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

type taskFixture struct {
	svc        *TaskService
	users      *memoryUserRepo
	tasks      *memoryTaskRepo
	dispatched *capturingDispatcher
	author     *domain.User
	assignee   *domain.User
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	users := newMemoryUserRepo()
	seedUser(t, users, "author@example.com", "secret", domain.RoleUser)
	seedUser(t, users, "assignee@example.com", "secret", domain.RoleUser)

	tasks := newMemoryTaskRepo(users)
	dispatched := &capturingDispatcher{}
	return &taskFixture{
		svc:        NewTaskService(tasks, users, dispatched, zap.NewNop()),
		users:      users,
		tasks:      tasks,
		dispatched: dispatched,
		author:     users.byEmail["author@example.com"],
		assignee:   users.byEmail["assignee@example.com"],
	}
}

func (f *taskFixture) createTask(t *testing.T, assigneeID *string) *domain.Task {
	t.Helper()
	task, err := f.svc.Create(context.Background(), "author@example.com", TaskCreateInput{
		Title:      "write release notes",
		Status:     domain.TaskStatusPending,
		Priority:   domain.TaskPriorityMedium,
		AuthorID:   f.author.ID,
		AssigneeID: assigneeID,
	})
	require.NoError(t, err)
	return task
}

func TestTaskCreate(t *testing.T) {
	f := newTaskFixture(t)

	task := f.createTask(t, &f.assignee.ID)
	assert.NotEmpty(t, task.ID)
	require.NotNil(t, task.AssigneeID)
	assert.Equal(t, f.assignee.ID, *task.AssigneeID)

	require.Len(t, f.dispatched.events, 1)
	assert.Equal(t, events.EventTaskCreated, f.dispatched.events[0].Type)
	assert.Equal(t, "author@example.com", f.dispatched.events[0].Actor)
}

func TestTaskCreateUnknownAssigneeDropped(t *testing.T) {
	f := newTaskFixture(t)

	ghost := uuid.NewString()
	task := f.createTask(t, &ghost)
	assert.Nil(t, task.AssigneeID)
}

func TestTaskCreateUnknownAuthor(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.svc.Create(context.Background(), "x@example.com", TaskCreateInput{
		Title:    "orphan",
		Status:   domain.TaskStatusPending,
		Priority: domain.TaskPriorityLow,
		AuthorID: uuid.NewString(),
	})
	requireNotFound(t, err)
}

func TestTaskCreateInvalidEnums(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.svc.Create(context.Background(), "author@example.com", TaskCreateInput{
		Title:    "bad status",
		Status:   "DONE",
		Priority: domain.TaskPriorityLow,
		AuthorID: f.author.ID,
	})
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 400, de.HTTPStatus)

	_, err = f.svc.Create(context.Background(), "author@example.com", TaskCreateInput{
		Title:    "bad priority",
		Status:   domain.TaskStatusPending,
		Priority: "URGENT",
		AuthorID: f.author.ID,
	})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 400, de.HTTPStatus)
}

func TestTaskUpdateUnknownAssigneeRejected(t *testing.T) {
	// Create drops an unknown assignee; Update refuses it.
	f := newTaskFixture(t)
	task := f.createTask(t, nil)

	ghost := uuid.NewString()
	_, err := f.svc.Update(context.Background(), "author@example.com", task.ID, TaskUpdateInput{
		Title:      task.Title,
		Status:     task.Status,
		Priority:   task.Priority,
		AssigneeID: &ghost,
	})
	requireNotFound(t, err)
}

func TestTaskUpdateStatusPublishesTransition(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, nil)
	f.dispatched.events = nil

	updated, err := f.svc.UpdateStatus(context.Background(), "assignee@example.com", task.ID, domain.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)

	require.Len(t, f.dispatched.events, 1)
	payload, ok := f.dispatched.events[0].Payload.(events.TaskStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TaskStatusPending, payload.OldStatus)
	assert.Equal(t, domain.TaskStatusInProgress, payload.NewStatus)
}

func TestTaskUpdateStatusUnknownTask(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), "a@example.com", uuid.NewString(), domain.TaskStatusCompleted)
	requireNotFound(t, err)
}

func TestTaskUpdateAssignee(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, nil)
	f.dispatched.events = nil

	updated, err := f.svc.UpdateAssignee(context.Background(), "author@example.com", task.ID, f.assignee.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, f.assignee.ID, *updated.AssigneeID)

	require.Len(t, f.dispatched.events, 1)
	assert.Equal(t, events.EventTaskAssigned, f.dispatched.events[0].Type)

	ownership, err := f.tasks.GetOwnership(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "author@example.com", ownership.AuthorEmail)
	require.NotNil(t, ownership.AssigneeEmail)
	assert.Equal(t, "assignee@example.com", *ownership.AssigneeEmail)
}

func TestTaskDelete(t *testing.T) {
	f := newTaskFixture(t)
	task := f.createTask(t, nil)

	require.NoError(t, f.svc.Delete(context.Background(), task.ID))
	_, err := f.svc.GetByID(context.Background(), task.ID)
	requireNotFound(t, err)

	requireNotFound(t, f.svc.Delete(context.Background(), task.ID))
}
