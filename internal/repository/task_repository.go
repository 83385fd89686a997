package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-tracker/internal/domain"
)

// TaskRepository encapsulates task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, limit, offset int) ([]domain.Task, error)
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]domain.Task, error)
	ListByAssignee(ctx context.Context, assigneeID string, limit, offset int) ([]domain.Task, error)
	GetOwnership(ctx context.Context, id string) (*domain.TaskOwnership, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, title, description, status, priority, author_id, assignee_id, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (title, description, status, priority, author_id, assignee_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.AuthorID,
		task.AssigneeID,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET title=$1, description=$2, status=$3, priority=$4, assignee_id=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.AssigneeID,
		task.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1`

	var task domain.Task
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.AuthorID,
		&task.AssigneeID,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.fetchMany(ctx, query, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *taskRepository) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE author_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.fetchMany(ctx, query, authorID, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *taskRepository) ListByAssignee(ctx context.Context, assigneeID string, limit, offset int) ([]domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE assignee_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.fetchMany(ctx, query, assigneeID, normalizeLimit(limit), normalizeOffset(offset))
}

// GetOwnership resolves only the author/assignee emails the access checks
// compare against. Returns pgx.ErrNoRows when the task is absent.
func (r *taskRepository) GetOwnership(ctx context.Context, id string) (*domain.TaskOwnership, error) {
	const query = `
        SELECT author.email, assignee.email
        FROM tasks t
        JOIN users author ON author.id = t.author_id
        LEFT JOIN users assignee ON assignee.id = t.assignee_id
        WHERE t.id=$1`

	var ownership domain.TaskOwnership
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ownership.AuthorEmail,
		&ownership.AssigneeEmail,
	); err != nil {
		return nil, err
	}
	return &ownership, nil
}

func (r *taskRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.AuthorID,
			&task.AssigneeID,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}
