package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-tracker/internal/domain"
)

// CommentRepository encapsulates comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	List(ctx context.Context, limit, offset int) ([]domain.Comment, error)
	ListByTask(ctx context.Context, taskID string, limit, offset int) ([]domain.Comment, error)
	GetAuthorEmail(ctx context.Context, id string) (string, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentColumns = `id, text, task_id, author_id, created_at, updated_at`

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (text, task_id, author_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		comment.Text,
		comment.TaskID,
		comment.AuthorID,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	const query = `UPDATE comments SET text=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, comment.Text, comment.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	const query = `SELECT ` + commentColumns + ` FROM comments WHERE id=$1`

	var comment domain.Comment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.Text,
		&comment.TaskID,
		&comment.AuthorID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) List(ctx context.Context, limit, offset int) ([]domain.Comment, error) {
	const query = `SELECT ` + commentColumns + ` FROM comments ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.fetchMany(ctx, query, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID string, limit, offset int) ([]domain.Comment, error) {
	const query = `SELECT ` + commentColumns + ` FROM comments WHERE task_id=$1 ORDER BY created_at LIMIT $2 OFFSET $3`
	return r.fetchMany(ctx, query, taskID, normalizeLimit(limit), normalizeOffset(offset))
}

// GetAuthorEmail resolves only the author email the access check compares
// against. Returns pgx.ErrNoRows when the comment is absent.
func (r *commentRepository) GetAuthorEmail(ctx context.Context, id string) (string, error) {
	const query = `
        SELECT u.email
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.id=$1`

	var email string
	if err := r.pool.QueryRow(ctx, query, id).Scan(&email); err != nil {
		return "", err
	}
	return email, nil
}

func (r *commentRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.Text,
			&comment.TaskID,
			&comment.AuthorID,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
