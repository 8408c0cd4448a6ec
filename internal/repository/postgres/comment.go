package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/farmdiary/api/internal/domain"
	"github.com/farmdiary/api/pkg/database"
	apperrors "github.com/farmdiary/api/pkg/errors"
)

// CommentRepository implements repository.CommentRepository using PostgreSQL.
type CommentRepository struct {
	db database.DBTX
}

// NewCommentRepository creates a new PostgreSQL-backed comment repository.
func NewCommentRepository(db database.DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a new comment into the database and fills in the generated ID.
func (r *CommentRepository) Create(ctx context.Context, c *domain.DiaryComment) error {
	query := `
		INSERT INTO diary_comments (diary_id, user_id, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		c.DiaryID,
		c.UserID,
		c.Comment,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by its ID.
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*domain.DiaryComment, error) {
	query := `
		SELECT c.id, c.diary_id, c.user_id, c.comment, u.nickname, c.created_at, c.updated_at
		FROM diary_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1`

	var c domain.DiaryComment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.DiaryID,
		&c.UserID,
		&c.Comment,
		&c.AuthorNickname,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}

	return &c, nil
}

// ListByDiaryID returns one page of comments for a diary, oldest first,
// plus the total count.
func (r *CommentRepository) ListByDiaryID(ctx context.Context, diaryID int64, limit, offset int) ([]domain.DiaryComment, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM diary_comments WHERE diary_id = $1`
	if err := r.db.QueryRow(ctx, countQuery, diaryID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	query := `
		SELECT c.id, c.diary_id, c.user_id, c.comment, u.nickname, c.created_at, c.updated_at
		FROM diary_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.diary_id = $1
		ORDER BY c.created_at ASC, c.id ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, diaryID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.DiaryComment
	for rows.Next() {
		var c domain.DiaryComment
		if err := rows.Scan(
			&c.ID,
			&c.DiaryID,
			&c.UserID,
			&c.Comment,
			&c.AuthorNickname,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comment rows: %w", err)
	}

	if comments == nil {
		comments = []domain.DiaryComment{}
	}

	return comments, total, nil
}

// Update modifies an existing comment in the database.
func (r *CommentRepository) Update(ctx context.Context, c *domain.DiaryComment) error {
	c.UpdatedAt = time.Now().UTC()

	query := `UPDATE diary_comments SET comment = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.db.Exec(ctx, query, c.Comment, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("comment", c.ID)
	}

	return nil
}

// Delete removes a comment by its ID.
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM diary_comments WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("comment", id)
	}

	return nil
}
