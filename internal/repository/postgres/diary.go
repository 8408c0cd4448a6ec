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

// DiaryRepository implements repository.DiaryRepository using PostgreSQL.
type DiaryRepository struct {
	db database.DBTX
}

// NewDiaryRepository creates a new PostgreSQL-backed diary repository.
func NewDiaryRepository(db database.DBTX) *DiaryRepository {
	return &DiaryRepository{db: db}
}

// Create inserts a new diary into the database and fills in the generated ID.
func (r *DiaryRepository) Create(ctx context.Context, d *domain.Diary) error {
	query := `
		INSERT INTO diaries (user_id, title, work_day, field, crop, temperature, weather, precipitation, work_detail, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		d.UserID,
		d.Title,
		d.WorkDay,
		d.Field,
		d.Crop,
		d.Temperature,
		string(d.Weather),
		d.Precipitation,
		d.WorkDetail,
		d.CreatedAt,
		d.UpdatedAt,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("insert diary: %w", err)
	}

	return nil
}

// GetByID retrieves a diary joined with its author's nickname.
func (r *DiaryRepository) GetByID(ctx context.Context, id int64) (*domain.Diary, error) {
	query := `
		SELECT d.id, d.user_id, d.title, d.work_day, d.field, d.crop, d.temperature, d.weather, d.precipitation, d.work_detail, u.nickname, d.created_at, d.updated_at
		FROM diaries d
		JOIN users u ON u.id = d.user_id
		WHERE d.id = $1`

	var d domain.Diary
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.UserID,
		&d.Title,
		&d.WorkDay,
		&d.Field,
		&d.Crop,
		&d.Temperature,
		&d.Weather,
		&d.Precipitation,
		&d.WorkDetail,
		&d.AuthorNickname,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan diary: %w", err)
	}

	return &d, nil
}

// List returns one page of diaries, newest first, with optional title and
// nickname filters, plus the total matching count.
func (r *DiaryRepository) List(ctx context.Context, search domain.DiarySearch, limit, offset int) ([]domain.Diary, int64, error) {
	where := `WHERE ($1 = '' OR d.title ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR u.nickname ILIKE '%' || $2 || '%')`

	countQuery := `
		SELECT COUNT(*)
		FROM diaries d
		JOIN users u ON u.id = d.user_id
		` + where

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, search.Title, search.Nickname).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count diaries: %w", err)
	}

	query := `
		SELECT d.id, d.user_id, d.title, d.work_day, d.field, d.crop, d.temperature, d.weather, d.precipitation, d.work_detail, u.nickname, d.created_at, d.updated_at
		FROM diaries d
		JOIN users u ON u.id = d.user_id
		` + where + `
		ORDER BY d.created_at DESC, d.id DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, search.Title, search.Nickname, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list diaries: %w", err)
	}
	defer rows.Close()

	var diaries []domain.Diary
	for rows.Next() {
		var d domain.Diary
		if err := rows.Scan(
			&d.ID,
			&d.UserID,
			&d.Title,
			&d.WorkDay,
			&d.Field,
			&d.Crop,
			&d.Temperature,
			&d.Weather,
			&d.Precipitation,
			&d.WorkDetail,
			&d.AuthorNickname,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan diary row: %w", err)
		}
		diaries = append(diaries, d)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate diary rows: %w", err)
	}

	if diaries == nil {
		diaries = []domain.Diary{}
	}

	return diaries, total, nil
}

// Update modifies an existing diary in the database.
func (r *DiaryRepository) Update(ctx context.Context, d *domain.Diary) error {
	d.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE diaries
		SET title = $1, work_day = $2, field = $3, crop = $4, temperature = $5,
		    weather = $6, precipitation = $7, work_detail = $8, updated_at = $9
		WHERE id = $10`

	ct, err := r.db.Exec(ctx, query,
		d.Title,
		d.WorkDay,
		d.Field,
		d.Crop,
		d.Temperature,
		string(d.Weather),
		d.Precipitation,
		d.WorkDetail,
		d.UpdatedAt,
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("update diary: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("diary", d.ID)
	}

	return nil
}

// Delete removes a diary by its ID. Comments go with it via ON DELETE CASCADE.
func (r *DiaryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM diaries WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete diary: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("diary", id)
	}

	return nil
}
