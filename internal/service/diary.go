package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/farmdiary/api/internal/domain"
	"github.com/farmdiary/api/internal/event"
	"github.com/farmdiary/api/internal/repository"
	apperrors "github.com/farmdiary/api/pkg/errors"
	"github.com/farmdiary/api/pkg/pagination"
)

// maxTitleLength bounds the diary title.
const maxTitleLength = 255

// DiaryService implements the business logic for diary operations.
type DiaryService struct {
	diaryRepo repository.DiaryRepository
	producer  *event.Producer
	logger    *slog.Logger
}

// NewDiaryService creates a new diary service.
func NewDiaryService(
	diaryRepo repository.DiaryRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *DiaryService {
	return &DiaryService{
		diaryRepo: diaryRepo,
		producer:  producer,
		logger:    logger,
	}
}

// CreateDiaryInput holds the parameters for creating a diary entry.
type CreateDiaryInput struct {
	Title         string
	WorkDay       time.Time
	Field         string
	Crop          string
	Temperature   float64
	Weather       string
	Precipitation float64
	WorkDetail    string
}

// UpdateDiaryInput holds the parameters for a partial diary update.
type UpdateDiaryInput struct {
	Title         *string
	WorkDay       *time.Time
	Field         *string
	Crop          *string
	Temperature   *float64
	Weather       *string
	Precipitation *float64
	WorkDetail    *string
}

// Create validates and stores a new diary entry for the user.
func (s *DiaryService) Create(ctx context.Context, userID int64, input CreateDiaryInput) (*domain.Diary, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}
	if input.WorkDay.IsZero() {
		return nil, apperrors.InvalidInput("work day is required")
	}
	if err := validateWorkDay(input.WorkDay); err != nil {
		return nil, err
	}
	if input.Precipitation < 0 {
		return nil, apperrors.InvalidInput("precipitation must not be negative")
	}

	weather, err := domain.ParseWeather(input.Weather)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	now := time.Now().UTC()
	diary := &domain.Diary{
		UserID:        userID,
		Title:         input.Title,
		WorkDay:       input.WorkDay,
		Field:         input.Field,
		Crop:          input.Crop,
		Temperature:   input.Temperature,
		Weather:       weather,
		Precipitation: input.Precipitation,
		WorkDetail:    input.WorkDetail,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.diaryRepo.Create(ctx, diary); err != nil {
		return nil, fmt.Errorf("create diary: %w", err)
	}

	// Publish creation event (non-blocking on failure).
	if err := s.producer.PublishDiaryCreated(ctx, diary); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish diary.created event",
			slog.Int64("diary_id", diary.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "diary created",
		slog.Int64("diary_id", diary.ID),
		slog.Int64("user_id", userID),
	)

	return diary, nil
}

// Get retrieves a single diary entry with its author's nickname.
func (s *DiaryService) Get(ctx context.Context, id int64) (*domain.Diary, error) {
	diary, err := s.diaryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get diary: %w", err)
	}
	return diary, nil
}

// List returns one page of diaries, newest first, optionally filtered by
// title and author nickname.
func (s *DiaryService) List(ctx context.Context, search domain.DiarySearch, params pagination.Params) (pagination.Result[domain.Diary], error) {
	diaries, total, err := s.diaryRepo.List(ctx, search, params.PerPage, params.Offset)
	if err != nil {
		return pagination.Result[domain.Diary]{}, fmt.Errorf("list diaries: %w", err)
	}
	return pagination.NewResult(diaries, int(total), params), nil
}

// Update applies a partial update to a diary. Only the author may modify it.
func (s *DiaryService) Update(ctx context.Context, userID, diaryID int64, input UpdateDiaryInput) (*domain.Diary, error) {
	diary, err := s.diaryRepo.GetByID(ctx, diaryID)
	if err != nil {
		return nil, fmt.Errorf("get diary for update: %w", err)
	}

	if diary.UserID != userID {
		return nil, apperrors.Forbidden("only the author can modify this diary")
	}

	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return nil, err
		}
		diary.Title = *input.Title
	}
	if input.WorkDay != nil {
		if err := validateWorkDay(*input.WorkDay); err != nil {
			return nil, err
		}
		diary.WorkDay = *input.WorkDay
	}
	if input.Field != nil {
		diary.Field = *input.Field
	}
	if input.Crop != nil {
		diary.Crop = *input.Crop
	}
	if input.Temperature != nil {
		diary.Temperature = *input.Temperature
	}
	if input.Weather != nil {
		weather, err := domain.ParseWeather(*input.Weather)
		if err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
		diary.Weather = weather
	}
	if input.Precipitation != nil {
		if *input.Precipitation < 0 {
			return nil, apperrors.InvalidInput("precipitation must not be negative")
		}
		diary.Precipitation = *input.Precipitation
	}
	if input.WorkDetail != nil {
		diary.WorkDetail = *input.WorkDetail
	}

	if err := s.diaryRepo.Update(ctx, diary); err != nil {
		return nil, fmt.Errorf("update diary: %w", err)
	}

	s.logger.InfoContext(ctx, "diary updated",
		slog.Int64("diary_id", diary.ID),
		slog.Int64("user_id", userID),
	)

	return diary, nil
}

// Delete removes a diary and its comments. Only the author may delete it.
func (s *DiaryService) Delete(ctx context.Context, userID, diaryID int64) error {
	diary, err := s.diaryRepo.GetByID(ctx, diaryID)
	if err != nil {
		return fmt.Errorf("get diary for delete: %w", err)
	}

	if diary.UserID != userID {
		return apperrors.Forbidden("only the author can delete this diary")
	}

	if err := s.diaryRepo.Delete(ctx, diaryID); err != nil {
		return fmt.Errorf("delete diary: %w", err)
	}

	if err := s.producer.PublishDiaryDeleted(ctx, diaryID, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish diary.deleted event",
			slog.Int64("diary_id", diaryID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "diary deleted",
		slog.Int64("diary_id", diaryID),
		slog.Int64("user_id", userID),
	)

	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return apperrors.InvalidInput("title is required")
	}
	if len(title) > maxTitleLength {
		return apperrors.InvalidInput(fmt.Sprintf("title must not exceed %d characters", maxTitleLength))
	}
	return nil
}

// validateWorkDay rejects work days more than one day in the future, leaving
// room for timezone skew between client and server.
func validateWorkDay(workDay time.Time) error {
	if workDay.After(time.Now().UTC().AddDate(0, 0, 1)) {
		return apperrors.InvalidInput("work day must not be in the future")
	}
	return nil
}
