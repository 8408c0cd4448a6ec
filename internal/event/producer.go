package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/farmdiary/api/internal/domain"
	pkgkafka "github.com/farmdiary/api/pkg/kafka"
)

// Kafka topic constants for diary domain events.
const (
	TopicUserRegistered = "farmdiary.user.registered"
	TopicDiaryCreated   = "farmdiary.diary.created"
	TopicDiaryDeleted   = "farmdiary.diary.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeUser  = "user"
	AggregateTypeDiary = "diary"
)

// Source identifier for events originating from this service.
const SourceDiaryAPI = "farmdiary-api"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// DiaryCreatedData is the payload for a diary.created event.
type DiaryCreatedData struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"user_id"`
	Title   string `json:"title"`
	Weather string `json:"weather"`
}

// DiaryDeletedData is the payload for a diary.deleted event.
type DiaryDeletedData struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

// Producer publishes diary domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:       user.ID,
		Nickname: user.Nickname,
		Email:    user.Email,
		Role:     user.Role,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, strconv.FormatInt(user.ID, 10), AggregateTypeUser, SourceDiaryAPI, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// PublishDiaryCreated publishes a diary.created event.
func (p *Producer) PublishDiaryCreated(ctx context.Context, diary *domain.Diary) error {
	data := DiaryCreatedData{
		ID:      diary.ID,
		UserID:  diary.UserID,
		Title:   diary.Title,
		Weather: string(diary.Weather),
	}

	event, err := pkgkafka.NewEvent(TopicDiaryCreated, strconv.FormatInt(diary.ID, 10), AggregateTypeDiary, SourceDiaryAPI, data)
	if err != nil {
		return fmt.Errorf("create diary.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicDiaryCreated, event); err != nil {
		return fmt.Errorf("publish diary.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published diary.created event",
		slog.Int64("diary_id", diary.ID),
		slog.Int64("user_id", diary.UserID),
	)

	return nil
}

// PublishDiaryDeleted publishes a diary.deleted event.
func (p *Producer) PublishDiaryDeleted(ctx context.Context, diaryID, userID int64) error {
	data := DiaryDeletedData{
		ID:     diaryID,
		UserID: userID,
	}

	event, err := pkgkafka.NewEvent(TopicDiaryDeleted, strconv.FormatInt(diaryID, 10), AggregateTypeDiary, SourceDiaryAPI, data)
	if err != nil {
		return fmt.Errorf("create diary.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicDiaryDeleted, event); err != nil {
		return fmt.Errorf("publish diary.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published diary.deleted event",
		slog.Int64("diary_id", diaryID),
		slog.Int64("user_id", userID),
	)

	return nil
}
