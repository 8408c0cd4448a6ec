package repository

import (
	"context"
	"time"

	"github.com/farmdiary/api/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user and fills in the generated ID.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their identifier.
	Delete(ctx context.Context, id int64) error
}

// DiaryRepository defines the interface for diary persistence operations.
type DiaryRepository interface {
	// Create inserts a new diary and fills in the generated ID.
	Create(ctx context.Context, diary *domain.Diary) error

	// GetByID retrieves a diary with its author's nickname.
	GetByID(ctx context.Context, id int64) (*domain.Diary, error)

	// List returns one page of diaries, newest first, optionally filtered
	// by title and author nickname, plus the total matching count.
	List(ctx context.Context, search domain.DiarySearch, limit, offset int) ([]domain.Diary, int64, error)

	// Update modifies an existing diary in the store.
	Update(ctx context.Context, diary *domain.Diary) error

	// Delete removes a diary and its comments by its identifier.
	Delete(ctx context.Context, id int64) error
}

// CommentRepository defines the interface for diary comment persistence operations.
type CommentRepository interface {
	// Create inserts a new comment and fills in the generated ID.
	Create(ctx context.Context, comment *domain.DiaryComment) error

	// GetByID retrieves a comment by its unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.DiaryComment, error)

	// ListByDiaryID returns one page of comments for the diary, oldest
	// first, plus the total count.
	ListByDiaryID(ctx context.Context, diaryID int64, limit, offset int) ([]domain.DiaryComment, int64, error)

	// Update modifies an existing comment in the store.
	Update(ctx context.Context, comment *domain.DiaryComment) error

	// Delete removes a comment from the store by its identifier.
	Delete(ctx context.Context, id int64) error
}

// RefreshTokenStore persists at most one live refresh token per user with a
// time-to-live enforced by the store itself.
type RefreshTokenStore interface {
	// Upsert atomically replaces the stored token for the user. The TTL
	// must equal the refresh expiry the token was minted with.
	Upsert(ctx context.Context, userID int64, token string, ttl time.Duration) error

	// Find returns the stored token for the user, or ErrNotFound when no
	// record exists or its TTL has elapsed.
	Find(ctx context.Context, userID int64) (string, error)

	// Delete removes the stored token for the user, if any.
	Delete(ctx context.Context, userID int64) error
}
