package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/farmdiary/api/internal/domain"
	"github.com/farmdiary/api/internal/repository"
	apperrors "github.com/farmdiary/api/pkg/errors"
	"github.com/farmdiary/api/pkg/pagination"
)

// maxCommentLength bounds a single comment.
const maxCommentLength = 255

// CommentService implements the business logic for diary comments.
type CommentService struct {
	commentRepo repository.CommentRepository
	diaryRepo   repository.DiaryRepository
	logger      *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(
	commentRepo repository.CommentRepository,
	diaryRepo repository.DiaryRepository,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		diaryRepo:   diaryRepo,
		logger:      logger,
	}
}

// Create adds a comment to an existing diary.
func (s *CommentService) Create(ctx context.Context, userID, diaryID int64, text string) (*domain.DiaryComment, error) {
	if err := validateComment(text); err != nil {
		return nil, err
	}

	if _, err := s.diaryRepo.GetByID(ctx, diaryID); err != nil {
		return nil, fmt.Errorf("get diary for comment: %w", err)
	}

	now := time.Now().UTC()
	comment := &domain.DiaryComment{
		DiaryID:   diaryID,
		UserID:    userID,
		Comment:   text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("diary_id", diaryID),
		slog.Int64("user_id", userID),
	)

	return comment, nil
}

// ListByDiary returns one page of comments for the diary, oldest first.
func (s *CommentService) ListByDiary(ctx context.Context, diaryID int64, params pagination.Params) (pagination.Result[domain.DiaryComment], error) {
	if _, err := s.diaryRepo.GetByID(ctx, diaryID); err != nil {
		return pagination.Result[domain.DiaryComment]{}, fmt.Errorf("get diary for comments: %w", err)
	}

	comments, total, err := s.commentRepo.ListByDiaryID(ctx, diaryID, params.PerPage, params.Offset)
	if err != nil {
		return pagination.Result[domain.DiaryComment]{}, fmt.Errorf("list comments: %w", err)
	}

	return pagination.NewResult(comments, int(total), params), nil
}

// Update edits a comment. The comment must belong to the diary in the path
// and only its author may change it.
func (s *CommentService) Update(ctx context.Context, userID, diaryID, commentID int64, text string) (*domain.DiaryComment, error) {
	if err := validateComment(text); err != nil {
		return nil, err
	}

	comment, err := s.getOwnedComment(ctx, userID, diaryID, commentID)
	if err != nil {
		return nil, err
	}

	comment.Comment = text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment updated",
		slog.Int64("comment_id", commentID),
		slog.Int64("user_id", userID),
	)

	return comment, nil
}

// Delete removes a comment. Same ownership and diary-membership rules as Update.
func (s *CommentService) Delete(ctx context.Context, userID, diaryID, commentID int64) error {
	if _, err := s.getOwnedComment(ctx, userID, diaryID, commentID); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment deleted",
		slog.Int64("comment_id", commentID),
		slog.Int64("user_id", userID),
	)

	return nil
}

// getOwnedComment loads a comment and enforces that it belongs to the given
// diary and was written by the given user.
func (s *CommentService) getOwnedComment(ctx context.Context, userID, diaryID, commentID int64) (*domain.DiaryComment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	// A comment id under the wrong diary path is treated as not found, not
	// as a hint that the comment exists elsewhere.
	if comment.DiaryID != diaryID {
		return nil, apperrors.NotFound("comment", commentID)
	}

	if comment.UserID != userID {
		return nil, apperrors.Forbidden("only the author can modify this comment")
	}

	return comment, nil
}

func validateComment(text string) error {
	if text == "" {
		return apperrors.InvalidInput("comment is required")
	}
	if len(text) > maxCommentLength {
		return apperrors.InvalidInput(fmt.Sprintf("comment must not exceed %d characters", maxCommentLength))
	}
	return nil
}
