package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/farmdiary/api/internal/service"
	"github.com/farmdiary/api/pkg/pagination"
	"github.com/farmdiary/api/pkg/validator"
)

// CommentHandler handles HTTP requests for diary comment endpoints.
type CommentHandler struct {
	service *service.CommentService
	logger  *slog.Logger
}

// NewCommentHandler creates a new comment HTTP handler.
func NewCommentHandler(svc *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{service: svc, logger: logger}
}

// CommentRequest is the JSON request body for creating or updating a comment.
type CommentRequest struct {
	Comment string `json:"comment" validate:"required,min=1,max=255"`
}

func (h *CommentHandler) decode(w http.ResponseWriter, r *http.Request) (CommentRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, err)
		return CommentRequest{}, false
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return CommentRequest{}, false
	}
	return req, true
}

// Create handles POST /api/v1/diaries/{diaryId}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	diaryID, ok := parseIDParam(r, "diaryId")
	if !ok {
		writeBadIDParam(w, "diary id")
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	comment, err := h.service.Create(r.Context(), principal.UserID, diaryID, req.Comment)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: idResponse{ID: comment.ID}})
}

// List handles GET /api/v1/diaries/{diaryId}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	diaryID, ok := parseIDParam(r, "diaryId")
	if !ok {
		writeBadIDParam(w, "diary id")
		return
	}

	result, err := h.service.ListByDiary(r.Context(), diaryID, pagination.FromRequest(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: result})
}

// Update handles PUT /api/v1/diaries/{diaryId}/comments/{commentId}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	diaryID, ok := parseIDParam(r, "diaryId")
	if !ok {
		writeBadIDParam(w, "diary id")
		return
	}
	commentID, ok := parseIDParam(r, "commentId")
	if !ok {
		writeBadIDParam(w, "comment id")
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	comment, err := h.service.Update(r.Context(), principal.UserID, diaryID, commentID, req.Comment)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: idResponse{ID: comment.ID}})
}

// Delete handles DELETE /api/v1/diaries/{diaryId}/comments/{commentId}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	diaryID, ok := parseIDParam(r, "diaryId")
	if !ok {
		writeBadIDParam(w, "diary id")
		return
	}
	commentID, ok := parseIDParam(r, "commentId")
	if !ok {
		writeBadIDParam(w, "comment id")
		return
	}

	if err := h.service.Delete(r.Context(), principal.UserID, diaryID, commentID); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: idResponse{ID: commentID}})
}
