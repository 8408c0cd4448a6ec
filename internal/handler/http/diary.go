package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/farmdiary/api/internal/domain"
	"github.com/farmdiary/api/internal/service"
	"github.com/farmdiary/api/pkg/pagination"
	"github.com/farmdiary/api/pkg/validator"
)

// DiaryHandler handles HTTP requests for farm diary endpoints.
type DiaryHandler struct {
	service *service.DiaryService
	logger  *slog.Logger
}

// NewDiaryHandler creates a new diary HTTP handler.
func NewDiaryHandler(svc *service.DiaryService, logger *slog.Logger) *DiaryHandler {
	return &DiaryHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateDiaryRequest is the JSON request body for creating a diary entry.
type CreateDiaryRequest struct {
	Title         string  `json:"title" validate:"required,min=1,max=255"`
	WorkDay       string  `json:"work_day" validate:"required"`
	Field         string  `json:"field" validate:"omitempty,max=255"`
	Crop          string  `json:"crop" validate:"omitempty,max=255"`
	Temperature   float64 `json:"temperature"`
	Weather       string  `json:"weather" validate:"omitempty,len=3"`
	Precipitation float64 `json:"precipitation" validate:"gte=0"`
	WorkDetail    string  `json:"work_detail" validate:"omitempty,max=2000"`
}

// UpdateDiaryRequest is the JSON request body for partially updating a diary entry.
type UpdateDiaryRequest struct {
	Title         *string  `json:"title" validate:"omitempty,min=1,max=255"`
	WorkDay       *string  `json:"work_day"`
	Field         *string  `json:"field" validate:"omitempty,max=255"`
	Crop          *string  `json:"crop" validate:"omitempty,max=255"`
	Temperature   *float64 `json:"temperature"`
	Weather       *string  `json:"weather" validate:"omitempty,len=3"`
	Precipitation *float64 `json:"precipitation" validate:"omitempty,gte=0"`
	WorkDetail    *string  `json:"work_detail" validate:"omitempty,max=2000"`
}

// idResponse is the minimal body returned by write operations.
type idResponse struct {
	ID int64 `json:"id"`
}

// --- Helpers ---

func parseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeBadIDParam(w http.ResponseWriter, name string) {
	writeJSON(w, http.StatusBadRequest, response{
		Error: &errorResponse{Code: "INVALID_INPUT", Message: name + " must be a positive integer"},
	})
}

// parseWorkDay accepts either a bare date or a full RFC 3339 timestamp.
func parseWorkDay(value string) (time.Time, bool) {
	if day, err := time.Parse("2006-01-02", value); err == nil {
		return day, true
	}
	if day, err := time.Parse(time.RFC3339, value); err == nil {
		return day, true
	}
	return time.Time{}, false
}

// --- Handlers ---

// Create handles POST /api/v1/diaries
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreateDiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	workDay, ok := parseWorkDay(req.WorkDay)
	if !ok {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "work_day must be a date like 2026-08-29"},
		})
		return
	}

	diary, err := h.service.Create(r.Context(), principal.UserID, service.CreateDiaryInput{
		Title:         req.Title,
		WorkDay:       workDay,
		Field:         req.Field,
		Crop:          req.Crop,
		Temperature:   req.Temperature,
		Weather:       req.Weather,
		Precipitation: req.Precipitation,
		WorkDetail:    req.WorkDetail,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: idResponse{ID: diary.ID}})
}

// Get handles GET /api/v1/diaries/{id}
func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeBadIDParam(w, "diary id")
		return
	}

	diary, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: diary})
}

// List handles GET /api/v1/diaries
func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	search := domain.DiarySearch{
		Title:    r.URL.Query().Get("title"),
		Nickname: r.URL.Query().Get("nickname"),
	}

	result, err := h.service.List(r.Context(), search, params)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: result})
}

// Update handles PATCH /api/v1/diaries/{id}
func (h *DiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	id, ok := parseIDParam(r, "id")
	if !ok {
		writeBadIDParam(w, "diary id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req UpdateDiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := service.UpdateDiaryInput{
		Title:         req.Title,
		Field:         req.Field,
		Crop:          req.Crop,
		Temperature:   req.Temperature,
		Weather:       req.Weather,
		Precipitation: req.Precipitation,
		WorkDetail:    req.WorkDetail,
	}
	if req.WorkDay != nil {
		workDay, ok := parseWorkDay(*req.WorkDay)
		if !ok {
			writeJSON(w, http.StatusBadRequest, response{
				Error: &errorResponse{Code: "INVALID_INPUT", Message: "work_day must be a date like 2026-08-29"},
			})
			return
		}
		input.WorkDay = &workDay
	}

	diary, err := h.service.Update(r.Context(), principal.UserID, id, input)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: idResponse{ID: diary.ID}})
}

// Delete handles DELETE /api/v1/diaries/{id}
func (h *DiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	id, ok := parseIDParam(r, "id")
	if !ok {
		writeBadIDParam(w, "diary id")
		return
	}

	if err := h.service.Delete(r.Context(), principal.UserID, id); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: idResponse{ID: id}})
}
