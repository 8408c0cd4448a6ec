package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/farmdiary/api/pkg/errors"
)

func TestGetProfile_Success(t *testing.T) {
	env := newTestEnv()
	user := sampleUser()
	token := env.authorize(t, user)
	env.userRepo.On("GetByID", mock.Anything, testUserID).Return(user, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", token)
	rec := env.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	var got struct {
		ID       int64  `json:"id"`
		Nickname string `json:"nickname"`
		Email    string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, testUserID, got.ID)
	assert.Equal(t, "greenfinger", got.Nickname)
	assert.Equal(t, testUserEmail, got.Email)

	// The password hash must never appear in a response body.
	assert.NotContains(t, rec.Body.String(), "password")
	env.userRepo.AssertExpectations(t)
}

func TestGetProfile_Unauthorized(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := env.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetProfile_NotFound(t *testing.T) {
	env := newTestEnv()
	token := env.authorize(t, sampleUser())
	env.userRepo.On("GetByID", mock.Anything, testUserID).
		Return(nil, apperrors.NotFound("user", testUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", token)
	rec := env.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestGetProfile_InternalError(t *testing.T) {
	env := newTestEnv()
	token := env.authorize(t, sampleUser())
	env.userRepo.On("GetByID", mock.Anything, testUserID).Return(nil, assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", token)
	rec := env.do(req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
