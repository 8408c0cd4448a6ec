package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmdiary/api/internal/auth"
	"github.com/farmdiary/api/internal/domain"
	"github.com/farmdiary/api/internal/event"
	"github.com/farmdiary/api/internal/service"
	"github.com/farmdiary/api/pkg/health"
	pkgkafka "github.com/farmdiary/api/pkg/kafka"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockDiaryRepo struct {
	mock.Mock
}

func (m *mockDiaryRepo) Create(ctx context.Context, diary *domain.Diary) error {
	args := m.Called(ctx, diary)
	return args.Error(0)
}

func (m *mockDiaryRepo) GetByID(ctx context.Context, id int64) (*domain.Diary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Diary), args.Error(1)
}

func (m *mockDiaryRepo) List(ctx context.Context, search domain.DiarySearch, limit, offset int) ([]domain.Diary, int64, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Diary), args.Get(1).(int64), args.Error(2)
}

func (m *mockDiaryRepo) Update(ctx context.Context, diary *domain.Diary) error {
	args := m.Called(ctx, diary)
	return args.Error(0)
}

func (m *mockDiaryRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *domain.DiaryComment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id int64) (*domain.DiaryComment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiaryComment), args.Error(1)
}

func (m *mockCommentRepo) ListByDiaryID(ctx context.Context, diaryID int64, limit, offset int) ([]domain.DiaryComment, int64, error) {
	args := m.Called(ctx, diaryID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.DiaryComment), args.Get(1).(int64), args.Error(2)
}

func (m *mockCommentRepo) Update(ctx context.Context, comment *domain.DiaryComment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockTokenStore struct {
	mock.Mock
}

func (m *mockTokenStore) Upsert(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	args := m.Called(ctx, userID, token, ttl)
	return args.Error(0)
}

func (m *mockTokenStore) Find(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockTokenStore) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// ============================================================================
// Test Environment
// ============================================================================

const testUserID = int64(42)
const testUserEmail = "farmer@example.com"

func handlerTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func handlerTestCodec() *auth.Codec {
	return auth.NewCodec("handler-test-secret-key", 15*time.Minute, 7*24*time.Hour)
}

func handlerTestEventProducer() *event.Producer {
	logger := handlerTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

// testEnv wires mock repositories through the real services into the real
// router, including the authentication middleware with a real token codec.
type testEnv struct {
	userRepo    *mockUserRepo
	diaryRepo   *mockDiaryRepo
	commentRepo *mockCommentRepo
	tokenStore  *mockTokenStore
	codec       *auth.Codec
	router      http.Handler
}

func newTestEnv() *testEnv {
	logger := handlerTestLogger()
	producer := handlerTestEventProducer()
	codec := handlerTestCodec()

	userRepo := new(mockUserRepo)
	diaryRepo := new(mockDiaryRepo)
	commentRepo := new(mockCommentRepo)
	tokenStore := new(mockTokenStore)

	router := NewRouter(RouterDeps{
		UserService:    service.NewUserService(userRepo, producer, logger),
		TokenService:   service.NewTokenService(userRepo, tokenStore, codec, logger),
		DiaryService:   service.NewDiaryService(diaryRepo, producer, logger),
		CommentService: service.NewCommentService(commentRepo, diaryRepo, logger),
		Codec:          codec,
		LoadPrincipal:  userRepo.GetByEmail,
		HealthHandler:  health.NewHandler(),
		Logger:         logger,
		CORS:           CORSConfig{Environment: "development"},
	})

	return &testEnv{
		userRepo:    userRepo,
		diaryRepo:   diaryRepo,
		commentRepo: commentRepo,
		tokenStore:  tokenStore,
		codec:       codec,
		router:      router,
	}
}

func sampleUser() *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("SecurePass123"), bcrypt.MinCost)
	now := time.Now().UTC()
	return &domain.User{
		ID:            testUserID,
		Nickname:      "greenfinger",
		Email:         testUserEmail,
		PasswordHash:  string(hash),
		Role:          domain.RoleUser,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func sampleDiary() *domain.Diary {
	now := time.Now().UTC()
	return &domain.Diary{
		ID:             10,
		UserID:         testUserID,
		Title:          "Transplanted tomato seedlings",
		WorkDay:        now.AddDate(0, 0, -1),
		Field:          "east greenhouse",
		Crop:           "tomato",
		Temperature:    21.5,
		Weather:        domain.WeatherSunny,
		Precipitation:  0,
		WorkDetail:     "moved 120 seedlings into beds 3 and 4",
		AuthorNickname: "greenfinger",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// authorize mints a valid access token for the sample user and registers the
// principal lookup the auth middleware will perform.
func (e *testEnv) authorize(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := e.codec.Mint(user.Email, auth.TokenAccess)
	require.NoError(t, err)
	e.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	return "Bearer " + token
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func jsonBody(s string) io.Reader {
	return bytes.NewReader([]byte(s))
}

type testResponse struct {
	Data  json.RawMessage `json:"data"`
	Error *errorResponse  `json:"error"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}
