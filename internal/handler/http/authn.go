package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/farmdiary/api/internal/auth"
	"github.com/farmdiary/api/internal/domain"
)

type contextKey string

const (
	principalContextKey   contextKey = "auth_principal"
	failureKindContextKey contextKey = "auth_failure_kind"
)

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}

// PrincipalLoader resolves a token subject to a full user record.
type PrincipalLoader func(ctx context.Context, email string) (*domain.User, error)

// Authenticate inspects the Authorization header, validates the bearer token
// and attaches the resulting Principal to the request context. It never
// terminates the request: when authentication fails it records the failure
// kind instead and lets the request continue, so that public routes work
// without a token and protected routes can render a precise 401 later.
func Authenticate(codec *auth.Codec, loadUser PrincipalLoader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			token, ok := bearerToken(header)
			if !ok {
				next.ServeHTTP(w, r.WithContext(withFailureKind(r.Context(), auth.KindMissing)))
				return
			}

			subject, err := codec.Subject(token)
			if err != nil {
				kind := auth.KindOf(err)
				logger.DebugContext(r.Context(), "token validation failed",
					slog.String("failure_kind", string(kind)),
					slog.String("path", r.URL.Path),
				)
				next.ServeHTTP(w, r.WithContext(withFailureKind(r.Context(), kind)))
				return
			}

			user, err := loadUser(r.Context(), subject)
			if err != nil {
				logger.WarnContext(r.Context(), "token subject has no matching user",
					slog.String("path", r.URL.Path),
				)
				next.ServeHTTP(w, r.WithContext(withFailureKind(r.Context(), auth.KindOther)))
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey, Principal{
				UserID: user.ID,
				Email:  user.Email,
				Role:   user.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. A missing header, a non-Bearer scheme or a blank token all count
// as no credentials at all.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func withFailureKind(ctx context.Context, kind auth.Kind) context.Context {
	return context.WithValue(ctx, failureKindContextKey, kind)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}

// FailureKindFromContext returns the recorded authentication failure kind.
func FailureKindFromContext(ctx context.Context) (auth.Kind, bool) {
	k, ok := ctx.Value(failureKindContextKey).(auth.Kind)
	return k, ok
}

// ErrorDetails is the body rendered when a protected route rejects a request.
type ErrorDetails struct {
	Timestamp time.Time   `json:"timestamp"`
	Reason    ErrorReason `json:"reason"`
	Path      string      `json:"path"`
}

// ErrorReason carries a stable machine code alongside a human message.
type ErrorReason struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

var failureReasons = map[auth.Kind]ErrorReason{
	auth.KindMissing:          {Code: "AE05", Error: "authorization token is missing"},
	auth.KindMalformed:        {Code: "AE02", Error: "authorization token is malformed"},
	auth.KindSignatureInvalid: {Code: "AE03", Error: "authorization token signature is invalid"},
	auth.KindExpired:          {Code: "AE01", Error: "authorization token has expired"},
	auth.KindUnsupported:      {Code: "AE04", Error: "authorization token type is not supported"},
	auth.KindOther:            {Code: "AE00", Error: "authorization failed"},
}

func writeAuthFailure(w http.ResponseWriter, r *http.Request, status int, reason ErrorReason) {
	writeJSON(w, status, ErrorDetails{
		Timestamp: time.Now().UTC(),
		Reason:    reason,
		Path:      r.URL.Path,
	})
}

// RequireAuth rejects requests that did not authenticate, rendering the
// failure kind recorded by Authenticate. Requests with a valid principal
// pass through untouched.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		reason := failureReasons[auth.KindOther]
		if kind, ok := FailureKindFromContext(r.Context()); ok {
			if mapped, found := failureReasons[kind]; found {
				reason = mapped
			}
		}
		writeAuthFailure(w, r, http.StatusUnauthorized, reason)
	})
}

// RequireRole rejects authenticated requests whose principal lacks the given
// role. Admins pass any role check. Unauthenticated requests get the usual 401.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := PrincipalFromContext(r.Context())
			if principal.Role != role && principal.Role != domain.RoleAdmin {
				writeAuthFailure(w, r, http.StatusForbidden, ErrorReason{
					Code:  "AE06",
					Error: "insufficient role for this operation",
				})
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
