package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind identifies why a presented token was rejected. The set is closed;
// handlers switch on it to render distinct diagnostics, and clients rely on
// KindExpired to decide between refreshing and re-authenticating.
type Kind string

const (
	KindMissing          Kind = "missing"
	KindMalformed        Kind = "malformed"
	KindSignatureInvalid Kind = "signature_invalid"
	KindExpired          Kind = "expired"
	KindUnsupported      Kind = "unsupported"
	KindOther            Kind = "other"
)

// Error is a token validation failure tagged with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("token %s", e.Kind)
	}
	return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure Kind from an error returned by the codec.
// Errors that did not originate from token validation map to KindOther.
func KindOf(err error) Kind {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return KindOther
}

// TokenKind selects which expiry duration a minted token gets.
type TokenKind int

const (
	TokenAccess TokenKind = iota
	TokenRefresh
)

// Codec mints and validates signed HS256 tokens. It is stateless: validity
// is derived entirely from the signature and the embedded expiry, so the
// codec is safe for concurrent use.
type Codec struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewCodec creates a codec with the given signing secret and expiry
// durations for access and refresh tokens.
func NewCodec(secret string, accessExpiry, refreshExpiry time.Duration) *Codec {
	return &Codec{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// Mint creates a signed token for the subject. kind selects the access or
// refresh expiry duration.
func (c *Codec) Mint(subject string, kind TokenKind) (string, error) {
	expiry := c.accessExpiry
	if kind == TokenRefresh {
		expiry = c.refreshExpiry
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		Issuer:    "farmdiary-api",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// RefreshExpiry returns the refresh token lifetime. The token store's TTL
// must be fed from the same value so the stored record and the embedded
// expiry stay in lockstep.
func (c *Codec) RefreshExpiry() time.Duration {
	return c.refreshExpiry
}

// Subject parses and validates the token and returns its subject. On
// failure the returned error is always a *Error carrying the Kind.
func (c *Codec) Subject(tokenString string) (string, error) {
	claims, err := c.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Validate parses and validates the token, discarding the subject. It
// performs exactly the same checks as Subject.
func (c *Codec) Validate(tokenString string) error {
	_, err := c.parse(tokenString)
	return err
}

var errUnexpectedMethod = errors.New("unexpected signing method")

// parse is the single parse-and-verify primitive behind Subject and
// Validate. Every failure path is classified into a Kind here.
func (c *Codec) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", errUnexpectedMethod, token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, &Error{Kind: classify(err), Err: err}
	}
	if !token.Valid {
		return nil, &Error{Kind: KindOther, Err: errors.New("invalid token")}
	}

	return claims, nil
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return KindMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return KindSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return KindExpired
	case errors.Is(err, errUnexpectedMethod), errors.Is(err, jwt.ErrTokenUnverifiable):
		return KindUnsupported
	default:
		return KindOther
	}
}
