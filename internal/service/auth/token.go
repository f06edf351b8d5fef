// Package auth resolves bearer tokens into principals.
//
// Login, sessions and password handling live in the external identity
// provider; this package only verifies the JWT it issued and hands the core
// an already-authenticated principal. Admins are recognized by the role
// claim, never by comparing credentials here.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried in the token
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

const (
	defaultAccessTokenTTL = 15 * time.Minute
	defaultSigningMethod  = "HS256"
)

var (
	ErrNoToken      = errors.New("no bearer token in request")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Principal is an authenticated caller as the identity provider described it
type Principal struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
	Role        string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type accessTokenClaims struct {
	jwt.RegisteredClaims
	UserID      uuid.UUID `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"name"`
	Role        string    `json:"role"`
}

// Token manager with sensible defaults
type Config struct {
	// Secret key shared with the identity provider
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access token lifetime used when issuing
	// If not set than default is used
	AccessTTL time.Duration
}

type TokenManager struct {
	key       string
	alg       jwt.SigningMethod
	accessTTL time.Duration
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = defaultAccessTokenTTL
	}

	return &TokenManager{
		key:       cfg.SecretKey,
		alg:       jwt.GetSigningMethod(cfg.Alg),
		accessTTL: cfg.AccessTTL,
	}, nil
}

// Issue signs a token for the principal. The production issuer is the
// identity provider; this is used by tests and operator tooling.
func (m *TokenManager) Issue(p Principal) (string, error) {
	now := time.Now().Truncate(time.Second)

	token := jwt.NewWithClaims(
		m.alg,
		accessTokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			},
			UserID:      p.UserID,
			Email:       p.Email,
			DisplayName: p.DisplayName,
			Role:        p.Role,
		},
	)

	signed, err := token.SignedString([]byte(m.key))
	if err != nil {
		return "", fmt.Errorf("error while signing access token. Err: %w", err)
	}

	return signed, nil
}

// Parse verifies the signed token and returns its principal
func (m *TokenManager) Parse(tokenString string) (Principal, error) {
	var claims accessTokenClaims

	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	role := claims.Role
	if role == "" {
		role = RoleCustomer
	}

	return Principal{
		UserID:      claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		Role:        role,
	}, nil
}

// FromRequest extracts and verifies the bearer token of an http request
func (m *TokenManager) FromRequest(r *http.Request) (Principal, error) {
	header := r.Header.Get("Authorization")

	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenString == "" {
		return Principal{}, ErrNoToken
	}

	return m.Parse(tokenString)
}
