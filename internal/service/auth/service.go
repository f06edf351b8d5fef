package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/boostbd/smmpanel/internal/models"
)

type userEnsurer interface {
	EnsureUser(ctx context.Context, id uuid.UUID, email string, displayName string) (models.User, error)
}

// Service resolves an incoming request into a stored profile plus the
// principal the token described. The profile row is created on first sight.
type Service struct {
	tokens *TokenManager
	users  userEnsurer
}

func NewService(tokens *TokenManager, users userEnsurer) *Service {
	return &Service{
		tokens: tokens,
		users:  users,
	}
}

func (s *Service) Auth(ctx context.Context, r *http.Request) (models.User, Principal, error) {
	principal, err := s.tokens.FromRequest(r)
	if err != nil {
		return models.User{}, Principal{}, err
	}

	user, err := s.users.EnsureUser(ctx, principal.UserID, principal.Email, principal.DisplayName)
	if err != nil {
		return models.User{}, Principal{}, fmt.Errorf("can't ensure user profile: %w", err)
	}

	return user, principal, nil
}
