package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/auth"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service turns bearer tokens into request actors. Tokens are issued by the
// identity provider; this service only validates them.
type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
	}
}

// Authenticate validates token and builds the actor. When the token carries
// no numeric user id, the id is looked up by login; an unknown login leaves
// the actor without an id.
func (s *Service) Authenticate(ctx context.Context, token string) (*auth.Actor, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	actor := &auth.Actor{
		ID:          claims.UserID,
		Login:       claims.Subject,
		Authorities: claims.Authorities,
	}
	if actor.ID != nil || actor.Login == "" {
		return actor, nil
	}

	user, err := s.userRepo.GetByLogin(ctx, actor.Login)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return actor, nil
	case err != nil:
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	id := user.ID
	actor.ID = &id
	return actor, nil
}
