package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"backend-template/internal/auth"
	"backend-template/internal/domain"
	"backend-template/internal/repository"
)

// LoginResult is a signed session token together with the account it belongs to.
type LoginResult struct {
	Token auth.IssuedToken
	User  *domain.User
}

// AuthService authenticates credentials and bearer tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Authenticate validates a bearer token and returns its claims.
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthOptions tunes token authentication.
type AuthOptions struct {
	// RevokeInactive makes Authenticate confirm that the token subject is
	// still an active account, at the cost of one lookup per request.
	RevokeInactive bool
}

type authService struct {
	users    repository.UserRepository
	verifier *auth.CredentialVerifier
	tokens   *auth.TokenManager
	opts     AuthOptions
	logger   logrus.FieldLogger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, opts AuthOptions, logger logrus.FieldLogger) AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &authService{
		users:    users,
		verifier: auth.NewCredentialVerifier(users),
		tokens:   tokens,
		opts:     opts,
		logger:   logger.WithField("component", "auth_service"),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	log := s.logger.WithField("email", email)

	user, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			log.Warn("authentication failed")
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	log.WithField("user_id", user.ID).Info("user logged in")
	return &LoginResult{Token: token, User: sanitizeUser(user)}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	if !s.opts.RevokeInactive {
		return claims, nil
	}

	if _, err := s.users.FindActiveByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.WithField("user_id", claims.UserID).Info("rejecting token of inactive account")
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	return claims, nil
}
