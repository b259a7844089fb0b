package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"stock-api/internal/auth"
	"stock-api/internal/domain"
	"stock-api/internal/metrics"
	"stock-api/internal/repository"
)

const (
	eventLogin    = "login"
	eventRegister = "register"
)

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer issues and validates bearer tokens.
type TokenIssuer interface {
	Issue(sub auth.Subject) (string, error)
	ExtractSubject(token string) (string, bool)
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	ID       string
	Name     string
	LastName string
	Email    string
	Password string
}

// AuthService authenticates users and guards requests.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	ValidateToken(token string) (string, bool)
}

type authService struct {
	users   repository.UserRepository
	hasher  PasswordHasher
	tokens  TokenIssuer
	metrics *metrics.Metrics
	logger  logrus.FieldLogger
}

func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, m *metrics.Metrics, logger logrus.FieldLogger) AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &authService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		metrics: m,
		logger:  logger.WithField("component", "auth"),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.metrics.AuthEvent(eventLogin, metrics.OutcomeError)
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	// unknown email and wrong password are indistinguishable to the caller
	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		s.metrics.AuthEvent(eventLogin, metrics.OutcomeFailure)
		s.logger.WithField("email", strings.ToLower(strings.TrimSpace(email))).Info("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Subject{ID: user.ID, Email: user.Email})
	if err != nil {
		s.metrics.AuthEvent(eventLogin, metrics.OutcomeError)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	out := user.Sanitized()
	out.Token = token
	s.metrics.AuthEvent(eventLogin, metrics.OutcomeSuccess)
	s.logger.WithField("user_id", user.ID).Info("user logged in")
	return out, nil
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		s.metrics.AuthEvent(eventRegister, metrics.OutcomeError)
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		s.metrics.AuthEvent(eventRegister, metrics.OutcomeFailure)
		return nil, &domain.UserAlreadyExistsError{Email: strings.ToLower(strings.TrimSpace(in.Email))}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.metrics.AuthEvent(eventRegister, metrics.OutcomeFailure)
			return nil, err
		}
		s.metrics.AuthEvent(eventRegister, metrics.OutcomeError)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := domain.NewUser(in.ID, in.Name, in.LastName, in.Email, hash)
	if err != nil {
		s.metrics.AuthEvent(eventRegister, metrics.OutcomeFailure)
		return nil, err
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			s.metrics.AuthEvent(eventRegister, metrics.OutcomeFailure)
			return nil, err
		}
		s.metrics.AuthEvent(eventRegister, metrics.OutcomeError)
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.AuthEvent(eventRegister, metrics.OutcomeSuccess)
	s.logger.WithField("user_id", created.ID).Info("user registered")

	out := created.Sanitized()
	out.Token = ""
	return out, nil
}

func (s *authService) ValidateToken(token string) (string, bool) {
	return s.tokens.ExtractSubject(token)
}
