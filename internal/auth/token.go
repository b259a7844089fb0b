package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const DefaultTokenTTL = 30 * time.Minute

// TokenConfig holds the process-wide signing settings.
type TokenConfig struct {
	Secret    string
	Algorithm string
	TTL       time.Duration
}

// Subject identifies who a token is issued to.
type Subject struct {
	ID    string
	Email string
}

// Claims is the payload carried by access tokens.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// FailureReason classifies why a token was rejected. It is only used for
// logging; callers of Verify see a plain false.
type FailureReason string

const (
	ReasonNone          FailureReason = ""
	ReasonMalformed     FailureReason = "malformed"
	ReasonSignature     FailureReason = "signature"
	ReasonExpired       FailureReason = "expired"
	ReasonInvalidClaims FailureReason = "invalid_claims"
)

// TokenService issues and verifies signed bearer tokens.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewTokenService validates cfg and builds a token service. Only HMAC
// algorithms are accepted.
func NewTokenService(cfg TokenConfig, logger logrus.FieldLogger) (*TokenService, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("token secret is required")
	}
	alg := strings.ToUpper(strings.TrimSpace(cfg.Algorithm))
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", cfg.Algorithm)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &TokenService{
		secret: []byte(cfg.Secret),
		method: method,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}, nil
}

// TTL returns the default token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for sub that expires after the configured TTL.
func (s *TokenService) Issue(sub Subject) (string, error) {
	return s.IssueWithTTL(sub, s.ttl)
}

// IssueWithTTL signs a token for sub expiring at now+ttl. A non-positive ttl
// yields a token that is already expired.
func (s *TokenService) IssueWithTTL(sub Subject, ttl time.Duration) (string, error) {
	if sub.ID == "" {
		return "", errors.New("token subject is required")
	}

	now := s.now()
	claims := Claims{
		Email: sub.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. Every failure is reported as
// (nil, false).
func (s *TokenService) Verify(token string) (*Claims, bool) {
	claims, reason := s.verify(token)
	if reason != ReasonNone {
		s.logger.WithField("reason", string(reason)).Debug("token rejected")
		return nil, false
	}
	return claims, true
}

// ExtractSubject returns the subject id of a valid token.
func (s *TokenService) ExtractSubject(token string) (string, bool) {
	claims, ok := s.Verify(token)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}

func (s *TokenService) verify(token string) (*Claims, FailureReason) {
	if strings.TrimSpace(token) == "" {
		return nil, ReasonMalformed
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ReasonInvalidClaims
	}
	return claims, ReasonNone
}

func (s *TokenService) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
	}
	return s.secret, nil
}

func classify(err error) FailureReason {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	default:
		return ReasonInvalidClaims
	}
}
