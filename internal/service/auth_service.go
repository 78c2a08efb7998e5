package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/util"
)

const adminRole = "admin"

type AuthConfig struct {
	Username string
	Password string
	// PasswordHash, when set, takes precedence over Password. Accepts argon2id
	// PHC strings and bcrypt hashes.
	PasswordHash string
}

// AuthService checks the single configured admin credential pair and issues
// signed session tokens.
type AuthService struct {
	username     string
	password     string
	passwordHash string
	jwt          *util.JWTManager
}

func NewAuthService(cfg AuthConfig, jwt *util.JWTManager) *AuthService {
	return &AuthService{
		username:     strings.TrimSpace(cfg.Username),
		password:     cfg.Password,
		passwordHash: strings.TrimSpace(cfg.PasswordHash),
		jwt:          jwt,
	}
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.jwt.TTL()
}

func (s *AuthService) Login(_ context.Context, username, password string) (string, time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", time.Time{}, ErrCredentialsRequired
	}
	userOK := util.EqualConstantTime(username, s.username)
	passOK := s.passwordMatches(password)
	if !userOK || !passOK {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.jwt.Generate(s.username, adminRole)
}

func (s *AuthService) passwordMatches(password string) bool {
	if s.passwordHash != "" {
		ok, err := util.VerifyPasswordHash(password, s.passwordHash)
		if err != nil {
			log.Printf("auth: verify admin password hash: %v", err)
			return false
		}
		return ok
	}
	if s.password == "" {
		return false
	}
	return util.EqualConstantTime(password, s.password)
}

func (s *AuthService) Authenticate(_ context.Context, token string) (*domain.AdminSession, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidSession
	}
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if claims.Role != adminRole || !util.EqualConstantTime(claims.Username, s.username) {
		return nil, ErrInvalidSession
	}
	session := &domain.AdminSession{Username: claims.Username}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
