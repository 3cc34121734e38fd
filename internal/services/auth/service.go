package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jfmcewan/gamehub/internal/dependencies/clock"
	"github.com/jfmcewan/gamehub/internal/dependencies/random"
	"github.com/jfmcewan/gamehub/internal/model"
	"github.com/jfmcewan/gamehub/internal/services/mailer"
	"github.com/jfmcewan/gamehub/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidToken       = errors.New("invalid verification token")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Session represents an authenticated session
type Session struct {
	Token     string
	UserID    model.UserID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	SessionTTL     time.Duration
	BcryptCost     int
	MinPasswordLen int
	BaseURL        string
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionTTL:     7 * 24 * time.Hour,
		BcryptCost:     bcrypt.DefaultCost,
		MinPasswordLen: 8,
		BaseURL:        "http://localhost:8080",
	}
}

// Service handles registration, login and session management
type Service struct {
	storage storage.Store
	clock   clock.Clock
	random  random.Random
	mailer  mailer.Mailer
	logger  *slog.Logger
	cfg     Config

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New creates a new auth service
func New(store storage.Store, clk clock.Clock, rnd random.Random, m mailer.Mailer, logger *slog.Logger, cfg Config) *Service {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = DefaultConfig().SessionTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.MinPasswordLen == 0 {
		cfg.MinPasswordLen = DefaultConfig().MinPasswordLen
	}
	return &Service{
		storage:  store,
		clock:    clk,
		random:   rnd,
		mailer:   m,
		logger:   logger,
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Register creates a new account and an initial session. A verification
// email is sent out of band; a delivery failure does not fail the
// registration.
func (s *Service) Register(ctx context.Context, username, email, password string) (*model.User, *Session, error) {
	if !usernamePattern.MatchString(username) {
		return nil, nil, ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, ErrInvalidEmail
	}
	if len(password) < s.cfg.MinPasswordLen {
		return nil, nil, ErrWeakPassword
	}

	if _, err := s.storage.GetUserByUsername(ctx, username); err == nil {
		return nil, nil, model.ErrUserExists
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, nil, err
	}
	if _, err := s.storage.GetUserByEmail(ctx, email); err == nil {
		return nil, nil, model.ErrUserExists
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:           model.UserID(uuid.NewString()),
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Status:       model.StatusOffline,
		VerifyToken:  s.random.String(32, tokenAlphabet),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, nil, err
	}

	verifyURL := fmt.Sprintf("%s/api/auth/verify?uid=%s&token=%s", s.cfg.BaseURL, user.ID, user.VerifyToken)
	if err := s.mailer.SendVerification(ctx, user.Email, user.Username, verifyURL); err != nil {
		s.logger.Warn("failed to send verification email", "user_id", user.ID, "error", err)
	}

	session := s.createSession(user.ID)
	return user, session, nil
}

// Login authenticates by username or email and creates a session
func (s *Service) Login(ctx context.Context, identifier, password string) (*model.User, *Session, error) {
	user, err := s.storage.GetUserByUsername(ctx, identifier)
	if errors.Is(err, model.ErrUserNotFound) {
		user, err = s.storage.GetUserByEmail(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if user.IsBanned {
		return nil, nil, model.ErrUserBanned
	}

	now := s.clock.Now()
	user.LastOnline = &now
	user.UpdatedAt = now
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, nil, err
	}

	session := s.createSession(user.ID)
	return user, session, nil
}

// VerifyEmail marks an account verified when the token matches
func (s *Service) VerifyEmail(ctx context.Context, userID model.UserID, token string) (*model.User, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return user, nil
	}
	if token == "" || user.VerifyToken != token {
		return nil, ErrInvalidToken
	}

	user.IsVerified = true
	user.VerifyToken = ""
	user.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword re-hashes the password after checking the current one
func (s *Service) ChangePassword(ctx context.Context, userID model.UserID, current, next string) error {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if len(next) < s.cfg.MinPasswordLen {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = s.clock.Now()
	return s.storage.SaveUser(ctx, user)
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// InvalidateUserSessions removes every session belonging to a user.
// Used when an account is banned.
func (s *Service) InvalidateUserSessions(userID model.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
		}
	}
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

func (s *Service) createSession(userID model.UserID) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     "sess_" + s.random.String(32, tokenAlphabet),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}
