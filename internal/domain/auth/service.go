package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/visitswap/visitswap-api/internal/domain/user"
	"github.com/visitswap/visitswap-api/internal/pkg/email"
	"github.com/visitswap/visitswap-api/internal/pkg/jwt"
	"github.com/visitswap/visitswap-api/internal/pkg/password"
)

// Notifier sends account emails without blocking the caller
type Notifier interface {
	Queue(to, toName, templateName, subject string, data map[string]string)
}

// Service handles account business logic
type Service struct {
	userRepo    user.Repository
	jwtService  *jwt.Service
	notifier    Notifier
	frontendURL string
	resetTTL    time.Duration
	now         func() time.Time
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service, notifier Notifier, frontendURL string, resetTTL time.Duration) *Service {
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &Service{
		userRepo:    userRepo,
		jwtService:  jwtService,
		notifier:    notifier,
		frontendURL: frontendURL,
		resetTTL:    resetTTL,
		now:         time.Now,
	}
}

// Register creates an unverified account and sends the verification link
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*user.User, error) {
	req.Email = normalizeEmail(req.Email)

	// 1. Check if email exists
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	// 2. Hash password
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	// 3. Create user
	now := s.now().UTC()
	token := newToken()
	u := &user.User{
		ID:                uuid.New(),
		Name:              req.Name,
		Email:             req.Email,
		PasswordHash:      hash,
		VerificationToken: sql.NullString{String: token, Valid: true},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	// 4. Send verification link, delivery failures do not undo registration
	s.notifier.Queue(u.Email, u.Name, email.TemplateVerification, "Verify your email", map[string]string{
		"UserName":  u.Name,
		"VerifyURL": s.frontendURL + "/verify/" + token,
	})

	log.Info().Str("user_id", u.ID.String()).Msg("User registered")
	return u, nil
}

// Verify consumes a verification token
func (s *Service) Verify(ctx context.Context, token string) (*user.User, error) {
	u, err := s.userRepo.VerifyByToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, user.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Msg("Email verified")
	return u, nil
}

// Login checks credentials of a verified user and issues a session token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.Verified || !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthResponse{
		Token:     token,
		ExpiresIn: int(s.jwtService.TTL().Seconds()),
		User:      UserResponseFromEntity(u),
	}, nil
}

// ForgotPassword issues a single-use reset token and mails the link
func (s *Service) ForgotPassword(ctx context.Context, address string) error {
	u, err := s.userRepo.GetByEmail(ctx, normalizeEmail(address))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	now := s.now().UTC()
	token := newToken()
	if err := s.userRepo.SetResetToken(ctx, u.ID, token, now.Add(s.resetTTL), now); err != nil {
		return err
	}

	s.notifier.Queue(u.Email, u.Name, email.TemplatePasswordReset, "Reset your password", map[string]string{
		"UserName":  u.Name,
		"ResetURL":  s.frontendURL + "/reset/" + token,
		"ExpiresIn": s.resetTTL.String(),
	})

	log.Info().Str("user_id", u.ID.String()).Msg("Password reset requested")
	return nil
}

// ResetPassword replaces the password if token is valid and unexpired
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.ResetPassword(ctx, token, hash, s.now()); err != nil {
		if errors.Is(err, user.ErrTokenNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

// Me returns the current user
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// newToken returns an opaque single-use token
func newToken() string {
	return uuid.NewString()
}
