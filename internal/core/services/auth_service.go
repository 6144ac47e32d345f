package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/buildra/construction_finance_app/internal/apperrors"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
	"github.com/buildra/construction_finance_app/internal/middleware"
	"github.com/buildra/construction_finance_app/internal/utils"
)

// ErrInvalidCredentials is returned on login failure. It deliberately does
// not distinguish an unknown username from a wrong PIN.
var ErrInvalidCredentials = errors.New("invalid username or PIN")

// authService validates PIN logins and issues bearer tokens.
type authService struct {
	userRepo    portsrepo.UserRepository
	jwtSecret   string
	tokenExpiry time.Duration
	issuer      string
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo portsrepo.UserRepository, jwtSecret string, tokenExpiry time.Duration, issuer string) portssvc.AuthSvcFacade {
	return &authService{userRepo: userRepo, jwtSecret: jwtSecret, tokenExpiry: tokenExpiry, issuer: issuer}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Login failed: unknown username", slog.String("username", req.Username))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		logger.Warn("Login rejected: user inactive", slog.String("user_id", user.UserID))
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPINHash(req.PIN, user.PINHash) {
		logger.Warn("Login failed: wrong PIN", slog.String("user_id", user.UserID))
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.UserID, s.jwtSecret, s.tokenExpiry, s.issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{Token: token, UserID: user.UserID, Name: user.Name}, nil
}
