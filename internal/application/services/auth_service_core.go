package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	config "github.com/avatarctic/user-management-service/configs"
	"github.com/avatarctic/user-management-service/internal/core/domain/activity"
	"github.com/avatarctic/user-management-service/internal/core/domain/auth"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/core/ports"
)

type AuthService struct {
	userSvc     ports.UserService
	activitySvc ports.ActivityService
	jwtConfig   *config.JWTConfig
	logger      *logrus.Logger
}

// NewAuthService builds the token issuer. activitySvc may be nil, in which case logins are not recorded.
func NewAuthService(userSvc ports.UserService, activitySvc ports.ActivityService, jwtConfig *config.JWTConfig, logger *logrus.Logger) ports.AuthService {
	return &AuthService{
		userSvc:     userSvc,
		activitySvc: activitySvc,
		jwtConfig:   jwtConfig,
		logger:      logger,
	}
}

func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest, ipAddress, userAgent string) (*auth.Token, error) {
	found, err := s.userSvc.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if !found.IsActive {
		return nil, user.ErrInactiveUser
	}

	token, err := s.GenerateToken(found)
	if err != nil {
		return nil, err
	}

	if s.activitySvc != nil {
		s.activitySvc.LogAction(ctx, found.ID, activity.ActionLogin, "User logged in", ipAddress, userAgent)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": found.ID}).Info("user logged in")
	}

	return &auth.Token{AccessToken: token, TokenType: auth.TokenTypeBearer}, nil
}

func (s *AuthService) ResolveUser(ctx context.Context, claims *auth.Claims) (*user.User, error) {
	if claims == nil || claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	u, err := s.userSvc.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, user.ErrInactiveUser
	}
	return u, nil
}
