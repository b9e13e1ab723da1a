package ports

import (
	"context"

	"github.com/avatarctic/user-management-service/internal/core/domain/auth"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, req *auth.LoginRequest, ipAddress, userAgent string) (*auth.Token, error)
	GenerateToken(u *user.User) (string, error)
	ValidateToken(token string) (*auth.Claims, error)
	// ResolveUser maps a validated token to its active user
	ResolveUser(ctx context.Context, claims *auth.Claims) (*user.User, error)
}
