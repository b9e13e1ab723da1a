package ports

import (
	"context"
	"time"

	"github.com/avatarctic/user-management-service/internal/core/domain/user"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	// Update persists the profile fields of u
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, skip, limit int) ([]*user.User, error)
	ListByCountries(ctx context.Context, countries []string, skip, limit int) ([]*user.User, error)
	ListCreatedBetween(ctx context.Context, start, end time.Time) ([]*user.User, error)
}

// UserService defines the interface for user business logic
type UserService interface {
	Register(ctx context.Context, req *user.CreateUserRequest) (*user.User, error)
	CreateSuperuser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error)
	GetUser(ctx context.Context, id int64) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	ListUsers(ctx context.Context, q user.ListQuery) ([]*user.User, error)
	ListCreatedToday(ctx context.Context) ([]*user.User, error)
	ListCreatedBetween(ctx context.Context, start, end time.Time) ([]*user.User, error)
	UpdateUser(ctx context.Context, id int64, req *user.UpdateUserRequest) (*user.User, error)
	DeleteUser(ctx context.Context, id int64) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	Statistics(ctx context.Context, id int64) (*user.Statistics, error)
}
