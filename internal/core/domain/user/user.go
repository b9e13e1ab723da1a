package user

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrEmailExists            = errors.New("email already exists")
	ErrInvalidCredentials     = errors.New("incorrect email or password")
	ErrInactiveUser           = errors.New("inactive user")
)

type User struct {
	ID             int64      `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	FullName       string     `json:"full_name" db:"full_name"`
	HashedPassword string     `json:"-" db:"hashed_password"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	IsSuperuser    bool       `json:"is_superuser" db:"is_superuser"`
	Bio            *string    `json:"bio" db:"bio"`
	Country        *string    `json:"country" db:"country"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at" db:"updated_at"`
	// RowVersion is the postgres xmin of the row when it was read
	RowVersion string `json:"_row_version,omitempty" db:"row_version"`
}

// Public is the API representation of a user.
type Public struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Bio         *string    `json:"bio"`
	Country     *string    `json:"country"`
	IsActive    bool       `json:"is_active"`
	IsSuperuser bool       `json:"is_superuser"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func (u *User) Public() Public {
	return Public{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Bio:         u.Bio,
		Country:     u.Country,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// PublicList converts users for an API response. It never returns nil.
func PublicList(users []*User) []Public {
	out := make([]Public, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}

// CreateUserRequest represents the request to register a new user
type CreateUserRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	FullName string  `json:"full_name" validate:"required,min=1,max=255"`
	Password string  `json:"password" validate:"required,min=8"`
	Bio      *string `json:"bio,omitempty"`
	Country  *string `json:"country,omitempty" validate:"omitempty,len=2"`
}

// UpdateUserRequest represents a partial update; nil fields are left unchanged
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=255"`
	Bio      *string `json:"bio,omitempty"`
	Country  *string `json:"country,omitempty" validate:"omitempty,len=2"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Apply copies the set fields onto u.
func (r *UpdateUserRequest) Apply(u *User) {
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.FullName != nil {
		u.FullName = *r.FullName
	}
	if r.Bio != nil {
		u.Bio = r.Bio
	}
	if r.Country != nil {
		u.Country = r.Country
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
	}
}

// Statistics summarises a user's activity
type Statistics struct {
	TotalActivities int        `json:"total_activities"`
	ActivitiesToday int        `json:"activities_today"`
	LastLogin       *time.Time `json:"last_login"`
	AccountAgeDays  int        `json:"account_age_days"`
}

// ListQuery selects a page of users, optionally restricted to countries
type ListQuery struct {
	Countries []string
	Skip      int
	Limit     int
}
