package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/core/ports"
	"github.com/avatarctic/user-management-service/internal/infrastructure/db"
)

const userColumns = `id, email, full_name, hashed_password, is_active, is_superuser,
	bio, country, created_at, updated_at, xmin::text AS row_version`

// UserRepository implements the user repository interface
type UserRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(database *db.Database, logger *logrus.Logger) ports.UserRepository {
	return &UserRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts u and fills in the generated ID and timestamps
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (email, full_name, hashed_password, is_active, is_superuser, bio, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, xmin::text`

	err := r.db.DB.QueryRowxContext(ctx, query,
		u.Email, u.FullName, u.HashedPassword, u.IsActive, u.IsSuperuser, u.Bio, u.Country,
	).Scan(&u.ID, &u.CreatedAt, &u.RowVersion)
	if err != nil {
		if isUniqueViolation(err, "") {
			return user.ErrEmailAlreadyRegistered
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": u.Email}).WithError(err).Error("db: failed to create user")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("db: user created")
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"user_id": id}).Debug("db: user not found by ID")
			}
			return nil, user.ErrUserNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": id}).WithError(err).Error("db: failed to get user by ID")
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	err := r.db.DB.GetContext(ctx, &u, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"email": email}).Debug("db: user not found by email")
			}
			return nil, user.ErrUserNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Error("db: failed to get user by email")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

// Update writes the profile columns of u. The password hash is never touched here.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	now := time.Now().UTC()
	query := `
		UPDATE users
		SET email = $2, full_name = $3, bio = $4, country = $5, is_active = $6, updated_at = $7
		WHERE id = $1
		RETURNING xmin::text`

	err := r.db.DB.QueryRowxContext(ctx, query,
		u.ID, u.Email, u.FullName, u.Bio, u.Country, u.IsActive, now,
	).Scan(&u.RowVersion)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{"user_id": u.ID}).Debug("db: update affected 0 rows - user not found")
			}
			return user.ErrUserNotFound
		}
		if isUniqueViolation(err, "") {
			return user.ErrEmailExists
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": u.ID}).WithError(err).Error("db: failed to update user")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	u.UpdatedAt = &now

	return nil
}

// Delete deletes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": id}).WithError(err).Error("db: failed to delete user")
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": id}).WithError(err).Error("db: failed to get rows affected on delete")
		}
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": id}).Debug("db: delete affected 0 rows - user not found")
		}
		return user.ErrUserNotFound
	}

	return nil
}

// List retrieves a page of users ordered by ID
func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]*user.User, error) {
	users := []*user.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`

	if err := r.db.DB.SelectContext(ctx, &users, query, limit, skip); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"skip": skip, "limit": limit}).WithError(err).Error("db: failed to list users")
		}
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// ListByCountries retrieves a page of users whose country is one of countries
func (r *UserRepository) ListByCountries(ctx context.Context, countries []string, skip, limit int) ([]*user.User, error) {
	users := []*user.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE country = ANY($1) ORDER BY id LIMIT $2 OFFSET $3`

	if err := r.db.DB.SelectContext(ctx, &users, query, pq.Array(countries), limit, skip); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"countries": countries}).WithError(err).Error("db: failed to list users by countries")
		}
		return nil, fmt.Errorf("failed to list users by countries: %w", err)
	}

	return users, nil
}

// ListCreatedBetween retrieves users created in [start, end]
func (r *UserRepository) ListCreatedBetween(ctx context.Context, start, end time.Time) ([]*user.User, error) {
	users := []*user.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE created_at >= $1 AND created_at <= $2 ORDER BY created_at`

	if err := r.db.DB.SelectContext(ctx, &users, query, start, end); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"start": start, "end": end}).WithError(err).Error("db: failed to list users by creation date")
		}
		return nil, fmt.Errorf("failed to list users by creation date: %w", err)
	}

	return users, nil
}
