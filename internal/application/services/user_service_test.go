package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/user-management-service/internal/application/services"
	"github.com/avatarctic/user-management-service/internal/core/domain/activity"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/utils"
	"github.com/avatarctic/user-management-service/test/mocks"
)

func strPtr(s string) *string { return &s }

func TestRegister_DuplicateEmail(t *testing.T) {
	created := false
	repo := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			return &user.User{ID: 1, Email: email}, nil
		},
		CreateFn: func(ctx context.Context, u *user.User) error {
			created = true
			return nil
		},
	}
	svc := services.NewUserService(repo, &mocks.ActivityRepositoryMock{}, nil)

	_, err := svc.Register(context.Background(), &user.CreateUserRequest{Email: "a@example.com", FullName: "A", Password: "password1"})
	require.ErrorIs(t, err, user.ErrEmailAlreadyRegistered)
	assert.False(t, created)
}

func TestRegister_HashesPasswordAndNormalizesCountry(t *testing.T) {
	var stored *user.User
	repo := &mocks.UserRepositoryMock{
		CreateFn: func(ctx context.Context, u *user.User) error {
			u.ID = 7
			stored = u
			return nil
		},
	}
	svc := services.NewUserService(repo, &mocks.ActivityRepositoryMock{}, nil)

	u, err := svc.Register(context.Background(), &user.CreateUserRequest{
		Email: " a@example.com ", FullName: "A", Password: "password1", Country: strPtr("vn"),
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "a@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsSuperuser)
	require.NotNil(t, u.Country)
	assert.Equal(t, "VN", *u.Country)
	assert.NotEqual(t, "password1", u.HashedPassword)
	assert.NoError(t, utils.VerifyPassword(u.HashedPassword, "password1"))
}

func TestCreateSuperuser_SetsFlag(t *testing.T) {
	svc := services.NewUserService(&mocks.UserRepositoryMock{}, &mocks.ActivityRepositoryMock{}, nil)
	u, err := svc.CreateSuperuser(context.Background(), &user.CreateUserRequest{Email: "admin@admin.com", FullName: "Admin", Password: "admin123"})
	require.NoError(t, err)
	assert.True(t, u.IsSuperuser)
}

func TestListUsers_DispatchesOnCountries(t *testing.T) {
	var gotCountries []string
	listed := false
	repo := &mocks.UserRepositoryMock{
		ListFn: func(ctx context.Context, skip, limit int) ([]*user.User, error) {
			listed = true
			return nil, nil
		},
		ListByCountriesFn: func(ctx context.Context, countries []string, skip, limit int) ([]*user.User, error) {
			gotCountries = countries
			return []*user.User{{ID: 1}}, nil
		},
	}
	svc := services.NewUserService(repo, &mocks.ActivityRepositoryMock{}, nil)

	users, err := svc.ListUsers(context.Background(), user.ListQuery{Countries: []string{"vn", "Us"}, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, []string{"VN", "US"}, gotCountries)
	assert.False(t, listed)

	_, err = svc.ListUsers(context.Background(), user.ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.True(t, listed)
}

func TestUpdateUser_EmailTakenByAnotherUser(t *testing.T) {
	repo := &mocks.UserRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*user.User, error) {
			return &user.User{ID: id, Email: "old@example.com"}, nil
		},
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			return &user.User{ID: 99, Email: email}, nil
		},
		UpdateFn: func(ctx context.Context, u *user.User) error {
			t.Fatal("update must not be called")
			return nil
		},
	}
	svc := services.NewUserService(repo, &mocks.ActivityRepositoryMock{}, nil)

	_, err := svc.UpdateUser(context.Background(), 1, &user.UpdateUserRequest{Email: strPtr("taken@example.com")})
	assert.ErrorIs(t, err, user.ErrEmailExists)
}

func TestUpdateUser_AppliesPartialFields(t *testing.T) {
	var saved *user.User
	repo := &mocks.UserRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*user.User, error) {
			return &user.User{ID: id, Email: "a@example.com", FullName: "Old", IsActive: true}, nil
		},
		UpdateFn: func(ctx context.Context, u *user.User) error {
			saved = u
			return nil
		},
	}
	svc := services.NewUserService(repo, &mocks.ActivityRepositoryMock{}, nil)

	inactive := false
	u, err := svc.UpdateUser(context.Background(), 3, &user.UpdateUserRequest{FullName: strPtr("New"), Country: strPtr("jp"), IsActive: &inactive})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "New", u.FullName)
	assert.Equal(t, "a@example.com", u.Email)
	assert.Equal(t, "JP", *u.Country)
	assert.False(t, u.IsActive)
}

func TestDeleteUser_ReturnsPreviousRecord(t *testing.T) {
	deleted := int64(0)
	repo := &mocks.UserRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*user.User, error) {
			return &user.User{ID: id, Email: "gone@example.com"}, nil
		},
		DeleteFn: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	svc := services.NewUserService(repo, &mocks.ActivityRepositoryMock{}, nil)

	u, err := svc.DeleteUser(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), deleted)
	assert.Equal(t, "gone@example.com", u.Email)

	_, err = services.NewUserService(&mocks.UserRepositoryMock{}, nil, nil).DeleteUser(context.Background(), 6)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAuthenticate(t *testing.T) {
	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)
	repo := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			if email != "a@example.com" {
				return nil, user.ErrUserNotFound
			}
			return &user.User{ID: 1, Email: email, HashedPassword: hash}, nil
		},
	}
	svc := services.NewUserService(repo, &mocks.ActivityRepositoryMock{}, nil)
	ctx := context.Background()

	u, err := svc.Authenticate(ctx, "a@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = svc.Authenticate(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestAuthenticate_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	repo := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return nil, boom },
	}
	_, err := services.NewUserService(repo, nil, nil).Authenticate(context.Background(), "a@example.com", "x")
	assert.ErrorIs(t, err, boom)
}

func TestStatistics(t *testing.T) {
	lastLogin := time.Now().Add(-2 * time.Hour)
	repo := &mocks.UserRepositoryMock{
		GetByIDFn: func(ctx context.Context, id int64) (*user.User, error) {
			return &user.User{ID: id, CreatedAt: time.Now().Add(-72*time.Hour - time.Minute)}, nil
		},
	}
	acts := &mocks.ActivityRepositoryMock{
		CountFn: func(ctx context.Context, f *activity.Filter) (int, error) {
			if f.Since != nil {
				return 2, nil
			}
			return 10, nil
		},
		LatestOfTypeFn: func(ctx context.Context, userID int64, actionType string) (*activity.Activity, error) {
			assert.Equal(t, activity.ActionLogin, actionType)
			return &activity.Activity{UserID: userID, ActionType: actionType, CreatedAt: lastLogin}, nil
		},
	}
	svc := services.NewUserService(repo, acts, nil)

	stats, err := svc.Statistics(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalActivities)
	assert.Equal(t, 2, stats.ActivitiesToday)
	assert.Equal(t, 3, stats.AccountAgeDays)
	require.NotNil(t, stats.LastLogin)
	assert.True(t, stats.LastLogin.Equal(lastLogin))
}
