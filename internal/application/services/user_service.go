package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/user-management-service/internal/core/domain/activity"
	"github.com/avatarctic/user-management-service/internal/core/domain/report"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/core/ports"
	"github.com/avatarctic/user-management-service/internal/utils"
)

type UserService struct {
	repo         ports.UserRepository
	activityRepo ports.ActivityRepository
	logger       *logrus.Logger
	now          func() time.Time
}

func NewUserService(repo ports.UserRepository, activityRepo ports.ActivityRepository, logger *logrus.Logger) ports.UserService {
	return &UserService{
		repo:         repo,
		activityRepo: activityRepo,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	return s.create(ctx, req, false)
}

// CreateSuperuser is used by the bootstrap command.
func (s *UserService) CreateSuperuser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	return s.create(ctx, req, true)
}

func (s *UserService) create(ctx context.Context, req *user.CreateUserRequest, superuser bool) (*user.User, error) {
	email := strings.TrimSpace(req.Email)
	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, user.ErrEmailAlreadyRegistered
	} else if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := &user.User{
		Email:          email,
		FullName:       req.FullName,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsSuperuser:    superuser,
		Bio:            req.Bio,
		Country:        upperCountry(req.Country),
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrEmailAlreadyRegistered) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": newUser.ID, "superuser": superuser}).Info("user registered")
	}
	return newUser, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) ListUsers(ctx context.Context, q user.ListQuery) ([]*user.User, error) {
	if len(q.Countries) > 0 {
		countries := make([]string, 0, len(q.Countries))
		for _, c := range q.Countries {
			countries = append(countries, strings.ToUpper(c))
		}
		return s.repo.ListByCountries(ctx, countries, q.Skip, q.Limit)
	}
	return s.repo.List(ctx, q.Skip, q.Limit)
}

func (s *UserService) ListCreatedToday(ctx context.Context) ([]*user.User, error) {
	now := s.now()
	return s.repo.ListCreatedBetween(ctx, report.StartOfDay(now), report.EndOfDay(now))
}

func (s *UserService) ListCreatedBetween(ctx context.Context, start, end time.Time) ([]*user.User, error) {
	return s.repo.ListCreatedBetween(ctx, start, end)
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, req *user.UpdateUserRequest) (*user.User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != existing.Email {
		if other, err := s.repo.GetByEmail(ctx, *req.Email); err == nil && other != nil && other.ID != id {
			return nil, user.ErrEmailExists
		}
	}

	req.Apply(existing)
	existing.Country = upperCountry(existing.Country)
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteUser removes the user and returns the record as it was.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (*user.User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": id}).Info("user deleted")
	}
	return existing, nil
}

// Authenticate checks credentials only; callers decide what to do with inactive users.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	found, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := utils.VerifyPassword(found.HashedPassword, password); err != nil {
		return nil, user.ErrInvalidCredentials
	}
	return found, nil
}

func (s *UserService) Statistics(ctx context.Context, id int64) (*user.Statistics, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	total, err := s.activityRepo.Count(ctx, &activity.Filter{UserID: id})
	if err != nil {
		return nil, err
	}
	since := report.StartOfDay(now)
	today, err := s.activityRepo.Count(ctx, &activity.Filter{UserID: id, Since: &since})
	if err != nil {
		return nil, err
	}
	stats := &user.Statistics{
		TotalActivities: total,
		ActivitiesToday: today,
		AccountAgeDays:  int(now.Sub(u.CreatedAt) / (24 * time.Hour)),
	}
	last, err := s.activityRepo.LatestOfType(ctx, id, activity.ActionLogin)
	if err != nil {
		return nil, err
	}
	if last != nil {
		stats.LastLogin = &last.CreatedAt
	}
	return stats, nil
}

func upperCountry(c *string) *string {
	if c == nil {
		return nil
	}
	v := strings.ToUpper(*c)
	return &v
}
