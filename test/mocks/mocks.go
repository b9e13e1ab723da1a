package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/avatarctic/user-management-service/internal/core/domain/activity"
	"github.com/avatarctic/user-management-service/internal/core/domain/auth"
	"github.com/avatarctic/user-management-service/internal/core/domain/project"
	"github.com/avatarctic/user-management-service/internal/core/domain/report"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/core/ports"
)

// UserRepositoryMock is a lightweight mock for ports.UserRepository
type UserRepositoryMock struct {
	CreateFn             func(ctx context.Context, u *user.User) error
	GetByIDFn            func(ctx context.Context, id int64) (*user.User, error)
	GetByEmailFn         func(ctx context.Context, email string) (*user.User, error)
	UpdateFn             func(ctx context.Context, u *user.User) error
	DeleteFn             func(ctx context.Context, id int64) error
	ListFn               func(ctx context.Context, skip, limit int) ([]*user.User, error)
	ListByCountriesFn    func(ctx context.Context, countries []string, skip, limit int) ([]*user.User, error)
	ListCreatedBetweenFn func(ctx context.Context, start, end time.Time) ([]*user.User, error)
}

var _ ports.UserRepository = (*UserRepositoryMock)(nil)

func (m *UserRepositoryMock) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, user.ErrUserNotFound
}
func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, user.ErrUserNotFound
}
func (m *UserRepositoryMock) Update(ctx context.Context, u *user.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
func (m *UserRepositoryMock) List(ctx context.Context, skip, limit int) ([]*user.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, skip, limit)
	}
	return nil, nil
}
func (m *UserRepositoryMock) ListByCountries(ctx context.Context, countries []string, skip, limit int) ([]*user.User, error) {
	if m.ListByCountriesFn != nil {
		return m.ListByCountriesFn(ctx, countries, skip, limit)
	}
	return nil, nil
}
func (m *UserRepositoryMock) ListCreatedBetween(ctx context.Context, start, end time.Time) ([]*user.User, error) {
	if m.ListCreatedBetweenFn != nil {
		return m.ListCreatedBetweenFn(ctx, start, end)
	}
	return nil, nil
}

type ProjectRepositoryMock struct {
	CreateFn       func(ctx context.Context, p *project.Project, ownerID int64) error
	GetByIDFn      func(ctx context.Context, id int64) (*project.Detail, error)
	GetByNameFn    func(ctx context.Context, name string) (*project.Project, error)
	UpdateFn       func(ctx context.Context, p *project.Project) error
	DeleteFn       func(ctx context.Context, id int64) error
	ListFn         func(ctx context.Context, skip, limit int) ([]*project.Project, error)
	ListByStatusFn func(ctx context.Context, status project.Status, skip, limit int) ([]*project.Project, error)
	ListByUserFn   func(ctx context.Context, userID int64, skip, limit int) ([]*project.Project, error)
	AddMemberFn    func(ctx context.Context, projectID, userID int64, role project.Role) error
	RemoveMemberFn func(ctx context.Context, projectID, userID int64) error
	MemberRoleFn   func(ctx context.Context, projectID, userID int64) (project.Role, error)
}

var _ ports.ProjectRepository = (*ProjectRepositoryMock)(nil)

func (m *ProjectRepositoryMock) Create(ctx context.Context, p *project.Project, ownerID int64) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p, ownerID)
	}
	return nil
}
func (m *ProjectRepositoryMock) GetByID(ctx context.Context, id int64) (*project.Detail, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, project.ErrProjectNotFound
}
func (m *ProjectRepositoryMock) GetByName(ctx context.Context, name string) (*project.Project, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, name)
	}
	return nil, project.ErrProjectNotFound
}
func (m *ProjectRepositoryMock) Update(ctx context.Context, p *project.Project) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, p)
	}
	return nil
}
func (m *ProjectRepositoryMock) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
func (m *ProjectRepositoryMock) List(ctx context.Context, skip, limit int) ([]*project.Project, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, skip, limit)
	}
	return nil, nil
}
func (m *ProjectRepositoryMock) ListByStatus(ctx context.Context, status project.Status, skip, limit int) ([]*project.Project, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status, skip, limit)
	}
	return nil, nil
}
func (m *ProjectRepositoryMock) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]*project.Project, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, skip, limit)
	}
	return nil, nil
}
func (m *ProjectRepositoryMock) AddMember(ctx context.Context, projectID, userID int64, role project.Role) error {
	if m.AddMemberFn != nil {
		return m.AddMemberFn(ctx, projectID, userID, role)
	}
	return nil
}
func (m *ProjectRepositoryMock) RemoveMember(ctx context.Context, projectID, userID int64) error {
	if m.RemoveMemberFn != nil {
		return m.RemoveMemberFn(ctx, projectID, userID)
	}
	return nil
}
func (m *ProjectRepositoryMock) MemberRole(ctx context.Context, projectID, userID int64) (project.Role, error) {
	if m.MemberRoleFn != nil {
		return m.MemberRoleFn(ctx, projectID, userID)
	}
	return "", project.ErrNotMember
}

type ActivityRepositoryMock struct {
	CreateFn          func(ctx context.Context, a *activity.Activity) error
	ListFn            func(ctx context.Context, filter *activity.Filter) ([]*activity.Activity, error)
	CountFn           func(ctx context.Context, filter *activity.Filter) (int, error)
	CountByTypeFn     func(ctx context.Context, userID int64, since, until time.Time) (map[string]int, error)
	LatestOfTypeFn    func(ctx context.Context, userID int64, actionType string) (*activity.Activity, error)
	DeleteOlderThanFn func(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ ports.ActivityRepository = (*ActivityRepositoryMock)(nil)

func (m *ActivityRepositoryMock) Create(ctx context.Context, a *activity.Activity) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}
func (m *ActivityRepositoryMock) List(ctx context.Context, filter *activity.Filter) ([]*activity.Activity, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return nil, nil
}
func (m *ActivityRepositoryMock) Count(ctx context.Context, filter *activity.Filter) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, filter)
	}
	return 0, nil
}
func (m *ActivityRepositoryMock) CountByType(ctx context.Context, userID int64, since, until time.Time) (map[string]int, error) {
	if m.CountByTypeFn != nil {
		return m.CountByTypeFn(ctx, userID, since, until)
	}
	return map[string]int{}, nil
}
func (m *ActivityRepositoryMock) LatestOfType(ctx context.Context, userID int64, actionType string) (*activity.Activity, error) {
	if m.LatestOfTypeFn != nil {
		return m.LatestOfTypeFn(ctx, userID, actionType)
	}
	return nil, nil
}
func (m *ActivityRepositoryMock) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteOlderThanFn != nil {
		return m.DeleteOlderThanFn(ctx, cutoff)
	}
	return 0, nil
}

type ReportRepositoryMock struct {
	OverallStatsFn        func(ctx context.Context) (*report.OverallStats, error)
	CountryStatsFn        func(ctx context.Context) ([]report.CountryStats, error)
	CountCreatedBetweenFn func(ctx context.Context, start, end time.Time) (int, error)
	CountCreatedUntilFn   func(ctx context.Context, until time.Time) (int, int, error)
	FilterUsersFn         func(ctx context.Context, f *report.UserFilter) ([]*user.User, error)
	UsersByCountryFn      func(ctx context.Context, country string, skip, limit int) ([]*user.User, error)
}

var _ ports.ReportRepository = (*ReportRepositoryMock)(nil)

func (m *ReportRepositoryMock) OverallStats(ctx context.Context) (*report.OverallStats, error) {
	if m.OverallStatsFn != nil {
		return m.OverallStatsFn(ctx)
	}
	return &report.OverallStats{}, nil
}
func (m *ReportRepositoryMock) CountryStats(ctx context.Context) ([]report.CountryStats, error) {
	if m.CountryStatsFn != nil {
		return m.CountryStatsFn(ctx)
	}
	return nil, nil
}
func (m *ReportRepositoryMock) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	if m.CountCreatedBetweenFn != nil {
		return m.CountCreatedBetweenFn(ctx, start, end)
	}
	return 0, nil
}
func (m *ReportRepositoryMock) CountCreatedUntil(ctx context.Context, until time.Time) (int, int, error) {
	if m.CountCreatedUntilFn != nil {
		return m.CountCreatedUntilFn(ctx, until)
	}
	return 0, 0, nil
}
func (m *ReportRepositoryMock) FilterUsers(ctx context.Context, f *report.UserFilter) ([]*user.User, error) {
	if m.FilterUsersFn != nil {
		return m.FilterUsersFn(ctx, f)
	}
	return nil, nil
}
func (m *ReportRepositoryMock) UsersByCountry(ctx context.Context, country string, skip, limit int) ([]*user.User, error) {
	if m.UsersByCountryFn != nil {
		return m.UsersByCountryFn(ctx, country, skip, limit)
	}
	return nil, nil
}

type RateLimitRepositoryMock struct {
	IncrementWindowFn func(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)
}

var _ ports.RateLimitRepository = (*RateLimitRepositoryMock)(nil)

func (m *RateLimitRepositoryMock) IncrementWindow(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, subject, window, keyPrefix, ttl)
	}
	return 1, time.Now().Truncate(window), nil
}

type UserServiceMock struct {
	RegisterFn           func(ctx context.Context, req *user.CreateUserRequest) (*user.User, error)
	CreateSuperuserFn    func(ctx context.Context, req *user.CreateUserRequest) (*user.User, error)
	GetUserFn            func(ctx context.Context, id int64) (*user.User, error)
	GetUserByEmailFn     func(ctx context.Context, email string) (*user.User, error)
	ListUsersFn          func(ctx context.Context, q user.ListQuery) ([]*user.User, error)
	ListCreatedTodayFn   func(ctx context.Context) ([]*user.User, error)
	ListCreatedBetweenFn func(ctx context.Context, start, end time.Time) ([]*user.User, error)
	UpdateUserFn         func(ctx context.Context, id int64, req *user.UpdateUserRequest) (*user.User, error)
	DeleteUserFn         func(ctx context.Context, id int64) (*user.User, error)
	AuthenticateFn       func(ctx context.Context, email, password string) (*user.User, error)
	StatisticsFn         func(ctx context.Context, id int64) (*user.Statistics, error)
}

var _ ports.UserService = (*UserServiceMock)(nil)

func (m *UserServiceMock) Register(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *UserServiceMock) CreateSuperuser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	if m.CreateSuperuserFn != nil {
		return m.CreateSuperuserFn(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *UserServiceMock) GetUser(ctx context.Context, id int64) (*user.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	return nil, user.ErrUserNotFound
}
func (m *UserServiceMock) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetUserByEmailFn != nil {
		return m.GetUserByEmailFn(ctx, email)
	}
	return nil, user.ErrUserNotFound
}
func (m *UserServiceMock) ListUsers(ctx context.Context, q user.ListQuery) ([]*user.User, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx, q)
	}
	return nil, nil
}
func (m *UserServiceMock) ListCreatedToday(ctx context.Context) ([]*user.User, error) {
	if m.ListCreatedTodayFn != nil {
		return m.ListCreatedTodayFn(ctx)
	}
	return nil, nil
}
func (m *UserServiceMock) ListCreatedBetween(ctx context.Context, start, end time.Time) ([]*user.User, error) {
	if m.ListCreatedBetweenFn != nil {
		return m.ListCreatedBetweenFn(ctx, start, end)
	}
	return nil, nil
}
func (m *UserServiceMock) UpdateUser(ctx context.Context, id int64, req *user.UpdateUserRequest) (*user.User, error) {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, id, req)
	}
	return nil, user.ErrUserNotFound
}
func (m *UserServiceMock) DeleteUser(ctx context.Context, id int64) (*user.User, error) {
	if m.DeleteUserFn != nil {
		return m.DeleteUserFn(ctx, id)
	}
	return nil, user.ErrUserNotFound
}
func (m *UserServiceMock) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return nil, user.ErrInvalidCredentials
}
func (m *UserServiceMock) Statistics(ctx context.Context, id int64) (*user.Statistics, error) {
	if m.StatisticsFn != nil {
		return m.StatisticsFn(ctx, id)
	}
	return &user.Statistics{}, nil
}

// AuthServiceMock is a mock for ports.AuthService
type AuthServiceMock struct {
	LoginFn         func(ctx context.Context, req *auth.LoginRequest, ipAddress, userAgent string) (*auth.Token, error)
	GenerateTokenFn func(u *user.User) (string, error)
	ValidateTokenFn func(token string) (*auth.Claims, error)
	ResolveUserFn   func(ctx context.Context, claims *auth.Claims) (*user.User, error)
}

var _ ports.AuthService = (*AuthServiceMock)(nil)

func (m *AuthServiceMock) Login(ctx context.Context, req *auth.LoginRequest, ipAddress, userAgent string) (*auth.Token, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req, ipAddress, userAgent)
	}
	return nil, user.ErrInvalidCredentials
}
func (m *AuthServiceMock) GenerateToken(u *user.User) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(u)
	}
	return "token", nil
}
func (m *AuthServiceMock) ValidateToken(token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(token)
	}
	return nil, fmt.Errorf("invalid token")
}
func (m *AuthServiceMock) ResolveUser(ctx context.Context, claims *auth.Claims) (*user.User, error) {
	if m.ResolveUserFn != nil {
		return m.ResolveUserFn(ctx, claims)
	}
	return nil, user.ErrUserNotFound
}

type ProjectServiceMock struct {
	ListProjectsFn   func(ctx context.Context, q project.ListQuery) ([]*project.Project, error)
	ListMyProjectsFn func(ctx context.Context, actor int64, skip, limit int) ([]*project.Project, error)
	CreateProjectFn  func(ctx context.Context, actor int64, req *project.CreateProjectRequest) (*project.Project, error)
	GetProjectFn     func(ctx context.Context, id int64) (*project.Detail, error)
	UpdateProjectFn  func(ctx context.Context, id int64, req *project.UpdateProjectRequest) (*project.Project, error)
	DeleteProjectFn  func(ctx context.Context, id int64) (*project.Project, error)
	AddMemberFn      func(ctx context.Context, projectID int64, req *project.AddMemberRequest) error
	RemoveMemberFn   func(ctx context.Context, projectID int64, req *project.RemoveMemberRequest) error
}

var _ ports.ProjectService = (*ProjectServiceMock)(nil)

func (m *ProjectServiceMock) ListProjects(ctx context.Context, q project.ListQuery) ([]*project.Project, error) {
	if m.ListProjectsFn != nil {
		return m.ListProjectsFn(ctx, q)
	}
	return nil, nil
}
func (m *ProjectServiceMock) ListMyProjects(ctx context.Context, actor int64, skip, limit int) ([]*project.Project, error) {
	if m.ListMyProjectsFn != nil {
		return m.ListMyProjectsFn(ctx, actor, skip, limit)
	}
	return nil, nil
}
func (m *ProjectServiceMock) CreateProject(ctx context.Context, actor int64, req *project.CreateProjectRequest) (*project.Project, error) {
	if m.CreateProjectFn != nil {
		return m.CreateProjectFn(ctx, actor, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *ProjectServiceMock) GetProject(ctx context.Context, id int64) (*project.Detail, error) {
	if m.GetProjectFn != nil {
		return m.GetProjectFn(ctx, id)
	}
	return nil, project.ErrProjectNotFound
}
func (m *ProjectServiceMock) UpdateProject(ctx context.Context, id int64, req *project.UpdateProjectRequest) (*project.Project, error) {
	if m.UpdateProjectFn != nil {
		return m.UpdateProjectFn(ctx, id, req)
	}
	return nil, project.ErrProjectNotFound
}
func (m *ProjectServiceMock) DeleteProject(ctx context.Context, id int64) (*project.Project, error) {
	if m.DeleteProjectFn != nil {
		return m.DeleteProjectFn(ctx, id)
	}
	return nil, project.ErrProjectNotFound
}
func (m *ProjectServiceMock) AddMember(ctx context.Context, projectID int64, req *project.AddMemberRequest) error {
	if m.AddMemberFn != nil {
		return m.AddMemberFn(ctx, projectID, req)
	}
	return nil
}
func (m *ProjectServiceMock) RemoveMember(ctx context.Context, projectID int64, req *project.RemoveMemberRequest) error {
	if m.RemoveMemberFn != nil {
		return m.RemoveMemberFn(ctx, projectID, req)
	}
	return nil
}

type ActivityServiceMock struct {
	RecordFn          func(ctx context.Context, userID int64, req *activity.CreateActivityRequest) (*activity.Activity, error)
	LogActionFn       func(ctx context.Context, userID int64, actionType, description, ipAddress, userAgent string)
	ListFn            func(ctx context.Context, userID int64, skip, limit int) ([]*activity.Activity, error)
	ListByDateFn      func(ctx context.Context, userID int64, day time.Time) ([]*activity.Activity, error)
	ListByDateRangeFn func(ctx context.Context, userID int64, start, end time.Time) ([]*activity.Activity, error)
	ListByTypeFn      func(ctx context.Context, userID int64, actionType string) ([]*activity.Activity, error)
	ListRecentFn      func(ctx context.Context, userID int64, hours int) ([]*activity.Activity, error)
	StatsFn           func(ctx context.Context, userID int64, day time.Time) (*activity.Stats, error)
	PurgeOlderThanFn  func(ctx context.Context, days int) (int64, error)
}

var _ ports.ActivityService = (*ActivityServiceMock)(nil)

func (m *ActivityServiceMock) Record(ctx context.Context, userID int64, req *activity.CreateActivityRequest) (*activity.Activity, error) {
	if m.RecordFn != nil {
		return m.RecordFn(ctx, userID, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *ActivityServiceMock) LogAction(ctx context.Context, userID int64, actionType, description, ipAddress, userAgent string) {
	if m.LogActionFn != nil {
		m.LogActionFn(ctx, userID, actionType, description, ipAddress, userAgent)
	}
}
func (m *ActivityServiceMock) List(ctx context.Context, userID int64, skip, limit int) ([]*activity.Activity, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, skip, limit)
	}
	return nil, nil
}
func (m *ActivityServiceMock) ListByDate(ctx context.Context, userID int64, day time.Time) ([]*activity.Activity, error) {
	if m.ListByDateFn != nil {
		return m.ListByDateFn(ctx, userID, day)
	}
	return nil, nil
}
func (m *ActivityServiceMock) ListByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*activity.Activity, error) {
	if m.ListByDateRangeFn != nil {
		return m.ListByDateRangeFn(ctx, userID, start, end)
	}
	return nil, nil
}
func (m *ActivityServiceMock) ListByType(ctx context.Context, userID int64, actionType string) ([]*activity.Activity, error) {
	if m.ListByTypeFn != nil {
		return m.ListByTypeFn(ctx, userID, actionType)
	}
	return nil, nil
}
func (m *ActivityServiceMock) ListRecent(ctx context.Context, userID int64, hours int) ([]*activity.Activity, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx, userID, hours)
	}
	return nil, nil
}
func (m *ActivityServiceMock) Stats(ctx context.Context, userID int64, day time.Time) (*activity.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, userID, day)
	}
	return &activity.Stats{UserID: userID, Date: day, ActivityBreakdown: map[string]int{}}, nil
}
func (m *ActivityServiceMock) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if m.PurgeOlderThanFn != nil {
		return m.PurgeOlderThanFn(ctx, days)
	}
	return 0, nil
}

type ReportServiceMock struct {
	OverallFn        func(ctx context.Context) (*report.OverallStats, error)
	NewUsersFn       func(ctx context.Context, period report.Period) (*report.NewUsersReport, error)
	ByCountryFn      func(ctx context.Context) ([]report.CountryStats, error)
	DailyFn          func(ctx context.Context, days int) ([]report.DailyStats, error)
	FilterUsersFn    func(ctx context.Context, f *report.UserFilter) ([]*user.User, error)
	UsersByCountryFn func(ctx context.Context, country string, skip, limit int) ([]*user.User, error)
}

var _ ports.ReportService = (*ReportServiceMock)(nil)

func (m *ReportServiceMock) Overall(ctx context.Context) (*report.OverallStats, error) {
	if m.OverallFn != nil {
		return m.OverallFn(ctx)
	}
	return &report.OverallStats{}, nil
}
func (m *ReportServiceMock) NewUsers(ctx context.Context, period report.Period) (*report.NewUsersReport, error) {
	if m.NewUsersFn != nil {
		return m.NewUsersFn(ctx, period)
	}
	return &report.NewUsersReport{Period: string(period)}, nil
}
func (m *ReportServiceMock) ByCountry(ctx context.Context) ([]report.CountryStats, error) {
	if m.ByCountryFn != nil {
		return m.ByCountryFn(ctx)
	}
	return nil, nil
}
func (m *ReportServiceMock) Daily(ctx context.Context, days int) ([]report.DailyStats, error) {
	if m.DailyFn != nil {
		return m.DailyFn(ctx, days)
	}
	return nil, nil
}
func (m *ReportServiceMock) FilterUsers(ctx context.Context, f *report.UserFilter) ([]*user.User, error) {
	if m.FilterUsersFn != nil {
		return m.FilterUsersFn(ctx, f)
	}
	return nil, nil
}
func (m *ReportServiceMock) UsersByCountry(ctx context.Context, country string, skip, limit int) ([]*user.User, error) {
	if m.UsersByCountryFn != nil {
		return m.UsersByCountryFn(ctx, country, skip, limit)
	}
	return nil, nil
}

// AccessControlServiceMock allows everything unless overridden
type AccessControlServiceMock struct {
	CanActOnUserFn    func(ctx context.Context, actor *user.User, targetID int64, action ports.AccessAction) (*user.User, error)
	CanActOnProjectFn func(ctx context.Context, actor *user.User, projectID int64, action ports.AccessAction) error
}

var _ ports.AccessControlService = (*AccessControlServiceMock)(nil)

func (m *AccessControlServiceMock) CanActOnUser(ctx context.Context, actor *user.User, targetID int64, action ports.AccessAction) (*user.User, error) {
	if m.CanActOnUserFn != nil {
		return m.CanActOnUserFn(ctx, actor, targetID, action)
	}
	return &user.User{ID: targetID, IsActive: true}, nil
}
func (m *AccessControlServiceMock) CanActOnProject(ctx context.Context, actor *user.User, projectID int64, action ports.AccessAction) error {
	if m.CanActOnProjectFn != nil {
		return m.CanActOnProjectFn(ctx, actor, projectID, action)
	}
	return nil
}

// RateLimiterServiceMock allows everything unless overridden
type RateLimiterServiceMock struct {
	AllowFn func(ctx context.Context, subject string) (bool, int, int, time.Time, error)
}

var _ ports.RateLimiterService = (*RateLimiterServiceMock)(nil)

func (m *RateLimiterServiceMock) Allow(ctx context.Context, subject string) (bool, int, int, time.Time, error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, subject)
	}
	return true, 0, 0, time.Now(), nil
}

// HealthCheckerMock reports Err from Check.
type HealthCheckerMock struct {
	NameValue  string
	IsCritical bool
	Err        error
}

var _ ports.HealthChecker = (*HealthCheckerMock)(nil)

func (m *HealthCheckerMock) Name() string                { return m.NameValue }
func (m *HealthCheckerMock) Check(context.Context) error { return m.Err }
func (m *HealthCheckerMock) Critical() bool              { return m.IsCritical }
