package repositories

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/user-management-service/internal/core/domain/project"
	"github.com/avatarctic/user-management-service/internal/core/domain/report"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/core/ports"
	"github.com/avatarctic/user-management-service/internal/infrastructure/cache"
)

// Cache key prefixes. Changing one orphans every entry written under the old name.
const (
	PrefixUserByID         = "user_by_id"
	PrefixUsersList        = "users_list"
	PrefixUsersByCountries = "users_by_countries"
	PrefixProjectByID      = "project_by_id"
	PrefixProjectsList     = "projects_list"
	PrefixProjectsByStatus = "projects_by_status"
	PrefixStatsOverall     = "stats_overall"
	PrefixStatsByCountry   = "stats_by_country"
)

func anyKey(prefix string) string { return prefix + ":*" }

var (
	userWritePatterns = []string{
		anyKey(PrefixUsersList), anyKey(PrefixUsersByCountries), anyKey(PrefixUserByID),
		anyKey(PrefixStatsOverall), anyKey(PrefixStatsByCountry),
	}
	// project details embed member profiles
	userProfilePatterns = append(append([]string(nil), userWritePatterns...), anyKey(PrefixProjectByID))

	projectWritePatterns = []string{anyKey(PrefixProjectsList), anyKey(PrefixProjectsByStatus), anyKey(PrefixProjectByID)}
	memberWritePatterns  = []string{anyKey(PrefixProjectByID)}
)

type page struct{ skip, limit int }

type countryPage struct {
	countries []string
	skip      int
	limit     int
}

type statusPage struct {
	status project.Status
	skip   int
	limit  int
}

type membership struct {
	projectID, userID int64
	role              project.Role
}

func discard[A any](fn func(context.Context, A) error) cache.LoadFunc[A, struct{}] {
	return func(ctx context.Context, a A) (struct{}, error) {
		return struct{}{}, fn(ctx, a)
	}
}

// CachingUserRepository decorates a UserRepository with cache-aside reads and
// pattern invalidation on writes. GetByEmail feeds authentication and is not cached.
type CachingUserRepository struct {
	inner       ports.UserRepository
	byID        *cache.CachedReader[int64, *user.User]
	list        *cache.CachedReader[page, []*user.User]
	byCountries *cache.CachedReader[countryPage, []*user.User]
	create      *cache.InvalidatingWriter[*user.User, struct{}]
	update      *cache.InvalidatingWriter[*user.User, struct{}]
	remove      *cache.InvalidatingWriter[int64, struct{}]
}

func NewCachingUserRepository(inner ports.UserRepository, c ports.Cache, ttl time.Duration, logger *logrus.Logger) ports.UserRepository {
	return &CachingUserRepository{
		inner: inner,
		byID: cache.NewCachedReader(c, PrefixUserByID, ttl,
			func(id int64) cache.Args { return cache.Pos(id) },
			cache.RecordShape[user.User]{}, inner.GetByID, logger),
		list: cache.NewCachedReader(c, PrefixUsersList, ttl,
			func(p page) cache.Args {
				return cache.KW(map[string]any{"skip": p.skip, "limit": p.limit, "countries": nil})
			},
			cache.RecordsShape[user.User]{},
			func(ctx context.Context, p page) ([]*user.User, error) { return inner.List(ctx, p.skip, p.limit) },
			logger),
		byCountries: cache.NewCachedReader(c, PrefixUsersByCountries, ttl,
			func(p countryPage) cache.Args {
				return cache.KW(map[string]any{"countries": p.countries, "skip": p.skip, "limit": p.limit})
			},
			cache.RecordsShape[user.User]{},
			func(ctx context.Context, p countryPage) ([]*user.User, error) {
				return inner.ListByCountries(ctx, p.countries, p.skip, p.limit)
			},
			logger),
		create: cache.NewInvalidatingWriter(c, userWritePatterns, discard(inner.Create), logger),
		update: cache.NewInvalidatingWriter(c, userProfilePatterns, discard(inner.Update), logger),
		remove: cache.NewInvalidatingWriter(c, userProfilePatterns, discard(inner.Delete), logger),
	}
}

func (c *CachingUserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := c.create.Write(ctx, u)
	return err
}

func (c *CachingUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return c.byID.Read(ctx, id)
}

func (c *CachingUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return c.inner.GetByEmail(ctx, email)
}

func (c *CachingUserRepository) Update(ctx context.Context, u *user.User) error {
	_, err := c.update.Write(ctx, u)
	return err
}

func (c *CachingUserRepository) Delete(ctx context.Context, id int64) error {
	_, err := c.remove.Write(ctx, id)
	return err
}

func (c *CachingUserRepository) List(ctx context.Context, skip, limit int) ([]*user.User, error) {
	return c.list.Read(ctx, page{skip: skip, limit: limit})
}

func (c *CachingUserRepository) ListByCountries(ctx context.Context, countries []string, skip, limit int) ([]*user.User, error) {
	return c.byCountries.Read(ctx, countryPage{countries: countries, skip: skip, limit: limit})
}

// ListCreatedBetween is keyed on wall-clock bounds that rarely repeat, so it goes straight to the store.
func (c *CachingUserRepository) ListCreatedBetween(ctx context.Context, start, end time.Time) ([]*user.User, error) {
	return c.inner.ListCreatedBetween(ctx, start, end)
}

// CachingProjectRepository caches project detail and list reads.
type CachingProjectRepository struct {
	inner    ports.ProjectRepository
	byID     *cache.CachedReader[int64, *project.Detail]
	list     *cache.CachedReader[page, []*project.Project]
	byStatus *cache.CachedReader[statusPage, []*project.Project]
	update   *cache.InvalidatingWriter[*project.Project, struct{}]
	remove   *cache.InvalidatingWriter[int64, struct{}]
	add      *cache.InvalidatingWriter[membership, struct{}]
	drop     *cache.InvalidatingWriter[membership, struct{}]
}

func NewCachingProjectRepository(inner ports.ProjectRepository, c ports.Cache, ttl time.Duration, logger *logrus.Logger) ports.ProjectRepository {
	return &CachingProjectRepository{
		inner: inner,
		byID: cache.NewCachedReader(c, PrefixProjectByID, ttl,
			func(id int64) cache.Args { return cache.Pos(id) },
			cache.RecordShape[project.Detail]{}, inner.GetByID, logger),
		list: cache.NewCachedReader(c, PrefixProjectsList, ttl,
			func(p page) cache.Args { return cache.KW(map[string]any{"skip": p.skip, "limit": p.limit}) },
			cache.RecordsShape[project.Project]{},
			func(ctx context.Context, p page) ([]*project.Project, error) { return inner.List(ctx, p.skip, p.limit) },
			logger),
		byStatus: cache.NewCachedReader(c, PrefixProjectsByStatus, ttl,
			func(p statusPage) cache.Args {
				return cache.KW(map[string]any{"status": string(p.status), "skip": p.skip, "limit": p.limit})
			},
			cache.RecordsShape[project.Project]{},
			func(ctx context.Context, p statusPage) ([]*project.Project, error) {
				return inner.ListByStatus(ctx, p.status, p.skip, p.limit)
			},
			logger),
		update: cache.NewInvalidatingWriter(c, projectWritePatterns, discard(inner.Update), logger),
		remove: cache.NewInvalidatingWriter(c, projectWritePatterns, discard(inner.Delete), logger),
		add: cache.NewInvalidatingWriter(c, memberWritePatterns, discard(func(ctx context.Context, m membership) error {
			return inner.AddMember(ctx, m.projectID, m.userID, m.role)
		}), logger),
		drop: cache.NewInvalidatingWriter(c, memberWritePatterns, discard(func(ctx context.Context, m membership) error {
			return inner.RemoveMember(ctx, m.projectID, m.userID)
		}), logger),
	}
}

func (c *CachingProjectRepository) Create(ctx context.Context, p *project.Project, ownerID int64) error {
	if err := c.inner.Create(ctx, p, ownerID); err != nil {
		return err
	}
	// same patterns as Update
	c.update.Invalidate(ctx)
	return nil
}

func (c *CachingProjectRepository) GetByID(ctx context.Context, id int64) (*project.Detail, error) {
	return c.byID.Read(ctx, id)
}

func (c *CachingProjectRepository) GetByName(ctx context.Context, name string) (*project.Project, error) {
	return c.inner.GetByName(ctx, name)
}

func (c *CachingProjectRepository) Update(ctx context.Context, p *project.Project) error {
	_, err := c.update.Write(ctx, p)
	return err
}

func (c *CachingProjectRepository) Delete(ctx context.Context, id int64) error {
	_, err := c.remove.Write(ctx, id)
	return err
}

func (c *CachingProjectRepository) List(ctx context.Context, skip, limit int) ([]*project.Project, error) {
	return c.list.Read(ctx, page{skip: skip, limit: limit})
}

func (c *CachingProjectRepository) ListByStatus(ctx context.Context, status project.Status, skip, limit int) ([]*project.Project, error) {
	return c.byStatus.Read(ctx, statusPage{status: status, skip: skip, limit: limit})
}

// ListByUser depends on membership rows that have no invalidation pattern of their own.
func (c *CachingProjectRepository) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]*project.Project, error) {
	return c.inner.ListByUser(ctx, userID, skip, limit)
}

func (c *CachingProjectRepository) AddMember(ctx context.Context, projectID, userID int64, role project.Role) error {
	_, err := c.add.Write(ctx, membership{projectID: projectID, userID: userID, role: role})
	return err
}

func (c *CachingProjectRepository) RemoveMember(ctx context.Context, projectID, userID int64) error {
	_, err := c.drop.Write(ctx, membership{projectID: projectID, userID: userID})
	return err
}

func (c *CachingProjectRepository) MemberRole(ctx context.Context, projectID, userID int64) (project.Role, error) {
	return c.inner.MemberRole(ctx, projectID, userID)
}

// CachingReportRepository caches the two dashboard aggregates for a short TTL.
// Any user write invalidates them.
type CachingReportRepository struct {
	ports.ReportRepository
	overall   *cache.CachedReader[struct{}, *report.OverallStats]
	byCountry *cache.CachedReader[struct{}, []report.CountryStats]
}

func NewCachingReportRepository(inner ports.ReportRepository, c ports.Cache, ttl time.Duration, logger *logrus.Logger) ports.ReportRepository {
	noArgs := func(struct{}) cache.Args { return cache.Args{} }
	return &CachingReportRepository{
		ReportRepository: inner,
		overall: cache.NewCachedReader(c, PrefixStatsOverall, ttl, noArgs, cache.ValueShape[*report.OverallStats]{},
			func(ctx context.Context, _ struct{}) (*report.OverallStats, error) { return inner.OverallStats(ctx) },
			logger),
		byCountry: cache.NewCachedReader(c, PrefixStatsByCountry, ttl, noArgs, cache.ValueShape[[]report.CountryStats]{},
			func(ctx context.Context, _ struct{}) ([]report.CountryStats, error) { return inner.CountryStats(ctx) },
			logger),
	}
}

func (c *CachingReportRepository) OverallStats(ctx context.Context) (*report.OverallStats, error) {
	return c.overall.Read(ctx, struct{}{})
}

func (c *CachingReportRepository) CountryStats(ctx context.Context) ([]report.CountryStats, error) {
	return c.byCountry.Read(ctx, struct{}{})
}
