// Command seed fills the database with generated users, projects, activities and
// memberships for load and search testing. Every seeded account uses the password
// "password123".
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	config "github.com/avatarctic/user-management-service/configs"
	"github.com/avatarctic/user-management-service/internal/infrastructure/db"
	"github.com/avatarctic/user-management-service/internal/utils"
)

const (
	insertUser = `INSERT INTO users (email, full_name, hashed_password, is_active, is_superuser, bio, country, created_at, updated_at)
		VALUES (:email, :full_name, :hashed_password, :is_active, :is_superuser, :bio, :country, :created_at, :created_at)`
	insertProject = `INSERT INTO projects (name, description, is_active, status, start_date, end_date, created_at)
		VALUES (:name, :description, :is_active, :status, :start_date, :end_date, :created_at)`
	insertActivity = `INSERT INTO user_activities (user_id, action_type, description, ip_address, user_agent, created_at)
		VALUES (:user_id, :action_type, :description, :ip_address, :user_agent, :created_at)`
	insertMembership = `INSERT INTO user_projects (user_id, project_id, role, joined_at)
		VALUES (:user_id, :project_id, :role, :joined_at) ON CONFLICT (user_id, project_id) DO NOTHING`
)

func main() {
	users := flag.Int("users", 20000, "number of users to create")
	projects := flag.Int("projects", 5000, "number of projects to create")
	batch := flag.Int("batch", 1000, "rows per INSERT statement")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	if err := database.Migrate(cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations:", err)
	}

	hash, err := utils.HashPassword("password123")
	if err != nil {
		logger.Fatal("Failed to hash password:", err)
	}

	ctx := context.Background()
	g := newGenerator(*seed, time.Now().UTC())
	started := time.Now()

	err = database.WithTx(ctx, func(tx *sqlx.Tx) error {
		userRows := make([]userRow, *users)
		for i := range userRows {
			userRows[i] = g.user(i, hash)
		}
		if err := insertBatches(ctx, tx, insertUser, userRows, *batch); err != nil {
			return fmt.Errorf("users: %w", err)
		}
		logger.WithField("count", len(userRows)).Info("Users created")

		projectRows := make([]projectRow, *projects)
		for i := range projectRows {
			projectRows[i] = g.project(i)
		}
		if err := insertBatches(ctx, tx, insertProject, projectRows, *batch); err != nil {
			return fmt.Errorf("projects: %w", err)
		}
		logger.WithField("count", len(projectRows)).Info("Projects created")

		var userIDs, projectIDs []int64
		if err := tx.SelectContext(ctx, &userIDs, `SELECT id FROM users ORDER BY id`); err != nil {
			return fmt.Errorf("user ids: %w", err)
		}
		if err := tx.SelectContext(ctx, &projectIDs, `SELECT id FROM projects ORDER BY id`); err != nil {
			return fmt.Errorf("project ids: %w", err)
		}

		var activityRows []activityRow
		var membershipRows []membershipRow
		for _, id := range userIDs {
			activityRows = append(activityRows, g.activities(id)...)
			membershipRows = append(membershipRows, g.memberships(id, projectIDs)...)
		}
		if err := insertBatches(ctx, tx, insertActivity, activityRows, *batch); err != nil {
			return fmt.Errorf("activities: %w", err)
		}
		logger.WithField("count", len(activityRows)).Info("Activities created")
		if err := insertBatches(ctx, tx, insertMembership, membershipRows, *batch); err != nil {
			return fmt.Errorf("memberships: %w", err)
		}
		logger.WithField("count", len(membershipRows)).Info("Memberships created")
		return nil
	})
	if err != nil {
		logger.Fatal("Failed to seed database:", err)
	}

	printStats(ctx, database, logger)
	logger.WithField("elapsed", time.Since(started).Round(time.Millisecond)).Info("Seeding complete")
}

// insertBatches runs query as a bulk named insert over rows, size rows at a time.
func insertBatches[T any](ctx context.Context, tx *sqlx.Tx, query string, rows []T, size int) error {
	if size <= 0 {
		size = len(rows)
	}
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := tx.NamedExecContext(ctx, query, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func printStats(ctx context.Context, database *db.Database, logger *logrus.Logger) {
	queries := []struct{ name, query string }{
		{"users", `SELECT COUNT(*) FROM users`},
		{"active_users", `SELECT COUNT(*) FROM users WHERE is_active`},
		{"superusers", `SELECT COUNT(*) FROM users WHERE is_superuser`},
		{"projects", `SELECT COUNT(*) FROM projects`},
		{"activities", `SELECT COUNT(*) FROM user_activities`},
		{"memberships", `SELECT COUNT(*) FROM user_projects`},
	}
	fields := logrus.Fields{}
	for _, q := range queries {
		var n int64
		if err := database.DB.GetContext(ctx, &n, q.query); err != nil {
			logger.WithError(err).WithField("stat", q.name).Warn("Failed to read statistic")
			continue
		}
		fields[q.name] = n
	}
	logger.WithFields(fields).Info("Database statistics")
}
