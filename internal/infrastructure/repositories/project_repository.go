package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/user-management-service/internal/core/domain/project"
	"github.com/avatarctic/user-management-service/internal/core/ports"
	"github.com/avatarctic/user-management-service/internal/infrastructure/db"
)

const projectColumns = `p.id, p.name, p.description, p.status, p.is_active, p.start_date, p.end_date,
	p.created_at, p.updated_at, p.xmin::text AS row_version`

const memberUniqueConstraint = "uq_user_project"

type projectRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(database *db.Database, logger *logrus.Logger) ports.ProjectRepository {
	return &projectRepository{db: database, logger: logger}
}

func (r *projectRepository) Create(ctx context.Context, p *project.Project, ownerID int64) error {
	if p.Status == "" {
		p.Status = project.StatusPlanning
	}
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO projects (name, description, status, is_active, start_date, end_date)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, xmin::text`
		if err := tx.QueryRowxContext(ctx, query,
			p.Name, p.Description, p.Status, p.IsActive, p.StartDate, p.EndDate,
		).Scan(&p.ID, &p.CreatedAt, &p.RowVersion); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO user_projects (user_id, project_id, role) VALUES ($1, $2, $3)`,
			ownerID, p.ID, project.RoleOwner)
		return err
	})
	if err != nil {
		if isUniqueViolation(err, "") {
			return project.ErrProjectNameTaken
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"name": p.Name, "owner_id": ownerID}).WithError(err).Error("db: failed to create project")
		}
		return fmt.Errorf("failed to create project: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"project_id": p.ID, "owner_id": ownerID}).Info("db: project created")
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id int64) (*project.Detail, error) {
	var d project.Detail
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.id = $1`
	if err := r.db.DB.GetContext(ctx, &d.Project, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, project.ErrProjectNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"project_id": id}).WithError(err).Error("db: failed to get project by ID")
		}
		return nil, fmt.Errorf("failed to get project by ID: %w", err)
	}

	d.Members = []project.Member{}
	membersQuery := `
		SELECT u.id, u.email, u.full_name, u.country, up.role, up.joined_at
		FROM user_projects up
		JOIN users u ON u.id = up.user_id
		WHERE up.project_id = $1
		ORDER BY up.joined_at, u.id`
	if err := r.db.DB.SelectContext(ctx, &d.Members, membersQuery, id); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"project_id": id}).WithError(err).Error("db: failed to list project members")
		}
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	return &d, nil
}

func (r *projectRepository) GetByName(ctx context.Context, name string) (*project.Project, error) {
	var p project.Project
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.name = $1`
	if err := r.db.DB.GetContext(ctx, &p, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project by name: %w", err)
	}
	return &p, nil
}

func (r *projectRepository) Update(ctx context.Context, p *project.Project) error {
	now := time.Now().UTC()
	query := `
		UPDATE projects
		SET name = $2, description = $3, status = $4, is_active = $5, start_date = $6, end_date = $7, updated_at = $8
		WHERE id = $1
		RETURNING xmin::text`
	err := r.db.DB.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.Description, p.Status, p.IsActive, p.StartDate, p.EndDate, now,
	).Scan(&p.RowVersion)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return project.ErrProjectNotFound
		}
		if isUniqueViolation(err, "") {
			return project.ErrProjectNameTaken
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"project_id": p.ID}).WithError(err).Error("db: failed to update project")
		}
		return fmt.Errorf("failed to update project: %w", err)
	}
	p.UpdatedAt = &now
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"project_id": id}).WithError(err).Error("db: failed to delete project")
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

func (r *projectRepository) List(ctx context.Context, skip, limit int) ([]*project.Project, error) {
	projects := []*project.Project{}
	query := `SELECT ` + projectColumns + ` FROM projects p ORDER BY p.id LIMIT $1 OFFSET $2`
	if err := r.db.DB.SelectContext(ctx, &projects, query, limit, skip); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list projects")
		}
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) ListByStatus(ctx context.Context, status project.Status, skip, limit int) ([]*project.Project, error) {
	projects := []*project.Project{}
	query := `SELECT ` + projectColumns + ` FROM projects p WHERE p.status = $1 ORDER BY p.id LIMIT $2 OFFSET $3`
	if err := r.db.DB.SelectContext(ctx, &projects, query, status, limit, skip); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"status": status}).WithError(err).Error("db: failed to list projects by status")
		}
		return nil, fmt.Errorf("failed to list projects by status: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) ListByUser(ctx context.Context, userID int64, skip, limit int) ([]*project.Project, error) {
	projects := []*project.Project{}
	query := `SELECT ` + projectColumns + `
		FROM projects p
		JOIN user_projects up ON up.project_id = p.id
		WHERE up.user_id = $1
		ORDER BY p.id LIMIT $2 OFFSET $3`
	if err := r.db.DB.SelectContext(ctx, &projects, query, userID, limit, skip); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to list user projects")
		}
		return nil, fmt.Errorf("failed to list user projects: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) AddMember(ctx context.Context, projectID, userID int64, role project.Role) error {
	_, err := r.db.DB.ExecContext(ctx,
		`INSERT INTO user_projects (user_id, project_id, role) VALUES ($1, $2, $3)`,
		userID, projectID, role)
	if err != nil {
		if isUniqueViolation(err, memberUniqueConstraint) {
			return project.ErrAlreadyMember
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"project_id": projectID, "user_id": userID}).WithError(err).Error("db: failed to add project member")
		}
		return fmt.Errorf("failed to add project member: %w", err)
	}
	return nil
}

func (r *projectRepository) RemoveMember(ctx context.Context, projectID, userID int64) error {
	result, err := r.db.DB.ExecContext(ctx,
		`DELETE FROM user_projects WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"project_id": projectID, "user_id": userID}).WithError(err).Error("db: failed to remove project member")
		}
		return fmt.Errorf("failed to remove project member: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return project.ErrNotMember
	}
	return nil
}

func (r *projectRepository) MemberRole(ctx context.Context, projectID, userID int64) (project.Role, error) {
	var role project.Role
	err := r.db.DB.GetContext(ctx, &role,
		`SELECT role FROM user_projects WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", project.ErrNotMember
		}
		return "", fmt.Errorf("failed to get member role: %w", err)
	}
	return role, nil
}
