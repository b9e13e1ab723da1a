package ports

import (
	"context"

	"github.com/avatarctic/user-management-service/internal/core/domain/project"
)

// ProjectRepository defines the interface for project and membership data operations
type ProjectRepository interface {
	// Create inserts p and the owner membership in one transaction
	Create(ctx context.Context, p *project.Project, ownerID int64) error
	GetByID(ctx context.Context, id int64) (*project.Detail, error)
	GetByName(ctx context.Context, name string) (*project.Project, error)
	Update(ctx context.Context, p *project.Project) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, skip, limit int) ([]*project.Project, error)
	ListByStatus(ctx context.Context, status project.Status, skip, limit int) ([]*project.Project, error)
	ListByUser(ctx context.Context, userID int64, skip, limit int) ([]*project.Project, error)
	AddMember(ctx context.Context, projectID, userID int64, role project.Role) error
	RemoveMember(ctx context.Context, projectID, userID int64) error
	MemberRole(ctx context.Context, projectID, userID int64) (project.Role, error)
}

// ProjectService defines the interface for project business logic
type ProjectService interface {
	ListProjects(ctx context.Context, q project.ListQuery) ([]*project.Project, error)
	ListMyProjects(ctx context.Context, actor int64, skip, limit int) ([]*project.Project, error)
	CreateProject(ctx context.Context, actor int64, req *project.CreateProjectRequest) (*project.Project, error)
	GetProject(ctx context.Context, id int64) (*project.Detail, error)
	UpdateProject(ctx context.Context, id int64, req *project.UpdateProjectRequest) (*project.Project, error)
	DeleteProject(ctx context.Context, id int64) (*project.Project, error)
	AddMember(ctx context.Context, projectID int64, req *project.AddMemberRequest) error
	RemoveMember(ctx context.Context, projectID int64, req *project.RemoveMemberRequest) error
}
