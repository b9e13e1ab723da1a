package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/user-management-service/internal/core/domain/project"
	"github.com/avatarctic/user-management-service/internal/core/ports"
)

type ProjectService struct {
	repo     ports.ProjectRepository
	userRepo ports.UserRepository
	logger   *logrus.Logger
}

func NewProjectService(repo ports.ProjectRepository, userRepo ports.UserRepository, logger *logrus.Logger) ports.ProjectService {
	return &ProjectService{repo: repo, userRepo: userRepo, logger: logger}
}

func (s *ProjectService) ListProjects(ctx context.Context, q project.ListQuery) ([]*project.Project, error) {
	if q.Status != "" {
		return s.repo.ListByStatus(ctx, q.Status, q.Skip, q.Limit)
	}
	return s.repo.List(ctx, q.Skip, q.Limit)
}

func (s *ProjectService) ListMyProjects(ctx context.Context, actor int64, skip, limit int) ([]*project.Project, error) {
	return s.repo.ListByUser(ctx, actor, skip, limit)
}

// CreateProject creates the project with actor as its owner.
func (s *ProjectService) CreateProject(ctx context.Context, actor int64, req *project.CreateProjectRequest) (*project.Project, error) {
	if err := s.ensureNameFree(ctx, req.Name, 0); err != nil {
		return nil, err
	}
	p := &project.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		IsActive:    true,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if p.Status == "" {
		p.Status = project.StatusPlanning
	}
	if err := s.repo.Create(ctx, p, actor); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"project_id": p.ID, "owner_id": actor}).Info("project created")
	}
	return p, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id int64) (*project.Detail, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProjectService) UpdateProject(ctx context.Context, id int64, req *project.UpdateProjectRequest) (*project.Project, error) {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := detail.Project
	if req.Name != nil && *req.Name != p.Name {
		if err := s.ensureNameFree(ctx, *req.Name, id); err != nil {
			return nil, err
		}
	}
	req.Apply(&p)
	if err := s.repo.Update(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes the project and returns it as it was.
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) (*project.Project, error) {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return &detail.Project, nil
}

func (s *ProjectService) AddMember(ctx context.Context, projectID int64, req *project.AddMemberRequest) error {
	if _, err := s.repo.GetByID(ctx, projectID); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return err
	}
	if _, err := s.repo.MemberRole(ctx, projectID, req.UserID); err == nil {
		return project.ErrAlreadyMember
	} else if !errors.Is(err, project.ErrNotMember) {
		return err
	}
	role := req.Role
	if role == "" {
		role = project.RoleMember
	}
	return s.repo.AddMember(ctx, projectID, req.UserID, role)
}

func (s *ProjectService) RemoveMember(ctx context.Context, projectID int64, req *project.RemoveMemberRequest) error {
	if _, err := s.repo.GetByID(ctx, projectID); err != nil {
		return err
	}
	role, err := s.repo.MemberRole(ctx, projectID, req.UserID)
	if err != nil {
		return err
	}
	if role == project.RoleOwner {
		return project.ErrCannotRemoveOwner
	}
	return s.repo.RemoveMember(ctx, projectID, req.UserID)
}

func (s *ProjectService) ensureNameFree(ctx context.Context, name string, self int64) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return project.ErrProjectNameTaken
	}
	return nil
}
