package services

import (
	"context"
	"errors"

	"github.com/avatarctic/user-management-service/internal/core/domain/project"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/core/ports"
)

// AccessControlService implements ports.AccessControlService
type AccessControlService struct {
	userSvc    ports.UserService
	projectSvc ports.ProjectService
}

func NewAccessControlService(userSvc ports.UserService, projectSvc ports.ProjectService) ports.AccessControlService {
	return &AccessControlService{
		userSvc:    userSvc,
		projectSvc: projectSvc,
	}
}

// CanActOnUser loads the target user and allows any user action for the user
// themselves or a superuser. It returns the loaded target.
func (a *AccessControlService) CanActOnUser(ctx context.Context, actor *user.User, targetID int64, action ports.AccessAction) (*user.User, error) {
	target, err := a.userSvc.GetUser(ctx, targetID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ports.NewAccessControlError(ports.ACCodeNotFound, "User not found")
		}
		return nil, err
	}
	if actor.IsSuperuser || actor.ID == target.ID {
		return target, nil
	}
	return nil, ports.NewAccessControlError(ports.ACCodeForbidden, "Not enough permissions")
}

// CanActOnProject checks the actor's membership role. Superusers bypass every check.
func (a *AccessControlService) CanActOnProject(ctx context.Context, actor *user.User, projectID int64, action ports.AccessAction) error {
	detail, err := a.projectSvc.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return ports.NewAccessControlError(ports.ACCodeNotFound, "Project not found")
		}
		return err
	}
	if actor.IsSuperuser {
		return nil
	}

	role := detail.RoleOf(actor.ID)
	switch action {
	case ports.AccessActionViewProject:
		if role == "" {
			return ports.NewAccessControlError(ports.ACCodeForbidden, "Not a member of this project")
		}
	case ports.AccessActionManageProject:
		if !role.CanManage() {
			return ports.NewAccessControlError(ports.ACCodeForbidden, "Not enough permissions")
		}
	case ports.AccessActionDeleteProject:
		if role != project.RoleOwner {
			return ports.NewAccessControlError(ports.ACCodeForbidden, "Only project owner can delete project")
		}
	default:
		return ports.NewAccessControlError(ports.ACCodeForbidden, "Not enough permissions")
	}
	return nil
}
