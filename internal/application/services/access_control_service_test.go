package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/user-management-service/internal/application/services"
	"github.com/avatarctic/user-management-service/internal/core/domain/project"
	"github.com/avatarctic/user-management-service/internal/core/domain/user"
	"github.com/avatarctic/user-management-service/internal/core/ports"
	"github.com/avatarctic/user-management-service/test/mocks"
)

func acCode(t *testing.T, err error) int {
	t.Helper()
	var ace ports.AccessControlError
	require.True(t, errors.As(err, &ace), "expected AccessControlError, got %v", err)
	return ace.Code()
}

func newAccessControl() ports.AccessControlService {
	users := &mocks.UserServiceMock{
		GetUserFn: func(ctx context.Context, id int64) (*user.User, error) {
			if id == 404 {
				return nil, user.ErrUserNotFound
			}
			return &user.User{ID: id, IsActive: true}, nil
		},
	}
	projects := &mocks.ProjectServiceMock{
		GetProjectFn: func(ctx context.Context, id int64) (*project.Detail, error) {
			if id == 404 {
				return nil, project.ErrProjectNotFound
			}
			return detailWith(id, "Apollo",
				project.Member{ID: 1, Role: project.RoleOwner},
				project.Member{ID: 2, Role: project.RoleAdmin},
				project.Member{ID: 3, Role: project.RoleMember},
			), nil
		},
	}
	return services.NewAccessControlService(users, projects)
}

func TestCanActOnUser(t *testing.T) {
	ac := newAccessControl()
	ctx := context.Background()
	self := &user.User{ID: 5}
	admin := &user.User{ID: 1, IsSuperuser: true}

	target, err := ac.CanActOnUser(ctx, self, 5, ports.AccessActionUpdateUser)
	require.NoError(t, err)
	assert.Equal(t, int64(5), target.ID)

	_, err = ac.CanActOnUser(ctx, admin, 5, ports.AccessActionReadActivities)
	require.NoError(t, err)

	_, err = ac.CanActOnUser(ctx, self, 6, ports.AccessActionReadActivities)
	assert.Equal(t, ports.ACCodeForbidden, acCode(t, err))
	assert.Equal(t, "Not enough permissions", err.Error())

	_, err = ac.CanActOnUser(ctx, admin, 404, ports.AccessActionUpdateUser)
	assert.Equal(t, ports.ACCodeNotFound, acCode(t, err))
}

func TestCanActOnProject(t *testing.T) {
	ac := newAccessControl()
	ctx := context.Background()
	owner, admin, member, outsider := &user.User{ID: 1}, &user.User{ID: 2}, &user.User{ID: 3}, &user.User{ID: 9}
	super := &user.User{ID: 100, IsSuperuser: true}

	cases := []struct {
		name    string
		actor   *user.User
		action  ports.AccessAction
		wantErr string
	}{
		{"member views", member, ports.AccessActionViewProject, ""},
		{"outsider views", outsider, ports.AccessActionViewProject, "Not a member of this project"},
		{"admin manages", admin, ports.AccessActionManageProject, ""},
		{"member manages", member, ports.AccessActionManageProject, "Not enough permissions"},
		{"owner deletes", owner, ports.AccessActionDeleteProject, ""},
		{"admin deletes", admin, ports.AccessActionDeleteProject, "Only project owner can delete project"},
		{"superuser deletes", super, ports.AccessActionDeleteProject, ""},
		{"superuser views", super, ports.AccessActionViewProject, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ac.CanActOnProject(ctx, tc.actor, 1, tc.action)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, ports.ACCodeForbidden, acCode(t, err))
			assert.Equal(t, tc.wantErr, err.Error())
		})
	}

	err := ac.CanActOnProject(ctx, super, 404, ports.AccessActionViewProject)
	assert.Equal(t, ports.ACCodeNotFound, acCode(t, err))
}
