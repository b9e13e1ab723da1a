package ports

import (
	"context"

	"github.com/avatarctic/user-management-service/internal/core/domain/user"
)

// AccessAction represents an action to be authorized
type AccessAction string

const (
	AccessActionReadActivities AccessAction = "read_activities"
	AccessActionRecordActivity AccessAction = "record_activity"
	AccessActionUpdateUser     AccessAction = "update_user"
	AccessActionViewProject    AccessAction = "view_project"
	AccessActionManageProject  AccessAction = "manage_project"
	AccessActionDeleteProject  AccessAction = "delete_project"
)

// AccessControlService defines the interface for access control / policy checks
type AccessControlService interface {
	// CanActOnUser returns nil if actor may perform action on the target user
	CanActOnUser(ctx context.Context, actor *user.User, targetID int64, action AccessAction) (*user.User, error)
	// CanActOnProject returns nil if actor may perform action on the project
	CanActOnProject(ctx context.Context, actor *user.User, projectID int64, action AccessAction) error
}

// AccessControlError represents a typed error returned by access control checks.
// It is defined here so infrastructure can depend on the error contract without
// importing application-level implementations.
type AccessControlError interface {
	error
	Code() int
	Message() string
}

type accessControlError struct {
	code    int
	message string
}

func (e *accessControlError) Error() string   { return e.message }
func (e *accessControlError) Code() int       { return e.code }
func (e *accessControlError) Message() string { return e.message }

const (
	ACCodeUnknown   = 0
	ACCodeNotFound  = 1
	ACCodeForbidden = 2
)

// NewAccessControlError constructs a typed AccessControlError that implementations
// in the application layer can return and infrastructure can inspect.
func NewAccessControlError(code int, message string) AccessControlError {
	return &accessControlError{code: code, message: message}
}
