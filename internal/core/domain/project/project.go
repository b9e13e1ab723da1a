package project

import (
	"errors"
	"time"
)

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrProjectNameTaken  = errors.New("project name already exists")
	ErrAlreadyMember     = errors.New("user is already a member of this project")
	ErrNotMember         = errors.New("user is not a member of this project")
	ErrCannotRemoveOwner = errors.New("cannot remove project owner")
)

type Status string

const (
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusCompleted, StatusOnHold, StatusCancelled:
		return true
	default:
		return false
	}
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// CanManage reports whether the role may edit the project and its members.
func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleAdmin
}

type Project struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	StartDate   *time.Time `json:"start_date" db:"start_date"`
	EndDate     *time.Time `json:"end_date" db:"end_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" db:"updated_at"`
	RowVersion  string     `json:"_row_version,omitempty" db:"row_version"`
}

// Member is the basic user info listed on a project
type Member struct {
	ID       int64     `json:"id" db:"id"`
	Email    string    `json:"email" db:"email"`
	FullName string    `json:"full_name" db:"full_name"`
	Country  *string   `json:"country" db:"country"`
	Role     Role      `json:"role" db:"role"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

// Detail is a project with its members
type Detail struct {
	Project
	Members []Member `json:"members"`
}

// RoleOf returns the role of userID, or "" if they are not a member.
func (d *Detail) RoleOf(userID int64) Role {
	for _, m := range d.Members {
		if m.ID == userID {
			return m.Role
		}
	}
	return ""
}

type CreateProjectRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=255"`
	Description *string    `json:"description,omitempty"`
	Status      Status     `json:"status,omitempty" validate:"omitempty,oneof=planning in_progress completed on_hold cancelled"`
	IsActive    *bool      `json:"is_active,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// UpdateProjectRequest is a partial update; nil fields are left unchanged
type UpdateProjectRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description,omitempty"`
	Status      *Status    `json:"status,omitempty" validate:"omitempty,oneof=planning in_progress completed on_hold cancelled"`
	IsActive    *bool      `json:"is_active,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

func (r *UpdateProjectRequest) Apply(p *Project) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	if r.StartDate != nil {
		p.StartDate = r.StartDate
	}
	if r.EndDate != nil {
		p.EndDate = r.EndDate
	}
}

type AddMemberRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
	Role   Role  `json:"role,omitempty" validate:"omitempty,oneof=owner admin member"`
}

type RemoveMemberRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// ListQuery selects a page of projects, optionally by status
type ListQuery struct {
	Status Status
	Skip   int
	Limit  int
}
