package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/user-management-service/internal/core/domain/project"
	"github.com/avatarctic/user-management-service/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listProjects(c echo.Context) error {
	skip, limit, err := helpers.Pagination(c, 100)
	if err != nil {
		return err
	}
	status := project.Status(c.QueryParam("status"))
	if status != "" && !status.IsValid() {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid status")
	}

	items, err := s.projectSvc.ListProjects(c.Request().Context(), project.ListQuery{Status: status, Skip: skip, Limit: limit})
	if err != nil {
		return s.toHTTPError(c, err, "failed to list projects")
	}
	return c.JSON(http.StatusOK, nonNil(items))
}

func (s *Server) listMyProjects(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	skip, limit, err := helpers.Pagination(c, 100)
	if err != nil {
		return err
	}
	items, err := s.projectSvc.ListMyProjects(c.Request().Context(), current.ID, skip, limit)
	if err != nil {
		return s.toHTTPError(c, err, "failed to list projects")
	}
	return c.JSON(http.StatusOK, nonNil(items))
}

func (s *Server) createProject(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	var req project.CreateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := s.projectSvc.CreateProject(c.Request().Context(), current.ID, &req)
	if err != nil {
		return s.toHTTPError(c, err, "failed to create project")
	}
	return c.JSON(http.StatusOK, created)
}

func (s *Server) getProject(c echo.Context) error {
	id, err := helpers.ParseIDParam(c, "project_id")
	if err != nil {
		return err
	}
	detail, err := s.projectSvc.GetProject(c.Request().Context(), id)
	if err != nil {
		return s.toHTTPError(c, err, "failed to get project")
	}
	return c.JSON(http.StatusOK, detail)
}

func (s *Server) updateProject(c echo.Context) error {
	id, err := helpers.ParseIDParam(c, "project_id")
	if err != nil {
		return err
	}
	var req project.UpdateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := s.projectSvc.UpdateProject(c.Request().Context(), id, &req)
	if err != nil {
		return s.toHTTPError(c, err, "failed to update project")
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteProject(c echo.Context) error {
	id, err := helpers.ParseIDParam(c, "project_id")
	if err != nil {
		return err
	}
	deleted, err := s.projectSvc.DeleteProject(c.Request().Context(), id)
	if err != nil {
		return s.toHTTPError(c, err, "failed to delete project")
	}
	return c.JSON(http.StatusOK, deleted)
}

func (s *Server) addProjectMember(c echo.Context) error {
	id, err := helpers.ParseIDParam(c, "project_id")
	if err != nil {
		return err
	}
	var req project.AddMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := s.projectSvc.AddMember(c.Request().Context(), id, &req); err != nil {
		return s.toHTTPError(c, err, "failed to add project member")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Member added successfully"})
}

func (s *Server) removeProjectMember(c echo.Context) error {
	id, err := helpers.ParseIDParam(c, "project_id")
	if err != nil {
		return err
	}
	var req project.RemoveMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := s.projectSvc.RemoveMember(c.Request().Context(), id, &req); err != nil {
		return s.toHTTPError(c, err, "failed to remove project member")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Member removed successfully"})
}
