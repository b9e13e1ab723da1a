package httpserver

import (
	"github.com/avatarctic/user-management-service/internal/core/ports"
)

func (s *Server) setupRoutes() {
	s.echo.GET("/", s.root)
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	jwt := s.middleware.JWT
	ac := s.middleware.AccessControl

	api := s.echo.Group(s.config.APIPrefix)
	auth := api.Group("/auth")
	auth.POST("/register", s.register, s.middleware.RateLimit.Handler())
	auth.POST("/login", s.login, s.middleware.RateLimit.Handler())

	protected := api.Group("", jwt.RequireJWT())
	protected.GET("/auth/me", s.me)
	protected.POST("/auth/test-token", s.me)

	users := protected.Group("/users")
	users.GET("", s.listUsers)
	users.GET("/today", s.listUsersCreatedToday)
	users.GET("/date-range", s.listUsersByDateRange)
	users.GET("/:id", s.getUser)
	users.GET("/:id/statistics", s.getUserStatistics)
	users.PUT("/:id", s.updateUser, ac.RequireUserAction("id", ports.AccessActionUpdateUser))
	users.DELETE("/:id", s.deleteUser, jwt.RequireSuperuser())

	read := ac.RequireUserAction("user_id", ports.AccessActionReadActivities)
	activities := users.Group("/:user_id/activities")
	activities.POST("", s.createActivity, ac.RequireUserAction("user_id", ports.AccessActionRecordActivity))
	activities.GET("", s.listActivities, read)
	activities.GET("/date/:date", s.listActivitiesByDate, read)
	activities.GET("/date-range", s.listActivitiesByDateRange, read)
	activities.GET("/type/:action_type", s.listActivitiesByType, read)
	activities.GET("/stats/:date", s.activityStats, read)
	activities.GET("/recent", s.listRecentActivities, read)

	projects := protected.Group("/projects")
	projects.GET("", s.listProjects)
	projects.GET("/my-projects", s.listMyProjects)
	projects.POST("", s.createProject)
	projects.GET("/:project_id", s.getProject, ac.RequireProjectAction(ports.AccessActionViewProject))
	projects.PUT("/:project_id", s.updateProject, ac.RequireProjectAction(ports.AccessActionManageProject))
	projects.DELETE("/:project_id", s.deleteProject, ac.RequireProjectAction(ports.AccessActionDeleteProject))
	projects.POST("/:project_id/members", s.addProjectMember, ac.RequireProjectAction(ports.AccessActionManageProject))
	projects.DELETE("/:project_id/members", s.removeProjectMember, ac.RequireProjectAction(ports.AccessActionManageProject))

	reports := protected.Group("/admin/reports", jwt.RequireSuperuser())
	reports.GET("/stats/overall", s.overallStats)
	reports.GET("/stats/new-users", s.newUsersStats)
	reports.GET("/stats/by-country", s.countryStats)
	reports.GET("/stats/daily", s.dailyStats)
	reports.GET("/users/filter", s.filterUsers)
	reports.GET("/users/country/:country", s.usersByCountry)
}
