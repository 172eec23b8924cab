package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/field-report-api/internal/authz"
	"github.com/yukikurage/field-report-api/internal/middleware"
	"github.com/yukikurage/field-report-api/internal/services"
)

// Services are the application services the HTTP layer is built on.
type Services struct {
	Auth          *services.AuthService
	Catalog       *services.CatalogService
	Attendance    *services.AttendanceService
	Roster        *services.RosterService
	Availability  *services.AvailabilityService
	Submissions   *services.SubmissionService
	Approvals     *services.ApprovalService
	Organizations *services.OrganizationService
	Authorizer    *authz.Authorizer
}

// RegisterRoutes mounts the API under /api. Session middleware must already
// be installed on r.
func RegisterRoutes(r gin.IRouter, s Services) {
	authHandler := NewAuthHandler(s.Auth)
	userHandler := NewUserHandler(s.Auth)
	teamHandler := NewTeamHandler(s.Roster, s.Availability, s.Submissions.Today)
	submissionHandler := NewSubmissionHandler(s.Submissions, s.Roster)
	reportHandler := NewReportHandler(s.Approvals)
	catalogHandler := NewCatalogHandler(s.Catalog)
	attendanceHandler := NewAttendanceHandler(s.Attendance, s.Submissions.Today)
	orgHandler := NewOrganizationHandler(s.Organizations)

	api := r.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", middleware.RequireAuth(), middleware.RequireTenant(s.Auth), authHandler.GetCurrentUser)
	}

	// Everything else is tenant-scoped
	scoped := api.Group("")
	scoped.Use(middleware.RequireAuth(), middleware.RequireTenant(s.Auth), middleware.NoStore())

	scoped.GET("/organization", orgHandler.GetOrganization)
	scoped.DELETE("/organization", orgHandler.DeleteOrganization)

	users := scoped.Group("/users")
	{
		users.GET("", middleware.RequirePermission(s.Authorizer, authz.UsersManage), userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/:userId", userHandler.GetUser)
	}

	teams := scoped.Group("/teams")
	{
		teams.GET("", teamHandler.ListTeams)
		teams.POST("", teamHandler.CreateTeam)
		teams.GET("/by-leader/:leaderId", teamHandler.GetByLeader)
		teams.GET("/:teamId", teamHandler.GetTeam)
		teams.GET("/:teamId/members", teamHandler.GetMembers)
		teams.PUT("/:teamId/members", teamHandler.SetMembers)
		teams.GET("/:teamId/members-status", teamHandler.GetMembersStatus)
		teams.PUT("/:teamId/leader", teamHandler.SetLeader)
	}

	submissions := scoped.Group("/team-submissions")
	{
		submissions.GET("/today", submissionHandler.GetToday)
		submissions.POST("", submissionHandler.CreateSubmission)
	}

	reports := scoped.Group("/daily-reports")
	{
		reports.GET("", reportHandler.ListReports)
		reports.GET("/:reportId", reportHandler.GetReport)
		reports.PATCH("/:reportId/status", reportHandler.UpdateStatus)
	}

	scoped.GET("/clients", catalogHandler.ListClients)
	scoped.POST("/clients", catalogHandler.CreateClient)
	scoped.GET("/clients/:clientId/work-orders", catalogHandler.ListWorkOrders)
	scoped.POST("/work-orders", catalogHandler.CreateWorkOrder)

	attendance := scoped.Group("/attendance")
	{
		attendance.GET("", middleware.RequirePermission(s.Authorizer, authz.AttendanceManage), attendanceHandler.ListAttendance)
		attendance.PUT("", attendanceHandler.RecordAbsence)
		attendance.DELETE("/:userId/:date", attendanceHandler.ClearAbsence)
	}
}
