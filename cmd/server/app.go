package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/field-report-api/internal/authz"
	"github.com/yukikurage/field-report-api/internal/config"
	"github.com/yukikurage/field-report-api/internal/constants"
	"github.com/yukikurage/field-report-api/internal/handlers"
	"github.com/yukikurage/field-report-api/internal/metrics"
	"github.com/yukikurage/field-report-api/internal/middleware"
	"github.com/yukikurage/field-report-api/internal/repository"
	"github.com/yukikurage/field-report-api/internal/services"
	"gorm.io/gorm"
)

// newLogger builds the process logger: JSON in release mode, text otherwise.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store

	switch cfg.SessionStore {
	case "cookie":
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	default:
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		s, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = s
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// newRouter wires repositories, services and handlers onto a gin engine.
func newRouter(cfg *config.Config, db *gorm.DB, registry *prometheus.Registry, logger *slog.Logger) (*gin.Engine, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	policy, err := authz.LoadPolicy(cfg.AuthzPolicyFile)
	if err != nil {
		return nil, err
	}
	authorizer, err := authz.NewAuthorizer(policy)
	if err != nil {
		return nil, fmt.Errorf("authz: %w", err)
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	recorder := metrics.New(registry)

	userRepo := repository.NewUserRepository(db)
	owners := repository.NewOwnershipRepository(db)

	catalog := services.NewCatalogService(repository.NewCatalogRepository(db), owners, authorizer, recorder)
	attendance := services.NewAttendanceService(repository.NewAttendanceRepository(db), userRepo, owners, authorizer, recorder)
	roster := services.NewRosterService(repository.NewTeamRepository(db), userRepo, owners, authorizer, recorder)
	availability := services.NewAvailabilityService(roster, attendance)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Field Report API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(r, handlers.Services{
		Auth:          services.NewAuthService(userRepo, owners, authorizer),
		Catalog:       catalog,
		Attendance:    attendance,
		Roster:        roster,
		Availability:  availability,
		Submissions:   services.NewSubmissionService(repository.NewSubmissionRepository(db), owners, roster, catalog, availability, recorder, time.Now, location),
		Approvals:     services.NewApprovalService(repository.NewReportRepository(db), owners, authorizer, recorder, time.Now),
		Organizations: services.NewOrganizationService(repository.NewOrganizationRepository(db), authorizer),
		Authorizer:    authorizer,
	})

	return r, nil
}
