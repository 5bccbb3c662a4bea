package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"simlab/config"
	"simlab/internal/api/handler"
	"simlab/internal/api/middleware"
	"simlab/internal/rbac"
	"simlab/pkg/jwt"
)

// Deps infrastructure the router needs besides handlers. Blacklist and
// Limiter may be nil when Redis is not configured.
type Deps struct {
	JWT       *jwt.Manager
	Checker   *rbac.Checker
	Blacklist middleware.TokenBlacklist
	Limiter   middleware.RateLimiter
}

// Setup builds the gin engine
func Setup(cfg *config.Config, h *handler.Handler, deps Deps, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	need := func(ids ...string) gin.HandlerFunc {
		return middleware.RequirePermission(deps.Checker, ids...)
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login",
			middleware.RateLimit(deps.Limiter, cfg.Server.LoginLimit, cfg.Server.LoginWindow),
			h.Auth.Login)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(deps.JWT, deps.Blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.GET("/me/permissions", h.Auth.Permissions)

			authorized.GET("/stats", need("schedule.view", "system.reports"), h.Stats.Dashboard)
			authorized.POST("/validation/:entity", h.Validation.Validate)

			users := authorized.Group("/users")
			{
				users.GET("", need("users.view"), h.User.List)
				users.GET("/:id", need("users.view"), h.User.Get)
				users.POST("", need("users.create"), h.User.Create)
				users.PATCH("/:id", need("users.edit"), h.User.Update)
				users.DELETE("/:id", need("users.delete"), h.User.Delete)
				users.POST("/:id/reset-password", need("users.edit"), h.User.ResetPassword)
			}

			labRead := need("labs.view", "labs.manage", "schedule.view")
			labRooms := authorized.Group("/lab-rooms")
			{
				labRooms.GET("", labRead, h.LabRoom.List)
				labRooms.GET("/options", labRead, h.LabRoom.Options)
				labRooms.GET("/:id", labRead, h.LabRoom.Get)
				labRooms.POST("", need("labs.manage"), h.LabRoom.Create)
				labRooms.PATCH("/:id", need("labs.manage"), h.LabRoom.Update)
				labRooms.DELETE("/:id", need("labs.manage"), h.LabRoom.Delete)
			}

			courseRead := need("subjects.view", "subjects.manage", "schedule.view")
			courses := authorized.Group("/courses")
			{
				courses.GET("", courseRead, h.Course.List)
				courses.GET("/options", courseRead, h.Course.Options)
				courses.GET("/:id", courseRead, h.Course.Get)
				courses.POST("", need("subjects.manage"), h.Course.Create)
				courses.PATCH("/:id", need("subjects.manage"), h.Course.Update)
				courses.POST("/:id/assign-instructor", need("subjects.manage"), h.Course.AssignInstructor)
				courses.DELETE("/:id", need("subjects.manage"), h.Course.Delete)
			}

			// ownership for own-only roles is enforced by the schedule service
			scheduleWrite := need("schedule.manage", "schedule.own")
			schedule := authorized.Group("/schedule-entries")
			{
				schedule.GET("", need("schedule.view"), h.Schedule.List)
				schedule.GET("/stats", need("schedule.view"), h.Schedule.Stats)
				schedule.GET("/export.xlsx", need("schedule.view"), h.Export.ExportXLSX)
				schedule.GET("/export.ics", need("schedule.view"), h.Export.ExportICS)
				schedule.POST("/availability", scheduleWrite, h.Schedule.Availability)
				schedule.GET("/:id", need("schedule.view"), h.Schedule.Get)
				schedule.POST("", scheduleWrite, h.Schedule.Create)
				schedule.PATCH("/:id", scheduleWrite, h.Schedule.Update)
				schedule.DELETE("/:id", scheduleWrite, h.Schedule.Delete)
			}
		}
	}

	return r
}
