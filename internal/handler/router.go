package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escolaware/escola-api/internal/service"
	"github.com/escolaware/escola-api/pkg/config"
)

// Handlers bundles every endpoint group for route registration.
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	School     *SchoolHandler
	Enrollment *EnrollmentHandler
	Course     *CourseHandler
	Class      *ClassHandler
	Audio      *AudioHandler
	Dashboard  *DashboardHandler
	Metrics    *service.MetricsService
}

// Routes registers every API route on the engine. Uploaded files are served
// as static content under the configured public prefix.
func Routes(r *gin.Engine, cfg *config.Config, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	r.Static(cfg.Uploads.PublicPrefix, cfg.Uploads.Dir)

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", h.Auth.Login)
	api.GET("/auth/me/:id", h.Auth.Me)
	api.PUT("/change-password/:id", h.Auth.ChangePassword)

	api.POST("/register", h.User.Register)
	api.PUT("/edit-user/:id", h.User.EditUser)

	users := api.Group("/users")
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.POST("", h.User.Create)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}

	schools := api.Group("/escolas")
	{
		schools.GET("", h.School.List)
		schools.GET("/:id", h.School.Get)
		schools.POST("", h.School.Create)
		schools.PUT("/:id", h.School.Update)
		schools.DELETE("/:id", h.School.Delete)
	}

	enrollments := api.Group("/matriculas")
	{
		enrollments.GET("", h.Enrollment.List)
		enrollments.GET("/export", h.Enrollment.Export)
		enrollments.GET("/:id", h.Enrollment.Get)
		enrollments.POST("", h.Enrollment.Create)
		enrollments.PUT("/:id", h.Enrollment.Update)
		enrollments.DELETE("/:id", h.Enrollment.Delete)
	}

	courses := api.Group("/cursos")
	{
		courses.GET("", h.Course.List)
		courses.GET("/:id", h.Course.Get)
		courses.POST("", h.Course.Create)
		courses.PUT("/:id", h.Course.Update)
		courses.DELETE("/:id", h.Course.Delete)
	}

	classes := api.Group("/turmas")
	{
		classes.GET("", h.Class.List)
		classes.GET("/:id", h.Class.Get)
		classes.POST("", h.Class.Create)
		classes.PUT("/:id", h.Class.Update)
		classes.DELETE("/:id", h.Class.Delete)
	}

	audios := api.Group("/audios")
	{
		audios.GET("", h.Audio.List)
		audios.GET("/:id", h.Audio.Get)
		audios.POST("", h.Audio.Create)
		audios.PUT("/:id", h.Audio.Update)
		audios.DELETE("/:id", h.Audio.Delete)
	}

	api.GET("/dashboard/stats", h.Dashboard.GlobalStats)
	api.GET("/dashboard/escola/:id/stats", h.Dashboard.SchoolStats)
	api.GET("/dashboard/errors", h.Dashboard.RecentErrors)
}
