package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/escolaware/escola-api/api/swagger"
	"github.com/escolaware/escola-api/internal/handler"
	"github.com/escolaware/escola-api/internal/middleware"
	"github.com/escolaware/escola-api/internal/repository"
	"github.com/escolaware/escola-api/internal/service"
	"github.com/escolaware/escola-api/pkg/config"
	"github.com/escolaware/escola-api/pkg/database"
	"github.com/escolaware/escola-api/pkg/logger"
	corsmiddleware "github.com/escolaware/escola-api/pkg/middleware/cors"
	reqidmiddleware "github.com/escolaware/escola-api/pkg/middleware/requestid"
	"github.com/escolaware/escola-api/pkg/storage"
)

// @title Escola API
// @version 1.0.0
// @description School administration backend: users, schools, enrollments, courses, classes and audio assets
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	uploads, err := storage.NewUploadStore(cfg.Uploads.Dir, cfg.Uploads.ProbeLegacyRoot)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload storage", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	classRepo := repository.NewClassRepository(db)
	audioRepo := repository.NewAudioRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	errorLogRepo := repository.NewErrorLogRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthServiceConfig{
		MinPasswordLength: cfg.Auth.MinPasswordLength,
	})
	userSvc := service.NewUserService(userRepo, uploads, validate, logr)
	schoolSvc := service.NewSchoolService(schoolRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, userRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, uploads, validate, logr)
	classSvc := service.NewClassService(classRepo, validate, logr)
	audioSvc := service.NewAudioService(audioRepo, userRepo, uploads, validate, logr)
	dashboardSvc := service.NewDashboardService(statsRepo, enrollmentRepo, schoolRepo, errorLogRepo, logr)
	exportSvc := service.NewExportService(enrollmentRepo, logr)
	metricsSvc := service.NewMetricsService()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Uploads.MaxFileSize
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.ErrorLog(errorLogRepo, logr))

	handler.Routes(r, cfg, handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		User:       handler.NewUserHandler(userSvc, uploads),
		School:     handler.NewSchoolHandler(schoolSvc),
		Enrollment: handler.NewEnrollmentHandler(enrollmentSvc, exportSvc),
		Course:     handler.NewCourseHandler(courseSvc, uploads),
		Class:      handler.NewClassHandler(classSvc),
		Audio:      handler.NewAudioHandler(audioSvc, uploads),
		Dashboard:  handler.NewDashboardHandler(dashboardSvc),
		Metrics:    metricsSvc,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
