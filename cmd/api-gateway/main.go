package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/escuela-musica-api/api/swagger"
	"github.com/noah-isme/escuela-musica-api/internal/handler"
	"github.com/noah-isme/escuela-musica-api/internal/middleware"
	"github.com/noah-isme/escuela-musica-api/internal/models"
	"github.com/noah-isme/escuela-musica-api/internal/repository"
	"github.com/noah-isme/escuela-musica-api/internal/service"
	"github.com/noah-isme/escuela-musica-api/pkg/cache"
	"github.com/noah-isme/escuela-musica-api/pkg/config"
	"github.com/noah-isme/escuela-musica-api/pkg/database"
	"github.com/noah-isme/escuela-musica-api/pkg/jobs"
	"github.com/noah-isme/escuela-musica-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/escuela-musica-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/escuela-musica-api/pkg/middleware/requestid"
)

// @title Escuela de Música API
// @version 1.0.0
// @description Administración de profesores, usuarios, beneficiarios, ventas y catálogos.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, role cache disabled", zap.Error(err))
		redisClient = nil
	}

	metrics := service.NewMetricsService()
	validate := service.NewValidator()

	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	assignmentRepo := repository.NewRoleAssignmentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	beneficiaryRepo := repository.NewBeneficiaryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentTypeRepo := repository.NewEnrollmentTypeRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "escuela")
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Roles.CacheTTL, logr, cfg.Roles.CacheEnabled && redisClient != nil)
	roleSvc := service.NewRoleService(roleRepo, cacheSvc, cfg.Roles.CacheTTL, logr)
	if err := roleSvc.Seed(ctx); err != nil {
		logr.Fatal("failed to seed roles", zap.Error(err))
	}

	teacherDefaults := service.TeacherDefaults{
		Specialty:        cfg.Defaults.TeacherSpecialty,
		PlaceholderPhone: cfg.Defaults.TeacherPlaceholderPhone,
	}
	teacherSvc := service.NewTeacherService(db, teacherRepo, userRepo, roleRepo, assignmentRepo, scheduleRepo, validate, metrics, logr)
	userSvc := service.NewUserService(db, service.UserDependencies{
		Users:         userRepo,
		Assignments:   assignmentRepo,
		Roles:         roleRepo,
		Grants:        assignmentRepo,
		Teachers:      teacherSvc,
		TeacherLookup: teacherRepo,
		Beneficiaries: beneficiaryRepo,
		Sales:         saleRepo,
		Schedules:     scheduleRepo,
	}, teacherDefaults, validate, metrics, logr)
	assignmentSvc := service.NewRoleAssignmentService(assignmentRepo, userRepo, roleRepo, validate, logr)
	beneficiarySvc := service.NewBeneficiaryService(db, beneficiaryRepo, userRepo, saleRepo, roleRepo, assignmentRepo, validate, metrics, logr)
	counterSvc := service.NewCounterService(counterRepo, logr)

	reconciler := service.NewPaymentReconciler(paymentRepo, metrics, logr)
	var paymentQueue *jobs.Queue
	if cfg.Payments.RetryEnabled {
		paymentQueue = jobs.NewQueue("payments", reconciler.Handle, jobs.QueueConfig{
			Workers:     cfg.Payments.Workers,
			MaxRetries:  cfg.Payments.MaxRetries,
			RetryDelay:  cfg.Payments.RetryDelay,
			Logger:      logr,
			OnExhausted: reconciler.Exhausted,
		})
		paymentQueue.Start(ctx)
		reconciler.Attach(paymentQueue)
	}

	saleSvc := service.NewSaleService(db, service.SaleDependencies{
		Sales:           saleRepo,
		Payments:        paymentRepo,
		Counters:        counterSvc,
		Beneficiaries:   beneficiaryRepo,
		Courses:         courseRepo,
		EnrollmentTypes: enrollmentTypeRepo,
		Schedules:       scheduleRepo,
		Recorder:        reconciler,
	}, service.PaymentDefaults{
		Method: cfg.Defaults.PaymentMethod,
		Status: cfg.Defaults.PaymentStatus,
	}, validate, metrics, logr)
	exportSvc := service.NewExportService(saleRepo, logr)
	classroomSvc := service.NewClassroomService(classroomRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, saleRepo, validate, metrics, logr)
	enrollmentTypeSvc := service.NewEnrollmentTypeService(enrollmentTypeRepo, saleRepo, validate, metrics, logr)
	authSvc := service.NewAuthService(userRepo, assignmentRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metrics))

	routes := handler.RouterConfig{
		Prefix:             cfg.APIPrefix,
		AuthHandler:        handler.NewAuthHandler(authSvc),
		TeacherHandler:     handler.NewTeacherHandler(teacherSvc),
		UserHandler:        handler.NewUserHandler(userSvc),
		SaleHandler:        handler.NewSaleHandler(saleSvc, exportSvc),
		CounterHandler:     handler.NewCounterHandler(counterSvc),
		RoleHandler:        handler.NewRoleHandler(roleSvc, assignmentSvc),
		BeneficiaryHandler: handler.NewBeneficiaryHandler(beneficiarySvc),
		ClassroomHandler:   handler.NewCatalogHandler[models.Classroom, models.ClassroomRequest](classroomSvc, "Datos del aula inválidos"),
		CourseHandler:      handler.NewCatalogHandler[models.Course, models.CourseRequest](courseSvc, "Datos del curso inválidos"),
		EnrollmentHandler:  handler.NewCatalogHandler[models.EnrollmentType, models.EnrollmentTypeRequest](enrollmentTypeSvc, "Datos de la matrícula inválidos"),
		MetricsHandler:     handler.NewMetricsHandler(metrics, db, cacheRepo),
	}
	if cfg.Auth.Enabled {
		routes.Auth = authSvc
	} else {
		logr.Warn("authentication disabled, API routes are public")
	}
	handler.Register(r, routes)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown", zap.Error(err))
	}
	if paymentQueue != nil {
		paymentQueue.Stop()
	}
	logr.Info("server stopped")
}
