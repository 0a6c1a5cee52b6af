package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/linguamarket/linguamarket-api/api/swagger"
	"github.com/linguamarket/linguamarket-api/internal/handler"
	"github.com/linguamarket/linguamarket-api/internal/middleware"
	"github.com/linguamarket/linguamarket-api/internal/models"
	"github.com/linguamarket/linguamarket-api/internal/repository"
	"github.com/linguamarket/linguamarket-api/internal/service"
	"github.com/linguamarket/linguamarket-api/internal/store"
	"github.com/linguamarket/linguamarket-api/pkg/cache"
	"github.com/linguamarket/linguamarket-api/pkg/config"
	"github.com/linguamarket/linguamarket-api/pkg/database"
	"github.com/linguamarket/linguamarket-api/pkg/export"
	"github.com/linguamarket/linguamarket-api/pkg/logger"
	corsmiddleware "github.com/linguamarket/linguamarket-api/pkg/middleware/cors"
	reqidmiddleware "github.com/linguamarket/linguamarket-api/pkg/middleware/requestid"
	"github.com/linguamarket/linguamarket-api/pkg/storage"
)

// @title LinguaMarket API
// @version 0.1.0
// @description Marketplace transaction and trust engine for language learning
// @BasePath /api/v1
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

	ctx := context.Background()
	entities := store.New()
	notifier := service.NewNotifier(0)
	metrics := service.NewMetricsService()

	// Optional collaborators. Connection failures degrade to fixtures and
	// in-process data instead of aborting startup.
	var catalogRepo *repository.CatalogRepository
	if db, err := database.NewPostgres(cfg.Database); err != nil {
		logr.Warn("postgres unreachable, catalog will use fixtures")
	} else {
		catalogRepo = repository.NewCatalogRepository(db)
	}

	var cacheRepo *repository.CacheRepository
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unreachable, catalog cache disabled")
	} else {
		cacheRepo = repository.NewCacheRepository(client)
	}

	catalogSvc := buildCatalog(cfg, catalogRepo, cacheRepo, entities, logr)
	if cfg.Catalog.SeedOnStart && catalogRepo != nil {
		if err := catalogSvc.Seed(ctx); err != nil {
			logr.Sugar().Warnw("catalog seed failed", "error", err)
		}
	}
	catalogSvc.Load(ctx)

	authSvc := service.NewAuthService(entities, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     "linguamarket",
	})

	renderer := export.NewCertificateRenderer()
	certStorage, err := storage.NewLocalStorage(cfg.Certificates.StorageDir)
	if err != nil {
		logr.Sugar().Warnw("certificate storage unavailable", "error", err)
	}
	certSigner := storage.NewSignedURLSigner(cfg.Certificates.SignedURLSecret, cfg.Certificates.SignedURLTTL)

	teacherSvc := service.NewTeacherService(entities, notifier, nil, logr)
	bookingSvc := service.NewBookingService(entities, notifier, metrics, nil, logr)
	reputationSvc := service.NewReputationService(entities, notifier, metrics, nil, logr)
	disputeSvc := service.NewDisputeService(entities, notifier, metrics, nil, logr)
	dashboardSvc := service.NewDashboardService(entities, logr)

	var enrollmentSvc *service.EnrollmentService
	if certStorage != nil {
		enrollmentSvc = service.NewEnrollmentService(entities, notifier, metrics, renderer, certStorage, certSigner, nil, logr)
	} else {
		enrollmentSvc = service.NewEnrollmentService(entities, notifier, metrics, nil, nil, nil, nil, logr)
	}

	assistantSvc := service.NewAssistantService(service.AssistantConfig{
		ReplyDelay:   cfg.Assistant.ReplyDelay,
		ReplyWorkers: cfg.Assistant.ReplyWorkers,
	}, notifier, metrics, nil, logr)
	assistantSvc.Start(ctx)
	defer assistantSvc.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"mock_identity": authSvc.MockMode(),
			"catalog":       catalogMode(catalogRepo),
		})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(authSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	reviewHandler := handler.NewReviewHandler(reputationSvc)
	disputeHandler := handler.NewDisputeHandler(disputeSvc)
	courseHandler := handler.NewCourseHandler(enrollmentSvc)
	certificateHandler := handler.NewCertificateHandler(certStorage, certSigner)
	assistantHandler := handler.NewAssistantHandler(assistantSvc)
	notificationHandler := handler.NewNotificationHandler(notifier)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/signout", middleware.JWT(authSvc), authHandler.SignOut)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	auth.PATCH("/me", middleware.JWT(authSvc), authHandler.UpdateProfile)

	teachers := api.Group("/teachers")
	teachers.GET("", teacherHandler.List)
	teachers.GET("/:id", teacherHandler.Get)
	teachers.GET("/:id/tier", teacherHandler.Tier)
	teachers.POST("", middleware.JWT(authSvc), teacherHandler.Register)
	teachers.POST("/:id/verify", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), teacherHandler.Verify)
	teachers.PATCH("/:id/rate", middleware.JWT(authSvc), middleware.RBAC(string(models.RoleAdmin), "SELF"), teacherHandler.UpdateRate)
	teachers.PUT("/:id/availability", middleware.JWT(authSvc), middleware.RBAC(string(models.RoleAdmin), "SELF"), teacherHandler.UpdateAvailability)
	teachers.DELETE("/:id", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), teacherHandler.Remove)

	bookings := api.Group("/bookings", middleware.JWT(authSvc))
	bookings.POST("", bookingHandler.Create)
	bookings.GET("", bookingHandler.List)
	bookings.GET("/:id", bookingHandler.Get)
	bookings.POST("/:id/complete", bookingHandler.Complete)
	bookings.POST("/:id/session/join", bookingHandler.Join)
	bookings.POST("/:id/session/end", bookingHandler.End)
	bookings.POST("/:id/disputes", disputeHandler.File)

	api.POST("/reviews", middleware.JWT(authSvc), reviewHandler.Submit)

	disputes := api.Group("/disputes", middleware.JWT(authSvc))
	disputes.GET("", middleware.RequireRoles(models.RoleAdmin), disputeHandler.List)
	disputes.GET("/:id", disputeHandler.Get)
	disputes.POST("/:id/resolve", middleware.RequireRoles(models.RoleAdmin), disputeHandler.Resolve)

	courses := api.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/owned", middleware.JWT(authSvc), courseHandler.Owned)
	courses.GET("/:id", courseHandler.Get)
	courses.POST("/:id/purchase", middleware.JWT(authSvc), courseHandler.Purchase)
	courses.POST("/:id/lessons/complete", middleware.JWT(authSvc), courseHandler.CompleteLesson)
	courses.GET("/:id/progress", middleware.JWT(authSvc), courseHandler.Progress)
	courses.POST("/:id/certificate", middleware.JWT(authSvc), courseHandler.Certificate)

	api.GET("/certificates/download", certificateHandler.Download)

	assistant := api.Group("/assistant", middleware.JWT(authSvc))
	assistant.POST("/intents", assistantHandler.Intent)
	assistant.GET("/state", assistantHandler.State)

	threads := api.Group("/threads", middleware.JWT(authSvc))
	threads.POST("/:id/messages", assistantHandler.PostMessage)
	threads.GET("/:id/messages", assistantHandler.Messages)

	api.GET("/notifications", middleware.JWT(authSvc), notificationHandler.Feed)
	api.GET("/dashboard/teachers/:id", middleware.JWT(authSvc), dashboardHandler.TeacherSnapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "mock_identity", authSvc.MockMode())
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// buildCatalog constructs the catalog loader. Nil collaborators must be
// passed as untyped nils so the service's nil checks hold.
func buildCatalog(cfg *config.Config, repo *repository.CatalogRepository, cacheRepo *repository.CacheRepository, entities *store.Store, logr *zap.Logger) *service.CatalogService {
	ttl := cfg.Catalog.CacheTTL
	switch {
	case repo != nil && cacheRepo != nil:
		return service.NewCatalogService(repo, cacheRepo, entities, ttl, logr)
	case repo != nil:
		return service.NewCatalogService(repo, nil, entities, ttl, logr)
	case cacheRepo != nil:
		return service.NewCatalogService(nil, cacheRepo, entities, ttl, logr)
	default:
		return service.NewCatalogService(nil, nil, entities, ttl, logr)
	}
}

func catalogMode(repo *repository.CatalogRepository) string {
	if repo == nil {
		return "fixtures"
	}
	return "postgres"
}
