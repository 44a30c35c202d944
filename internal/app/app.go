package app

import (
	"context"
	"errors"
	"legal_eval_backend/internal/config"
	"legal_eval_backend/internal/controller"
	"legal_eval_backend/internal/middleware"
	"legal_eval_backend/internal/repository"
	"legal_eval_backend/internal/service"
	"legal_eval_backend/pkg/database"
	"legal_eval_backend/pkg/logger"
	"legal_eval_backend/pkg/monitoring"
	"legal_eval_backend/pkg/security"
	"legal_eval_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	tracer *sdktrace.TracerProvider
	cancel context.CancelFunc
}

type repositories struct {
	user       *repository.UserRepository
	question   *repository.QuestionRepository
	assignment *repository.AssignmentRepository
	model      *repository.ModelRepository
	generation *repository.GenerationRepository
	rating     *repository.RatingRepository
	writein    *repository.WriteinRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	question   *service.QuestionService
	assignment *service.AssignmentService
	generation *service.GenerationService
	rating     *service.RatingService
	writein    *service.WriteinService
	completion *service.CompletionService
	export     *service.ExportService
}

type controllers struct {
	auth       *controller.AuthController
	question   *controller.QuestionController
	generation *controller.GenerationController
	rating     *controller.RatingController
	writein    *controller.WriteinController
	assignment *controller.AssignmentController
	export     *controller.ExportController
	health     *controller.HealthController
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		question:   repository.NewQuestionRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		model:      repository.NewModelRepository(db),
		generation: repository.NewGenerationRepository(db),
		rating:     repository.NewRatingRepository(db),
		writein:    repository.NewWriteinRepository(db),
	}
}

func initServices(repos *repositories, cfg *config.Config, db *gorm.DB, sessions service.SessionStore) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, sessions, cfg)
	s.question = service.NewQuestionService(repos.question)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.user, repos.question)
	s.generation = service.NewGenerationService(db, repos.generation, repos.model, s.question, s.assignment)
	s.rating = service.NewRatingService(repos.rating, repos.generation, s.question, s.assignment)
	s.writein = service.NewWriteinService(repos.writein, repos.generation, s.question, s.assignment)
	s.completion = service.NewCompletionService(repos.generation, s.rating, s.writein, s.question)
	s.export = service.NewExportService(
		repos.question,
		repos.model,
		repos.generation,
		repos.rating,
		repos.writein,
		s.storage,
	)

	return s
}

func initControllers(s *services, cfg *config.Config, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, cfg.Session),
		question:   controller.NewQuestionController(s.question, s.completion),
		generation: controller.NewGenerationController(s.generation),
		rating:     controller.NewRatingController(s.rating),
		writein:    controller.NewWriteinController(s.writein, s.completion),
		assignment: controller.NewAssignmentController(s.assignment),
		export:     controller.NewExportController(s.export),
		health:     controller.NewHealthController(db),
	}
}

func setupMiddlewares(ctx context.Context, router *gin.Engine, cfg *config.Config, resolver middleware.SessionResolver) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
	router.Use(middleware.SessionMiddleware(resolver, cfg.Session.CookieName))
}

// NewRouter 组装所有依赖并注册路由，会话存储由调用方提供；ctx 结束时后台清理协程退出
func NewRouter(ctx context.Context, cfg *config.Config, db *gorm.DB, sessions service.SessionStore) *gin.Engine {
	repos := initRepositories(db)
	s := initServices(repos, cfg, db, sessions)
	c := initControllers(s, cfg, db)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode == gin.DebugMode {
		router.Use(gin.Logger())
	}

	setupMiddlewares(ctx, router, cfg, s.auth)
	registerRoutes(router, c, cfg)

	return router
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	// 只迁移时不需要 Redis 和路由
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.Router = NewRouter(ctx, cfg, db, repository.NewSessionRepository(rdb))

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:         ":" + a.Config.Server.Port,
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close 停止后台协程并释放 tracer、Redis 和数据库连接
func (a *App) Close(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Log.Sync()
}
