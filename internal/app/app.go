package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"zenda_backend/internal/config"
	"zenda_backend/internal/controller"
	"zenda_backend/internal/middleware"
	"zenda_backend/internal/repository"
	"zenda_backend/internal/service"
	"zenda_backend/pkg/configwatcher"
	"zenda_backend/pkg/database"
	"zenda_backend/pkg/logger"
	"zenda_backend/pkg/monitoring"
	"zenda_backend/pkg/security"
	"zenda_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configDir       string
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	enrollment *repository.EnrollmentRepository
	question   *repository.QuestionRepository
	quiz       *repository.QuizRepository
	exam       *repository.ExamRepository
	stats      *repository.StatsRepository
	lock       *repository.SubmissionLock
}

type services struct {
	access     *service.AccessService
	course     *service.CourseService
	enrollment *service.EnrollmentService
	question   *service.QuestionService
	quiz       *service.QuizService
	exam       *service.ExamService
	user       *service.UserService
	stats      *service.StatsService
}

type controllers struct {
	course     *controller.CourseController
	enrollment *controller.EnrollmentController
	question   *controller.QuestionController
	quiz       *controller.QuizController
	exam       *controller.ExamController
	user       *controller.UserController
	dashboard  *controller.DashboardController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		question:   repository.NewQuestionRepository(db),
		quiz:       repository.NewQuizRepository(db),
		exam:       repository.NewExamRepository(db),
		stats:      repository.NewStatsRepository(db),
		lock:       repository.NewSubmissionLock(rdb, cfg.Assessment.SubmissionLockTTL()),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.access = service.NewAccessService(repos.enrollment)
	s.course = service.NewCourseService(repos.course, repos.enrollment, s.access)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, repos.quiz, cfg.Assessment.CoursePassThreshold)
	s.question = service.NewQuestionService(repos.question)
	s.quiz = service.NewQuizService(repos.quiz, repos.course, repos.question, s.access, repos.lock)
	s.exam = service.NewExamService(repos.exam, repos.course, repos.question, s.access, repos.lock)
	s.user = service.NewUserService(repos.user)
	s.stats = service.NewStatsService(repos.stats)

	// 课程通过阈值支持热更新
	a.RegisterConfigCallback(s.enrollment.ApplyConfig)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		course:     controller.NewCourseController(s.course),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		question:   controller.NewQuestionController(s.question),
		quiz:       controller.NewQuizController(s.quiz),
		exam:       controller.NewExamController(s.exam),
		user:       controller.NewUserController(s.user),
		dashboard:  controller.NewDashboardController(s.stats),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 初始化存储、服务和路由；configDir 为 config.yaml 所在目录，运行期间监听其变更
func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(logger.Options{
		Mode:     cfg.Server.Mode,
		Level:    cfg.Log.Level,
		FilePath: cfg.Log.File,
		Service:  "zenda-backend",
	})
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")
	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// release 模式默认不迁移，需要 -migrate 显式开启
	if cfg.ForceMigrate || cfg.Server.Mode == gin.DebugMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config:    cfg,
		DB:        db,
		configDir: configDir,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("zenda-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) watchConfig(ctx context.Context) {
	configFile := filepath.Join(a.configDir, "config.yaml")
	err := configwatcher.WatchConfig(ctx, configFile, func(cfg *config.Config) {
		a.applyConfig(cfg)
	})
	if err != nil {
		logger.Log.Error("Config watcher stopped", zap.String("file", configFile), zap.Error(err))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go a.watchConfig(watchCtx)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stopWatch()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
