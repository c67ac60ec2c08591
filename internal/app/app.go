package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"school_exam_backend/internal/config"
	"school_exam_backend/internal/controller"
	"school_exam_backend/internal/middleware"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/service"
	"school_exam_backend/internal/util"
	"school_exam_backend/pkg/configwatcher"
	"school_exam_backend/pkg/database"
	"school_exam_backend/pkg/logger"
	"school_exam_backend/pkg/monitoring"
	"school_exam_backend/pkg/security"
	"school_exam_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config    *config.Config
	ConfigDir string
	Router    *gin.Engine
	DB        *gorm.DB
	Redis     *redis.Client

	tracer          *sdktrace.TracerProvider
	configCallbacks []configwatcher.Reloader
	stop            context.CancelFunc
}

type repositories struct {
	user     *repository.UserRepository
	school   *repository.SchoolRepository
	question *repository.QuestionRepository
	paper    *repository.PaperRepository
	report   *repository.ReportRepository
	survey   *repository.QuestionnaireRepository
}

type services struct {
	auth     *service.AuthService
	school   *service.SchoolService
	roster   *service.RosterService
	question *service.QuestionService
	paper    *service.PaperService
	marks    *service.MarksService
	storage  *service.StorageService
	textGen  *service.TextGenService
	report   *service.ReportService
	survey   *service.QuestionnaireService
	dir      *service.DirectoryService
}

type controllers struct {
	auth     *controller.AuthController
	school   *controller.SchoolController
	question *controller.QuestionController
	paper    *controller.PaperController
	report   *controller.ReportController
	health   *controller.HealthController
	survey   *controller.QuestionnaireController
	dir      *controller.DirectoryController
}

func (a *App) RegisterConfigCallback(callback configwatcher.Reloader) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		school:   repository.NewSchoolRepository(db),
		question: repository.NewQuestionRepository(db),
		paper:    repository.NewPaperRepository(db),
		report:   repository.NewReportRepository(db),
		survey:   repository.NewQuestionnaireRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.school, cfg)
	s.school = service.NewSchoolService(repos.school, repos.user)
	s.roster = service.NewRosterService(repos.user)
	s.question = service.NewQuestionService(repos.question)
	s.paper = service.NewPaperService(repos.paper, repos.question, s.roster)
	s.marks = service.NewMarksService(s.paper)
	s.survey = service.NewQuestionnaireService(repos.survey, repos.user)
	s.dir = service.NewDirectoryService(repos.school, repos.user, s.roster)

	generator := service.NewOpenAIGenerator(cfg.AI)
	a.RegisterConfigCallback(func(c *config.Config) { generator.Apply(c.AI) })
	s.textGen = service.NewTextGenService(generator, cfg.AI.MaxAttempts)

	var lock service.GenerationLock = service.NewLocalLock()
	if rdb != nil {
		lock = service.NewRedisLock(rdb)
	}

	s.report = service.NewReportService(
		repos.report,
		repos.user,
		repos.school,
		s.textGen,
		s.storage,
		lock,
		service.NewMailer(cfg.Mail),
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		school:   controller.NewSchoolController(s.school),
		question: controller.NewQuestionController(s.question),
		paper:    controller.NewPaperController(s.paper, s.marks),
		report:   controller.NewReportController(s.report),
		health:   controller.NewHealthController(db, rdb),
		survey:   controller.NewQuestionnaireController(s.survey),
		dir:      controller.NewDirectoryController(s.dir),
	}
}

func (a *App) setupMiddlewares(ctx context.Context, router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(middleware.TraceAttributes))
	}

	router.Use(monitoring.MetricsMiddleware())
}

// OpenDatabase connects and, when needed, migrates and seeds the schema.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}
	if err := database.SeedMasterAdmin(db, cfg.Bootstrap); err != nil {
		return nil, err
	}
	return db, nil
}

func NewApp(cfg *config.Config, configDir string) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)
	util.RegisterValidators()

	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Log.Info("Redis disabled, report generation uses an in-process lock")
	}

	ctx, stop := context.WithCancel(context.Background())
	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		DB:        db,
		Redis:     rdb,
		stop:      stop,
	}
	app.RegisterConfigCallback(logger.ApplyMode)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("school-exam-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing, continuing without it", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(ctx, router, cfg)
	app.registerRoutes(router, controllers, repos)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static(cfg.Public.URLPrefix, cfg.Storage.LocalPath)
	}

	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	defer a.stop()

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.ConfigDir != "" {
		go func() {
			if err := configwatcher.Watch(ctx, a.ConfigDir, a.configCallbacks...); err != nil {
				logger.Log.Warn("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
	return nil
}
