package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/edubridge/platform/internal/app/controllers"
	appMigrations "github.com/edubridge/platform/internal/app/migrations"
	appRepos "github.com/edubridge/platform/internal/app/repositories"
	appRoutes "github.com/edubridge/platform/internal/app/routes"
	appServices "github.com/edubridge/platform/internal/app/services"
	"github.com/edubridge/platform/internal/config"
	"github.com/edubridge/platform/internal/db"
	appMiddleware "github.com/edubridge/platform/internal/middleware"
	pkgAuth "github.com/edubridge/platform/internal/pkg/auth"
	"github.com/edubridge/platform/internal/pkg/cache"
	"github.com/edubridge/platform/internal/pkg/events"
	"github.com/edubridge/platform/internal/pkg/helpers"
	"github.com/edubridge/platform/internal/pkg/logger"
	"github.com/edubridge/platform/internal/pkg/oauth"
	"github.com/edubridge/platform/internal/pkg/validation"
	"github.com/edubridge/platform/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store          appRepos.Store
	JWTService     *pkgAuth.JWTService
	AuthService    *appServices.AuthService
	StudentService *appServices.StudentService
	ParentService  *appServices.ParentService
	SchoolService  *appServices.SchoolService
	ProgramService *appServices.ProgramService
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Events         *events.Publisher
	Redis          *redis.Client
	Logger         zerolog.Logger
}

// Infrastructure is what BuildDependencies needs from the outside world.
// Store is required; everything else may be nil.
type Infrastructure struct {
	Store  appRepos.Store
	DB     appControllers.Pinger
	Redis  *redis.Client
	Events *events.Publisher
	OAuth  oauth.Provider
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	store := appRepos.NewPostgresStore(database.Pool, lgr)
	if err := seed.CreateDefaultData(ctx, store, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// SetupInfrastructure connects the optional collaborators: redis, the event
// publisher and the Google provider.
func SetupInfrastructure(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{
		Store: appRepos.NewPostgresStore(database.Pool, lgr),
		DB:    database,
	}

	redisClient, err := db.NewRedisClient(ctx, cfg, lgr)
	if err != nil {
		// the school list falls back to the database
		lgr.Warn().Err(err).Msg("Redis unavailable, caching disabled")
	}
	infra.Redis = redisClient

	publisher, channel, err := events.NewPublisher(events.Config{
		Driver:       cfg.Events.Driver,
		KafkaBrokers: cfg.KafkaBrokers(),
		TopicPrefix:  cfg.Events.TopicPrefix,
	}, lgr)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to setup events: %w", err), infra.Close())
	}
	infra.Events = publisher
	if channel != nil {
		if err := events.LogActivity(ctx, channel, cfg.Events.TopicPrefix, lgr); err != nil {
			return nil, errors.Join(err, infra.Close())
		}
	}

	if provider := oauth.NewGoogleProvider(oauth.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		CallbackURL:  cfg.Google.CallbackURL,
	}); provider != nil {
		infra.OAuth = provider
	} else {
		lgr.Info().Msg("Google OAuth not configured, Google sign-in disabled")
	}

	return infra, nil
}

// Close releases the event publisher and the redis client. The database pool is owned by the caller.
func (i *Infrastructure) Close() error {
	var err error
	if i.Events != nil {
		if e := i.Events.Close(); e != nil {
			err = errors.Join(err, fmt.Errorf("failed to close event publisher: %w", e))
		}
	}
	if i.Redis != nil {
		if e := i.Redis.Close(); e != nil {
			err = errors.Join(err, fmt.Errorf("failed to close redis client: %w", e))
		}
	}
	return err
}

// BuildDependencies initializes services, middleware and controllers.
func BuildDependencies(cfg *config.Config, infra *Infrastructure, lgr zerolog.Logger) (*Dependencies, error) {
	if err := validation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	deps := &Dependencies{
		Store:  infra.Store,
		Events: infra.Events,
		Redis:  infra.Redis,
		Logger: lgr,
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 7*24*time.Hour),
		StateTokenExp:  helpers.ParseDuration(cfg.JWT.OAuthStateExpiration, 10*time.Minute),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	var emitter events.Emitter
	if infra.Events != nil {
		emitter = infra.Events
	}

	var cacheHelper *cache.Helper
	if infra.Redis != nil {
		cacheHelper = cache.NewHelper(infra.Redis, "edubridge:")
	}

	deps.AuthService = appServices.NewAuthService(
		deps.Store,
		deps.JWTService,
		pkgAuth.NewPasswordHasher(pkgAuth.BcryptCost),
		infra.OAuth,
		emitter,
		lgr,
	)
	deps.StudentService = appServices.NewStudentService(deps.Store, deps.AuthService, emitter, lgr)
	deps.ParentService = appServices.NewParentService(deps.Store, deps.AuthService, emitter, lgr)
	deps.SchoolService = appServices.NewSchoolService(deps.Store, deps.AuthService, cacheHelper,
		helpers.ParseDuration(cfg.Redis.SchoolListTTL, 5*time.Minute), lgr)
	deps.ProgramService = appServices.NewProgramService(deps.Store)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService, lgr)

	deps.Controllers = appRoutes.Controllers{
		Auth: appControllers.NewAuthController(deps.AuthService, appControllers.AuthControllerConfig{
			FrontendURL:  cfg.Server.FrontendURL,
			StateTTL:     helpers.ParseDuration(cfg.JWT.OAuthStateExpiration, 10*time.Minute),
			SecureCookie: cfg.IsProduction(),
		}, lgr),
		User:    appControllers.NewUserController(deps.AuthService),
		Student: appControllers.NewStudentController(deps.StudentService, lgr),
		Parent:  appControllers.NewParentController(deps.ParentService, lgr),
		School:  appControllers.NewSchoolController(deps.SchoolService, lgr),
		Program: appControllers.NewProgramController(deps.ProgramService),
		Health:  appControllers.NewHealthController(infra.DB),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.SecurityHeaders(),
		appMiddleware.CORS(cfg.CORSOrigins()),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
