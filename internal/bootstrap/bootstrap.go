package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/alumnet/internal/app/auth"
	appClients "github.com/yigit/alumnet/internal/app/clients"
	appControllers "github.com/yigit/alumnet/internal/app/controllers"
	appRepos "github.com/yigit/alumnet/internal/app/repositories"
	appRoutes "github.com/yigit/alumnet/internal/app/routes"
	appServices "github.com/yigit/alumnet/internal/app/services"
	"github.com/yigit/alumnet/internal/config"
	"github.com/yigit/alumnet/internal/db"
	"github.com/yigit/alumnet/internal/events"
	appMiddleware "github.com/yigit/alumnet/internal/middleware"
	pkgAuth "github.com/yigit/alumnet/internal/pkg/auth"
	"github.com/yigit/alumnet/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	ContentSource    appRepos.ContentSource
	FeedService      appServices.FeedService
	FollowService    appServices.FollowService
	FeedController   *appControllers.FeedController
	FollowController *appControllers.FollowController
	HealthController *appControllers.HealthController
	AuthMiddleware   *appMiddleware.AuthMiddleware
	JWTService       *pkgAuth.JWTService
	AuthzService     *appAuth.AuthorizationService
	Logger           zerolog.Logger

	// Connections owned by the process, closed on shutdown
	Database *db.PostgresDB
	Redis    *redis.Client
	NATS     *nats.Conn
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to the content read replica.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// SetupRedis creates the content cache client. An unreachable server is
// logged, not fatal: cache reads fall through to the content source.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis not reachable, content cache will fall through")
	} else {
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established.")
	}
	return client
}

func upstreamOptions(cfg *config.Config, baseURL string, timeout time.Duration) appClients.Options {
	return appClients.Options{
		BaseURL:           baseURL,
		Timeout:           timeout,
		RequestsPerSecond: cfg.Upstream.RequestsPerSecond,
		Burst:             cfg.Upstream.Burst,
		RetryMaxElapsed:   cfg.Upstream.RetryMaxElapsed,
	}
}

// BuildDependencies initializes connections, services, and controllers.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	checks := map[string]appControllers.HealthCheck{}

	// Content source
	switch cfg.Content.Source {
	case config.ContentSourcePostgres:
		database, err := SetupDatabase(cfg, lgr)
		if err != nil {
			return nil, fmt.Errorf("failed to setup database: %w", err)
		}
		deps.Database = database
		repo := appRepos.NewContentRepository(database.Pool)
		deps.ContentSource = repo
		checks["postgres"] = repo.Ping
	default:
		deps.ContentSource = appClients.NewContentClient(
			upstreamOptions(cfg, cfg.Upstream.Content.BaseURL, cfg.Upstream.Content.Timeout),
			logger.Component("content_client"),
		)
	}

	if cfg.Redis.Enabled {
		deps.Redis = SetupRedis(cfg, lgr)
		deps.ContentSource = appRepos.NewCachedContentSource(deps.ContentSource, deps.Redis, cfg.Content.CacheTTL, logger.Component("content_cache"))
		checks["redis"] = func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		}
	}

	// Follow events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATS.Enabled {
		nc, err := events.Connect(cfg.NATS.URL, logger.Component("nats"))
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.NATS = nc
		publisher = events.NewNatsPublisher(nc, logger.Component("events"))
		checks["nats"] = func(context.Context) error {
			if !nc.IsConnected() {
				return fmt.Errorf("nats status %s", nc.Status())
			}
			return nil
		}
	}

	// Services
	deps.AuthzService = appAuth.NewAuthorizationService()
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.FeedService = appServices.NewFeedService(deps.ContentSource, deps.AuthzService, logger.Component("feed_service"))
	deps.FollowService = appServices.NewFollowService(
		appClients.NewFollowClient(
			upstreamOptions(cfg, cfg.Upstream.Follow.BaseURL, cfg.Upstream.Follow.Timeout),
			logger.Component("follow_client"),
		),
		appClients.NewMessagingClient(
			upstreamOptions(cfg, cfg.Upstream.Messaging.BaseURL, cfg.Upstream.Messaging.Timeout),
			logger.Component("messaging_client"),
		),
		publisher,
		deps.AuthzService,
		logger.Component("follow_service"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.FeedController = appControllers.NewFeedController(deps.FeedService)
	deps.FollowController = appControllers.NewFollowController(deps.FollowService)
	deps.HealthController = appControllers.NewHealthController(checks)

	return deps, nil
}

// Close releases the connections opened by BuildDependencies
func (d *Dependencies) Close() {
	if d.NATS != nil {
		if err := d.NATS.Drain(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to drain NATS connection")
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if d.Database != nil {
		d.Database.Close()
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterValidators()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.Metrics(),
	)

	appRoutes.SetupRouter(router,
		deps.FeedController,
		deps.FollowController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
