package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ideagraph.backend/internal/config"
	"ideagraph.backend/internal/domain/repositories"
	"ideagraph.backend/internal/infrastructure/events"
	"ideagraph.backend/internal/infrastructure/jobs"
	repoimpl "ideagraph.backend/internal/infrastructure/repositories"
	"ideagraph.backend/internal/infrastructure/upstream"
	"ideagraph.backend/internal/interfaces/http/handlers"
	"ideagraph.backend/internal/loaders"
	"ideagraph.backend/internal/usecases"
	"ideagraph.backend/pkg/jwt"
	"ideagraph.backend/pkg/logger"
	"ideagraph.backend/pkg/metrics"
	"ideagraph.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt:    false,
			TranslateError: true,
		})
	}
	newSecretStore = redis.NewSecretStore
	newMetrics     = metrics.New
	openWatchlists = func(ctx context.Context, cfg config.MongoConfig) (repositories.WatchlistRepository, func(context.Context) error, error) {
		repo, client, err := newWatchlistRepository(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return repo, client.Disconnect, nil
	}
	connectNATS = func(url string) (natsConn, error) { return events.Connect(url, "ideagraph-backend") }
	runServer   = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB    = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Server.LogLevel != "" {
		if err := logger.SetLevel(cfg.Server.LogLevel); err != nil {
			logger.Warn(ctx, "Ignoring invalid LOG_LEVEL", zap.String("level", cfg.Server.LogLevel))
		}
	}
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Warn(ctx, "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(ctx, "Connected to PostgreSQL via GORM")
	}

	m, err := newMetrics()
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	secrets, err := newSecretStore(cfg.Security.SecretEncryptionKey, "reset:")
	if err != nil {
		return fmt.Errorf("failed to initialize secret store: %w", err)
	}
	cookieSigner, err := jwt.NewCookieSigner(cfg.Cookie.Secret)
	if err != nil {
		return fmt.Errorf("failed to initialize cookie signer: %w", err)
	}
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessExpiry)

	// Stores
	accountRepo := repoimpl.NewAccountRepository(db)
	profileRepo := repoimpl.NewProfileRepository(db)
	verificationRepo := repoimpl.NewVerificationRepository(db)
	deviceRepo := repoimpl.NewDeviceRepository(db)
	sessionRepo := repoimpl.NewSessionRepository(db)
	uow := repoimpl.NewUnitOfWork(db)

	stores, err := newContentStores(ctx, cfg, db)
	if err != nil {
		return fmt.Errorf("failed to initialize content store: %w", err)
	}
	defer stores.close(context.Background())
	logger.Info(ctx, "Content store ready", zap.String("store", cfg.Server.ContentStore))

	watchlistRepo, closeWatchlists, err := openWatchlists(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("failed to initialize watchlist store: %w", err)
	}
	defer closeWatchlists(context.Background())

	var publisher usecases.ActivityPublisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		conn, err := connectNATS(cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to nats: %w", err)
		}
		defer conn.Drain()
		publisher = events.NewNATSPublisher(conn, cfg.NATS.SubjectPrefix, m)
		logger.Info(ctx, "Publishing activity events", zap.String("prefix", cfg.NATS.SubjectPrefix))
	}

	loaderFactory := loaders.NewFactory(
		stores.loaderSources(profileRepo),
		loaders.Config{Wait: cfg.Loader.Wait, MaxBatch: cfg.Loader.MaxBatch},
		m,
	)

	marketClient := upstream.NewClient("market", cfg.Market.MarketURL, cfg.Market.Timeout, upstream.RedisCache{}, cfg.Market.CacheTTL)
	blogClient := upstream.NewClient("blog", cfg.Market.BlogURL, cfg.Market.Timeout, upstream.RedisCache{}, cfg.Market.CacheTTL)

	// Usecases
	sessionUsecase := usecases.NewSessionUsecase(uow, accountRepo, profileRepo, deviceRepo, sessionRepo, jwtService, cfg.JWT.Issuer, cfg.JWT.RefreshExpiry, m)
	authUsecase := usecases.NewAuthUsecase(uow, accountRepo, profileRepo, verificationRepo, stores.projection, sessionUsecase, secrets,
		cfg.Security.ResetTokenExpiry, cfg.Security.VerificationExpiry)
	profileUsecase := usecases.NewProfileUsecase(profileRepo, stores.follows, stores.projection, publisher, loaderFactory)
	contentUsecase := usecases.NewContentUsecase(stores.content, stores.reactions, stores.reports, publisher, loaderFactory)
	marketUsecase := usecases.NewMarketUsecase(upstream.NewMarketService(marketClient), upstream.NewBlogService(blogClient), watchlistRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authUsecase, sessionUsecase, cookieSigner, handlers.CookieOptions{
		Name:   cfg.Cookie.Name,
		Domain: cfg.Cookie.Domain,
		Secure: cfg.Cookie.Secure,
	})
	userHandler := handlers.NewUserHandler(profileUsecase)
	contentHandler := handlers.NewContentHandler(contentUsecase)
	marketHandler := handlers.NewMarketHandler(marketUsecase)

	sweeper := jobs.NewSessionExpiryJob(sessionRepo, cfg.Jobs.SessionSweepInterval)
	go sweeper.Start(ctx)

	r := newRouter(m)
	registerAPIV1Routes(r, routeDeps{
		authHandler:    authHandler,
		userHandler:    userHandler,
		contentHandler: contentHandler,
		marketHandler:  marketHandler,
		jwtService:     jwtService,
		loaderFactory:  loaderFactory,
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(context.Background(), "Shutting down server")
			sweeper.Stop()
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info(ctx, "IdeaGraph backend starting", zap.String("port", cfg.Server.Port))
	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
