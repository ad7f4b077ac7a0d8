package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/bundle-evaluator/internal/cache"
	"alfredoptarigan/bundle-evaluator/internal/config"
	"alfredoptarigan/bundle-evaluator/internal/handlers"
	"alfredoptarigan/bundle-evaluator/internal/repositories"
	"alfredoptarigan/bundle-evaluator/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	log.Info("config loaded", zap.String("env", cfg.Server.Env))

	// Initialize database
	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	// Initialize repositories
	bundleRepo := repositories.NewBundleRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)

	criteria, err := config.LoadCriteria(cfg.Criteria.Path)
	if err != nil {
		log.Fatal("failed to load evaluation criteria", zap.Error(err))
	}
	engine := services.NewEngine(criteria)
	log.Info("criteria loaded", zap.String("version", criteria.Version))

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	pdfParser := services.NewPDFParserService()
	fsLoader := services.NewFileSystemLoader(criteria.MandatoryCoreFiles, cfg.Storage.MaxContentBytes, pdfParser)
	var objectLoader services.BundleLoader
	if cfg.ObjectStoreEnabled() {
		l, err := services.NewObjectStoreLoader(services.ObjectStoreConfig{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
		}, criteria.MandatoryCoreFiles, cfg.Storage.MaxContentBytes, pdfParser)
		if err != nil {
			log.Fatal("failed to initialize object store", zap.Error(err))
		}
		objectLoader = l
		log.Info("object store enabled", zap.String("endpoint", cfg.S3.Endpoint))
	}
	loader := services.NewRoutingLoader(fsLoader, objectLoader)

	evaluatorService := services.NewEvaluatorService(evalRepo, loader, engine, log)

	store := newStatisticsStore(cfg, log)
	statisticsService := services.NewStatisticsService(evalRepo, store, engine.CriteriaVersion(), log)
	exporter := services.NewEvaluationExporter(engine.CriteriaVersion())

	insights := newInsightService(cfg, evalRepo, log)

	// Initialize worker
	worker := services.NewWorker(
		evalRepo,
		evaluatorService,
		cfg.Worker.Concurrency,
		cfg.Worker.QueueSize,
		cfg.Worker.PollInterval,
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(bundleRepo, storageService, cfg.Storage.MaxFileSize, log)
	evaluateHandler := handlers.NewEvaluationHandler(evalRepo, bundleRepo, worker)
	resultHandler := handlers.NewResultHandler(evalRepo, insights)
	statisticsHandler := handlers.NewStatisticsHandler(statisticsService, exporter)

	app := fiber.New(fiber.Config{
		AppName:      "Bundle Evaluator API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: errorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":           "healthy",
			"criteria_version": engine.CriteriaVersion(),
			"time":             time.Now(),
		})
	})

	api.Post("/bundles", uploadHandler.HandleUpload)
	api.Post("/evaluate", evaluateHandler.HandleEvaluate)
	api.Get("/result/:id", resultHandler.HandleGetResult)
	api.Get("/result/:id/summary", resultHandler.HandleGetSummary)
	api.Get("/result/:id/similar", resultHandler.HandleGetSimilar)
	api.Get("/statistics", statisticsHandler.HandleGetStatistics)
	api.Get("/export", statisticsHandler.HandleExport)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Bundle Evaluator API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/bundles",
				"POST /api/v1/evaluate",
				"GET /api/v1/result/:id",
				"GET /api/v1/result/:id/summary",
				"GET /api/v1/result/:id/similar",
				"GET /api/v1/statistics",
				"GET /api/v1/export",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		cancel()
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// newStatisticsStore prefers Redis and falls back to an in-process LRU when
// Redis is not configured or unreachable.
func newStatisticsStore(cfg *config.Config, log *zap.Logger) cache.Store {
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		err := client.Ping(ctx).Err()
		if err == nil {
			log.Info("statistics cache using redis", zap.String("addr", cfg.Redis.Addr))
			return cache.NewRedisStore(client, "bundle-evaluator", cfg.Redis.TTL)
		}
		log.Warn("redis unreachable, using in-memory cache", zap.Error(err))
		_ = client.Close()
	}
	store, err := cache.NewMemoryStore(64)
	if err != nil {
		log.Fatal("failed to create in-memory cache", zap.Error(err))
	}
	return store
}

func newInsightService(cfg *config.Config, evalRepo repositories.EvaluationRepository, log *zap.Logger) services.InsightService {
	if !cfg.InsightsEnabled() {
		log.Info("insights disabled")
		return services.NewDisabledInsightService()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	geminiService, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		EmbedModel: cfg.Gemini.EmbedModel,
		MaxRetries: cfg.Worker.RetryMaxAttempts,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize Gemini", zap.Error(err))
	}
	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		log.Fatal("failed to initialize Qdrant", zap.Error(err))
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatal("failed to initialize Qdrant collection", zap.Error(err))
	}
	log.Info("insights enabled", zap.String("model", cfg.Gemini.Model))

	return services.NewInsightService(evalRepo, geminiService, qdrantService, log)
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  code,
		})
	}
}
