package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinevault-backend/config"
	"cinevault-backend/internal/auth"
	"cinevault-backend/internal/database"
	"cinevault-backend/internal/handlers"
	"cinevault-backend/internal/middleware"
	"cinevault-backend/internal/repository"
	"cinevault-backend/internal/scheduler"
	"cinevault-backend/internal/tokenstore"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title           Cinevault Backend API
// @version         1.0
// @description     Movie catalog backend with rotating-refresh-token authentication.

// @host      localhost:8090
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the token with the `Bearer ` prefix, e.g. "Bearer abcde12345"

func init() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Configure zerolog based on config
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logLevel, err := zerolog.ParseLevel(cfg.Logger.Level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	output := os.Stdout
	if cfg.Logger.OutputPath != "" {
		file, err := os.OpenFile(cfg.Logger.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			output = file
		}
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.RFC3339,
	})
}

// newTokenStore picks the Redis-backed store when an address is configured,
// the in-memory store otherwise. Both satisfy the same contract.
func newTokenStore(cfg *config.Config) tokenstore.Store {
	if cfg.Redis.Addr == "" {
		store := tokenstore.NewMemoryStore()
		scheduler.ScheduleTokenSweep(cfg.Auth.SweepMinutes, store.Sweep)
		log.Info().Msg("Using in-memory token store")
		return store
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis token store")
	return tokenstore.NewRedisStore(rdb)
}

func main() {
	cfg := config.Get()

	// An empty signing secret would make every signature fail at request
	// time; treat it as a startup configuration error.
	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("auth.jwtSecret is not configured")
	}

	// Initialize session store first
	auth.InitializeSessionStore(&cfg.Auth)

	// Initialize database connection
	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer database.Close()

	// Run database migrations after database initialization
	if err := database.RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize scheduler
	scheduler.Initialize()
	defer scheduler.Stop()

	store := newTokenStore(cfg)

	// Initialize Goth providers (after session store is initialized)
	auth.InitProviders(cfg)

	// Create new Fiber instance
	app := fiber.New(fiber.Config{
		AppName:      "Cinevault API",
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		// Enable custom error handling
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Error().Err(err).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("Error handling request")

			// Default 500 status code
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:8090,http://127.0.0.1:8090,http://localhost:5173,http://127.0.0.1:5173",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Cache-Control, Content-Language, Content-Type",
		MaxAge:           300,
	}))

	// Health check routes
	app.Get("/health", healthCheck)
	app.Get("/ready", readinessCheck)

	// Wire services
	userRepo := repository.NewUserRepository(database.GetDB())
	watchlistRepo := repository.NewWatchlistRepository(database.GetDB())
	issuer := auth.NewIssuer(&cfg.Auth)
	authService := auth.NewService(userRepo, issuer, store)

	authHandler := handlers.NewAuthHandler(authService)
	oauthHandler := handlers.NewOAuthHandler(authService, userRepo, cfg)
	usersHandler := handlers.NewUsersHandler(userRepo)
	watchlistHandler := handlers.NewWatchlistHandler(watchlistRepo)
	moviesHandler := handlers.NewMoviesHandler(cfg.Catalog)

	// Every request carries a derived auth status; handlers gate on it.
	app.Use(middleware.WithAuthStatus(authService))

	// Register auth routes
	app.Post("/auth/register", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/refresh", authHandler.Refresh)
	app.Post("/auth/logout", authHandler.Logout)
	app.Put("/auth/password", authHandler.ChangePassword)
	app.Get("/auth/me", authHandler.GetMe)

	// Social auth routes
	app.Get("/auth/:provider/login", oauthHandler.Begin)
	app.Get("/auth/:provider/callback", oauthHandler.Callback)

	// Profile and watchlist routes (ownership enforced by the gate)
	app.Get("/users/:id", usersHandler.GetUser)
	app.Put("/users/:id", usersHandler.UpdateUser)
	app.Get("/users/:userId/watchlist", watchlistHandler.List)
	app.Post("/users/:userId/watchlist", watchlistHandler.Add)
	app.Delete("/users/:userId/watchlist/:movieId", watchlistHandler.Remove)

	// Catalog proxy
	app.Get("/movies/search", moviesHandler.Search)
	app.Get("/movies/:id", moviesHandler.Detail)

	// Admin routes
	adminGroup := app.Group("/admin",
		middleware.Protected(),
		middleware.RequireAccess(userRepo, "superadmin"),
	)
	adminGroup.Get("/users", usersHandler.ListUsers)
	adminGroup.Put("/users/:id/status", usersHandler.UpdateUserStatus)

	// Start server in a goroutine
	serverAddr := cfg.Server.Host + ":" + cfg.Server.Port
	go func() {
		if err := app.Listen(serverAddr); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
}

// @Summary Health check endpoint
// @Description Get the health status of the service
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// @Summary Readiness check endpoint
// @Description Get the readiness status of the service
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ready [get]
func readinessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}
