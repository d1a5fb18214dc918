package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/config"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/auth"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/database"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/handlers"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/middleware"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/repository"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/scheduler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title           Back-office API
// @version         1.0
// @description     Real-estate back-office API server.

// @host      localhost:8090
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the token with the `Bearer ` prefix, e.g. "Bearer abcde12345"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg)

	// Initialize database connection
	db, err := database.Initialize(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	revokedRepo := repository.NewRevokedTokenRepository(db, cfg.Auth.RevokeAllWindow)

	// Auth subsystem
	tokenService := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	authService := auth.NewAuthService(userRepo, roleRepo, tokenService, revokedRepo)
	gate := middleware.NewAuthMiddleware(tokenService, revokedRepo, userRepo, roleRepo)

	// Session cleanup job
	cleanup := scheduler.New(revokedRepo, cfg.Auth.CleanupInterval)
	if err := cleanup.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start cleanup scheduler")
	}
	defer cleanup.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "Back-office API",
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Error().Err(err).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("Error handling request")

			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			// Internal detail never reaches the caller
			return c.Status(code).JSON(fiber.Map{
				"error": "Request failed",
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173,http://127.0.0.1:5173",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check routes
	app.Get("/health", healthCheck)
	app.Get("/ready", readinessCheck)

	// Auth routes
	authHandler := handlers.NewAuthHandler(authService)
	app.Post("/auth/register", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/logout", gate.Protected(), authHandler.Logout)
	app.Post("/auth/logout-all", gate.Protected(), authHandler.LogoutAll)
	app.Get("/auth/me", gate.Protected(), authHandler.GetMe)

	// User routes
	usersHandler := handlers.NewUsersHandler(userRepo)
	app.Get("/users/:id", gate.Protected(), gate.RequireAdminOrOwner("id"), usersHandler.GetUser)

	// Admin routes
	sessionsHandler := handlers.NewSessionsHandler(revokedRepo)
	adminGroup := app.Group("/admin",
		gate.Protected(),
		gate.RequireAdmin(),
	)
	adminGroup.Get("/users", usersHandler.ListUsers)
	adminGroup.Put("/users/:id/status", usersHandler.UpdateUserStatus)
	adminGroup.Get("/sessions/stats", sessionsHandler.Stats)
	adminGroup.Post("/sessions/cleanup", sessionsHandler.Cleanup)

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

func setupLogger(cfg *config.Config) {
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
