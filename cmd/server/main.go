package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carwash/carwash-backend/internal/config"
	"github.com/carwash/carwash-backend/internal/database"
	"github.com/carwash/carwash-backend/internal/handlers"
	"github.com/carwash/carwash-backend/internal/middleware"
	"github.com/carwash/carwash-backend/internal/services"
	"github.com/carwash/carwash-backend/pkg/jwt"
	"github.com/carwash/carwash-backend/pkg/mail"
	"github.com/carwash/carwash-backend/pkg/sms"
	"github.com/carwash/carwash-backend/pkg/validator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Carwash Backend API")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.WithField("driver", cfg.Database.Driver).Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db.DB)
		cancel()
		if err != nil {
			logger.Fatalf("Failed to apply schema: %v", err)
		}
		logger.Info("Database schema is up to date")
	}

	// Repositories
	userRepository := database.NewUserRepository(db.DB)
	serviceRepository := database.NewServiceRepository(db.DB)
	vehicleRepository := database.NewVehicleRepository(db.DB)
	bookingRepository := database.NewBookingRepository(db.DB)
	transactionRepository := database.NewTransactionRepository(db.DB)
	reviewRepository := database.NewReviewRepository(db.DB)
	reportRepository := database.NewReportRepository(db.DB)

	// Notification channels; a nil sender disables its channel
	var mailer mail.Sender
	if cfg.Notification.EmailEnabled() {
		sender, err := mail.NewSendGridSender(mail.SendGridConfig{
			APIKey:    cfg.Notification.SendGridAPIKey,
			FromEmail: cfg.Notification.SendGridFromEmail,
			FromName:  cfg.Notification.SendGridFromName,
		})
		if err != nil {
			logger.Fatalf("Failed to initialize SendGrid: %v", err)
		}
		mailer = sender
		logger.Info("Email notifications enabled (SendGrid)")
	} else {
		logger.Info("Email notifications disabled")
	}

	var smsGateway sms.SMSGateway
	if cfg.Notification.SMSEnabled() {
		gateway, err := sms.NewTwilioGateway(sms.TwilioConfig{
			AccountSID: cfg.Notification.TwilioAccountSID,
			AuthToken:  cfg.Notification.TwilioAuthToken,
			FromNumber: cfg.Notification.TwilioFromNumber,
		})
		if err != nil {
			logger.Fatalf("Failed to initialize Twilio: %v", err)
		}
		smsGateway = gateway
		logger.Info("SMS notifications enabled (Twilio)")
	} else {
		logger.Info("SMS notifications disabled")
	}

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	structValidator := validator.NewStructValidator()
	notifier := services.NewNotificationService(userRepository, mailer, smsGateway, logger)

	userService := services.NewUserService(userRepository, jwtService, cfg.Security.BcryptCost, logger)
	catalogService := services.NewCatalogService(serviceRepository, bookingRepository, logger)
	vehicleService := services.NewVehicleService(vehicleRepository, bookingRepository, logger)
	bookingService := services.NewBookingService(bookingRepository, serviceRepository, vehicleRepository, userRepository, notifier, logger)
	transactionService := services.NewTransactionService(transactionRepository, bookingRepository, notifier, logger)
	reviewService := services.NewReviewService(reviewRepository, bookingRepository, logger)
	reportService := services.NewReportService(reportRepository, transactionRepository, serviceRepository, bookingRepository)

	// Rate limiters and their sweep job
	var limiters handlers.Limiters
	var cronService *services.CronService
	if cfg.RateLimit.Enabled {
		limiters = handlers.Limiters{
			General: services.NewRateLimitService(services.GeneralRateLimit),
			Auth:    services.NewRateLimitService(services.AuthRateLimit),
			Booking: services.NewRateLimitService(services.BookingRateLimit),
			Admin:   services.NewRateLimitService(services.AdminRateLimit),
		}
		cronService = services.NewCronService(logger, limiters.General, limiters.Auth, limiters.Booking, limiters.Admin)
		if err := cronService.Start(); err != nil {
			logger.Fatalf("Failed to start cron service: %v", err)
		}
	} else {
		logger.Warn("Rate limiting is disabled")
	}

	logger.Info("Services initialized")

	// Initialize Gin router
	router := gin.New()

	router.Use(middleware.Recovery(logger, !cfg.Server.IsProduction()))
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg.CORS)))

	handlers.SetupRoutes(router, handlers.Handlers{
		Health:      handlers.NewHealthHandler(db, cfg.Server.Environment, version, logger),
		User:        handlers.NewUserHandler(userService, structValidator),
		Service:     handlers.NewServiceHandler(catalogService, structValidator),
		Booking:     handlers.NewBookingHandler(bookingService, structValidator),
		Vehicle:     handlers.NewVehicleHandler(vehicleService, structValidator),
		Transaction: handlers.NewTransactionHandler(transactionService, structValidator),
		Review:      handlers.NewReviewHandler(reviewService, structValidator),
		Admin:       handlers.NewAdminHandler(reportService, bookingService, transactionService, userService, structValidator),
	}, limiters, jwtService, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if cronService != nil {
		cronService.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// corsConfig builds the CORS middleware settings. A "*" origin allows every
// origin and disables credentials.
func corsConfig(c config.CORSConfig) cors.Config {
	cc := cors.Config{
		AllowMethods:  c.AllowedMethods,
		AllowHeaders:  c.AllowedHeaders,
		ExposeHeaders: []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			cc.AllowAllOrigins = true
			return cc
		}
	}
	cc.AllowOrigins = c.AllowedOrigins
	cc.AllowCredentials = true
	return cc
}
