package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"skillmarket/internal/api"
	"skillmarket/internal/app"
	"skillmarket/internal/auth"
	"skillmarket/internal/config"
	"skillmarket/internal/repository"
	"skillmarket/internal/schedule"
	"skillmarket/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	database, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open DB", zap.Error(err))
	}
	if err := database.Ping(); err != nil {
		logger.Fatal("failed to connect to DB", zap.Error(err))
	}

	migrator, err := app.NewMigrator(database, cfg.MigrationsDir)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(context.Background()); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}

	stripe.Key = cfg.StripeSecretKey

	userRepo := repository.NewUserRepository(database)
	offeringRepo := repository.NewOfferingRepository(database)
	bookingRepo := repository.NewBookingRepository(database)
	jobRepo := repository.NewJobRepository(database)

	notifyService := service.NewNotifyService(logger)
	senderService := service.NewSenderService(notifyService, logger)
	stripeService := service.NewStripeService()
	authService := service.NewAuthService(userRepo)
	offeringService := service.NewOfferingService(offeringRepo, userRepo, logger)
	bookingService := service.NewBookingService(bookingRepo, offeringService, userRepo, stripeService, senderService, logger)
	jobService := service.NewJobService(jobRepo, logger)

	authHandler := api.NewAuthHandler(authService)
	offeringHandler := api.NewOfferingHandler(offeringService)
	bookingHandler := api.NewBookingHandler(bookingService)
	adminHandler := api.NewAdminHandler(bookingService, userRepo)
	stripeHandler := api.NewStripeWebhookHandler(cfg.StripeWebhookSecret, bookingService, logger)

	c := cron.New()
	c.AddFunc("@every 10m", func() {
		if err := jobService.CompletePastBookings(); err != nil {
			logger.Error("complete past bookings job failed", zap.Error(err))
		}
	})
	c.AddFunc("@every 1h", func() {
		if err := jobService.PurgeAbandonedBookings(24 * time.Hour); err != nil {
			logger.Error("purge abandoned bookings job failed", zap.Error(err))
		}
	})
	c.Start()
	defer c.Stop()

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/offerings", offeringHandler.List).Methods("GET")
	r.HandleFunc("/api/offerings/{id}", offeringHandler.Get).Methods("GET")
	r.HandleFunc("/api/offerings/{id}/availability", offeringHandler.Availability).Methods("GET")
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")

	// Authenticated endpoints
	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(auth.Middleware)
	authed.HandleFunc("/offerings", offeringHandler.Create).Methods("POST")
	authed.HandleFunc("/offerings/{id}", offeringHandler.Update).Methods("PUT")
	authed.HandleFunc("/offerings/{id}", offeringHandler.Delete).Methods("DELETE")
	authed.HandleFunc("/bookings", bookingHandler.Create).Methods("POST")
	authed.HandleFunc("/bookings", bookingHandler.List).Methods("GET")
	authed.HandleFunc("/bookings/{code}", bookingHandler.Get).Methods("GET")
	authed.HandleFunc("/bookings/{code}/status", bookingHandler.UpdateStatus).Methods("PUT")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Middleware, auth.RequireRole(schedule.RoleAdmin))
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	logger.Info("server running", zap.String("port", cfg.Port))
	err = http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(os.Stdout, corsHandler(r)))
	logger.Fatal("server stopped", zap.Error(err))
}
