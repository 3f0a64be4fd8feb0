package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/visitswap/visitswap-api/internal/config"
	"github.com/visitswap/visitswap-api/internal/domain/auth"
	"github.com/visitswap/visitswap-api/internal/domain/credit"
	"github.com/visitswap/visitswap-api/internal/domain/site"
	"github.com/visitswap/visitswap-api/internal/domain/user"
	"github.com/visitswap/visitswap-api/internal/domain/visit"
	"github.com/visitswap/visitswap-api/internal/middleware"
	"github.com/visitswap/visitswap-api/internal/pkg/database"
	"github.com/visitswap/visitswap-api/internal/pkg/email"
	"github.com/visitswap/visitswap-api/internal/pkg/jwt"
	"github.com/visitswap/visitswap-api/internal/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting VisitSwap API")

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	if cfg.AutoMigrate {
		if err := database.Migrate(db, cfg.DBDriver); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTTTL)

	emailService := email.NewService(newEmailSender(cfg), 100)
	defer emailService.Close()

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	siteRepo := site.NewRepository(db)
	creditRepo := credit.NewRepository(db)

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService, emailService, cfg.FrontendURL, cfg.ResetTokenTTL)
	siteService := site.NewService(siteRepo)
	visitService := visit.NewService(visit.NewLedger(db), visit.Config{
		Reward:          cfg.VisitReward,
		DurationSeconds: cfg.VisitDurationSeconds,
	})
	creditService := credit.NewService(creditRepo, cfg.HistoryLimit)

	// ---------- Router ----------
	handler := newRouter(routerDeps{
		AllowedOrigins: cfg.AllowedOrigins,
		Store:          db,
		AuthMiddleware: middleware.Auth(jwtService),
		RateLimiter:    middleware.NewRateLimiter(redis, "api", cfg.RateLimitPerMinute),
		AuthHandler:    auth.NewHandler(authService, cfg.FrontendURL),
		SiteHandler:    site.NewHandler(siteService),
		VisitHandler:   visit.NewHandler(visitService),
		CreditHandler:  credit.NewHandler(creditService),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited properly")
}

func newEmailSender(cfg *config.Config) email.Sender {
	switch cfg.EmailProvider {
	case "smtp":
		return email.NewSMTPSender(email.SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUser,
			Password:  cfg.SMTPPassword,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		})
	case "resend":
		if cfg.ResendAPIKey == "" {
			log.Warn().Msg("RESEND_API_KEY is empty, emails will only be logged")
			return email.LogSender{}
		}
		return email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.EmailFromName)
	default:
		return email.LogSender{}
	}
}
