package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/anointed-vessels/sponsorship-api/api/swagger"
	"github.com/anointed-vessels/sponsorship-api/internal/handler"
	"github.com/anointed-vessels/sponsorship-api/internal/repository"
	"github.com/anointed-vessels/sponsorship-api/internal/router"
	"github.com/anointed-vessels/sponsorship-api/internal/service"
	"github.com/anointed-vessels/sponsorship-api/pkg/cache"
	"github.com/anointed-vessels/sponsorship-api/pkg/config"
	"github.com/anointed-vessels/sponsorship-api/pkg/database"
	"github.com/anointed-vessels/sponsorship-api/pkg/jobs"
	"github.com/anointed-vessels/sponsorship-api/pkg/logger"
	"github.com/anointed-vessels/sponsorship-api/pkg/mailer"
	"github.com/anointed-vessels/sponsorship-api/pkg/storage"
)

// @title Anointed Vessels Sponsorship API
// @version 1.0.0
// @description Backend for the charitable school's student sponsorship site
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, student list caching disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
		}
	}

	store, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare uploads directory", "error", err)
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	adminRepo := repository.NewAdminRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	interestRepo := repository.NewInterestRepository(db)

	var cacheRepo *repository.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}

	authService := service.NewAuthService(adminRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:   cfg.JWT.Secret,
		AccessTokenExpiry:   cfg.JWT.Expiration,
		Issuer:              cfg.JWT.Issuer,
		RegistrationEnabled: cfg.Auth.RegistrationEnabled,
	})

	studentService := newStudentService(studentRepo, cacheRepo, metricsService, validate, logr, cfg)
	exportService := service.NewExportService(studentService, nil, nil, logr)

	smtpMailer := mailer.New(cfg.SMTP, logr)
	emailQueue := jobs.NewQueue("email", service.EmailJobHandler(smtpMailer, logr), jobs.QueueConfig{
		Workers:    cfg.Mail.Workers,
		MaxRetries: cfg.Mail.MaxRetries,
		RetryDelay: cfg.Mail.RetryDelay,
		Logger:     logr,
	})
	queueCtx, queueCancel := context.WithCancel(context.Background())
	defer queueCancel()
	emailQueue.Start(queueCtx)
	defer emailQueue.Stop()

	sponsorshipService := service.NewSponsorshipService(interestRepo, studentRepo, emailQueue, metricsService, validate, logr, cfg.SMTP.AdminEmail)

	engine := router.New(router.Deps{
		Config:             cfg,
		Logger:             logr,
		AuthService:        authService,
		MetricsService:     metricsService,
		AuthHandler:        handler.NewAuthHandler(authService, logr),
		StudentHandler:     handler.NewStudentHandler(studentService, exportService, store, cfg.Uploads, logr),
		SponsorshipHandler: handler.NewSponsorshipHandler(sponsorshipService, logr),
		MetricsHandler:     handler.NewMetricsHandler(metricsService, db, redisClient),
		UploadsDir:         store.Dir(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "mail_enabled", cfg.MailEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Sugar().Infow("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// newStudentService keeps a nil *CacheRepository from becoming a non-nil
// cache interface inside the service.
func newStudentService(repo *repository.StudentRepository, cacheRepo *repository.CacheRepository, metrics *service.MetricsService, validate *validator.Validate, logr *zap.Logger, cfg *config.Config) *service.StudentService {
	if cacheRepo == nil {
		return service.NewStudentService(repo, nil, metrics, validate, logr, cfg.Cache.StudentListTTL)
	}
	return service.NewStudentService(repo, cacheRepo, metrics, validate, logr, cfg.Cache.StudentListTTL)
}
