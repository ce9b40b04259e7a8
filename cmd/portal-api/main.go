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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/course-portal-api/api/swagger"
	"github.com/noah-isme/course-portal-api/internal/handler"
	"github.com/noah-isme/course-portal-api/internal/repository"
	"github.com/noah-isme/course-portal-api/internal/server"
	"github.com/noah-isme/course-portal-api/internal/service"
	"github.com/noah-isme/course-portal-api/pkg/cache"
	"github.com/noah-isme/course-portal-api/pkg/config"
	"github.com/noah-isme/course-portal-api/pkg/database"
	"github.com/noah-isme/course-portal-api/pkg/export"
	"github.com/noah-isme/course-portal-api/pkg/jobs"
	"github.com/noah-isme/course-portal-api/pkg/logger"
	"github.com/noah-isme/course-portal-api/pkg/mailer"
	"github.com/noah-isme/course-portal-api/pkg/storage"
	"github.com/noah-isme/course-portal-api/pkg/youtube"
)

// @title Course Portal API
// @version 1.0.0
// @description Role-gated course pages with semester-partitioned content and grades
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, playlist cache disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db, metrics)
	userRepo := repository.NewUserRepository(db, metrics)
	assignmentRepo := repository.NewAssignmentRepository(db, metrics)
	programRepo := repository.NewProgramRepository(db, metrics)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Videos.CacheTTL, logr, redisClient != nil && cfg.Videos.CacheEnabled)

	var playlists service.PlaylistFetcher
	if cfg.Videos.YouTubeAPIKey != "" {
		client, err := youtube.NewClient(ctx, cfg.Videos.YouTubeAPIKey, cfg.Videos.FetchTimeout)
		if err != nil {
			logr.Warn("youtube client disabled", zap.Error(err))
		} else {
			playlists = client
		}
	} else {
		logr.Info("YOUTUBE_API_KEY not set, course videos will be empty")
	}

	files, err := storage.NewLocalStorage(cfg.Attachments.StorageDir)
	if err != nil {
		return fmt.Errorf("prepare attachment storage: %w", err)
	}
	signer := storage.NewSigner(cfg.Attachments.SignedURLSecret, cfg.Attachments.SignedURLTTL)

	var mail mailer.Mailer = mailer.NewConsole(logr)
	if cfg.Mail.SendGridAPIKey != "" {
		mail = mailer.NewSendGrid(cfg.Mail.SendGridAPIKey, cfg.Mail.FromName, cfg.Mail.FromAddress, cfg.Mail.SubjectPrefix)
	} else {
		logr.Info("SENDGRID_API_KEY not set, welcome emails are logged only")
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	accessSvc := service.NewAccessService(userRepo, service.PlanPolicy{FailClosed: cfg.Enrollment.FailClosedPlans}, logr)
	courseSvc := service.NewCourseService(courseRepo, userRepo, logr)
	videoSvc := service.NewVideoService(playlists, cacheSvc, cfg.Videos.CacheTTL, logr)
	contentSvc := service.NewContentService(videoSvc, signer, cfg.APIPrefix+server.DownloadPath, metrics, logr)
	rosterSvc := service.NewRosterService(userRepo, logr)
	gradeSvc := service.NewGradeService(assignmentRepo, rosterSvc, export.NewExporter(), logr)
	pageSvc := service.NewCoursePageService(courseSvc, accessSvc, contentSvc, gradeSvc, cfg.Pages.TTL, logr)
	programSvc := service.NewProgramService(programRepo, logr)

	welcomeSvc := service.NewWelcomeEmailService(rosterSvc, mail, metrics, logr)
	queue := jobs.New("welcome-email", welcomeSvc.Deliver, jobs.Config{
		Workers:    cfg.Mail.Workers,
		MaxRetries: cfg.Mail.Retries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	welcomeSvc.SetQueue(queue)
	queue.Start(ctx)
	defer queue.Stop()

	checks := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		checks["redis"] = redisPinger{ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }}
	}

	router := server.NewRouter(server.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Logger:         logr,
		Metrics:        metrics,
		Tokens:         authSvc,
	}, server.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Courses:     handler.NewCourseHandler(courseSvc, pageSvc, gradeSvc, rosterSvc, welcomeSvc, validate),
		Programs:    handler.NewProgramHandler(programSvc),
		Attachments: handler.NewAttachmentHandler(signer, files, logr),
		Metrics:     handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type redisPinger struct {
	ping func(ctx context.Context) error
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.ping(ctx)
}
