package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/serpstrategist/site/internal/cms"
	"github.com/serpstrategist/site/internal/config"
	"github.com/serpstrategist/site/internal/db"
	"github.com/serpstrategist/site/internal/handler"
	"github.com/serpstrategist/site/internal/logging"
	"github.com/serpstrategist/site/internal/router"
	"github.com/serpstrategist/site/internal/view"
	"github.com/serpstrategist/site/internal/waitlist"
	"gorm.io/gorm/logger"
)

func main() {
	// .env 仅用于本地开发，缺失时忽略
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg config.AppConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	gdb, err := db.Open(db.Options{
		Driver:       cfg.DatabaseDriver,
		DSN:          cfg.DatabaseDSN(),
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		LogLevel:     gormLogLevel(cfg.LogLevel),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Error().Err(err).Msg("close database failed")
		}
	}()

	if err := db.EnsureAdmin(gdb, cfg.AdminUserName, cfg.AdminPassword); err != nil {
		return err
	}

	repo, err := waitlist.Select(ctx, waitlist.Options{
		Backend:  cfg.WaitlistBackend,
		KVURL:    cfg.KVURL,
		FilePath: cfg.WaitlistFile,
	}, gdb)
	if err != nil {
		return err
	}
	subscribers := waitlist.NewService(repo)
	defer func() {
		if err := subscribers.Close(); err != nil {
			log.Error().Err(err).Msg("close waitlist backend failed")
		}
	}()

	var cmsClient *cms.Client
	if cfg.CMSEnabled() {
		cmsClient = cms.NewClient(cms.Config{
			ProjectID:  cfg.CMSProjectID,
			Dataset:    cfg.CMSDataset,
			APIVersion: cfg.CMSAPIVersion,
			Token:      cfg.CMSToken,
		})
	}

	api := handler.NewAPI(handler.Options{
		DB:       gdb,
		Waitlist: subscribers,
		CMS:      cmsClient,
		Site: handler.SiteInfo{
			Name:        cfg.SiteName,
			BaseURL:     cfg.SiteBaseURL,
			Description: cfg.SiteDescription,
			LogoURL:     cfg.SiteLogoURL,
			SocialLinks: view.ParseSocialLinks(cfg.SocialLinks),
		},
		UploadDir: cfg.UploadDir,
	})

	r, err := router.SetupRouter(api, router.Options{
		SessionSecret:  cfg.SessionSecret,
		BlogAPIToken:   cfg.BlogAPIToken,
		SubscribeLimit: cfg.SubscribeLimit,
		UploadDir:      cfg.UploadDir,
		SecureCookies:  strings.HasPrefix(cfg.SiteBaseURL, "https://") && cfg.GinMode == gin.ReleaseMode,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.ListenAddr).
			Str("db_driver", cfg.DatabaseDriver).
			Str("waitlist_backend", subscribers.Backend()).
			Bool("cms", cfg.CMSEnabled()).
			Msg("server listening")
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

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func gormLogLevel(level string) logger.LogLevel {
	if strings.EqualFold(level, "debug") {
		return logger.Info
	}
	return logger.Warn
}
