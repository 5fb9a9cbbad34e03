package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "SiteIntern-backend/docs"
	"SiteIntern-backend/internal/absence"
	"SiteIntern-backend/internal/attendance"
	"SiteIntern-backend/internal/platform/auth"
	"SiteIntern-backend/internal/platform/config"
	"SiteIntern-backend/internal/platform/db"
	"SiteIntern-backend/internal/platform/logging"
	"SiteIntern-backend/internal/platform/requestid"
	"SiteIntern-backend/internal/sysclock"
	"SiteIntern-backend/internal/workcalendar"
)

func main() {
	cfgPath := pflag.String("config", config.DefaultConfigPath, "path to the YAML config file")
	detectOnly := pflag.Bool("detect-absences", false, "run absence detection once and exit")
	date := pflag.String("date", "", "target date (YYYY-MM-DD) for --detect-absences; default is yesterday")
	debug := pflag.Bool("debug", false, "debug logging")
	pflag.Parse()

	logger := logging.Setup(os.Stdout, *debug)

	// 設定読み込み
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Error("load config", logging.KeyErr, err)
		os.Exit(1)
	}
	logger.Info("config loaded", "mode", cfg.Mode, "version", cfg.Version)

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		logger.Error("connect database", logging.KeyErr, err)
		os.Exit(1)
	}
	defer conn.Close()
	logger.Info("connected to DB", "dbname", cfg.DB.DBName)

	loc, err := cfg.Absence.Location()
	if err != nil {
		logger.Error("absence timezone", logging.KeyErr, err)
		os.Exit(1)
	}
	detector := absence.NewDetector(conn, absence.Options{
		Location:   loc,
		RunTimeout: cfg.Absence.RunTimeout,
		Note:       absence.NoteFor(cfg.I18n.Language, logger),
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *detectOnly {
		if err := detectOnce(ctx, detector, *date, logger); err != nil {
			logger.Error("absence detection", logging.KeyErr, err)
			conn.Close()
			os.Exit(1)
		}
		return
	}

	if err := serve(ctx, cfg, conn, detector, logger); err != nil {
		logger.Error("server stopped", logging.KeyErr, err)
		conn.Close()
		os.Exit(1)
	}
}

// detectOnce backs the --detect-absences mode used to backfill missed days.
func detectOnce(ctx context.Context, det *absence.Detector, date string, logger *slog.Logger) error {
	target := det.Yesterday()
	if date != "" {
		t, err := time.ParseInLocation(absence.DateLayout, date, time.UTC)
		if err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
		if err := det.CheckTarget(t); err != nil {
			return err
		}
		target = t
	}
	sum, err := det.Run(ctx, target)
	if err != nil {
		return err
	}
	logger.Info("one-shot absence detection done", "target_date", sum.TargetDate, "outcome", sum.Outcome, "inserted", sum.Inserted)
	return nil
}

func serve(ctx context.Context, cfg *config.Config, conn *sql.DB, detector *absence.Detector, logger *slog.Logger) error {
	secret := []byte(cfg.Auth.JWTSecret)
	clockSvc := sysclock.NewService(conn, logger)

	r := newRouter(cfg, routerDeps{
		secret:     secret,
		auth:       auth.NewService(conn, secret, cfg.Auth.TokenTTL),
		clock:      clockSvc,
		attendance: attendance.NewService(conn, clockSvc, logger),
		detector:   detector,
		calendar:   workcalendar.NewFeed(conn, logger),
	})

	if cfg.Absence.Enabled {
		sched, err := absence.NewScheduler(detector, cfg.Absence, logger)
		if err != nil {
			return err
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
	} else {
		logger.Warn("absence detection scheduler disabled")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// TLS設定
	certDir := "config/tls/release"
	if cfg.Mode == config.ModeDev {
		certDir = "config/tls/dev"
	}
	certFile := filepath.Join(certDir, cfg.Certificate.Cert)
	keyFile := filepath.Join(certDir, cfg.Certificate.Key)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServeTLS(certFile, keyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(cfg *config.Config, deps routerDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if cfg.Mode == config.ModeDev {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestid.Middleware())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == config.ModeDev {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowedOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestid.Header},
			ExposeHeaders:    []string{"Content-Length", requestid.Header},
			AllowMethods:     []string{"GET", "HEAD", "POST", "PUT", "OPTIONS"},
			AllowCredentials: true,
		}))
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// /api/v2
	api := r.Group("/api/v2")
	authed := api.Group("", auth.RequireAuth(deps.secret))
	admin := authed.Group("", auth.RequireRole(auth.RoleAdmin))

	auth.RegisterRoutes(api, admin, deps.auth)
	sysclock.RegisterRoutes(authed, admin, deps.clock)
	attendance.RegisterRoutes(authed, deps.attendance)
	absence.RegisterRoutes(admin, deps.detector)
	workcalendar.RegisterRoutes(api, deps.calendar)

	return r
}

type routerDeps struct {
	secret     []byte
	auth       auth.AuthService
	clock      *sysclock.Service
	attendance *attendance.Service
	detector   *absence.Detector
	calendar   *workcalendar.Feed
}
