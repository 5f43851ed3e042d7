package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"gweb2api-go/internal/config"
	"gweb2api-go/internal/constants"
	"gweb2api-go/internal/credential"
	"gweb2api-go/internal/logging"
	tracing "gweb2api-go/internal/monitoring/tracing"
	srv "gweb2api-go/internal/server"
	usagestats "gweb2api-go/internal/stats"
	"gweb2api-go/internal/upstream/geminiweb"
)

func main() {
	// .env is a convenience for local runs; a missing file is fine.
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if *debug {
		cfg.Security.Debug = true
	}

	if err := logging.Setup(cfg); err != nil {
		log.WithError(err).Fatal("failed to configure logging")
	}

	traceShutdown, err := tracing.Init(context.Background())
	if err != nil {
		log.WithError(err).Warn("failed to initialize tracing")
	}
	if traceShutdown != nil {
		defer func() {
			if err := traceShutdown(context.Background()); err != nil {
				log.WithError(err).Warn("failed to shutdown tracing")
			}
		}()
	}

	log.Infof("Starting gweb2api-go %s (config: %s)", constants.GetVersion(), *configPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	creds, err := credential.NewEnvSource(cfg.Pool.MaxErrors).Load(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to load cookies from environment")
	}

	factory := func(ctx context.Context, cred *credential.Credential) (credential.Session, error) {
		client := geminiweb.NewClient(cred.Secure1PSID, cred.Secure1PSIDTS, geminiweb.Options{
			UserAgent: cfg.Upstream.UserAgent,
			Timeout:   cfg.GenerateTimeout(),
		})
		if err := client.Init(ctx); err != nil {
			return nil, err
		}
		return client, nil
	}

	pool, err := credential.NewPool(creds, factory, cfg.InitTimeout())
	if err != nil {
		log.WithError(err).Fatal("no usable cookies, set SECURE_1PSID or COOKIES_JSON")
	}
	log.WithFields(log.Fields{
		"cookies":  pool.Size(),
		"strategy": cfg.Pool.Strategy,
	}).Info("cookie pool ready")

	usage := usagestats.NewRecorder()
	engine := srv.BuildEngine(cfg, srv.Dependencies{Pool: pool, Usage: usage})

	httpSrv := &http.Server{Addr: cfg.Addr(), Handler: engine}

	go func() {
		log.Infof("OpenAI-compatible API listening on %s", cfg.Addr())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("http server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown")
	}
	log.Info("Server stopped")
}
