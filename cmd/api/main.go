package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/edallison777/vitracka-sub001/internal/audit"
	"github.com/edallison777/vitracka-sub001/internal/config"
	"github.com/edallison777/vitracka-sub001/internal/handler"
	"github.com/edallison777/vitracka-sub001/internal/service/agents"
	"github.com/edallison777/vitracka-sub001/internal/service/concierge"
	"github.com/edallison777/vitracka-sub001/internal/service/safety"
	sessionsvc "github.com/edallison777/vitracka-sub001/internal/service/session"
	"github.com/edallison777/vitracka-sub001/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	repo, err := store.NewSQLite(cfg.Storage.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.Storage.DBPath), zap.Error(err))
	}
	defer repo.Close()

	sink, err := audit.NewSQLiteSink(cfg.Storage.AuditDBPath)
	if err != nil {
		logger.Fatal("failed to open audit database", zap.String("path", cfg.Storage.AuditDBPath), zap.Error(err))
	}
	defer sink.Close()

	sentinel := safety.NewSentinel(repo, logger)

	// Responders run on the configured chat model when credentials are
	// present, deterministic stub replies otherwise.
	var generator agents.Generator
	if cfg.AI.Enabled() {
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			logger.Warn("failed to initialize chat model, continuing with stub responders", zap.Error(err))
		} else {
			chainGen, err := agents.NewChainGenerator(ctx, chatModel)
			if err != nil {
				logger.Warn("failed to build generation chain, continuing with stub responders", zap.Error(err))
			} else {
				generator = chainGen
				logger.Info("chat model initialized", zap.String("model", cfg.AI.Model))
			}
		}
	} else {
		logger.Info("chat model credentials not configured, using stub responders")
	}

	sessions := sessionsvc.NewManager(cfg.Safety.SessionTTL)
	go sweepSessions(ctx, sessions, cfg.Safety.SessionTTL, logger)

	orchestrator := concierge.New(concierge.Config{
		Sentinel:     sentinel,
		Responders:   agents.Registry(generator),
		Sessions:     sessions,
		Sink:         sink,
		Profiles:     repo,
		AgentTimeout: cfg.Safety.AgentTimeout,
		Retention:    cfg.Safety.HistoryRetention,
		Logger:       logger,
	})

	router := handler.NewRouter(orchestrator, repo, cfg.Server.AllowedOrigins, logger)

	startServer(ctx, cfg.Server, router, logger)
}

func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if os.Getenv("LOG_LEVEL") == "debug" {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

// sweepSessions drops idle sessions on a fraction of the TTL so memory
// does not grow with abandoned conversations.
func sweepSessions(ctx context.Context, sessions *sessionsvc.Manager, ttl time.Duration, logger *zap.Logger) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.ExpireIdle(); n > 0 {
				logger.Debug("expired idle sessions", zap.Int("count", n))
			}
		}
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("vitracka core listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
