package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/davidbloss/wghub/internal/bridge"
	"github.com/davidbloss/wghub/internal/database"
	"github.com/davidbloss/wghub/internal/export"
	"github.com/davidbloss/wghub/internal/guest"
	"github.com/davidbloss/wghub/internal/logging"
	"github.com/davidbloss/wghub/internal/points"
	"github.com/davidbloss/wghub/internal/push"
	"github.com/davidbloss/wghub/internal/remote"
	"github.com/davidbloss/wghub/internal/rotation"
	"github.com/davidbloss/wghub/internal/server"
	"github.com/davidbloss/wghub/internal/store"
	ws "github.com/davidbloss/wghub/internal/websocket"
)

type config struct {
	Port             string        `env:"WGHUB_PORT" envDefault:"8080"`
	DBPath           string        `env:"WGHUB_DB_PATH" envDefault:"wghub.db"`
	WGID             string        `env:"WGHUB_WG_ID" envDefault:"default"`
	LogLevel         string        `env:"WGHUB_LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"WGHUB_LOG_FORMAT" envDefault:"text"`
	GuestTokenSecret string        `env:"WGHUB_GUEST_TOKEN_SECRET"`
	GuestTokenTTL    time.Duration `env:"WGHUB_GUEST_TOKEN_TTL" envDefault:"24h"`

	Push   push.Config
	Export export.Config
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.New(cfg.WGID, logger.With("component", "store"))
	hub := ws.NewHub(logger.With("component", "websocket"))

	rem := remote.NewSQLite(db, logger.With("component", "remote"))
	br := bridge.New(st, rem, hub, logger.With("component", "bridge"))
	if err := br.Hydrate(ctx); err != nil {
		log.Fatalf("failed to hydrate state: %v", err)
	}
	br.Start(ctx)

	ledger := points.NewLedger(st, logger.With("component", "points"))
	engine := rotation.NewEngine(st, logger.With("component", "rotation"))
	scheduler := rotation.NewScheduler(engine, logger.With("component", "rotation_scheduler"))
	go scheduler.Run(ctx)

	secret := []byte(cfg.GuestTokenSecret)
	if len(secret) == 0 {
		// Tokens won't survive a restart without a configured secret,
		// which is fine for a single household box.
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("failed to generate token secret: %v", err)
		}
		logger.Warn("WGHUB_GUEST_TOKEN_SECRET not set, using ephemeral secret")
	}
	issuer := guest.NewTokenIssuer(secret, cfg.GuestTokenTTL)

	var pushSvc *push.Service
	var notifier *push.Notifier
	var pushStore *push.SubscriptionStore
	if cfg.Push.VAPIDPublicKey != "" && cfg.Push.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey)
		pushStore = push.NewSubscriptionStore(db)
		notifier = push.NewNotifier(pushSvc, pushStore, logger.With("component", "push"))
	}

	exportMgr := export.NewManager(cfg.Export, st, logger.With("component", "export"))

	srv := server.New(server.Deps{
		Store:         st,
		Hub:           hub,
		Ledger:        ledger,
		Engine:        engine,
		TokenIssuer:   issuer,
		Notifier:      notifier,
		PushService:   pushSvc,
		PushStore:     pushStore,
		ExportManager: exportMgr,
	}, logger)

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("wghub running at http://localhost:%s\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	fmt.Println("\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
