package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"lexora.org/internal/audit"
	"lexora.org/internal/auth"
	"lexora.org/internal/config"
	"lexora.org/internal/docsec"
	"lexora.org/internal/httpapi"
	"lexora.org/internal/obs"
	"lexora.org/internal/ratelimit"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)
	defer obs.Sync()

	logger := obs.Logger()

	var db *sql.DB
	if cfg.Database.DSN != "" {
		db, err = sql.Open("pgx", cfg.Database.DSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	tokens, err := auth.NewTokens(cfg.JWT.Secret,
		auth.WithIssuer(cfg.JWT.Issuer),
		auth.WithAccessTTL(cfg.JWT.AccessTTL),
		auth.WithRefreshTTL(cfg.JWT.RefreshTTL),
	)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	var users auth.UserStore
	var trail *audit.Trail
	var meta docsec.MetadataStore
	var blobs docsec.BlobStore
	if db != nil {
		users = auth.NewPGUserStore(db)
		trail = audit.NewTrail(audit.NewPGStore(db))
		docStore := docsec.NewPGStore(db)
		meta = docStore
		blobs = docStore
	} else {
		// Без БД процесс поднимается для health checks и token-only работы.
		trail = audit.NewTrail(nil)
		logger.Warn("no database configured, user and document stores disabled")
	}

	authSvc := auth.NewService(users, tokens)

	var cipher *docsec.Cipher
	if key := cfg.DocumentKey(); key != nil {
		cipher, err = docsec.NewCipher(key)
		if err != nil {
			log.Fatalf("document cipher: %v", err)
		}
	} else {
		logger.Warn("document encryption key not configured, storing plaintext")
	}
	docSvc := docsec.NewService(cipher, meta, blobs, users, trail, cfg.Documents.KeyID)

	var store ratelimit.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		store = ratelimit.NewRedisStore(rdb, "lexora:rl:")
	} else {
		store = ratelimit.NewMemoryStore()
	}
	limiter := ratelimit.New(store, cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)

	loginThrottle := ratelimit.NewPerIPBucket(1, 5)
	defer loginThrottle.Stop()

	api := httpapi.New(httpapi.Options{
		ReadyProbe:    httpapi.ReadyProbe{DB: db},
		Version:       version,
		Auth:          authSvc,
		Documents:     docSvc,
		Trail:         trail,
		Limiter:       limiter,
		LoginThrottle: loginThrottle,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	log.Printf("Starting lexora-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
