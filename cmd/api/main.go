package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appanalyses "github.com/nutriscan/nutriscan-api/internal/application/analyses"
	"github.com/nutriscan/nutriscan-api/internal/config"
	domain "github.com/nutriscan/nutriscan-api/internal/domain/analyses"
	aiopenai "github.com/nutriscan/nutriscan-api/internal/infra/ai/openai"
	mysqlp "github.com/nutriscan/nutriscan-api/internal/infra/db/mysql"
	postgresp "github.com/nutriscan/nutriscan-api/internal/infra/db/postgres"
	"github.com/nutriscan/nutriscan-api/internal/infra/httpserver"
	minioStore "github.com/nutriscan/nutriscan-api/internal/infra/storage"
	"github.com/nutriscan/nutriscan-api/internal/infra/store/jsonl"
	"github.com/nutriscan/nutriscan-api/internal/middleware"
	"github.com/nutriscan/nutriscan-api/internal/ratelimit"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// init repo + health checkers
	checkers := map[string]middleware.HealthChecker{}
	var repo domain.Repository
	switch cfg.Storage.Driver {
	case "file":
		repo = jsonl.New(cfg.Storage.Path)
		checkers["store"] = &middleware.FileStoreHealthChecker{Path: cfg.Storage.Path}
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		repo = mysqlp.NewAnalysisRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = postgresp.NewAnalysisRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	default:
		log.Fatalf("unknown storage driver: %q", cfg.Storage.Driver)
	}

	// init optional image archive
	var archive domain.ImageArchive
	if cfg.Archive.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	// init service
	svc := &appanalyses.Service{
		Repo:    repo,
		Vision:  aiopenai.NewClient(cfg.AI.APIKey, cfg.AI.Model),
		Limiter: ratelimit.New(cfg.RateLimit.Limit, cfg.RateWindow()),
		Archive: archive,
		Clock:   appanalyses.SystemClock{},
	}

	// init router
	handler := httpserver.NewRouter(svc, cfg.CORS.AllowedOrigins, checkers)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
