package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"energy-community/internal/audit"
	"energy-community/internal/auth"
	"energy-community/internal/community/application"
	"energy-community/internal/community/infrastructure/memory"
	communitypostgres "energy-community/internal/community/infrastructure/postgres"
	"energy-community/internal/community/interfaces/export"
	communityhttp "energy-community/internal/community/interfaces/http"
	"energy-community/internal/community/seed"
	"energy-community/internal/config"
	"energy-community/internal/observability/logger"
	"energy-community/internal/observability/metrics"
	"energy-community/migrations"
)

func main() {
	envFile := flag.String("env-file", "", "optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		// Logger level comes from config, so fall back to a default one here.
		bootstrap, _ := logger.New("info")
		bootstrap.Fatal("config error", zap.Error(err))
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Both were checked by config.Validate.
	loc, _ := cfg.Location()
	share, _ := cfg.PDEShare()

	repos, db, auditLogger, cleanup := openStorage(ctx, cfg, loc, log)
	defer cleanup()

	metrics.Init(db, logger.Named(log, "metrics"))

	service, err := application.NewSettlementService(repos,
		application.WithLocation(loc),
		application.WithDefaultPDEShare(share),
		application.WithLogger(logger.Named(log, "settlement")),
	)
	if err != nil {
		log.Fatal("settlement service error", zap.Error(err))
	}

	handler, err := communityhttp.NewHandler(service, auditLogger, logger.Named(log, "api"))
	if err != nil {
		log.Fatal("handler error", zap.Error(err))
	}

	if len(cfg.Archive.Communities) > 0 {
		archiver, err := application.NewRosterArchiver(service, export.BuildRosterXLSX, cfg.Archive.StorageRoot, logger.Named(log, "archive"))
		if err != nil {
			log.Fatal("roster archiver error", zap.Error(err))
		}
		scheduler, err := application.NewScheduler(archiver, cfg.Archive.Schedule, cfg.Archive.Communities, loc, logger.Named(log, "scheduler"))
		if err != nil {
			log.Fatal("scheduler error", zap.Error(err))
		}
		go scheduler.Start(ctx)
	}

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           logger.Middleware(log, authMiddleware.Wrap(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown error", zap.Error(err))
		}
	}()

	log.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.String("storage", cfg.Storage))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("http server error", zap.Error(err))
	}
}

// openStorage wires the repositories for the configured backend. The returned
// *sql.DB is nil for memory storage.
func openStorage(ctx context.Context, cfg config.Config, loc *time.Location, log *zap.Logger) (application.Repositories, *sql.DB, audit.Logger, func()) {
	if cfg.Storage == config.StorageMemory {
		store := memory.NewStore()
		if err := seed.LoadMemory(store, seed.Demo(time.Now().In(loc))); err != nil {
			log.Fatal("memory seed error", zap.Error(err))
		}
		log.Warn("using in-memory storage with demo data")
		repos := application.Repositories{
			Users:       store.Users,
			Members:     store.Members,
			Records:     store.Records,
			Contracts:   store.Contracts,
			Credits:     store.Credits,
			Allocations: store.Allocations,
		}
		return repos, nil, audit.NewZapLogger(logger.Named(log, "audit")), func() {}
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open error", zap.Error(err))
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("db ping error", zap.Error(err))
	}
	if cfg.AutoMigrate {
		if err := migrations.Apply(ctx, db); err != nil {
			log.Fatal("migration error", zap.Error(err))
		}
		log.Info("migrations applied")
	}
	store := communitypostgres.NewStore(db)
	repos := application.Repositories{
		Users:       store.Users,
		Members:     store.Members,
		Records:     store.Records,
		Contracts:   store.Contracts,
		Credits:     store.Credits,
		Allocations: store.Allocations,
	}
	return repos, db, audit.NewRepository(db), func() { _ = db.Close() }
}
