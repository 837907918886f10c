package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"energy-community/internal/auth"
	"energy-community/internal/community/infrastructure/postgres"
	"energy-community/internal/community/seed"
	"energy-community/internal/observability/logger"
	"energy-community/migrations"
)

type options struct {
	dsn       string
	month     string
	migrate   bool
	secret    string
	role      string
	subject   string
	tokenTTL  time.Duration
	tokenOnly bool
}

func main() {
	opts := parseOptions()
	log, err := logger.New("info")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if opts.secret != "" {
		role, ok := auth.NormalizeRole(opts.role)
		if !ok {
			log.Fatal("invalid role", zap.String("role", opts.role))
		}
		token, err := auth.IssueToken([]byte(opts.secret), opts.subject, role, opts.tokenTTL)
		if err != nil {
			log.Fatal("issue token", zap.Error(err))
		}
		fmt.Println(token)
	}
	if opts.tokenOnly {
		return
	}
	if opts.dsn == "" {
		log.Fatal("PG_DSN or DATABASE_URL is required")
	}

	now := time.Now().UTC()
	if opts.month != "" {
		parsed, err := time.Parse("2006-01", opts.month)
		if err != nil {
			log.Fatal("invalid month", zap.String("month", opts.month), zap.Error(err))
		}
		now = parsed.AddDate(0, 0, 14)
	}

	db, err := sql.Open("pgx", opts.dsn)
	if err != nil {
		log.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if opts.migrate {
		if err := migrations.Apply(ctx, db); err != nil {
			log.Fatal("apply migrations", zap.Error(err))
		}
	}

	ds := seed.Demo(now)
	sum, err := seed.Load(ctx, seed.NewPostgresWriter(postgres.NewStore(db)), ds)
	if err != nil {
		log.Fatal("seed demo community", zap.Error(err))
	}
	log.Info("seed completed",
		zap.Int64("community_id", ds.CommunityID),
		zap.String("period", ds.Period.String()),
		zap.Int("users", sum.Users),
		zap.Int("members", sum.Members),
		zap.Int("records", sum.Records),
		zap.Int("contracts", sum.Contracts),
		zap.Int("credits", sum.Credits),
	)
}

func parseOptions() options {
	opts := options{}
	flag.StringVar(&opts.dsn, "pg-dsn", envOrDefault("PG_DSN", envOrDefault("DATABASE_URL", "")), "Postgres DSN")
	flag.StringVar(&opts.month, "month", envOrDefault("SEED_MONTH", ""), "period to seed (YYYY-MM), defaults to the current month")
	flag.BoolVar(&opts.migrate, "migrate", true, "apply embedded migrations first")
	flag.StringVar(&opts.secret, "jwt-secret", envOrDefault("AUTH_JWT_SECRET", ""), "when set, print a signed token")
	flag.StringVar(&opts.role, "role", "admin", "token role (viewer, operator, admin)")
	flag.StringVar(&opts.subject, "subject", "seed", "token subject")
	flag.DurationVar(&opts.tokenTTL, "token-ttl", 24*time.Hour, "token lifetime")
	flag.BoolVar(&opts.tokenOnly, "token-only", false, "print the token and skip seeding")
	flag.Parse()
	return opts
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
