package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"nomina/internal/domain/employee"
	"nomina/internal/domain/params"
	"nomina/internal/domain/payroll"
	"nomina/internal/domain/settlement"
	"nomina/internal/platform/config"
	cryptoutil "nomina/internal/platform/crypto"
	"nomina/internal/platform/db"
	"nomina/internal/platform/email"
	"nomina/internal/platform/jobs"
	"nomina/internal/platform/metrics"
	"nomina/internal/platform/sheets"
	"nomina/internal/transport/http/api"
	authhandler "nomina/internal/transport/http/handlers/auth"
	employeehandler "nomina/internal/transport/http/handlers/employees"
	paramshandler "nomina/internal/transport/http/handlers/parameters"
	payrollhandler "nomina/internal/transport/http/handlers/payroll"
	settlementhandler "nomina/internal/transport/http/handlers/settlement"
	"nomina/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("encryption setup failed: %v", err)
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}
	sheetsClient := sheets.New(cfg.SheetsWebhookURL)
	mailer := email.New(cfg)

	jobService := jobs.New(pool, cfg, sheetsClient)
	jobService.Start(ctx)

	employeeStore := employee.NewStore(pool)
	paramStore := params.NewStore(pool)
	payrollStore := payroll.NewStore(pool)
	settlementStore := settlement.NewStore(pool)

	payrollService := payroll.NewService(
		payrollStore, employeeStore, paramStore,
		cryptoSvc, sheetsClient, jobService, mailer, collector,
		cfg.ReceiptDir, cfg.EmailFrom)
	settlementService := settlement.NewService(
		settlementStore, employeeStore, paramStore,
		cryptoSvc, sheetsClient, jobService, mailer, collector,
		cfg.ReceiptDir, cfg.EmailFrom)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authhandler.NewStore(pool), cfg.JWTSecret, 24*time.Hour).RegisterRoutes(r)
		employeehandler.NewHandler(employeeStore).RegisterRoutes(r)
		paramshandler.NewHandler(paramStore).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService, payrollStore).RegisterRoutes(r)
		settlementhandler.NewHandler(settlementService, settlementStore).RegisterRoutes(r)
	})

	log.Printf("nomina server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
