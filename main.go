package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"ticketshop/internal/audit"
	"ticketshop/internal/auth"
	eventsrepo "ticketshop/internal/events/infrastructure/postgres"
	"ticketshop/internal/observability/metrics"
	ordersapp "ticketshop/internal/orders/application"
	ordersrepo "ticketshop/internal/orders/infrastructure/postgres"
	ordersinterfaces "ticketshop/internal/orders/interfaces"
	ordersnotify "ticketshop/internal/orders/notify"
	reconciliationapp "ticketshop/internal/reconciliation/application"
	reconciliationinterfaces "ticketshop/internal/reconciliation/interfaces"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	shopCfg, err := ordersapp.LoadConfig()
	if err != nil {
		logger.Fatalf("shop config error: %v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init()
	auditRepo := audit.NewRepository(db)

	orderRepo := ordersrepo.NewOrderRepository(db)
	eventRepo := eventsrepo.NewEventRepository(db)

	orderService, err := ordersapp.NewService(orderRepo, eventRepo, shopCfg, ordersapp.SystemClock{})
	if err != nil {
		logger.Fatalf("order service error: %v", err)
	}

	var notifier ordersnotify.Notifier
	if cfg.ReminderWebhookURL != "" {
		notifier = ordersnotify.NewWebhookNotifier(cfg.ReminderWebhookURL)
	} else {
		notifier = ordersnotify.LogNotifier{Printf: logger.Printf}
	}
	reminderService, err := ordersapp.NewReminderService(orderRepo, notifier, shopCfg, ordersapp.SystemClock{}, logger)
	if err != nil {
		logger.Fatalf("reminder service error: %v", err)
	}

	reconciliationService, err := reconciliationapp.NewService(orderRepo, shopCfg.Prices())
	if err != nil {
		logger.Fatalf("reconciliation service error: %v", err)
	}

	orderHandler, err := ordersinterfaces.NewOrderHandler(orderService, shopCfg, auditRepo)
	if err != nil {
		logger.Fatalf("order handler error: %v", err)
	}
	eventsHandler, err := ordersinterfaces.NewEventsHandler(orderService)
	if err != nil {
		logger.Fatalf("events handler error: %v", err)
	}
	reminderHandler, err := ordersinterfaces.NewReminderHandler(reminderService, auditRepo)
	if err != nil {
		logger.Fatalf("reminder handler error: %v", err)
	}
	statementHandler, err := reconciliationinterfaces.NewStatementHandler(reconciliationService, auditRepo)
	if err != nil {
		logger.Fatalf("statement handler error: %v", err)
	}

	reminderScheduler := ordersapp.NewReminderScheduler(reminderService, cfg.ReminderDailyAt, logger, func(stats ordersapp.ReminderStats) {
		for i := 0; i < stats.Reminders; i++ {
			metrics.IncReminderSent(ordersnotify.StageReminder)
		}
		for i := 0; i < stats.Warnings; i++ {
			metrics.IncReminderSent(ordersnotify.StageWarning)
		}
	})
	go reminderScheduler.Start(context.Background())

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/events", eventsHandler)
	mux.Handle("/api/v1/orders", orderHandler)
	mux.Handle("/api/v1/orders/", orderHandler)
	mux.Handle("/api/v1/reminders/run", reminderHandler)
	mux.Handle("/api/v1/reconciliation/bank-statement", statementHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL        string
	HTTPAddr           string
	JWTSecret          string
	ReminderWebhookURL string
	ReminderDailyAt    string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:        getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:           getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:          getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		ReminderWebhookURL: getenvDefault("REMINDER_WEBHOOK_URL", ""),
		ReminderDailyAt:    getenvDefault("REMINDER_DAILY_AT", "06:00"),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
