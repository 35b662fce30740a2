package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/splitvest/splitvest/internal/auth"
	"github.com/splitvest/splitvest/internal/httpapi"
	"github.com/splitvest/splitvest/internal/middleware"
	"github.com/splitvest/splitvest/internal/service"
	"github.com/splitvest/splitvest/internal/stocks"
	"github.com/splitvest/splitvest/internal/storage/sqlite"
	"github.com/splitvest/splitvest/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/splitvest.db")
	port := getEnv("PORT", "8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	stockAPIURL := getEnv("STOCK_API_URL", "https://api.twelvedata.com")
	stockAPIKey := os.Getenv("STOCK_API_KEY")
	refreshSpec := getEnv("PRICE_REFRESH_SCHEDULE", "0 * * * *")

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, 24*time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	authService := service.NewAuthService(authenticator, jwtManager, store)
	groupService := service.NewGroupService(store)
	ledgerService := service.NewLedgerService(store)
	investmentService := service.NewInvestmentService(store)

	priceClient := stocks.NewClient(stockAPIURL, stockAPIKey)

	if stockAPIKey != "" {
		refresher := stocks.NewRefresher(store, priceClient)
		if err := refresher.Start(refreshSpec); err != nil {
			slog.Error("Failed to start price refresher", "error", err)
			os.Exit(1)
		}
		defer refresher.Stop()
	} else {
		slog.Warn("STOCK_API_KEY not set, investment values will not refresh")
	}

	api := httpapi.NewServer(authService, groupService, ledgerService, investmentService, priceClient, jwtManager)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.Routes())
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.Logging(middleware.CORS(mux))

	// h2c allows HTTP/2 clients without TLS termination in front.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
