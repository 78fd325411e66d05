package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mtunzisteven/foodStorageManager/internal/auth"
	"github.com/mtunzisteven/foodStorageManager/internal/middleware"
	"github.com/mtunzisteven/foodStorageManager/internal/ownership"
	"github.com/mtunzisteven/foodStorageManager/internal/sequence"
	"github.com/mtunzisteven/foodStorageManager/internal/server"
	"github.com/mtunzisteven/foodStorageManager/internal/service"
	"github.com/mtunzisteven/foodStorageManager/internal/storage/sqlite"
	"github.com/mtunzisteven/foodStorageManager/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/foodstorage.db")
	port := getEnv("PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}
	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "1h"))
	if err != nil {
		slog.Error("Invalid TOKEN_TTL", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	// The allocator probes the counter rows at startup so a broken database
	// fails the boot instead of the first signup.
	allocator, err := sequence.New(context.Background(), store, slog.Default())
	if err != nil {
		slog.Error("Failed to initialize sequence allocator", "error", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(jwtSecret, tokenTTL)
	guard := ownership.NewGuard(store)

	userService := service.NewUserService(store, allocator, jwtManager, slog.Default())
	pantryService := service.NewPantryService(store, store, allocator, guard, slog.Default())

	srv := server.New(userService, pantryService, jwtManager)
	handler := middleware.Logging(corsMiddleware(srv.Routes()))

	// Wrap with h2c for HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
