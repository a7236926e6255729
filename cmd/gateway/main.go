package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tourmate-gateway/cmd"
	"tourmate-gateway/internal/backend"
	"tourmate-gateway/internal/gateway"
)

type GatewayConfig struct {
	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://127.0.0.1:8000"`
	APIPort        string        `env:"API_PORT" envDefault:"3000"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"60s"`
}

func main() {
	log.Println("Starting TourMate gateway...")

	cmd.LoadEnvFile()

	var cfg GatewayConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.BackendTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	gateway.NewSessionService(client).AddRoutes(r)
	gateway.NewChatService(client).AddRoutes(r)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("Gateway listening on port %s, proxying backend %s", cfg.APIPort, cfg.BackendURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
