package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"tailor-backend/internal/config"
	"tailor-backend/internal/database"
	"tailor-backend/internal/db"
	"tailor-backend/internal/handlers"
	"tailor-backend/internal/health"
	h "tailor-backend/internal/http"
	"tailor-backend/internal/middleware"
	"tailor-backend/internal/monitoring"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/services"
	"tailor-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to the database (bounded pool)
	pool := db.Connect(cfg)
	defer pool.Close()
	log.Printf("Connected to database: %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	// Run database migrations from the embedded schema files
	migrator := database.NewMigrator(pool, migrations.FS, ".")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Start monitoring dashboard server in background
	if cfg.Monitoring.Enabled {
		go monitoring.NewServer(pool, cfg.Monitoring.Port).Start()
	}

	// Initialize repositories
	customerRepo := repositories.NewCustomerRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	statsRepo := repositories.NewStatsRepository(pool)

	// Initialize services
	customerService := services.NewCustomerService(customerRepo)
	orderService := services.NewOrderService(orderRepo)
	statsService := services.NewStatsService(statsRepo)
	receiptService := services.NewReceiptService(orderRepo, customerRepo)

	// Initialize handlers
	customerHandler := handlers.NewCustomerHandler(customerService)
	orderHandler := handlers.NewOrderHandler(orderService, receiptService)
	statsHandler := handlers.NewStatsHandler(statsService)
	healthHandler := handlers.NewHealthHandler(health.NewChecker(pool))

	// Build router, wrap with panic recovery and CORS
	router := h.NewRouter(customerHandler, orderHandler, statsHandler, healthHandler)
	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(corsMiddleware(router))

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
