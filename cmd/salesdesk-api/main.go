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

	"github.com/dimitrije/salesdesk-api/internal/config"
	"github.com/dimitrije/salesdesk-api/internal/database"
	"github.com/dimitrije/salesdesk-api/internal/emailgen"
	"github.com/dimitrije/salesdesk-api/internal/handlers"
	"github.com/dimitrije/salesdesk-api/internal/identity"
	"github.com/dimitrije/salesdesk-api/internal/llm"
	"github.com/dimitrije/salesdesk-api/internal/metrics"
	authmw "github.com/dimitrije/salesdesk-api/internal/middleware"
	"github.com/dimitrije/salesdesk-api/internal/services"
	"github.com/dimitrije/salesdesk-api/internal/state"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	clerk := identity.NewClerk(cfg.Clerk)
	userService := services.NewUserService(db, cfg.AdminEmail)
	openaiClient := llm.NewClient(cfg.OpenAI)
	engine := emailgen.New(openaiClient, collector, cfg.OpenAI)
	stateStore := state.NewStore()

	rateLimiter := authmw.NewRateLimiter(rate.Limit(10.0/60.0), 10)
	defer rateLimiter.Stop()

	userHandler := handlers.NewUserHandler()
	productHandler := handlers.NewProductHandler()
	customerHandler := handlers.NewCustomerHandler(userService, stateStore)
	sessionHandler := handlers.NewSessionHandler(stateStore, userService, engine)
	eventsHandler := handlers.NewEventsHandler(stateStore)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")
	api.Use(authmw.Identity(clerk, userService))

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	api.Get("/products", productHandler.List)
	api.Get("/users/me", userHandler.GetMe)

	admin := api.Group("")
	admin.Use(authmw.RequireAdmin())

	admin.Get("/customers", customerHandler.List)
	admin.Post("/customers", customerHandler.Create)
	admin.Patch("/customers/:id", customerHandler.Update)
	admin.Delete("/customers/:id", customerHandler.Delete)

	admin.Get("/events", eventsHandler.Connect)
	admin.Get("/sessions/:clientId/state", sessionHandler.State)
	admin.Post("/sessions/:clientId/customer/:customerId", sessionHandler.SelectCustomer)
	admin.Post("/sessions/:clientId/options", sessionHandler.SetOptions)

	generate := admin.Group("")
	generate.Use(rateLimiter.Middleware())
	generate.Post("/sessions/:clientId/generate", sessionHandler.Generate)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			if removed := stateStore.CleanupIdle(1 * time.Hour); removed > 0 {
				log.Printf("Cleaned up %d idle sessions", removed)
			}
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Printf("Metrics listening on %s", addr)
		if err := http.ListenAndServe(addr, metrics.Handler(registry)); err != nil {
			log.Printf("Metrics server failed: %v", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
