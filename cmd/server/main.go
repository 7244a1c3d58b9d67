package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/inkwell-app/inkwell-backend/internal/config"
	"github.com/inkwell-app/inkwell-backend/internal/database"
	"github.com/inkwell-app/inkwell-backend/internal/handlers"
	"github.com/inkwell-app/inkwell-backend/internal/middleware"
	"github.com/inkwell-app/inkwell-backend/internal/routes"
	"github.com/inkwell-app/inkwell-backend/internal/services"
	"github.com/inkwell-app/inkwell-backend/internal/store"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	db, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()

	// One-time schema migration (create-if-missing, covers legacy deployments)
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate PostgreSQL schema:", err)
	}

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	rdb, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Wire services. Stores and services are constructed here and injected;
	// nothing holds a global handle.
	ctx := context.Background()

	users := store.NewUserStore(db)
	entries := store.NewEntryStore(db)

	analyzer := services.NewAnalyzer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	sessions := services.NewSessionService(users, cfg.IsProduction())
	cache := services.NewTimelineCache(rdb)
	cache.StartInvalidationSubscriber(ctx)
	pipeline := services.NewEntryPipeline(entries, analyzer, cache)

	h := handlers.New(cfg, sessions, pipeline, db, rdb)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, host check)")
	}

	// Setup routes
	routes.SetupRoutes(r, h)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  POST /api/auth/signup")
	log.Println("  POST /api/auth/login")
	log.Println("  POST /api/auth/logout")
	log.Println("  GET  /api/auth/me")
	log.Println("  POST /api/journal")
	log.Println("  GET  /api/journal")
	log.Println("  GET  /api/debug")
	log.Println("  GET  /health")

	log.Printf("🚀 Inkwell backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
