package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lfriedrich2/4gewinnt/internal/config"
	"github.com/lfriedrich2/4gewinnt/internal/repository/memory"
	"github.com/lfriedrich2/4gewinnt/internal/repository/postgres"
	"github.com/lfriedrich2/4gewinnt/internal/repository/redis"
	"github.com/lfriedrich2/4gewinnt/internal/service/cleanup"
	"github.com/lfriedrich2/4gewinnt/internal/service/game"
	"github.com/lfriedrich2/4gewinnt/internal/service/profile"
	transportHttp "github.com/lfriedrich2/4gewinnt/internal/transport/http"
	"github.com/lfriedrich2/4gewinnt/internal/transport/websocket"
	"github.com/lfriedrich2/4gewinnt/pkg/auth"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. History store: Postgres when configured, memory otherwise
	var history game.HistoryRepository
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime(),
		})
		if err != nil {
			log.Fatal("Database unreachable:", err)
		}
		defer db.Close()

		log.Println("Running database migrations...")
		if err := postgres.RunMigrations(ctx, db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Database migration completed successfully")
		history = postgres.NewGameRepo(db)
	} else {
		log.Println("[DB] DATABASE_URL not set, keeping game history in memory")
		history = memory.NewGameRepo()
	}

	// 2. Profile store: Redis, falling back to memory
	var store redis.Store
	client, err := redis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Printf("[REDIS] Warning: %v, falling back to in-memory profile store", err)
		store = redis.NewMemoryStore()
	} else {
		store = redis.NewRedisCache(client)
	}
	defer store.Close()

	// 3. Services
	profileService := profile.NewService(store, cfg.ProfileTTL())
	sessionManager := game.NewSessionManager()
	connManager := websocket.NewConnectionManager()
	sessionManager.SetNotifier(connManager)
	gameService := game.NewService(sessionManager, history, profileService)

	cleanup.NewWorker(sessionManager, cfg.CleanupInterval()).Start(ctx)

	// 4. Transport
	wsHandler := websocket.NewHandler(connManager, sessionManager, cfg.IsOriginAllowed)
	router := transportHttp.NewRouter(transportHttp.RouterDeps{
		Config:    cfg,
		Tokens:    auth.NewTokenIssuer(cfg.JWTSecret, cfg.ProfileTTL()),
		Games:     gameService,
		Profiles:  profileService,
		WebSocket: wsHandler.HandleWebSocket,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// let pending history saves finish before the stores close
	sessionManager.Wait()
	log.Println("Server exited gracefully")
}
