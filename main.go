package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"

	"zayro/admin"
	"zayro/auth"
	"zayro/careers"
	"zayro/config"
	"zayro/console"
	"zayro/db"
	"zayro/health"
	"zayro/middleware"
	"zayro/mq"
	"zayro/ratelim"
	"zayro/rdx"
	"zayro/routes"
	"zayro/store"
)

// backend is the persistence and identity stack picked by STORE_BACKEND.
type backend struct {
	store    store.Store
	provider auth.Provider
	mongo    *mongo.Client
}

func openBackend(ctx context.Context, cfg config.Config) (backend, error) {
	if cfg.StoreBackend == config.BackendMemory {
		provider := auth.NewMemoryProvider()
		if cfg.AdminEmail != "" {
			if err := provider.Add(cfg.AdminEmail, cfg.AdminPassword); err != nil {
				return backend{}, err
			}
		}
		log.Println("Using the in-memory store; data is lost on restart")
		return backend{store: store.NewMemory(), provider: provider}, nil
	}

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return backend{}, err
	}
	database := client.Database(cfg.MongoDatabase)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Printf("Index setup failed: %v", err)
	}

	provider := auth.NewMongoProvider(database)
	if cfg.AdminEmail != "" {
		created, err := provider.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return backend{}, err
		}
		if created {
			log.Printf("Created administrator %s", cfg.AdminEmail)
		}
	}
	return backend{store: store.NewMongo(database), provider: provider, mongo: client}, nil
}

// openRedis returns nil when REDIS_ADDR is not set.
func openRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set; token revocation and events stay in process")
		return nil, nil
	}
	return rdx.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	be, err := openBackend(startCtx, cfg)
	if err != nil {
		log.Fatalf("❌ Store setup failed: %v", err)
	}
	redisClient, err := openRedis(startCtx, cfg)
	if err != nil {
		log.Fatalf("❌ Redis setup failed: %v", err)
	}
	cancelStart()

	checkers := []health.Checker{health.NewStoreChecker(be.store)}
	var revoker auth.Revoker = auth.NewMemoryRevoker()
	var emitter mq.Emitter = mq.Noop{}
	if redisClient != nil {
		revoker = rdx.NewTokenStore(redisClient)
		emitter = mq.NewRedisEmitter(redisClient)
		checkers = append(checkers, health.NewRedisChecker(redisClient))
	}

	records := mq.Notify(be.store, emitter)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)

	// console hub tracks live admin sockets
	hub := console.NewHub()
	go hub.Run()

	router := httprouter.New()
	routes.RoutesWrapper(router, routes.Deps{
		Careers:      careers.NewHandler(careers.NewListing(records, nil), careers.NewDetail(records, nil), cfg.PublicBaseURL),
		Admin:        admin.NewHandler(records, nil),
		Auth:         auth.NewHandler(be.provider, tokens, revoker),
		Console:      console.NewHandler(hub, records, be.provider, tokens, revoker, cfg.AllowedOrigins),
		Health:       health.NewService(checkers...),
		RequireAuth:  middleware.Authenticate(tokens, revoker),
		ApplyLimiter: ratelim.NewRateLimiter(cfg.ApplyRatePerMinute, cfg.ApplyBurst),
		LoginLimiter: ratelim.NewRateLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst),
	})

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := middleware.Logging(middleware.SecurityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Closing admin consoles...")
		hub.Stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}
	if be.mongo != nil {
		if err := be.mongo.Disconnect(ctx); err != nil {
			log.Printf("Mongo disconnect: %v", err)
		}
	}

	log.Println("✅ Server stopped cleanly")
}
