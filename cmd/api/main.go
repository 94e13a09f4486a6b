package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/georgemunganga/storefront-api/internal/config"
	"github.com/georgemunganga/storefront-api/internal/logger"
	"github.com/georgemunganga/storefront-api/internal/modules/cart"
	"github.com/georgemunganga/storefront-api/internal/modules/catalog"
	"github.com/georgemunganga/storefront-api/internal/modules/order"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		zlog.Fatal("failed to reach database", zap.Error(err))
	}
	zlog.Info("connected to postgres")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Catalog ─────────────────────────────────────────────
	var catalogRepo catalog.Repository
	switch cfg.ProductStore {
	case config.StoreMongo:
		client, err := connectMongo(cfg.MongoURI)
		if err != nil {
			zlog.Fatal("failed to connect to mongodb", zap.Error(err))
		}
		defer client.Disconnect(context.Background())
		catalogRepo = catalog.NewMongoRepository(client.Database(cfg.MongoDatabase))
		zlog.Info("product documents served from mongodb", zap.String("database", cfg.MongoDatabase))
	default:
		catalogRepo = catalog.NewPostgresRepository(db)
	}
	catalogService := catalog.NewService(catalogRepo, zlog.Named("catalog"), catalog.Options{
		DefaultCurrency:     cfg.DefaultCurrency,
		SnapshotConcurrency: cfg.SnapshotConcurrency,
	})
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	// ── Cart ────────────────────────────────────────────────
	cartRepo := cart.NewPostgresRepository(db)
	cartService := cart.NewService(cartRepo, catalogService, zlog.Named("cart"), cfg.DefaultCurrency)
	cart.NewHandler(cartService).RegisterRoutes(router)

	// ── Checkout ────────────────────────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, cartService, zlog.Named("order"))
	order.NewHandler(orderService).RegisterRoutes(router)

	// ── Start Server ─────────────────────────────────────────
	zlog.Info("storefront API server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func connectMongo(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}
