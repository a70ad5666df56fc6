package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nomigo/geosearch/app/config"
	"github.com/nomigo/geosearch/app/controllers"
	"github.com/nomigo/geosearch/internal/catalog/cachelayer"
	"github.com/nomigo/geosearch/internal/catalog/meilicatalog"
	"github.com/nomigo/geosearch/internal/catalog/propstore"
	"github.com/nomigo/geosearch/internal/geocoder"
	"github.com/nomigo/geosearch/internal/normalize"
	"github.com/nomigo/geosearch/routes"
)

func main() {
	if err := config.Load("config/geosearch.yaml"); err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting geosearch API")

	mongoClient, err := initMongoDB(logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database("geosearch")

	props := propstore.New(db)

	redisOpts, err := redis.ParseURL(config.C.Catalog.RedisURL)
	if err != nil {
		logger.Fatal("Invalid Redis URL", zap.Error(err))
	}
	cache, err := cachelayer.New(redis.NewClient(redisOpts), config.C.Catalog.L1CacheSize, config.C.Catalog.QueryTimeout, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache layer", zap.Error(err))
	}

	cat, err := meilicatalog.New(meilicatalog.Config{
		Host:        config.C.Catalog.MeiliHost,
		APIKey:      config.C.Catalog.MeiliAPIKey,
		Timeout:     config.C.Catalog.QueryTimeout,
		Indexes:     config.C.Catalog.Indexes,
		ClassTables: config.C.Catalog.ClassTables,
	}, cache, props, logger)
	if err != nil {
		logger.Fatal("Failed to initialize catalog", zap.Error(err))
	}

	normRules, err := normalize.LoadNormalizationRules()
	if err != nil {
		logger.Fatal("Failed to load normalization rules", zap.Error(err))
	}
	translitRules, err := normalize.LoadTransliterationRules()
	if err != nil {
		logger.Fatal("Failed to load transliteration rules", zap.Error(err))
	}
	normalizer, err := normalize.NewNormalizer(normRules)
	if err != nil {
		logger.Fatal("Failed to build normalizer", zap.Error(err))
	}
	transliterator, err := normalize.NewTransliterator(translitRules)
	if err != nil {
		logger.Fatal("Failed to build transliterator", zap.Error(err))
	}

	geo := geocoder.New(cat, normalizer, transliterator, geocoder.Config{
		MaxSearches: config.C.Executor.MaxSearches,
	}, logger)

	searchController := controllers.NewSearchController(geo, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	routes.SetupAllRoutes(router, searchController)

	port := getPort()
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", port))
		if err := router.Run(":" + port); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	_, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	logger.Info("Server exited")
}

func initMongoDB(logger *zap.Logger) (*mongo.Client, error) {
	mongoURI := os.Getenv("MONGO_URL")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	logger.Info("Connecting to MongoDB", zap.String("uri", mongoURI))

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	logger.Info("Successfully connected to MongoDB")
	return client, nil
}

func getPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return port
}
