package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
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
	loadViperDefaults()

	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting geosearch")

	if err := config.Load(viper.GetString("config.path")); err != nil {
		logger.Warn("Falling back to viper-only configuration", zap.Error(err))
		populateFromViper()
	}

	mongoDB := initMongoDB(logger)
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			logger.Error("Error disconnecting MongoDB", zap.Error(err))
		}
	}()

	props := propstore.New(mongoDB)

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

	router := gin.Default()
	routes.SetupAllRoutes(router, searchController)

	port := getEnv("APP_PORT", viper.GetString("app.port"))
	logger.Info("geosearch listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// loadViperDefaults sets up the viper layer that resolves which YAML
// config file to hand to config.Load and supplies app-level defaults
// that predate the catalog/executor config split.
func loadViperDefaults() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("config.path", "config/geosearch.yaml")
	viper.SetDefault("meilisearch.url", "http://meili:7700")
	viper.SetDefault("mongo.url", "mongodb://localhost:27017/geosearch")
	viper.SetDefault("redis.url", "redis://localhost:6379")
	viper.SetDefault("cache.l1_size", 10000)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: cannot read app config file: %v", err)
	}
}

// populateFromViper fills config.C directly from viper keys when the
// catalog/executor YAML file named by config.path could not be read,
// so the service can still boot from the simpler app.yaml alone.
func populateFromViper() {
	config.C.Catalog.MeiliHost = viper.GetString("meilisearch.url")
	config.C.Catalog.MeiliAPIKey = viper.GetString("meilisearch.master_key")
	config.C.Catalog.RedisURL = viper.GetString("redis.url")
	config.C.Catalog.MongoURL = viper.GetString("mongo.url")
	config.C.Catalog.L1CacheSize = viper.GetInt("cache.l1_size")
	config.C.Catalog.QueryTimeout = 5 * time.Second
	config.C.Executor.MaxSearches = 50
	config.C.Executor.DefaultLimit = 20
	config.C.Executor.PlaceRowCap = 10000
}

func initLogger() *zap.Logger {
	env := getEnv("APP_ENV", "development")

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}
	return logger
}

func initMongoDB(logger *zap.Logger) *mongo.Database {
	mongoURL := getEnv("MONGO_URL", viper.GetString("mongo.url"))

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURL))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}

	dbName := "geosearch"
	clientOpts := options.Client().ApplyURI(mongoURL)
	if clientOpts.Auth != nil && clientOpts.Auth.AuthSource != "" {
		dbName = clientOpts.Auth.AuthSource
	}

	db := client.Database(dbName)
	logger.Info("Connected to MongoDB", zap.String("database", dbName))
	return db
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
