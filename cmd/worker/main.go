package main

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nomigo/geosearch/app/config"
	"github.com/nomigo/geosearch/helpers/utils"
	"github.com/nomigo/geosearch/internal/catalog/cachelayer"
	"github.com/nomigo/geosearch/internal/catalog/meilicatalog"
	"github.com/nomigo/geosearch/internal/catalog/propstore"
	"github.com/nomigo/geosearch/internal/geocoder"
	"github.com/nomigo/geosearch/internal/normalize"
	"github.com/nomigo/geosearch/internal/query"
	"github.com/nomigo/geosearch/internal/search"
)

// worker drains a newline-delimited batch of free-text queries (one per
// line, from BATCH_INPUT_FILE or stdin) through the same geocoder the API
// serves, writing one JSON result line per query to BATCH_OUTPUT_FILE or
// stdout. It exists for bulk re-geocoding jobs run outside request/response
// latency budgets: reindex verification, gazetteer QA, offline exports.
func main() {
	if err := config.Load("config/geosearch.yaml"); err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	runID := utils.GenerateShortID()
	logger = logger.With(zap.String("run_id", runID))
	logger.Info("Starting geosearch worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("Shutting down worker...")
		cancel()
	}()

	geo, err := buildGeocoder(logger)
	if err != nil {
		logger.Fatal("Failed to initialize geocoder", zap.Error(err))
	}

	in, err := inputSource()
	if err != nil {
		logger.Fatal("Failed to open batch input", zap.Error(err))
	}
	defer in.Close()

	out, err := outputSink()
	if err != nil {
		logger.Fatal("Failed to open batch output", zap.Error(err))
	}
	defer out.Close()

	processed, err := runBatch(ctx, geo, in, out, logger)
	if err != nil {
		logger.Fatal("Batch run failed", zap.Error(err))
	}

	logger.Info("Worker exited", zap.Int("processed", processed))
}

type batchResult struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// runBatch reads one query per line until EOF or ctx cancellation,
// searching each through geo and writing a batchResult per line.
func runBatch(ctx context.Context, geo *geocoder.Service, in *os.File, out *os.File, logger *zap.Logger) (int, error) {
	scanner := bufio.NewScanner(in)
	encoder := json.NewEncoder(out)

	processed := 0
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return processed, nil
		default:
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		phrases := query.SplitCommaPhrases(line)
		results, err := geo.Search(ctx, phrases, search.DefaultDetails())
		res := batchResult{Query: line, Results: results}
		if err != nil {
			res.Error = err.Error()
			logger.Warn("batch query failed", zap.String("query", line), zap.Error(err))
		}
		if err := encoder.Encode(res); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, scanner.Err()
}

func buildGeocoder(logger *zap.Logger) (*geocoder.Service, error) {
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURL()))
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(ctx, nil); err != nil {
		return nil, err
	}
	props := propstore.New(mongoClient.Database("geosearch"))

	redisOpts, err := redis.ParseURL(config.C.Catalog.RedisURL)
	if err != nil {
		return nil, err
	}
	cache, err := cachelayer.New(redis.NewClient(redisOpts), config.C.Catalog.L1CacheSize, config.C.Catalog.QueryTimeout, logger)
	if err != nil {
		return nil, err
	}

	cat, err := meilicatalog.New(meilicatalog.Config{
		Host:        config.C.Catalog.MeiliHost,
		APIKey:      config.C.Catalog.MeiliAPIKey,
		Timeout:     config.C.Catalog.QueryTimeout,
		Indexes:     config.C.Catalog.Indexes,
		ClassTables: config.C.Catalog.ClassTables,
	}, cache, props, logger)
	if err != nil {
		return nil, err
	}

	normRules, err := normalize.LoadNormalizationRules()
	if err != nil {
		return nil, err
	}
	translitRules, err := normalize.LoadTransliterationRules()
	if err != nil {
		return nil, err
	}
	normalizer, err := normalize.NewNormalizer(normRules)
	if err != nil {
		return nil, err
	}
	transliterator, err := normalize.NewTransliterator(translitRules)
	if err != nil {
		return nil, err
	}

	return geocoder.New(cat, normalizer, transliterator, geocoder.Config{
		MaxSearches: config.C.Executor.MaxSearches,
	}, logger), nil
}

func mongoURL() string {
	if v := os.Getenv("MONGO_URL"); v != "" {
		return v
	}
	return "mongodb://localhost:27017"
}

func inputSource() (*os.File, error) {
	if path := os.Getenv("BATCH_INPUT_FILE"); path != "" {
		return os.Open(path)
	}
	return os.Stdin, nil
}

func outputSink() (*os.File, error) {
	if path := os.Getenv("BATCH_OUTPUT_FILE"); path != "" {
		return os.Create(path)
	}
	return os.Stdout, nil
}
