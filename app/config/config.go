package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CatalogCfg configures the Meilisearch/Redis/Mongo-backed catalog.
type CatalogCfg struct {
	MeiliHost    string            `yaml:"meili_host" json:"meili_host"`
	MeiliAPIKey  string            `yaml:"meili_api_key" json:"meili_api_key"`
	Indexes      map[string]string `yaml:"indexes" json:"indexes"`
	ClassTables  map[string]string `yaml:"class_tables" json:"class_tables"`
	RedisURL     string            `yaml:"redis_url" json:"redis_url"`
	MongoURL     string            `yaml:"mongo_url" json:"mongo_url"`
	L1CacheSize  int               `yaml:"l1_cache_size" json:"l1_cache_size"`
	QueryTimeout time.Duration     `yaml:"query_timeout" json:"query_timeout"`
}

// ExecutorCfg bounds the Search Builder/Executor.
type ExecutorCfg struct {
	MaxSearches   int `yaml:"max_searches" json:"max_searches"`
	DefaultLimit  int `yaml:"default_limit" json:"default_limit"`
	PlaceRowCap   int `yaml:"place_row_cap" json:"place_row_cap"`
}

// SimilarityWeights blends the Jaro-Winkler and Levenshtein diagnostics
// surfaced on each Result (AuxSimilarity); these never feed back into
// Accuracy, only into operator-facing debugging output.
type SimilarityWeights struct {
	JaroWinklerWeight float64 `yaml:"jaro_winkler_weight" json:"jaro_winkler_weight"`
	LevenshteinWeight float64 `yaml:"levenshtein_weight" json:"levenshtein_weight"`
}

// GeosearchCfg is the full service configuration, loaded from YAML with
// environment overrides for the values operators most commonly tune.
type GeosearchCfg struct {
	Catalog    CatalogCfg        `yaml:"catalog" json:"catalog"`
	Executor   ExecutorCfg       `yaml:"executor" json:"executor"`
	Similarity SimilarityWeights `yaml:"similarity" json:"similarity"`
}

var C GeosearchCfg

// Load reads the YAML config at path into C, applying environment
// overrides for Meilisearch/Redis/Mongo connection strings.
func Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, &C); err != nil {
		return err
	}

	if v := os.Getenv("MEILISEARCH_URL"); v != "" {
		C.Catalog.MeiliHost = v
	}
	if v := os.Getenv("MEILISEARCH_MASTER_KEY"); v != "" {
		C.Catalog.MeiliAPIKey = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		C.Catalog.RedisURL = v
	}
	if v := os.Getenv("MONGO_URL"); v != "" {
		C.Catalog.MongoURL = v
	}

	if C.Catalog.QueryTimeout == 0 {
		C.Catalog.QueryTimeout = 5 * time.Second
	}
	if C.Catalog.L1CacheSize == 0 {
		C.Catalog.L1CacheSize = 10000
	}
	if C.Executor.MaxSearches == 0 {
		C.Executor.MaxSearches = 50
	}
	if C.Executor.DefaultLimit == 0 {
		C.Executor.DefaultLimit = 20
	}
	if C.Executor.PlaceRowCap == 0 {
		C.Executor.PlaceRowCap = 10000
	}
	return nil
}

// RequestTimeout returns a fixed 5s per-request deadline. No handler or
// router in this repository calls it.
func RequestTimeout() time.Duration { return 5 * time.Second }
