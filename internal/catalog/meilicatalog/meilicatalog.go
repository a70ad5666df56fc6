// Package meilicatalog implements catalog.Capability on top of
// Meilisearch, Redis and MongoDB, repurposing the donor's
// GazetteerSearcher/HybridCacheService trio (SPEC_FULL Domain Stack):
// Meilisearch stands in for the word/placex/search_name/postcode/
// country_name/country_grid tables and any place_classtype_<class>_<type>
// companion table; Redis+an in-process LRU back get_cached_value; MongoDB
// backs get_property.
package meilicatalog

import (
	"context"
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/nomigo/geosearch/internal/catalog"
	"github.com/nomigo/geosearch/internal/catalog/cachelayer"
	"github.com/nomigo/geosearch/internal/catalog/propstore"
	"github.com/nomigo/geosearch/internal/errs"
)

// Config configures the Meilisearch connection and the table→index
// mapping.
type Config struct {
	Host    string
	APIKey  string
	Timeout time.Duration

	// Indexes maps a catalog table name to its Meilisearch index UID.
	// Standard entries: "word", "placex", "search_name", "postcode",
	// "country_name", "country_grid".
	Indexes map[string]string

	// ClassTables maps "class/type" to the Meilisearch index UID of its
	// companion table, for categories dense enough to warrant one.
	ClassTables map[string]string
}

type Catalog struct {
	client  meilisearch.ServiceManager
	logger  *zap.Logger
	indexes map[string]string
	classes map[string]string
	timeout time.Duration
	cache   *cachelayer.Layer
	props   *propstore.Store
}

// New connects to Meilisearch and wires the Redis/Mongo-backed
// get_cached_value/get_property tiers.
func New(cfg Config, cache *cachelayer.Layer, props *propstore.Store, logger *zap.Logger) (*Catalog, error) {
	client := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))
	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("cannot reach Meilisearch: %w", err)
	}
	return &Catalog{
		client:  client,
		logger:  logger,
		indexes: cfg.Indexes,
		classes: cfg.ClassTables,
		timeout: cfg.Timeout,
		cache:   cache,
		props:   props,
	}, nil
}

func (c *Catalog) Execute(ctx context.Context, stmt catalog.Statement) ([]catalog.Row, error) {
	indexUID, ok := c.indexes[stmt.Table]
	if !ok {
		indexUID, ok = c.classes[stmt.Table]
		if !ok {
			return nil, errs.NewCatalogError("execute", fmt.Errorf("unknown table %q", stmt.Table))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	index := c.client.Index(indexUID)
	req := &meilisearch.SearchRequest{
		Filter: stmt.Filter,
		Limit:  int64(stmt.Limit),
	}
	query := ""
	if q, ok := stmt.Binds["q"].(string); ok {
		query = q
	}

	result, err := index.Search(query, req)
	if err != nil {
		return nil, errs.NewCatalogError("execute:"+stmt.Table, err)
	}

	rows := make([]catalog.Row, 0, len(result.Hits))
	for _, hit := range result.Hits {
		m, ok := hit.(map[string]any)
		if !ok {
			continue
		}
		rows = append(rows, catalog.Row(m))
	}
	return rows, nil
}

func (c *Catalog) GetProperty(ctx context.Context, name string) (string, error) {
	v, err := c.props.Get(ctx, name)
	if err != nil {
		return "", errs.NewCatalogError("get_property:"+name, err)
	}
	return v, nil
}

func (c *Catalog) GetCachedValue(ctx context.Context, namespace, key string, factory catalog.ValueFactory) (any, error) {
	var dst any
	hit, err := c.cache.Get(ctx, namespace, key, &dst)
	if err != nil {
		c.logger.Warn("cache layer read failed, recomputing", zap.Error(err))
	}
	if hit {
		return dst, nil
	}
	value, err := factory(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, namespace, key, value); err != nil {
		c.logger.Warn("cache layer write failed", zap.Error(err))
	}
	return value, nil
}

func (c *Catalog) GetClassTable(ctx context.Context, class, typ string) (string, bool) {
	table, ok := c.classes[class+"/"+typ]
	return table, ok
}
