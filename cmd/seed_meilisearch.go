package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/meilisearch/meilisearch-go"
)

// indexSettings holds the searchable/filterable/sortable attribute schema
// Nominatim's catalog tables expect, keyed by index name (§5 "Catalog
// tables"). Distinct from internal/catalog/meilicatalog, which only reads
// these indexes at query time; this tool is the one-time/periodic
// bootstrap that creates them ahead of an OSM import.
var indexSettings = map[string]*meilisearch.Settings{
	"word": {
		SearchableAttributes: []string{"word", "word_token"},
		FilterableAttributes: []string{"word_token", "type", "class", "country_code"},
	},
	"search_name": {
		SearchableAttributes: []string{"name_tokens", "address_tokens"},
		FilterableAttributes: []string{"name_tokens", "address_tokens", "country_code", "class", "type", "rank_address"},
		SortableAttributes:   []string{"importance"},
	},
	"placex": {
		SearchableAttributes: []string{"name", "housenumber"},
		FilterableAttributes: []string{"parent_place_id", "housenumber", "country_code", "class", "type", "rank_address"},
	},
	"postcode": {
		SearchableAttributes: []string{"postcode"},
		FilterableAttributes: []string{"postcode", "country_code"},
	},
	"country_name": {
		SearchableAttributes: []string{"name", "country_code"},
		FilterableAttributes: []string{"country_code"},
	},
	"country_grid": {
		FilterableAttributes: []string{"country_code"},
	},
	"class_type": {
		FilterableAttributes: []string{"class", "type", "country_code"},
	},
}

// main bootstraps one Meilisearch index from a newline-delimited JSON
// document file: `go run ./cmd/seed_meilisearch.go -index search_name -file search_name.jsonl`.
func main() {
	host := flag.String("host", "http://localhost:7700", "Meilisearch host")
	apiKey := flag.String("key", "", "Meilisearch API key")
	indexName := flag.String("index", "", "index name (word|search_name|placex|postcode|country_name|country_grid|class_type)")
	filePath := flag.String("file", "", "newline-delimited JSON document file")
	primaryKey := flag.String("primary-key", "place_id", "primary key field for AddDocuments")
	flag.Parse()

	if *indexName == "" || *filePath == "" {
		log.Fatal("-index and -file are required")
	}

	settings, ok := indexSettings[*indexName]
	if !ok {
		log.Fatalf("unknown index %q, expected one of word/search_name/placex/postcode/country_name/country_grid/class_type", *indexName)
	}

	client := meilisearch.New(*host, meilisearch.WithAPIKey(*apiKey))
	if _, err := client.Health(); err != nil {
		log.Fatalf("cannot reach Meilisearch: %v", err)
	}

	index := client.Index(*indexName)

	task, err := index.UpdateSettings(settings)
	if err != nil {
		log.Fatalf("update settings: %v", err)
	}
	if err := waitForTask(client, task.TaskUID); err != nil {
		log.Fatalf("settings update failed: %v", err)
	}
	log.Printf("index %q settings applied", *indexName)

	processed, err := seedFromFile(index, *filePath, *primaryKey)
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Printf("seeded %d documents into %q", processed, *indexName)
}

func waitForTask(client meilisearch.ServiceManager, taskUID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		info, err := client.GetTask(taskUID)
		if err != nil {
			return err
		}
		switch info.Status {
		case "succeeded":
			return nil
		case "failed":
			return fmt.Errorf("task failed: %v", info.Error)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// seedFromFile streams documents in fixed-size batches rather than loading
// the whole file, since a placex/search_name export can run into the
// millions of rows.
func seedFromFile(index meilisearch.IndexManager, path, primaryKey string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	const batchSize = 1000
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var batch []map[string]any
	total := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var doc map[string]any
		if err := json.Unmarshal(line, &doc); err != nil {
			log.Printf("skipping malformed line: %v", err)
			continue
		}
		batch = append(batch, doc)
		if len(batch) >= batchSize {
			if err := insertBatch(index, batch, primaryKey); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := insertBatch(index, batch, primaryKey); err != nil {
			return total, err
		}
		total += len(batch)
	}
	return total, scanner.Err()
}

func insertBatch(index meilisearch.IndexManager, documents []map[string]any, primaryKey string) error {
	docs := make([]any, len(documents))
	for i, d := range documents {
		docs[i] = d
	}
	_, err := index.AddDocuments(docs, primaryKey)
	return err
}
