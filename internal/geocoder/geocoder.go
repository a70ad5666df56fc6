// Package geocoder wires the Query Model, Normalizer/Transliterator,
// Tokenizer/Analyzer, Token Assignment Enumerator and Search
// Builder/Executor into the single forward-search entry point the HTTP
// surface calls.
package geocoder

import (
	"context"

	"go.uber.org/zap"

	"github.com/nomigo/geosearch/internal/analyzer"
	"github.com/nomigo/geosearch/internal/assignment"
	"github.com/nomigo/geosearch/internal/catalog"
	"github.com/nomigo/geosearch/internal/normalize"
	"github.com/nomigo/geosearch/internal/query"
	"github.com/nomigo/geosearch/internal/search"
)

// Service is the forward-search core: preprocess, tokenize, enumerate,
// build and execute, returning a ranked result list.
type Service struct {
	cat         catalog.Capability
	analyzer    *analyzer.Analyzer
	preprocess  []query.Preprocessor
	logger      *zap.Logger
	maxSearches int
}

// Config configures the service's preprocessing pipeline and execution
// ceiling.
type Config struct {
	Preprocessors []query.Preprocessor
	MaxSearches   int
}

func New(cat catalog.Capability, normalizer normalize.Normalizer, transliterator normalize.Transliterator, cfg Config, logger *zap.Logger) *Service {
	maxSearches := cfg.MaxSearches
	if maxSearches <= 0 {
		maxSearches = 50
	}
	return &Service{
		cat:         cat,
		analyzer:    analyzer.New(cat, normalizer, transliterator),
		preprocess:  cfg.Preprocessors,
		logger:      logger,
		maxSearches: maxSearches,
	}
}

// Search runs the full forward-geocoding pipeline over raw query phrases
// and returns a deterministically ordered Result list.
func (s *Service) Search(ctx context.Context, phrases []query.Phrase, details *search.Details) ([]search.Result, error) {
	phrases, err := query.RunPipeline(phrases, s.preprocess)
	if err != nil {
		return nil, err
	}
	if len(phrases) == 0 {
		return nil, nil
	}

	q, err := s.analyzer.Analyze(ctx, phrases)
	if err != nil {
		return nil, err
	}

	assignments := assignment.Enumerate(q)
	if len(assignments) == 0 {
		return nil, nil
	}

	var searches []search.Search
	for _, a := range assignments {
		searches = append(searches, search.Build(q, a)...)
		if len(searches) >= s.maxSearches {
			break
		}
	}
	if len(searches) > s.maxSearches {
		searches = searches[:s.maxSearches]
	}

	return search.Execute(ctx, s.cat, details, searches, func(err error) {
		if s.logger != nil {
			s.logger.Warn("catalog lookup failed, skipping search", zap.Error(err))
		}
	})
}
