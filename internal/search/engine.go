// Package search provides semantic product retrieval over the persisted index.
package search

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ofertero/ofertero/internal/config"
	"github.com/ofertero/ofertero/internal/embedding"
	"github.com/ofertero/ofertero/internal/models"
	"github.com/ofertero/ofertero/internal/normalize"
	"github.com/ofertero/ofertero/internal/query"
	"github.com/ofertero/ofertero/internal/vector"
	"github.com/ofertero/ofertero/pkg/utils"
)

const desktopCategory = "Computadores de Escritorio"

// Engine answers product queries against the loaded index generation. A
// generation is the index/metadata pair produced by one build; Load swaps in a
// new generation atomically under the write lock. Search never returns an
// error to callers: any internal failure is logged and produces an empty
// result list, so a broken index degrades to "no products found" instead of
// surfacing infrastructure errors to shoppers.
type Engine struct {
	embedder   embedding.Embedder
	processor  *query.Processor
	normalizer *normalize.Normalizer
	search     *config.SearchConfig
	index      config.IndexConfig
	logger     *zap.Logger

	mu       sync.RWMutex
	vectors  *vector.FlatIndex
	metadata []models.ProductMeta
}

// NewEngine creates a search engine with the given dependencies. The index is
// not loaded; call Load before serving queries.
func NewEngine(
	embedder embedding.Embedder,
	processor *query.Processor,
	normalizer *normalize.Normalizer,
	searchCfg *config.SearchConfig,
	indexCfg config.IndexConfig,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		embedder:   embedder,
		processor:  processor,
		normalizer: normalizer,
		search:     searchCfg,
		index:      indexCfg,
		logger:     logger,
	}
}

// Load reads the persisted index generation and swaps it in. The metadata file
// is the commit marker: when it is missing the engine stays (or becomes)
// unloaded. Returns true when a complete generation is now being served.
func (e *Engine) Load() bool {
	data, err := os.ReadFile(e.index.MetadataFile())
	if err != nil {
		if !os.IsNotExist(err) {
			e.logger.Error("failed to read index metadata", zap.Error(err))
		}
		e.reset()
		return false
	}

	var metadata []models.ProductMeta
	if err := json.Unmarshal(data, &metadata); err != nil {
		e.logger.Error("index metadata is corrupt", zap.Error(err))
		e.reset()
		return false
	}
	if len(metadata) == 0 {
		e.logger.Warn("index metadata is empty")
		e.reset()
		return false
	}

	vectors, err := vector.NewFlatIndex(e.embedder.Dimensions())
	if err != nil {
		e.logger.Error("failed to create index", zap.Error(err))
		e.reset()
		return false
	}
	if err := vectors.Load(e.index.IndexFile()); err != nil {
		e.logger.Error("failed to load vector index", zap.Error(err))
		e.reset()
		return false
	}
	if vectors.Size() != len(metadata) {
		e.logger.Error("index and metadata row counts differ",
			zap.Int("index_rows", vectors.Size()),
			zap.Int("metadata_rows", len(metadata)),
		)
		e.reset()
		return false
	}

	e.mu.Lock()
	e.vectors = vectors
	e.metadata = metadata
	e.mu.Unlock()

	e.logger.Info("index loaded", zap.Int("products", len(metadata)))
	return true
}

func (e *Engine) reset() {
	e.mu.Lock()
	e.vectors = nil
	e.metadata = nil
	e.mu.Unlock()
}

// IsReady reports whether a generation is loaded.
func (e *Engine) IsReady() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.vectors != nil && len(e.metadata) > 0
}

// Size returns the number of indexed products.
func (e *Engine) Size() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.metadata)
}

// Metadata returns a copy of the loaded metadata array, in row order.
func (e *Engine) Metadata() []models.ProductMeta {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.ProductMeta, len(e.metadata))
	copy(out, e.metadata)
	return out
}

// Search returns the ranked products for a free-text query. topK and threshold
// of zero mean "use the configured defaults"; the threshold is additionally
// raised to the portability floor when the query names a portability term.
func (e *Engine) Search(ctx context.Context, rawQuery string, topK int, threshold float64) []*models.SearchResult {
	if !e.IsReady() {
		e.logger.Warn("search before index load", zap.String("query", rawQuery))
		return []*models.SearchResult{}
	}

	topK = e.clampTopK(topK)
	signal := e.processor.PortabilitySignal(rawQuery)
	if threshold <= 0 {
		threshold = e.processor.DynamicThreshold(rawQuery)
	}
	if signal != query.SignalNone && threshold < e.search.PortabilityFloor {
		threshold = e.search.PortabilityFloor
	}

	candidates := e.retrieve(ctx, rawQuery, e.search.OverFetch*topK, threshold, signal)
	return e.rank(candidates, topK)
}

// retrieve embeds the cleaned query and collects up to fetchK deduplicated
// candidates above the threshold, with conflict penalties applied.
func (e *Engine) retrieve(ctx context.Context, rawQuery string, fetchK int, threshold float64, signal query.Signal) []*models.SearchResult {
	cleaned := e.processor.Clean(rawQuery)
	vec, err := e.embedder.Embed(ctx, cleaned)
	if err != nil {
		e.logger.Error("query embedding failed", zap.String("query", rawQuery), zap.Error(err))
		return nil
	}
	utils.NormalizeL2(vec)

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.vectors == nil {
		return nil
	}

	scores, rows, err := e.vectors.Search(vec, fetchK)
	if err != nil {
		e.logger.Error("vector search failed", zap.String("query", rawQuery), zap.Error(err))
		return nil
	}

	seen := make(map[string]bool, len(rows))
	var candidates []*models.SearchResult
	for i, row := range rows {
		if row < 0 || row >= len(e.metadata) {
			e.logger.Error("index row out of metadata range", zap.Int("row", row))
			continue
		}
		if scores[i] < threshold {
			continue
		}
		meta := e.metadata[row]
		nameKey := strings.ToLower(meta.Name)
		if seen[nameKey] {
			continue
		}
		seen[nameKey] = true

		adjusted := scores[i]
		if e.conflicts(signal, &meta) {
			adjusted *= e.search.ConflictPenalty
		}
		candidates = append(candidates, &models.SearchResult{
			ProductMeta: meta,
			Score:       scores[i],
			Adjusted:    adjusted,
		})
	}
	return candidates
}

// conflicts reports whether a candidate's product type contradicts the query's
// portability signal.
func (e *Engine) conflicts(signal query.Signal, meta *models.ProductMeta) bool {
	switch signal {
	case query.SignalPortable:
		return meta.Category == desktopCategory || e.normalizer.HasDesktopMarker(meta.Name)
	case query.SignalDesktop:
		return meta.Category == "Portátiles" || e.normalizer.HasPortableMarker(meta.Name)
	default:
		return false
	}
}

// rank orders candidates by adjusted score and fills the result list with
// main-category products first, backfilling with accessories only when fewer
// than topK main products qualified.
func (e *Engine) rank(candidates []*models.SearchResult, topK int) []*models.SearchResult {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Adjusted > candidates[j].Adjusted
	})

	results := make([]*models.SearchResult, 0, topK)
	for _, c := range candidates {
		if len(results) == topK {
			break
		}
		if c.MainCategory {
			results = append(results, c)
		}
	}
	for _, c := range candidates {
		if len(results) == topK {
			break
		}
		if !c.MainCategory {
			results = append(results, c)
		}
	}
	return results
}

// SearchWithFilters returns ranked products constrained by the request's
// filters. With a query the candidate pool comes from semantic retrieval;
// without one the whole index is filtered and ordered by price ascending.
func (e *Engine) SearchWithFilters(ctx context.Context, req *models.FilterRequest) []*models.SearchResult {
	if !e.IsReady() {
		e.logger.Warn("filtered search before index load")
		return []*models.SearchResult{}
	}
	topK := e.clampTopK(req.TopK)

	if req.Query != "" {
		signal := e.processor.PortabilitySignal(req.Query)
		threshold := req.Threshold
		if threshold <= 0 {
			threshold = e.processor.DynamicThreshold(req.Query)
		}
		if signal != query.SignalNone && threshold < e.search.PortabilityFloor {
			threshold = e.search.PortabilityFloor
		}
		pool := e.retrieve(ctx, req.Query, e.search.OverFetch*e.search.MaxTopK, threshold, signal)
		filtered := pool[:0]
		for _, c := range pool {
			if matchesFilters(&c.ProductMeta, req) {
				filtered = append(filtered, c)
			}
		}
		return e.rank(filtered, topK)
	}

	// Without a query the metadata is scanned in row order until topK
	// survivors are collected; the page is then presented cheapest-first.
	e.mu.RLock()
	pool := make([]*models.SearchResult, 0, topK)
	for i := range e.metadata {
		if len(pool) == topK {
			break
		}
		if matchesFilters(&e.metadata[i], req) {
			pool = append(pool, &models.SearchResult{ProductMeta: e.metadata[i]})
		}
	}
	e.mu.RUnlock()
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Price < pool[j].Price })
	return pool
}

// clampTopK applies the configured default and ceiling.
func (e *Engine) clampTopK(topK int) int {
	if topK <= 0 {
		return e.search.DefaultTopK
	}
	if topK > e.search.MaxTopK {
		return e.search.MaxTopK
	}
	return topK
}
