// Package indexer builds the product embedding index from the catalog.
package indexer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ofertero/ofertero/internal/catalog"
	"github.com/ofertero/ofertero/internal/config"
	"github.com/ofertero/ofertero/internal/embedding"
	"github.com/ofertero/ofertero/internal/models"
	"github.com/ofertero/ofertero/internal/normalize"
	"github.com/ofertero/ofertero/internal/vector"
	"github.com/ofertero/ofertero/pkg/utils"
)

// noDiscountSentinels are the scraper's ways of saying a product has no
// discount. Anything else in the discount field counts as a real discount.
var noDiscountSentinels = map[string]bool{
	"":              true,
	"0":             true,
	"0%":            true,
	"sin descuento": true,
}

// Builder turns the product catalog into the persisted index triple: the
// vector index, the raw embedding matrix, and the metadata array. Row i of the
// metadata always describes row i of the vectors; the build produces the three
// files together and writes the metadata file last, so its presence marks a
// complete generation.
type Builder struct {
	store      catalog.Store
	embedder   embedding.Embedder
	normalizer *normalize.Normalizer
	index      config.IndexConfig
	logger     *zap.Logger
}

// NewBuilder creates a builder with the given dependencies.
func NewBuilder(
	store catalog.Store,
	embedder embedding.Embedder,
	normalizer *normalize.Normalizer,
	index config.IndexConfig,
	logger *zap.Logger,
) *Builder {
	return &Builder{
		store:      store,
		embedder:   embedder,
		normalizer: normalizer,
		index:      index,
		logger:     logger,
	}
}

// Build reads every product from the catalog and rebuilds the index files.
// It returns true only when a complete generation was written; on any failure
// it logs the cause and returns false without touching existing files.
func (b *Builder) Build(ctx context.Context) bool {
	products, err := b.store.GetAllProducts(ctx)
	if err != nil {
		b.logger.Error("index build: failed to read catalog", zap.Error(err))
		return false
	}
	return b.BuildFromProducts(ctx, products)
}

// BuildFromProducts rebuilds the index files from the given products.
func (b *Builder) BuildFromProducts(ctx context.Context, products []*models.Product) bool {
	if len(products) == 0 {
		b.logger.Warn("index build: catalog is empty, nothing to index")
		return false
	}

	texts := make([]string, len(products))
	metadata := make([]models.ProductMeta, len(products))
	for i, p := range products {
		p.ApplyDefaults()
		texts[i] = b.normalizer.BuildDocumentText(p)

		category := b.normalizer.NormalizeCategory(p.Category)
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}
		metadata[i] = models.ProductMeta{
			ID:              id,
			Name:            p.Name,
			Brand:           p.Brand,
			Category:        category,
			Price:           p.Price(),
			DiscountPercent: p.DiscountPercent,
			Discounted:      isDiscounted(p.DiscountPercent),
			ProductURL:      p.ProductURL,
			ImageURL:        p.ImageURL,
			Availability:    p.Availability,
			Specifications:  p.Specifications,
			Source:          p.Source,
			MainCategory:    b.normalizer.IsMainCategory(category),
		}
	}

	vectors, err := b.embedBatches(ctx, texts)
	if err != nil {
		b.logger.Error("index build: embedding failed", zap.Error(err))
		return false
	}

	dims := b.embedder.Dimensions()
	index, err := vector.NewFlatIndex(dims)
	if err != nil {
		b.logger.Error("index build: failed to create index", zap.Error(err))
		return false
	}
	if err := index.Add(vectors); err != nil {
		b.logger.Error("index build: failed to add vectors", zap.Error(err))
		return false
	}

	if err := vector.SaveMatrix(b.index.EmbeddingsFile(), dims, vectors); err != nil {
		b.logger.Error("index build: failed to save embeddings", zap.Error(err))
		return false
	}
	if err := index.Save(b.index.IndexFile()); err != nil {
		b.logger.Error("index build: failed to save index", zap.Error(err))
		return false
	}
	if err := saveMetadata(b.index.MetadataFile(), metadata); err != nil {
		b.logger.Error("index build: failed to save metadata", zap.Error(err))
		return false
	}

	b.logger.Info("index build complete",
		zap.Int("products", len(products)),
		zap.Int("dimensions", dims),
	)
	return true
}

// embedBatches embeds texts in fixed-size batches, preserving input order.
func (b *Builder) embedBatches(ctx context.Context, texts []string) ([][]float32, error) {
	batchSize := b.index.BatchSize
	if batchSize <= 0 {
		batchSize = len(texts)
	}
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := b.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		for _, vec := range batch {
			utils.NormalizeL2(vec)
			vectors = append(vectors, vec)
		}
	}
	return vectors, nil
}

// saveMetadata writes the metadata array as JSON. Written last during a build;
// readers treat its presence as the commit marker for the generation.
func saveMetadata(path string, metadata []models.ProductMeta) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// isDiscounted reports whether the raw discount field carries a real discount.
func isDiscounted(discountPercent string) bool {
	return !noDiscountSentinels[strings.ToLower(strings.TrimSpace(discountPercent))]
}
