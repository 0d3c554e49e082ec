// Package embedding provides text embedding for product documents and queries.
package embedding

import "context"

// Embedder produces dense vector embeddings for text. Implementations must
// return L2-normalized vectors so inner-product search equals cosine
// similarity.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
