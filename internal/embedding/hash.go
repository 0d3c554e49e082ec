package embedding

import (
	"context"
	"strings"

	"github.com/ofertero/ofertero/pkg/utils"
)

// HashEmbedder is a deterministic bag-of-tokens embedder used in tests and as
// a degraded fallback when no ONNX model is configured. Each token is hashed
// into a fixed-dimension bucket, so texts sharing tokens get proportionally
// similar vectors — enough structure to exercise the full ranking pipeline
// without model inference.
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder returns a hash-bucket embedder of the given dimensions.
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &HashEmbedder{dimensions: dimensions}
}

// Embed returns the normalized token-bucket vector for text.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimensions)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,:;|")
		if tok == "" {
			continue
		}
		vec[HashString(tok)%e.dimensions]++
	}
	utils.NormalizeL2(vec)
	return vec, nil
}

// EmbedBatch embeds each text independently, preserving input order.
func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op.
func (e *HashEmbedder) Close() error {
	return nil
}

// HashString returns a deterministic non-negative hash of s.
func HashString(s string) int {
	h := 0
	for _, c := range s {
		h = 31*h + int(c)
	}
	if h < 0 {
		h = -h
	}
	return h
}
