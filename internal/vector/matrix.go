package vector

import "fmt"

// SaveMatrix writes a raw embedding matrix to path in the same binary layout
// as the index file. The matrix is kept next to the index so embeddings can be
// reused without re-encoding the whole catalog.
func SaveMatrix(path string, dimensions int, vectors [][]float32) error {
	idx := &FlatIndex{dimensions: dimensions}
	if err := idx.Add(vectors); err != nil {
		return fmt.Errorf("stage matrix: %w", err)
	}
	return idx.Save(path)
}

// LoadMatrix reads a raw embedding matrix written by SaveMatrix.
func LoadMatrix(path string, dimensions int) ([][]float32, error) {
	idx := &FlatIndex{dimensions: dimensions}
	if err := idx.Load(path); err != nil {
		return nil, err
	}
	return idx.vectors, nil
}
