// Package config provides configuration loading and structs for the Ofertero server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Search    SearchConfig    `yaml:"search"`
	Taxonomy  TaxonomyConfig  `yaml:"taxonomy"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig selects and configures the product store backend.
// Driver is "sqlite" (default) or "mongo".
type CatalogConfig struct {
	Driver        string `yaml:"driver"`
	DatabasePath  string `yaml:"database_path"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
}

// EmbeddingConfig holds ONNX embedder settings.
type EmbeddingConfig struct {
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// IndexConfig holds the embeddings directory and build settings.
// The directory holds the persisted triple: vector index, metadata, raw embeddings.
type IndexConfig struct {
	Dir       string `yaml:"dir"`
	BatchSize int    `yaml:"batch_size"`
}

// IndexFile returns the path of the persisted vector index.
func (c *IndexConfig) IndexFile() string { return filepath.Join(c.Dir, "product_index.bin") }

// MetadataFile returns the path of the persisted metadata array.
// It is written last during a build and acts as the commit marker.
func (c *IndexConfig) MetadataFile() string { return filepath.Join(c.Dir, "product_metadata.json") }

// EmbeddingsFile returns the path of the raw embedding matrix.
func (c *IndexConfig) EmbeddingsFile() string { return filepath.Join(c.Dir, "product_embeddings.bin") }

// SearchConfig holds retrieval and ranking settings.
type SearchConfig struct {
	DefaultTopK int `yaml:"default_top_k"`
	MaxTopK     int `yaml:"max_top_k"`
	// OverFetch is the candidate over-fetch factor: the index is asked for
	// OverFetch×topK neighbors so enough survive post-filtering.
	OverFetch int `yaml:"over_fetch"`
	// Threshold tiers picked per query by the query processor.
	DefaultThreshold  float64 `yaml:"default_threshold"`
	SpecificThreshold float64 `yaml:"specific_threshold"`
	GreetingThreshold float64 `yaml:"greeting_threshold"`
	// PortabilityFloor is the minimum effective threshold for queries that
	// carry an explicit portability term.
	PortabilityFloor float64 `yaml:"portability_floor"`
	// ConflictPenalty multiplies the score of candidates whose product type
	// conflicts with the query's portability signal.
	ConflictPenalty float64 `yaml:"conflict_penalty"`
	// PriceScale multiplies numbers matched by price patterns (store prices
	// are commonly quoted in thousands of pesos).
	PriceScale float64 `yaml:"price_scale"`
}

// CategoryKeywords binds an intent category to its trigger keywords.
// Order in the list is the match priority.
type CategoryKeywords struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// TaxonomyConfig holds the hand-curated domain tables: category mapping,
// main-category allow-list, spec keyword filters, stopwords, synonym
// expansions, brand and deal keyword lists. The defaults encode one
// retailer's taxonomy and are meant to be tuned per deployment.
type TaxonomyConfig struct {
	// CategoryMap maps lowercased raw category substrings to canonical labels.
	CategoryMap map[string]string `yaml:"category_map"`
	// MainCategories are canonical labels considered primary devices rather
	// than accessories.
	MainCategories []string `yaml:"main_categories"`
	// ImportantSpecKeys are substrings identifying technical specification keys
	// worth embedding.
	ImportantSpecKeys []string `yaml:"important_spec_keys"`
	// MaxSpecsForFull: main-category products with at most this many specs get
	// all of them embedded, not just the important ones.
	MaxSpecsForFull int `yaml:"max_specs_for_full"`
	// PortableMarkers and DesktopMarkers are name substrings signalling the
	// portable / desktop product types.
	PortableMarkers []string `yaml:"portable_markers"`
	DesktopMarkers  []string `yaml:"desktop_markers"`
	// Stopwords are dropped from queries before embedding.
	Stopwords []string `yaml:"stopwords"`
	// Expansions maps query substrings to appended expansion phrases.
	Expansions map[string]string `yaml:"expansions"`
	// CategoryKeywords drive intent extraction, in priority order.
	CategoryKeywords []CategoryKeywords `yaml:"category_keywords"`
	// Brands recognized during intent extraction.
	Brands []string `yaml:"brands"`
	// DealKeywords flag discount-seeking queries.
	DealKeywords []string `yaml:"deal_keywords"`
	// Greetings flag conversational openers for threshold selection.
	Greetings []string `yaml:"greetings"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Catalog.DatabasePath = expandPath(cfg.Catalog.DatabasePath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	cfg.Index.Dir = expandPath(cfg.Index.Dir, configDir)

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
