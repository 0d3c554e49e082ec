// Package main is the Ofertero CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ofertero/ofertero/internal/catalog"
	"github.com/ofertero/ofertero/internal/cli"
	"github.com/ofertero/ofertero/internal/config"
	"github.com/ofertero/ofertero/internal/embedding"
	"github.com/ofertero/ofertero/internal/export"
	"github.com/ofertero/ofertero/internal/indexer"
	"github.com/ofertero/ofertero/internal/models"
	"github.com/ofertero/ofertero/internal/normalize"
	"github.com/ofertero/ofertero/internal/query"
	"github.com/ofertero/ofertero/internal/search"
	"github.com/ofertero/ofertero/internal/server"
	"github.com/ofertero/ofertero/internal/watcher"
	"github.com/ofertero/ofertero/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/ofertero/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so "ofertero server" from the project dir picks up the project's
// config. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "build":
		runBuild()
	case "search":
		runSearch()
	case "stats":
		runStats()
	case "export":
		runExport()
	case "version", "--version", "-v":
		fmt.Printf("ofertero version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if !components.Engine.Load() {
		logger.Warn("no index generation found; serving empty results until a build completes")
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	watch := watcher.NewWatcher(
		cfg.Index.Dir,
		filepath.Base(cfg.Index.MetadataFile()),
		func() { components.Engine.Load() },
		logger,
	)
	if err := watch.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start index watcher", zap.Error(err))
	}

	srv := server.NewServer(
		components.Engine,
		components.Builder,
		components.Store,
		components.Processor,
		&cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runBuild() {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if !components.Builder.Build(context.Background()) {
		fmt.Fprintln(os.Stderr, "Index build failed; see log for details")
		os.Exit(1)
	}
	if components.Engine.Load() {
		fmt.Printf("Index built: %d products\n", components.Engine.Size())
	}
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func parseOutputFormat(s string) (cli.OutputFormat, error) {
	switch s {
	case "text":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = search the local index directly)")
	topK := fs.Int("top-k", 0, "number of results (0 = server default)")
	threshold := fs.Float64("threshold", 0, "similarity threshold (0 = automatic)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(searchArgs)

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		fmt.Println("Usage: ofertero search [flags] <query>")
		os.Exit(1)
	}
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	req := &models.SearchRequest{Query: queryStr, TopK: *topK, Threshold: *threshold}

	if *serverURL != "" {
		response, err := searchViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Direct index access (when the server is not running).
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if !components.Engine.Load() {
		fmt.Fprintln(os.Stderr, "No index found; run \"ofertero build\" first")
		os.Exit(1)
	}

	start := time.Now()
	results := components.Engine.Search(context.Background(), queryStr, *topK, *threshold)
	response := &models.SearchResponse{
		Results:   results,
		Total:     len(results),
		QueryTime: time.Since(start).Milliseconds(),
		Query:     queryStr,
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, req *models.SearchRequest) (*models.SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = read the local index directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	var stats *models.Stats
	if *serverURL != "" {
		stats, err = statsViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Stats failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		components.Engine.Load()
		stats = components.Engine.Stats()
	}

	if err := cli.WriteStats(os.Stdout, stats, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func statsViaHTTP(serverURL string) (*models.Stats, error) {
	resp, err := http.Get(serverURL + "/api/v1/stats")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var stats models.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &stats, nil
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	out := fs.String("out", "catalogo.xlsx", "output XLSX path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if !components.Engine.Load() {
		fmt.Fprintln(os.Stderr, "No index found; run \"ofertero build\" first")
		os.Exit(1)
	}
	if err := export.WriteXLSX(*out, components.Engine.Metadata(), components.Engine.Stats()); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d products to %s\n", components.Engine.Size(), *out)
}

// Components holds initialized services.
type Components struct {
	Store     catalog.Store
	Embedder  embedding.Embedder
	Processor *query.Processor
	Builder   *indexer.Builder
	Engine    *search.Engine
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close(context.Background())
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := catalog.Open(context.Background(), cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	var embedder embedding.Embedder
	onnxEmbedder, err := embedding.NewONNXEmbedder(
		cfg.Embedding.ModelPath,
		cfg.Embedding.Dimensions,
		cfg.Embedding.MaxTokens,
		cfg.Embedding.CacheSize,
	)
	if err != nil {
		logger.Warn("ONNX embedder unavailable, falling back to hash embedder",
			zap.String("model_path", cfg.Embedding.ModelPath),
			zap.Error(err))
		embedder = embedding.NewHashEmbedder(cfg.Embedding.Dimensions)
	} else {
		embedder = onnxEmbedder
	}

	normalizer := normalize.NewNormalizer(&cfg.Taxonomy)
	processor := query.NewProcessor(&cfg.Search, &cfg.Taxonomy)
	builder := indexer.NewBuilder(store, embedder, normalizer, cfg.Index, logger)
	engine := search.NewEngine(embedder, processor, normalizer, &cfg.Search, cfg.Index, logger)

	return &Components{
		Store:     store,
		Embedder:  embedder,
		Processor: processor,
		Builder:   builder,
		Engine:    engine,
	}, nil
}

func printUsage() {
	fmt.Println(`ofertero - Semantic product search for discount hunting

Usage:
  ofertero server [flags]           Start the HTTP server
  ofertero build [flags]            Rebuild the product index from the catalog
  ofertero search [flags] <query>   Search products
  ofertero stats [flags]            Show indexed catalog statistics
  ofertero export [flags]           Export the indexed catalog to XLSX
  ofertero version                  Show version
  ofertero help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/ofertero/config.yaml)
  --debug            Enable debug logging

Build Flags:
  --config string    Config file path

Search Flags:
  --config string      Config file path (for direct index mode)
  --server string      Server URL (default: http://localhost:8080). Use --server "" to search the local index directly.
  --top-k int          Number of results (default: server default)
  --threshold float    Similarity threshold (default: automatic per query)
  --output string      Output format: text or json (default: text)

Stats Flags:
  --config string    Config file path (for direct index mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" for direct index access.
  --output string    Output format: text or json (default: text)

Export Flags:
  --config string    Config file path
  --out string       Output XLSX path (default: catalogo.xlsx)

Examples:
  ofertero server
  ofertero build
  ofertero search "portátil hp con 16gb de ram"
  ofertero search --top-k 5 "televisor barato"
  ofertero search --output json "celular samsung"
  ofertero stats
  ofertero export --out ofertas.xlsx`)
}
