package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ofertero/ofertero/internal/catalog"
	"github.com/ofertero/ofertero/internal/config"
	"github.com/ofertero/ofertero/internal/embedding"
	"github.com/ofertero/ofertero/internal/indexer"
	"github.com/ofertero/ofertero/internal/models"
	"github.com/ofertero/ofertero/internal/normalize"
	"github.com/ofertero/ofertero/internal/query"
	"github.com/ofertero/ofertero/internal/search"
)

func testServer(t *testing.T, products []*models.Product) (*Server, *search.Engine) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Index.Dir = filepath.Join(dir, "embeddings")
	cfg.Catalog.DatabasePath = filepath.Join(dir, "products.db")
	cfg.Search.DefaultThreshold = 0.05
	cfg.Search.SpecificThreshold = 0.02
	cfg.Search.GreetingThreshold = 0.03
	cfg.Search.PortabilityFloor = 0.10

	store, err := catalog.NewSQLiteStore(cfg.Catalog.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	embedder := embedding.NewHashEmbedder(256)
	normalizer := normalize.NewNormalizer(&cfg.Taxonomy)
	processor := query.NewProcessor(&cfg.Search, &cfg.Taxonomy)
	builder := indexer.NewBuilder(store, embedder, normalizer, cfg.Index, zap.NewNop())
	engine := search.NewEngine(embedder, processor, normalizer, &cfg.Search, cfg.Index, zap.NewNop())

	if len(products) > 0 {
		if _, err := store.UpsertProducts(context.Background(), products); err != nil {
			t.Fatal(err)
		}
		if !builder.Build(context.Background()) {
			t.Fatal("index build failed")
		}
		if !engine.Load() {
			t.Fatal("engine load failed")
		}
	}

	return NewServer(engine, builder, store, processor, &cfg.Server, zap.NewNop()), engine
}

func catalogFixture() []*models.Product {
	return []*models.Product{
		{
			Name:             "Televisor Samsung 55",
			Brand:            "Samsung",
			Category:         "televisores",
			ProductURL:       "https://alkosto.test/tv-55",
			OriginalPriceNum: 2200000,
			DiscountPercent:  "10%",
		},
		{
			Name:       "Base para TV Samsung",
			Brand:      "Samsung",
			Category:   "complementos_tv",
			ProductURL: "https://alkosto.test/base-tv",
		},
		{
			Name:             "Portátil HP Victus 15",
			Brand:            "HP",
			Category:         "computadores_portatiles",
			ProductURL:       "https://alkosto.test/victus-15",
			DiscountPriceNum: 2999000,
			DiscountPercent:  "25%",
		},
	}
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	srv, _ := testServer(t, catalogFixture())
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/search", models.SearchRequest{Query: "tv samsung"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total == 0 {
		t.Fatal("no results")
	}
	if resp.Results[0].Name != "Televisor Samsung 55" {
		t.Errorf("first result = %q", resp.Results[0].Name)
	}
	if resp.Query != "tv samsung" {
		t.Errorf("query echoed as %q", resp.Query)
	}
}

func TestSearchEndpointAppliesPriceIntent(t *testing.T) {
	srv, _ := testServer(t, catalogFixture())
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/search",
		models.SearchRequest{Query: "televisor de 2000 a 2500"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	for _, r := range resp.Results {
		if r.Price < 2000000 || r.Price > 2500000 {
			t.Errorf("%q price %v outside the asked range", r.Name, r.Price)
		}
	}
	if resp.Total != 1 {
		t.Errorf("total = %d, want just the TV in range", resp.Total)
	}
}

func TestSearchEndpointRequiresQuery(t *testing.T) {
	srv, _ := testServer(t, catalogFixture())
	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/v1/search", models.SearchRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchFiltersEndpoint(t *testing.T) {
	srv, _ := testServer(t, catalogFixture())

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/v1/search/filters",
		models.FilterRequest{WithDiscount: true, TopK: 10})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want the two discounted products", resp.Total)
	}
	for _, r := range resp.Results {
		if !r.Discounted {
			t.Errorf("%q is not discounted", r.Name)
		}
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, _ := testServer(t, catalogFixture())
	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/v1/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats models.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalProducts != 3 {
		t.Errorf("total = %d", stats.TotalProducts)
	}
	if stats.ProductsWithDiscount != 2 {
		t.Errorf("discounted = %d", stats.ProductsWithDiscount)
	}
}

func TestProductsEndpoints(t *testing.T) {
	srv, _ := testServer(t, nil)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", catalogFixture())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var saved map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatal(err)
	}
	if saved["saved"] != 3 {
		t.Errorf("saved = %d", saved["saved"])
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 3 {
		t.Errorf("total = %d", list.Total)
	}
}

func TestIndexBuildEndpoint(t *testing.T) {
	srv, engine := testServer(t, nil)
	router := srv.Router()

	if rec := doJSON(t, router, http.MethodPost, "/api/v1/products", catalogFixture()); rec.Code != http.StatusCreated {
		t.Fatalf("seed failed: %d", rec.Code)
	}
	if engine.IsReady() {
		t.Fatal("engine must start unloaded")
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/index/build", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !engine.IsReady() {
		if time.Now().After(deadline) {
			t.Fatal("index never became ready")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if engine.Size() != 3 {
		t.Errorf("indexed products = %d", engine.Size())
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testServer(t, catalogFixture())
	rec := doJSON(t, srv.Router(), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var health struct {
		Status     string `json:"status"`
		IndexReady bool   `json:"index_ready"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "ok" || !health.IndexReady {
		t.Errorf("health = %+v", health)
	}
}
