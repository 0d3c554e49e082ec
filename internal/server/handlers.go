package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ofertero/ofertero/internal/models"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	s.logger.Debug("search request", zap.String("query", req.Query), zap.Int("top_k", req.TopK))

	start := time.Now()
	var results []*models.SearchResult

	// Price bounds, brand, and deal-seeking phrased inside the query become
	// hard filters; the category intent stays soft since semantic ranking
	// already handles it.
	intent := s.processor.ExtractIntent(req.Query)
	if intent.Brand != "" || intent.MinPrice != nil || intent.MaxPrice != nil || intent.WantsDeals {
		results = s.engine.SearchWithFilters(r.Context(), &models.FilterRequest{
			Query:        req.Query,
			Brand:        intent.Brand,
			MinPrice:     intent.MinPrice,
			MaxPrice:     intent.MaxPrice,
			WithDiscount: intent.WantsDeals,
			TopK:         req.TopK,
			Threshold:    req.Threshold,
		})
	} else {
		results = s.engine.Search(r.Context(), req.Query, req.TopK, req.Threshold)
	}

	s.respondJSON(w, http.StatusOK, &models.SearchResponse{
		Results:   results,
		Total:     len(results),
		QueryTime: time.Since(start).Milliseconds(),
		Query:     req.Query,
	})
}

func (s *Server) handleSearchFilters(w http.ResponseWriter, r *http.Request) {
	var req models.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start := time.Now()
	results := s.engine.SearchWithFilters(r.Context(), &req)
	s.respondJSON(w, http.StatusOK, &models.SearchResponse{
		Results:   results,
		Total:     len(results),
		QueryTime: time.Since(start).Milliseconds(),
		Query:     req.Query,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Stats())
}

// handleIndexBuild kicks off an asynchronous rebuild. Only one build runs at a
// time; the new generation is loaded into the engine when the build succeeds.
func (s *Server) handleIndexBuild(w http.ResponseWriter, r *http.Request) {
	if !s.building.CompareAndSwap(false, true) {
		s.respondError(w, http.StatusConflict, "index build already in progress")
		return
	}
	go func() {
		defer s.building.Store(false)
		if s.builder.Build(context.Background()) {
			s.engine.Load()
		}
	}()
	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "building"})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.GetAllProducts(r.Context())
	if err != nil {
		s.logger.Error("list products failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    len(products),
	})
}

func (s *Server) handleUpsertProducts(w http.ResponseWriter, r *http.Request) {
	var products []*models.Product
	if err := json.NewDecoder(r.Body).Decode(&products); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	saved, err := s.store.UpsertProducts(r.Context(), products)
	if err != nil {
		s.logger.Error("upsert products failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("products upserted", zap.Int("saved", saved))
	s.respondJSON(w, http.StatusCreated, map[string]int{"saved": saved})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"index_ready":      s.engine.IsReady(),
		"indexed_products": s.engine.Size(),
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
