// Package catalog defines the persistence interface for the product catalog.
package catalog

import (
	"context"
	"fmt"

	"github.com/ofertero/ofertero/internal/config"
	"github.com/ofertero/ofertero/internal/models"
)

// Store defines product catalog persistence operations.
// Products are upserted by ProductURL, which is the scraper's natural key.
type Store interface {
	GetAllProducts(ctx context.Context) ([]*models.Product, error)
	UpsertProducts(ctx context.Context, products []*models.Product) (int, error)
	CountProducts(ctx context.Context) (int64, error)
	Close(ctx context.Context) error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.CatalogConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLiteStore(cfg.DatabasePath)
	case "mongo":
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown catalog driver: %s", cfg.Driver)
	}
}
