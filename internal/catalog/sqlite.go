package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ofertero/ofertero/internal/models"
)

// SQLiteStore implements Store using SQLite. This is the default driver for
// single-machine deployments where the scraper and the search service share
// a disk.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT,
		category TEXT,
		product_url TEXT NOT NULL UNIQUE,
		source_url TEXT,
		original_price TEXT,
		original_price_num REAL,
		discount_price TEXT,
		discount_price_num REAL,
		discount_percent TEXT,
		rating TEXT,
		image_url TEXT,
		specifications TEXT,
		availability TEXT,
		in_stock INTEGER,
		source TEXT,
		scraping_date TIMESTAMP,
		last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
	CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand);
	`
	_, err := db.Exec(schema)
	return err
}

// GetAllProducts returns every product in the catalog.
func (s *SQLiteStore) GetAllProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, brand, category, product_url, source_url,
		        original_price, original_price_num, discount_price, discount_price_num,
		        discount_percent, rating, image_url, specifications,
		        availability, in_stock, source, scraping_date, last_updated
		 FROM products ORDER BY last_updated DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(rows *sql.Rows) (*models.Product, error) {
	var p models.Product
	var specsJSON sql.NullString
	var sourceURL, originalPrice, discountPrice, discountPercent, rating, imageURL, availability sql.NullString
	var originalNum, discountNum sql.NullFloat64
	var inStock sql.NullBool

	err := rows.Scan(
		&p.ID, &p.Name, &p.Brand, &p.Category, &p.ProductURL, &sourceURL,
		&originalPrice, &originalNum, &discountPrice, &discountNum,
		&discountPercent, &rating, &imageURL, &specsJSON,
		&availability, &inStock, &p.Source, &p.ScrapedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.SourceURL = sourceURL.String
	p.OriginalPrice = originalPrice.String
	p.OriginalPriceNum = originalNum.Float64
	p.DiscountPrice = discountPrice.String
	p.DiscountPriceNum = discountNum.Float64
	p.DiscountPercent = discountPercent.String
	p.Rating = rating.String
	p.ImageURL = imageURL.String
	p.Availability = availability.String
	p.InStock = inStock.Bool

	if specsJSON.Valid && specsJSON.String != "" {
		if err := json.Unmarshal([]byte(specsJSON.String), &p.Specifications); err != nil {
			return nil, fmt.Errorf("failed to unmarshal specifications for %s: %w", p.ProductURL, err)
		}
	}
	return &p, nil
}

// UpsertProducts inserts or updates products keyed by product_url in a single
// transaction. It returns the number of products written.
func (s *SQLiteStore) UpsertProducts(ctx context.Context, products []*models.Product) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO products (
			id, name, brand, category, product_url, source_url,
			original_price, original_price_num, discount_price, discount_price_num,
			discount_percent, rating, image_url, specifications,
			availability, in_stock, source, scraping_date, last_updated
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(product_url) DO UPDATE SET
			name = excluded.name,
			brand = excluded.brand,
			category = excluded.category,
			source_url = excluded.source_url,
			original_price = excluded.original_price,
			original_price_num = excluded.original_price_num,
			discount_price = excluded.discount_price,
			discount_price_num = excluded.discount_price_num,
			discount_percent = excluded.discount_percent,
			rating = excluded.rating,
			image_url = excluded.image_url,
			specifications = excluded.specifications,
			availability = excluded.availability,
			in_stock = excluded.in_stock,
			source = excluded.source,
			scraping_date = excluded.scraping_date,
			last_updated = excluded.last_updated`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now()
	saved := 0
	for _, p := range products {
		if p.ProductURL == "" {
			continue
		}
		p.ApplyDefaults()
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.ScrapedAt.IsZero() {
			p.ScrapedAt = now
		}
		p.UpdatedAt = now

		specsJSON, err := json.Marshal(p.Specifications)
		if err != nil {
			return saved, fmt.Errorf("failed to marshal specifications for %s: %w", p.ProductURL, err)
		}

		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Name, p.Brand, p.Category, p.ProductURL, p.SourceURL,
			p.OriginalPrice, p.OriginalPriceNum, p.DiscountPrice, p.DiscountPriceNum,
			p.DiscountPercent, p.Rating, p.ImageURL, string(specsJSON),
			p.Availability, p.InStock, p.Source, p.ScrapedAt, p.UpdatedAt,
		); err != nil {
			return saved, err
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return saved, nil
}

// CountProducts returns the total number of products in the catalog.
func (s *SQLiteStore) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.db.Close()
}
