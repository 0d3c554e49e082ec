package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ofertero/ofertero/internal/models"
)

const (
	mongoConnectTimeout = 30 * time.Second
	productsCollection  = "products"
)

// MongoStore implements Store backed by a MongoDB collection. Used when the
// catalog is fed by scrapers running on other hosts.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoStore connects to the MongoDB deployment at uri and ensures the
// indexes the catalog relies on.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	col := client.Database(database).Collection(productsCollection)
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "product_url", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "brand", Value: 1}}},
	}
	if _, err := col.Indexes().CreateMany(connectCtx, indexes); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return &MongoStore{client: client, col: col}, nil
}

// GetAllProducts returns every product in the catalog.
func (s *MongoStore) GetAllProducts(ctx context.Context) ([]*models.Product, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, cursor.Err()
}

// UpsertProducts writes products via a bulk upsert keyed by product_url.
// It returns the number of products written.
func (s *MongoStore) UpsertProducts(ctx context.Context, products []*models.Product) (int, error) {
	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(products))
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

		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"product_url": p.ProductURL}).
			SetUpdate(bson.M{"$set": p}).
			SetUpsert(true))
	}
	if len(writes) == 0 {
		return 0, nil
	}

	result, err := s.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(result.UpsertedCount + result.MatchedCount), nil
}

// CountProducts returns the total number of products in the catalog.
func (s *MongoStore) CountProducts(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
