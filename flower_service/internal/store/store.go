// Package store provides an interface for flower catalog storage operations.
package store

import (
	"context"

	"github.com/shopspring/decimal"
)

// Flower is a persisted catalog entry. ID is the 24 character hex form of the store-assigned ObjectId
// and is empty for flowers that were not created yet.
type Flower struct {
	ID            string
	Category      string
	Name          string
	StoreLocation string
	PostCode      int
	Price         decimal.Decimal
	IsAvailable   bool
}

// FlowerStore is an interface for flower storage operations.
// Every method maps to a single driver call.
type FlowerStore interface {
	// FindAll returns every stored flower in store-native order.
	FindAll(ctx context.Context) ([]Flower, error)

	// FindAvailable returns the flowers with IsAvailable set.
	FindAvailable(ctx context.Context) ([]Flower, error)

	// FindByID retrieves a single flower by its identifier.
	// Returns ErrFlowerNotFound if nothing matches or the id is not a valid ObjectId.
	FindByID(ctx context.Context, id string) (*Flower, error)

	// Create inserts the flower and returns it with the assigned ID.
	Create(ctx context.Context, flower Flower) (*Flower, error)

	// Update replaces the document matching id. It is a no-op when nothing matches.
	Update(ctx context.Context, id string, flower Flower) error

	// DeleteByID removes the document matching id. It is a no-op when nothing matches.
	DeleteByID(ctx context.Context, id string) error
}
