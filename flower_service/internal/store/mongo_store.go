package store

import (
	"context"
	"errors"
	"fmt"

	flowererrors "github.com/flowersales/flowersales/flower_service/internal/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// flowerDocument is the BSON shape of a Flower.
type flowerDocument struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Category      string               `bson:"category"`
	Name          string               `bson:"name"`
	StoreLocation string               `bson:"storeLocation"`
	PostCode      int                  `bson:"postCode"`
	Price         primitive.Decimal128 `bson:"price"`
	IsAvailable   bool                 `bson:"isAvailable"`
}

// MongoStore implements FlowerStore on top of a single MongoDB collection.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a new instance of FlowerStore backed by the given collection.
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

func (m *MongoStore) FindAll(ctx context.Context) ([]Flower, error) {
	flowers, err := m.find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to find all flowers: %w", err)
	}
	return flowers, nil
}

func (m *MongoStore) FindAvailable(ctx context.Context) ([]Flower, error) {
	flowers, err := m.find(ctx, bson.D{{Key: "isAvailable", Value: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to find available flowers: %w", err)
	}
	return flowers, nil
}

// FindByID retrieves a flower by its identifier.
// Returns ErrFlowerNotFound if no flower exists with the given ID.
func (m *MongoStore) FindByID(ctx context.Context, id string) (*Flower, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, flowererrors.ErrFlowerNotFound
	}
	var doc flowerDocument
	if err := m.collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, flowererrors.ErrFlowerNotFound
		}
		return nil, fmt.Errorf("failed to find flower by ID: %w", err)
	}
	flower, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	return &flower, nil
}

// Create inserts a new flower. Any ID on the input is ignored.
func (m *MongoStore) Create(ctx context.Context, flower Flower) (*Flower, error) {
	doc, err := toDocument(flower)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NilObjectID
	res, err := m.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create flower: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	flower.ID = oid.Hex()
	return &flower, nil
}

func (m *MongoStore) Update(ctx context.Context, id string, flower Flower) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	doc, err := toDocument(flower)
	if err != nil {
		return err
	}
	doc.ID = oid
	if _, err := m.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, doc); err != nil {
		return fmt.Errorf("failed to update flower: %w", err)
	}
	return nil
}

func (m *MongoStore) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := m.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}}); err != nil {
		return fmt.Errorf("failed to delete flower: %w", err)
	}
	return nil
}

func (m *MongoStore) find(ctx context.Context, filter bson.D) ([]Flower, error) {
	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var docs []flowerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	flowers := make([]Flower, 0, len(docs))
	for _, doc := range docs {
		flower, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		flowers = append(flowers, flower)
	}
	return flowers, nil
}

func toDocument(f Flower) (flowerDocument, error) {
	price, err := primitive.ParseDecimal128(f.Price.String())
	if err != nil {
		return flowerDocument{}, fmt.Errorf("price %s cannot be stored: %w", f.Price, err)
	}
	return flowerDocument{
		Category:      f.Category,
		Name:          f.Name,
		StoreLocation: f.StoreLocation,
		PostCode:      f.PostCode,
		Price:         price,
		IsAvailable:   f.IsAvailable,
	}, nil
}

func fromDocument(doc flowerDocument) (Flower, error) {
	price, err := decimal.NewFromString(doc.Price.String())
	if err != nil {
		return Flower{}, fmt.Errorf("flower %s has an unreadable price %q: %w", doc.ID.Hex(), doc.Price.String(), err)
	}
	return Flower{
		ID:            doc.ID.Hex(),
		Category:      doc.Category,
		Name:          doc.Name,
		StoreLocation: doc.StoreLocation,
		PostCode:      doc.PostCode,
		Price:         price,
		IsAvailable:   doc.IsAvailable,
	}, nil
}
