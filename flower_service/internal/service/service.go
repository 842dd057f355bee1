// Package service provides the implementation of flower catalog business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowersales/flowersales/flower_service/internal/events"
	"github.com/flowersales/flowersales/flower_service/internal/money"
	"github.com/flowersales/flowersales/flower_service/internal/query"
	"github.com/flowersales/flowersales/flower_service/internal/store"
	"github.com/flowersales/flowersales/pkg/messaging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// BaseSet selects the flowers a listing starts from.
type BaseSet int

const (
	AllFlowers BaseSet = iota
	AvailableFlowers
)

func (b BaseSet) String() string {
	switch b {
	case AllFlowers:
		return "all"
	case AvailableFlowers:
		return "available"
	default:
		return fmt.Sprintf("BaseSet(%d)", int(b))
	}
}

// FlowerService defines the methods for managing the flower catalog.
type FlowerService interface {
	// FindAll fetches the base set, then sorts, filters and paginates it according to params.
	// Returns an empty slice if nothing matches.
	FindAll(ctx context.Context, baseSet BaseSet, params query.FlowerParams) ([]FlowerDto, error)

	// FindByID retrieves a single flower.
	// Returns ErrFlowerNotFound if no flower exists with the given ID.
	FindByID(ctx context.Context, id string) (*FlowerDto, error)

	// Create adds a new flower. The store assigns the ID.
	Create(ctx context.Context, input FlowerInput) (*FlowerDto, error)

	// Update replaces the flower with the given ID, keeping the ID.
	// Returns ErrFlowerNotFound if no flower exists with the given ID.
	Update(ctx context.Context, id string, input FlowerInput) error

	// DeleteByID removes a flower permanently.
	// Returns ErrFlowerNotFound if no flower exists with the given ID.
	DeleteByID(ctx context.Context, id string) error
}

// Service implements FlowerService.
type Service struct {
	repository     store.FlowerStore
	publisher      messaging.Publisher
	createdCounter metric.Int64Counter
	updatedCounter metric.Int64Counter
	deletedCounter metric.Int64Counter
	now            func() time.Time
}

// NewService creates a new instance of FlowerService with the provided repository and event publisher.
func NewService(repo store.FlowerStore, publisher messaging.Publisher) *Service {
	meter := otel.Meter("flower-service")
	return &Service{
		repository:     repo,
		publisher:      publisher,
		createdCounter: mustCounter(meter, "flowers_created", "Total number of created flowers"),
		updatedCounter: mustCounter(meter, "flowers_updated", "Total number of updated flowers"),
		deletedCounter: mustCounter(meter, "flowers_deleted", "Total number of deleted flowers"),
		now:            time.Now,
	}
}

func mustCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(fmt.Sprintf("failed to create %s counter: %v", name, err))
	}
	return counter
}

// FlowerDto is the wire representation of a catalog entry.
type FlowerDto struct {
	ID            string      `json:"id"`
	Category      string      `json:"category"`
	Name          string      `json:"name"`
	StoreLocation string      `json:"storeLocation"`
	PostCode      int         `json:"postCode"`
	Price         money.Price `json:"price"`
	IsAvailable   bool        `json:"isAvailable"`
}

// FlowerInput is the request body for create and update.
// Pointer fields make zero values valid while a missing key fails the required rule.
// ID is accepted for compatibility and never used.
type FlowerInput struct {
	ID            string       `json:"id,omitempty"`
	Category      string       `json:"category"      validate:"required"`
	Name          string       `json:"name"          validate:"required"`
	StoreLocation string       `json:"storeLocation" validate:"required"`
	PostCode      *int         `json:"postCode"      validate:"required"`
	Price         *money.Price `json:"price"         validate:"required"`
	IsAvailable   *bool        `json:"isAvailable"   validate:"required"`
}

// FindAll runs the listing pipeline: base set, sort, filter, paginate.
func (s *Service) FindAll(ctx context.Context, baseSet BaseSet, params query.FlowerParams) ([]FlowerDto, error) {
	var (
		flowers []store.Flower
		err     error
	)
	switch baseSet {
	case AvailableFlowers:
		flowers, err = s.repository.FindAvailable(ctx)
	default:
		flowers, err = s.repository.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s flowers: %w", baseSet, err)
	}

	if !query.SortFlowers(flowers, params.SortBy, params.SortOrder) && params.SortBy != "" {
		slog.DebugContext(ctx, "Sorting skipped, unknown field", "sortBy", params.SortBy)
	}
	flowers = query.FilterFlowers(flowers, params)
	flowers = query.Paginate(flowers, params)

	flowerDTOs := make([]FlowerDto, len(flowers))
	for i, item := range flowers {
		flowerDTOs[i] = toDto(item)
	}
	return flowerDTOs, nil
}

// FindByID retrieves a flower by its ID.
// Returns ErrFlowerNotFound if no flower exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id string) (*FlowerDto, error) {
	flower, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flower by ID %s: %w", id, err)
	}
	dto := toDto(*flower)
	return &dto, nil
}

// Create stores a new flower and publishes FlowerCreatedEvent.
func (s *Service) Create(ctx context.Context, input FlowerInput) (*FlowerDto, error) {
	created, err := s.repository.Create(ctx, fromInput(input))
	if err != nil {
		return nil, fmt.Errorf("failed to create flower: %w", err)
	}

	s.publish(ctx, events.FlowerCreatedEvent{
		FlowerID:  created.ID,
		Name:      created.Name,
		Category:  created.Category,
		Price:     money.NewPrice(created.Price),
		CreatedAt: s.now().UTC(),
	})
	s.createdCounter.Add(ctx, 1)

	dto := toDto(*created)
	return &dto, nil
}

// Update replaces an existing flower. The path ID always wins over the body ID.
// Returns ErrFlowerNotFound if no flower exists with the given ID.
func (s *Service) Update(ctx context.Context, id string, input FlowerInput) error {
	if _, err := s.repository.FindByID(ctx, id); err != nil {
		return fmt.Errorf("failed to fetch flower by ID %s: %w", id, err)
	}
	flower := fromInput(input)
	flower.ID = id
	if err := s.repository.Update(ctx, id, flower); err != nil {
		return fmt.Errorf("failed to update flower %s: %w", id, err)
	}

	s.publish(ctx, events.FlowerUpdatedEvent{
		FlowerID:    id,
		IsAvailable: flower.IsAvailable,
		Price:       money.NewPrice(flower.Price),
		UpdatedAt:   s.now().UTC(),
	})
	s.updatedCounter.Add(ctx, 1)
	return nil
}

// DeleteByID removes a flower by its ID.
// Returns ErrFlowerNotFound if no flower exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.repository.FindByID(ctx, id); err != nil {
		return fmt.Errorf("failed to fetch flower by ID %s: %w", id, err)
	}
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete flower %s: %w", id, err)
	}

	s.publish(ctx, events.FlowerDeletedEvent{FlowerID: id, DeletedAt: s.now().UTC()})
	s.deletedCounter.Add(ctx, 1)
	return nil
}

// publish sends the event; failures are logged because the write has already happened.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

func toDto(f store.Flower) FlowerDto {
	return FlowerDto{
		ID:            f.ID,
		Category:      f.Category,
		Name:          f.Name,
		StoreLocation: f.StoreLocation,
		PostCode:      f.PostCode,
		Price:         money.NewPrice(f.Price),
		IsAvailable:   f.IsAvailable,
	}
}

// fromInput expects an input that passed validation.
func fromInput(in FlowerInput) store.Flower {
	f := store.Flower{
		Category:      in.Category,
		Name:          in.Name,
		StoreLocation: in.StoreLocation,
	}
	if in.PostCode != nil {
		f.PostCode = *in.PostCode
	}
	if in.Price != nil {
		f.Price = in.Price.Decimal
	}
	if in.IsAvailable != nil {
		f.IsAvailable = *in.IsAvailable
	}
	return f
}
