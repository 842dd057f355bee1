// Package subscriber consumes catalog change events from NATS JetStream.
package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/flowersales/flowersales/pkg/config"
	"github.com/flowersales/flowersales/pkg/messaging"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Msg is the subset of jetstream.Msg the handler needs.
type Msg interface {
	Subject() string
	Data() []byte
	Ack() error
	Term() error
}

// CatalogNotice is the union of the catalog event payloads.
type CatalogNotice struct {
	FlowerID    string           `json:"flower_id"`
	Name        string           `json:"name,omitempty"`
	Category    string           `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	IsAvailable *bool            `json:"is_available,omitempty"`
}

// Start creates the durable consumer and runs cfg.Workers fetch loops until ctx is done.
func Start(ctx context.Context, js jetstream.JetStream, cfg config.SubscriberConfig, logger *slog.Logger) error {
	consumer, err := js.CreateOrUpdateConsumer(ctx, cfg.Stream, jetstream.ConsumerConfig{
		Durable:       cfg.Consumer,
		FilterSubject: cfg.Subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return err
	}
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Workers; i++ {
		g.Go(func() error {
			return runWorker(gCtx, consumer, cfg, logger.With("worker", i))
		})
	}
	return g.Wait()
}

func runWorker(ctx context.Context, consumer jetstream.Consumer, cfg config.SubscriberConfig, logger *slog.Logger) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := consumer.Fetch(cfg.Batch, jetstream.FetchMaxWait(cfg.FetchWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) {
				continue
			}
			logger.Error("failed to fetch messages", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.RetryInterval):
			}
			continue
		}
		for msg := range batch.Messages() {
			handleMessage(msg, logger)
		}
		if err := batch.Error(); err != nil && !errors.Is(err, nats.ErrTimeout) {
			logger.Warn("batch finished with error", "error", err)
		}
	}
}

// handleMessage logs one catalog change. Payloads that cannot be decoded are terminated, not redelivered.
func handleMessage(msg Msg, logger *slog.Logger) {
	var notice CatalogNotice
	if err := json.Unmarshal(msg.Data(), &notice); err != nil || notice.FlowerID == "" {
		logger.Error("discarding malformed catalog event", "subject", msg.Subject(), "error", err)
		if err := msg.Term(); err != nil {
			logger.Error("failed to terminate message", "error", err)
		}
		return
	}

	attrs := []any{slog.String("subject", msg.Subject()), slog.String("flower_id", notice.FlowerID)}
	switch msg.Subject() {
	case messaging.FlowersCreatedSubject:
		logger.Info("flower added to catalog", append(attrs, slog.String("name", notice.Name), slog.String("category", notice.Category))...)
	case messaging.FlowersUpdatedSubject:
		if notice.IsAvailable != nil {
			attrs = append(attrs, slog.Bool("is_available", *notice.IsAvailable))
		}
		if notice.Price != nil {
			attrs = append(attrs, slog.String("price", notice.Price.String()))
		}
		logger.Info("flower updated", attrs...)
	case messaging.FlowersDeletedSubject:
		logger.Info("flower removed from catalog", attrs...)
	default:
		logger.Warn("unknown catalog subject", attrs...)
	}

	if err := msg.Ack(); err != nil {
		logger.Error("failed to ack message", "error", err)
	}
}
