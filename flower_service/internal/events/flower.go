// Package events defines the catalog change events published after successful writes.
package events

import (
	"encoding/json"
	"time"

	"github.com/flowersales/flowersales/flower_service/internal/money"
	"github.com/flowersales/flowersales/pkg/messaging"
)

type FlowerCreatedEvent struct {
	FlowerID  string      `json:"flower_id"`
	Name      string      `json:"name"`
	Category  string      `json:"category"`
	Price     money.Price `json:"price"`
	CreatedAt time.Time   `json:"created_at"`
}

func (e FlowerCreatedEvent) Subject() string {
	return messaging.FlowersCreatedSubject
}

func (e FlowerCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type FlowerUpdatedEvent struct {
	FlowerID    string      `json:"flower_id"`
	IsAvailable bool        `json:"is_available"`
	Price       money.Price `json:"price"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (e FlowerUpdatedEvent) Subject() string {
	return messaging.FlowersUpdatedSubject
}

func (e FlowerUpdatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type FlowerDeletedEvent struct {
	FlowerID  string    `json:"flower_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (e FlowerDeletedEvent) Subject() string {
	return messaging.FlowersDeletedSubject
}

func (e FlowerDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
