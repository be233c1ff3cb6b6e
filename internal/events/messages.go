package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ChangeEvent announces that the engine changed an entity on a remote
// service. It carries references only; consumers fetch the entity itself.
type ChangeEvent struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeEvent creates an event stamped with a fresh id and the current time.
func NewChangeEvent(action, entity, entityID, userID string) *ChangeEvent {
	return &ChangeEvent{
		ID:        uuid.NewString(),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}

// RoutingKey returns "<base>.<entity>.<action>", so consumers can bind to a
// subset of changes on the topic exchange.
func (e *ChangeEvent) RoutingKey(base string) string {
	return base + "." + e.Entity + "." + e.Action
}

// ToJSON converts the message to JSON bytes
func (e *ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ChangeEventFromJSON creates a message from JSON bytes
func ChangeEventFromJSON(data []byte) (*ChangeEvent, error) {
	var e ChangeEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
