package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Channel is where console activity is published.
const Channel = "console.activity"

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event reports one confirmed mutation, e.g. type "doctor.deleted".
type Event struct {
	ID       uuid.UUID `json:"id"`
	Type     string    `json:"type"`
	Resource string    `json:"resource"`
	EntityID string    `json:"entity_id"`
	At       time.Time `json:"at"`
}

// Emitter is what screens depend on. Emit never fails the caller.
type Emitter interface {
	Emit(ctx context.Context, resource string, action Action, entityID string)
}

// Discard is an Emitter that does nothing.
var Discard Emitter = discard{}

type discard struct{}

func (discard) Emit(context.Context, string, Action, string) {}
