package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/types"
)

// Event is a typed event ingested from the identity provider webhook bridge,
// from the application itself, or synthesized by a cron trigger. Events are
// immutable once ingested and are persisted only as part of the workflow run
// that consumes them.
type Event struct {
	Type       types.EventType
	Data       map[string]any
	OccurredAt time.Time
}

// NewEvent creates an event occurring now.
func NewEvent(eventType types.EventType, data map[string]any) *Event {
	if data == nil {
		data = map[string]any{}
	}
	return &Event{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

// DecodeData unmarshals the event payload into a typed struct via JSON.
func (e *Event) DecodeData(v any) error {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal event data", goerr.V("type", e.Type))
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return goerr.Wrap(err, "failed to decode event data", goerr.V("type", e.Type))
	}
	return nil
}

// StringData returns the string payload field for key, or "" when absent.
func (e *Event) StringData(key string) string {
	if v, ok := e.Data[key].(string); ok {
		return v
	}
	return ""
}
