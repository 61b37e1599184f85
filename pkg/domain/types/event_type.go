package types

// EventType identifies the kind of an ingested event.
type EventType string

const (
	// Identity provider webhook events
	EventUserCreated EventType = "identity/user.created"
	EventUserUpdated EventType = "identity/user.updated"
	EventUserDeleted EventType = "identity/user.deleted"

	// Application events
	EventConnectionCreated EventType = "app/connection.created"
	EventStoryCreated      EventType = "app/story.created"

	// Synthetic event dispatched by cron triggers
	EventDailyDigest EventType = "cron/daily-digest"
)

func (t EventType) String() string {
	return string(t)
}
