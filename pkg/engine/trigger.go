package engine

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"
	"github.com/vela-social/vela/pkg/domain/types"
)

// Trigger determines when a registered workflow fires: either on an ingested
// event of a given type, or on a cron schedule.
type Trigger struct {
	eventType types.EventType
	cronSpec  string
	timezone  string
}

// OnEvent creates a trigger that fires when an event of the given type is
// dispatched.
func OnEvent(eventType types.EventType) Trigger {
	return Trigger{eventType: eventType}
}

// OnCron creates a trigger that fires on the given five-field cron schedule,
// evaluated in the given IANA timezone regardless of server locale. The
// synthetic event dispatched on each tick carries eventType and no payload.
func OnCron(eventType types.EventType, spec, timezone string) Trigger {
	return Trigger{eventType: eventType, cronSpec: spec, timezone: timezone}
}

// IsCron reports whether this is a schedule-based trigger.
func (t Trigger) IsCron() bool {
	return t.cronSpec != ""
}

// EventType returns the event type this trigger matches (or, for cron
// triggers, the type of the synthetic tick event).
func (t Trigger) EventType() types.EventType {
	return t.eventType
}

// Schedule parses the cron spec into a schedule bound to the trigger's
// timezone.
func (t Trigger) Schedule() (cron.Schedule, error) {
	if !t.IsCron() {
		return nil, goerr.New("trigger is not cron-based", goerr.V("eventType", t.eventType))
	}

	spec := t.cronSpec
	if t.timezone != "" {
		spec = fmt.Sprintf("CRON_TZ=%s %s", t.timezone, t.cronSpec)
	}

	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid cron spec",
			goerr.V("spec", t.cronSpec),
			goerr.V("timezone", t.timezone))
	}

	return sched, nil
}
