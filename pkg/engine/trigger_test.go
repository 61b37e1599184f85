package engine_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/vela-social/vela/pkg/engine"
)

func TestTriggerSchedule(t *testing.T) {
	t.Run("evaluates spec in the configured timezone", func(t *testing.T) {
		trigger := engine.OnCron("test/tick", "0 9 * * *", "Asia/Tokyo")
		sched, err := trigger.Schedule()
		gt.NoError(t, err).Required()

		// 01:00 UTC is 10:00 JST, so the next 09:00 JST is the following day.
		from := time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC)
		next := sched.Next(from)

		jst, err := time.LoadLocation("Asia/Tokyo")
		gt.NoError(t, err).Required()
		gt.Value(t, next.In(jst).Hour()).Equal(9)
		gt.Value(t, next.In(jst).Day()).Equal(2)
	})

	t.Run("defaults to server locale when timezone is empty", func(t *testing.T) {
		trigger := engine.OnCron("test/tick", "*/5 * * * *", "")
		sched, err := trigger.Schedule()
		gt.NoError(t, err).Required()

		from := time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC)
		gt.Value(t, sched.Next(from).Minute()).Equal(5)
	})

	t.Run("rejects invalid spec", func(t *testing.T) {
		_, err := engine.OnCron("test/tick", "61 * * * *", "UTC").Schedule()
		gt.Error(t, err)
	})

	t.Run("rejects invalid timezone", func(t *testing.T) {
		_, err := engine.OnCron("test/tick", "0 9 * * *", "Mars/Olympus").Schedule()
		gt.Error(t, err)
	})

	t.Run("event trigger is not a schedule", func(t *testing.T) {
		trigger := engine.OnEvent("test/thing.happened")
		gt.Bool(t, trigger.IsCron()).False()

		_, err := trigger.Schedule()
		gt.Error(t, err)
	})
}
