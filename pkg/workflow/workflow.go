package workflow

import (
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/types"
	"github.com/vela-social/vela/pkg/engine"
	"github.com/vela-social/vela/pkg/service/mail"
)

// Workflow IDs registered against the engine.
const (
	WorkflowSyncUserCreated    types.WorkflowID = "sync-user-created"
	WorkflowSyncUserUpdated    types.WorkflowID = "sync-user-updated"
	WorkflowSyncUserDeleted    types.WorkflowID = "sync-user-deleted"
	WorkflowConnectionReminder types.WorkflowID = "connection-request-reminder"
	WorkflowStoryExpiry        types.WorkflowID = "story-expiry"
	WorkflowDailyDigest        types.WorkflowID = "daily-unseen-digest"
)

// Workflows holds the handler bodies and their collaborators.
type Workflows struct {
	repo    interfaces.Repository
	mailer  mail.Service
	baseURL string
}

type Option func(*Workflows)

// WithBaseURL sets the frontend base URL embedded in notification mail links.
func WithBaseURL(baseURL string) Option {
	return func(w *Workflows) {
		w.baseURL = baseURL
	}
}

func New(repo interfaces.Repository, mailer mail.Service, opts ...Option) *Workflows {
	w := &Workflows{
		repo:   repo,
		mailer: mailer,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Registrations returns the full trigger/handler list passed to the engine at
// startup. digestSpec and digestTimezone configure the daily digest cron.
func (w *Workflows) Registrations(digestSpec, digestTimezone string) []engine.Registration {
	return []engine.Registration{
		{
			ID:      WorkflowSyncUserCreated,
			Trigger: engine.OnEvent(types.EventUserCreated),
			Func:    w.SyncUserCreated,
		},
		{
			ID:      WorkflowSyncUserUpdated,
			Trigger: engine.OnEvent(types.EventUserUpdated),
			Func:    w.SyncUserUpdated,
		},
		{
			ID:      WorkflowSyncUserDeleted,
			Trigger: engine.OnEvent(types.EventUserDeleted),
			Func:    w.SyncUserDeleted,
		},
		{
			ID:      WorkflowConnectionReminder,
			Trigger: engine.OnEvent(types.EventConnectionCreated),
			Func:    w.ConnectionReminder,
		},
		{
			ID:      WorkflowStoryExpiry,
			Trigger: engine.OnEvent(types.EventStoryCreated),
			Func:    w.StoryExpiry,
		},
		{
			ID:      WorkflowDailyDigest,
			Trigger: engine.OnCron(types.EventDailyDigest, digestSpec, digestTimezone),
			Func:    w.DailyDigest,
		},
	}
}
