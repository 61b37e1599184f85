package engine

import (
	"context"
	"time"

	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/utils/errutil"
	"github.com/vela-social/vela/pkg/utils/logging"
)

// Poller wakes due sleeping runs and fires cron triggers.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type Poller struct {
	engine   *Engine
	interval time.Duration
	nextFire []time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewPoller creates a poller that checks for due runs and cron ticks at the
// given interval.
func NewPoller(engine *Engine, interval time.Duration) *Poller {
	return &Poller{
		engine:   engine,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background poll loop. It does not block.
func (p *Poller) Start(ctx context.Context) error {
	now := p.engine.clock()
	p.nextFire = make([]time.Time, len(p.engine.cronRegs))
	for i, cr := range p.engine.cronRegs {
		p.nextFire[i] = cr.sched.Next(now)
		logging.From(ctx).Info("cron workflow scheduled",
			"workflow", cr.reg.ID,
			"next", p.nextFire[i])
	}

	logging.From(ctx).Info("workflow poller starting", "interval", p.interval.String())
	go p.run(ctx)

	return nil
}

// Stop signals the poller to stop and waits for completion.
func (p *Poller) Stop() {
	logging.Default().Info("workflow poller stopping")
	close(p.stopCh)
	<-p.doneCh
	logging.Default().Info("workflow poller stopped")
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Tick(ctx)

		case <-p.stopCh:
			return

		case <-ctx.Done():
			logging.From(ctx).Info("workflow poller context cancelled")
			return
		}
	}
}

// Tick performs one poll cycle: resume due sleeping runs, then fire any cron
// triggers whose schedule has elapsed. Exported so one-shot commands and
// tests can drive the poller without the ticker.
func (p *Poller) Tick(ctx context.Context) {
	now := p.engine.clock()

	if err := p.engine.ResumeDue(ctx, now); err != nil {
		// Log and continue; the next tick retries.
		errutil.Handle(ctx, err, "failed to resume due workflow runs")
	}

	for i, cr := range p.engine.cronRegs {
		if p.nextFire[i].After(now) {
			continue
		}

		evt := model.NewEvent(cr.reg.Trigger.EventType(), nil)
		run := model.NewWorkflowRun(cr.reg.ID, evt)
		if err := p.engine.repo.WorkflowRun().Create(ctx, run); err != nil {
			errutil.Handle(ctx, err, "failed to create cron workflow run")
			continue
		}

		if err := p.engine.execute(ctx, cr.reg, run); err != nil {
			errutil.Handle(ctx, err, "cron workflow run failed")
		}

		p.nextFire[i] = cr.sched.Next(now)
	}
}
