package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type stepDocument struct {
	Name        string     `firestore:"name"`
	Result      []byte     `firestore:"result"`
	WakeAt      *time.Time `firestore:"wake_at"`
	Done        bool       `firestore:"done"`
	CompletedAt time.Time  `firestore:"completed_at"`
}

type workflowRunDocument struct {
	ID         string                  `firestore:"id"`
	WorkflowID string                  `firestore:"workflow_id"`
	Status     string                  `firestore:"status"`
	EventType  string                  `firestore:"event_type"`
	EventData  map[string]any          `firestore:"event_data"`
	OccurredAt time.Time               `firestore:"occurred_at"`
	Steps      map[string]stepDocument `firestore:"steps"`
	ResumeAt   *time.Time              `firestore:"resume_at"`
	LastError  string                  `firestore:"last_error"`
	CreatedAt  time.Time               `firestore:"created_at"`
	UpdatedAt  time.Time               `firestore:"updated_at"`
}

func toRunDocument(run *model.WorkflowRun) *workflowRunDocument {
	doc := &workflowRunDocument{
		ID:         run.ID.String(),
		WorkflowID: run.WorkflowID.String(),
		Status:     run.Status.String(),
		Steps:      make(map[string]stepDocument, len(run.Steps)),
		ResumeAt:   run.ResumeAt,
		LastError:  run.LastError,
		CreatedAt:  run.CreatedAt,
		UpdatedAt:  run.UpdatedAt,
	}

	if run.Event != nil {
		doc.EventType = run.Event.Type.String()
		doc.EventData = run.Event.Data
		doc.OccurredAt = run.Event.OccurredAt
	}

	for name, rec := range run.Steps {
		doc.Steps[name] = stepDocument{
			Name:        rec.Name,
			Result:      rec.Result,
			WakeAt:      rec.WakeAt,
			Done:        rec.Done,
			CompletedAt: rec.CompletedAt,
		}
	}

	return doc
}

func (d *workflowRunDocument) toModel() *model.WorkflowRun {
	run := &model.WorkflowRun{
		ID:         types.RunID(d.ID),
		WorkflowID: types.WorkflowID(d.WorkflowID),
		Status:     types.RunStatus(d.Status),
		Event: &model.Event{
			Type:       types.EventType(d.EventType),
			Data:       d.EventData,
			OccurredAt: d.OccurredAt,
		},
		Steps:     make(map[string]*model.StepRecord, len(d.Steps)),
		ResumeAt:  d.ResumeAt,
		LastError: d.LastError,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}

	if run.Event.Data == nil {
		run.Event.Data = map[string]any{}
	}

	for name, rec := range d.Steps {
		run.Steps[name] = &model.StepRecord{
			Name:        rec.Name,
			Result:      rec.Result,
			WakeAt:      rec.WakeAt,
			Done:        rec.Done,
			CompletedAt: rec.CompletedAt,
		}
	}

	return run
}

type workflowRunRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newWorkflowRunRepository(client *firestore.Client) *workflowRunRepository {
	return &workflowRunRepository{client: client}
}

func (r *workflowRunRepository) collection() string {
	return collectionName(r.collectionPrefix, "workflow_runs")
}

func (r *workflowRunRepository) Create(ctx context.Context, run *model.WorkflowRun) error {
	docRef := r.client.Collection(r.collection()).Doc(run.ID.String())

	if _, err := docRef.Create(ctx, toRunDocument(run)); err != nil {
		return goerr.Wrap(err, "failed to create workflow run", goerr.V("id", run.ID))
	}

	return nil
}

func (r *workflowRunRepository) Get(ctx context.Context, id types.RunID) (*model.WorkflowRun, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "workflow run not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get workflow run", goerr.V("id", id))
	}

	var runDoc workflowRunDocument
	if err := doc.DataTo(&runDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal workflow run", goerr.V("id", id))
	}

	return runDoc.toModel(), nil
}

func (r *workflowRunRepository) Put(ctx context.Context, run *model.WorkflowRun) error {
	docRef := r.client.Collection(r.collection()).Doc(run.ID.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "workflow run not found", goerr.V("id", run.ID))
		}
		return goerr.Wrap(err, "failed to get workflow run", goerr.V("id", run.ID))
	}

	if _, err := docRef.Set(ctx, toRunDocument(run)); err != nil {
		return goerr.Wrap(err, "failed to put workflow run", goerr.V("id", run.ID))
	}

	return nil
}

func (r *workflowRunRepository) ListDue(ctx context.Context, now time.Time) ([]*model.WorkflowRun, error) {
	iter := r.client.Collection(r.collection()).
		Where("status", "==", types.RunStatusSleeping.String()).
		Where("resume_at", "<=", now).
		OrderBy("resume_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var runs []*model.WorkflowRun
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate due workflow runs")
		}

		var runDoc workflowRunDocument
		if err := doc.DataTo(&runDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal workflow run")
		}
		runs = append(runs, runDoc.toModel())
	}

	return runs, nil
}
