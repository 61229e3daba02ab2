package mq

import (
	"context"
	"time"

	"zayro/models"
	"zayro/store"
)

// Notify decorates s so that every successful mutation emits an event.
func Notify(s store.Store, emitter Emitter) store.Store {
	return &notifying{Store: s, emitter: emitter, now: time.Now}
}

type notifying struct {
	store.Store
	emitter Emitter
	now     func() time.Time
}

func (n *notifying) emit(ctx context.Context, kind, id, jobID string) {
	n.emitter.Emit(context.WithoutCancel(ctx), Event{Type: kind, EntityID: id, JobID: jobID, At: n.now().UTC()})
}

func (n *notifying) CreateJob(ctx context.Context, fields models.JobFields) (models.Job, error) {
	job, err := n.Store.CreateJob(ctx, fields)
	if err == nil {
		n.emit(ctx, JobCreated, job.ID, job.ID)
	}
	return job, err
}

func (n *notifying) UpdateJob(ctx context.Context, id string, fields models.JobFields) (models.Job, error) {
	job, err := n.Store.UpdateJob(ctx, id, fields)
	if err == nil {
		n.emit(ctx, JobUpdated, job.ID, job.ID)
	}
	return job, err
}

func (n *notifying) DeleteJob(ctx context.Context, id string) error {
	err := n.Store.DeleteJob(ctx, id)
	if err == nil {
		n.emit(ctx, JobDeleted, id, id)
	}
	return err
}

func (n *notifying) CreateApplication(ctx context.Context, app models.Application) (models.Application, error) {
	created, err := n.Store.CreateApplication(ctx, app)
	if err == nil {
		n.emit(ctx, ApplicationCreated, created.ID, created.JobID)
	}
	return created, err
}

func (n *notifying) DeleteApplication(ctx context.Context, id string) error {
	err := n.Store.DeleteApplication(ctx, id)
	if err == nil {
		n.emit(ctx, ApplicationDeleted, id, "")
	}
	return err
}
