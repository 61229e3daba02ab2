// Package store is the persistence boundary for job postings and applications.
package store

import (
	"context"
	"errors"

	"zayro/models"
)

const (
	JobsCollection         = "jobs"
	ApplicationsCollection = "applications"
)

var (
	// ErrNotFound is returned by update and delete when the id does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrUnavailable wraps any failure of the backing service.
	ErrUnavailable = errors.New("store: unavailable")
)

// Store lists are ordered newest first. Mutations are single round trips and
// nothing is cached; callers refetch to observe a change.
type Store interface {
	ListJobs(ctx context.Context) ([]models.Job, error)
	// GetJob reports found=false for a missing or malformed id instead of failing.
	GetJob(ctx context.Context, id string) (job models.Job, found bool, err error)
	CreateJob(ctx context.Context, fields models.JobFields) (models.Job, error)
	UpdateJob(ctx context.Context, id string, fields models.JobFields) (models.Job, error)
	DeleteJob(ctx context.Context, id string) error

	ListApplications(ctx context.Context) ([]models.Application, error)
	// CreateApplication does not check that app.JobID exists.
	CreateApplication(ctx context.Context, app models.Application) (models.Application, error)
	DeleteApplication(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}
