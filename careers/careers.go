// Package careers serves the public side of the careers pages: open positions,
// a single job's detail, and the application form.
package careers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"zayro/models"
	"zayro/schedule"
	"zayro/store"
)

// ListingPath is where the public detail page sends visitors it will not show.
const ListingPath = "/careers"

const EmptyMessage = "Currently no open positions. Check back later!"

var ErrAlreadySubmitted = errors.New("careers: application already submitted")

// Positions is a successful listing fetch. Empty is set when nothing is open.
type Positions struct {
	Jobs    []models.Job `json:"jobs"`
	Empty   bool         `json:"empty"`
	Message string       `json:"message,omitempty"`
}

type Listing struct {
	store store.Store
	now   func() time.Time
}

func NewListing(s store.Store, now func() time.Time) *Listing {
	if now == nil {
		now = time.Now
	}
	return &Listing{store: s, now: now}
}

// OpenPositions returns the jobs that are publicly visible now, newest first.
// A failed fetch is an error and never an empty listing.
func (l *Listing) OpenPositions(ctx context.Context) (Positions, error) {
	jobs, err := l.store.ListJobs(ctx)
	if err != nil {
		return Positions{}, fmt.Errorf("list open positions: %w", err)
	}

	now := l.now()
	open := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if schedule.IsOpen(job, now) {
			open = append(open, job)
		}
	}
	if len(open) == 0 {
		return Positions{Jobs: open, Empty: true, Message: EmptyMessage}, nil
	}
	return Positions{Jobs: open}, nil
}

// View is the outcome of opening a job's detail: either Job or a Redirect.
type View struct {
	Job      *models.Job `json:"job,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
}

type Detail struct {
	store store.Store
	now   func() time.Time
}

func NewDetail(s store.Store, now func() time.Time) *Detail {
	if now == nil {
		now = time.Now
	}
	return &Detail{store: s, now: now}
}

// Open shows the job only while it is publicly open. Missing jobs, jobs
// outside their window, and fetch failures all redirect to the listing.
func (d *Detail) Open(ctx context.Context, id string) View {
	job, found, err := d.store.GetJob(ctx, id)
	switch {
	case err != nil:
		log.Printf("job detail %s: %v", id, err)
		return View{Redirect: ListingPath}
	case !found:
		return View{Redirect: ListingPath}
	case !schedule.IsOpen(job, d.now()):
		return View{Redirect: ListingPath}
	}
	return View{Job: &job}
}

// NewApplication starts a fresh application form for job.
func (d *Detail) NewApplication(job models.Job) *ApplicationForm {
	return &ApplicationForm{job: job, store: d.store}
}

type FormStatus string

const (
	FormOpen       FormStatus = "open"
	FormSubmitting FormStatus = "submitting"
	FormSubmitted  FormStatus = "submitted"
)

// ApplicationForm accepts exactly one successful submission.
type ApplicationForm struct {
	job   models.Job
	store store.Store

	mu     sync.Mutex
	status FormStatus
}

func (f *ApplicationForm) Status() FormStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == "" {
		return FormOpen
	}
	return f.status
}

// Submit validates fields and writes one application for the form's job.
// Validation failures never reach the store. After success the form is
// terminal and every later call returns ErrAlreadySubmitted.
func (f *ApplicationForm) Submit(ctx context.Context, fields models.ApplicationFields) (models.Application, error) {
	f.mu.Lock()
	if f.status == FormSubmitted || f.status == FormSubmitting {
		f.mu.Unlock()
		return models.Application{}, ErrAlreadySubmitted
	}
	app, err := fields.ForJob(f.job)
	if err != nil {
		f.mu.Unlock()
		return models.Application{}, err
	}
	f.status = FormSubmitting
	f.mu.Unlock()

	created, err := f.store.CreateApplication(ctx, app)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.status = FormOpen
		return models.Application{}, fmt.Errorf("submit application: %w", err)
	}
	f.status = FormSubmitted
	return created, nil
}
