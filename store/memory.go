package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"zayro/models"
)

// Memory is an in-process Store for local runs and tests.
type Memory struct {
	mu   sync.Mutex
	jobs map[string]models.Job
	apps map[string]models.Application
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		jobs: make(map[string]models.Job),
		apps: make(map[string]models.Application),
		now:  time.Now,
	}
}

// WithClock replaces the creation clock.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) ListJobs(context.Context) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	jobs := make([]models.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		jobs = append(jobs, j)
	}
	sort.SliceStable(jobs, func(a, b int) bool { return jobs[a].CreatedAt.After(jobs[b].CreatedAt) })
	return jobs, nil
}

func (m *Memory) GetJob(_ context.Context, id string) (models.Job, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	return j, ok, nil
}

func (m *Memory) CreateJob(_ context.Context, fields models.JobFields) (models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := applyFields(models.Job{ID: uuid.NewString(), CreatedAt: m.now().UTC()}, fields)
	m.jobs[job.ID] = job
	return job, nil
}

func (m *Memory) UpdateJob(_ context.Context, id string, fields models.JobFields) (models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return models.Job{}, ErrNotFound
	}
	job = applyFields(job, fields)
	updated := m.now().UTC()
	job.UpdatedAt = &updated
	m.jobs[id] = job
	return job, nil
}

func (m *Memory) DeleteJob(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(m.jobs, id)
	return nil
}

func (m *Memory) ListApplications(context.Context) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	apps := make([]models.Application, 0, len(m.apps))
	for _, a := range m.apps {
		apps = append(apps, a)
	}
	sort.SliceStable(apps, func(a, b int) bool { return apps[a].CreatedAt.After(apps[b].CreatedAt) })
	return apps, nil
}

func (m *Memory) CreateApplication(_ context.Context, app models.Application) (models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app.ID = uuid.NewString()
	app.CreatedAt = m.now().UTC()
	m.apps[app.ID] = app
	return app, nil
}

func (m *Memory) DeleteApplication(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[id]; !ok {
		return ErrNotFound
	}
	delete(m.apps, id)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// applyFields copies the form onto job, keeping identity and timestamps.
func applyFields(job models.Job, f models.JobFields) models.Job {
	f = f.Normalized()
	job.Title = f.Title
	job.Department = f.Department
	job.Location = f.Location
	job.Type = f.Type
	job.Description = f.Description
	job.HasDuration = f.HasDuration
	job.StartDate = f.StartDate
	job.EndDate = f.EndDate
	return job
}
