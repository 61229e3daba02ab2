// Package console runs the admin console for one connected administrator.
// All state changes go through Console methods and every change produces a
// Snapshot for the client.
package console

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"zayro/auth"
	"zayro/models"
	"zayro/store"
)

var (
	ErrNotSignedIn = errors.New("console: not signed in")
	ErrNoForm      = errors.New("console: no form is open")
	ErrBusy        = errors.New("console: a change is already being saved")
	ErrUnknownJob  = errors.New("console: job is not in the loaded list")
	ErrBadTarget   = errors.New("console: unknown delete target")
	ErrClosed      = errors.New("console: closed")
)

type Phase string

const (
	PhaseResolving Phase = "resolving"
	PhaseLoggedOut Phase = "logged-out"
	PhaseLoggedIn  Phase = "logged-in"
)

type Tab string

const (
	TabJobs         Tab = "jobs"
	TabApplications Tab = "applications"
)

type LoadState string

const (
	LoadIdle    LoadState = "idle"
	LoadLoading LoadState = "loading"
	LoadLoaded  LoadState = "loaded"
	LoadError   LoadState = "error"
)

const invalidLoginMessage = "Invalid email or password. Please try again."

// collection is one list view. gen identifies the latest fetch issued for it.
type collection[T any] struct {
	state LoadState
	items []T
	err   string
	gen   uint64
}

func (c *collection[T]) reset() {
	*c = collection[T]{state: LoadIdle, gen: c.gen + 1}
}

type Console struct {
	gate     auth.Gate
	store    store.Store
	now      func() time.Time
	onChange func(Snapshot)

	mu         sync.Mutex
	phase      Phase
	identity   *auth.Identity
	loginError string
	tab        Tab
	jobs       collection[models.Job]
	apps       collection[models.Application]
	form       FormState
	formError  string
	busy       bool
	search     string
	// epoch changes whenever administrative data is dropped; results from
	// calls issued in an older epoch are discarded.
	epoch  uint64
	closed bool
}

// New creates a console in the resolving phase. onChange receives a snapshot
// after every change; it is called with the console locked and must not block
// or call back into the console.
func New(gate auth.Gate, s store.Store, onChange func(Snapshot)) *Console {
	if onChange == nil {
		onChange = func(Snapshot) {}
	}
	c := &Console{
		gate:     gate,
		store:    s,
		now:      time.Now,
		onChange: onChange,
		phase:    PhaseResolving,
		tab:      TabJobs,
		form:     Idle{},
	}
	c.jobs.reset()
	c.apps.reset()
	return c
}

// WithClock replaces the clock used for schedule labels.
func (c *Console) WithClock(now func() time.Time) *Console {
	c.now = now
	return c
}

// Run follows the gate until ctx ends or the console is closed.
func (c *Console) Run(ctx context.Context) {
	for st := range c.gate.Watch(ctx) {
		if c.HandleSession(st) {
			go func() {
				if err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrNotSignedIn) {
					log.Printf("console refresh: %v", err)
				}
			}()
		}
	}
}

// HandleSession applies one state from the auth stream. It reports whether the
// console has just entered the logged-in phase and should load its data.
func (c *Console) HandleSession(st auth.SessionState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}

	switch {
	case st.Status == auth.StatusResolving:
		if c.phase == PhaseLoggedIn {
			c.dropLocked()
		}
		c.phase = PhaseResolving
	case st.SignedIn():
		entering := c.phase != PhaseLoggedIn
		if !entering && c.identity != nil && c.identity.UserID != st.Identity.UserID {
			c.dropLocked()
			entering = true
		}
		id := *st.Identity
		c.identity = &id
		c.phase = PhaseLoggedIn
		c.loginError = ""
		c.notifyLocked()
		return entering
	default:
		if c.phase == PhaseLoggedIn {
			c.dropLocked()
		}
		c.phase = PhaseLoggedOut
	}
	c.notifyLocked()
	return false
}

// dropLocked forgets every piece of administrative data.
func (c *Console) dropLocked() {
	c.epoch++
	c.identity = nil
	c.jobs.reset()
	c.apps.reset()
	c.form = Idle{}
	c.formError = ""
	c.busy = false
	c.search = ""
	c.tab = TabJobs
}

func (c *Console) SignIn(ctx context.Context, email, password string) error {
	err := c.gate.SignIn(ctx, email, password)
	if err == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.loginError = invalidLoginMessage
	} else {
		c.loginError = "Sign-in failed. Please try again."
	}
	c.notifyLocked()
	return err
}

func (c *Console) SignOut(ctx context.Context) error {
	return c.gate.SignOut(ctx)
}

// Close makes the console ignore every later result and command.
func (c *Console) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.epoch++
}

func (c *Console) SelectTab(tab Tab) error {
	if tab != TabJobs && tab != TabApplications {
		return fmt.Errorf("console: unknown tab %q", tab)
	}
	return c.update(func() error {
		c.tab = tab
		return nil
	})
}

// Search filters the loaded jobs by title or department. It never fetches.
func (c *Console) Search(term string) error {
	return c.update(func() error {
		c.search = term
		return nil
	})
}

// Refresh refetches both collections at once.
func (c *Console) Refresh(ctx context.Context) error {
	var wg sync.WaitGroup
	var jobsErr, appsErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		jobsErr = c.fetchJobs(ctx)
	}()
	go func() {
		defer wg.Done()
		appsErr = c.fetchApplications(ctx)
	}()
	wg.Wait()
	return errors.Join(jobsErr, appsErr)
}

func (c *Console) fetchJobs(ctx context.Context) error {
	return fetch(c, &c.jobs, func() ([]models.Job, error) { return c.store.ListJobs(ctx) })
}

func (c *Console) fetchApplications(ctx context.Context) error {
	return fetch(c, &c.apps, func() ([]models.Application, error) { return c.store.ListApplications(ctx) })
}

// fetch loads one view. A failure keeps the previous items and shows an error.
func fetch[T any](c *Console, view *collection[T], list func() ([]T, error)) error {
	c.mu.Lock()
	if err := c.checkLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	view.gen++
	gen, epoch := view.gen, c.epoch
	view.state = LoadLoading
	c.notifyLocked()
	c.mu.Unlock()

	items, err := list()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || epoch != c.epoch || gen != view.gen {
		return err
	}
	if err != nil {
		view.state = LoadError
		view.err = "Failed to load: " + err.Error()
	} else {
		view.state = LoadLoaded
		view.items = items
		view.err = ""
	}
	c.notifyLocked()
	return err
}

func (c *Console) OpenCreate() error {
	return c.update(func() error {
		if c.busy {
			return ErrBusy
		}
		c.form = Creating{Fields: models.DefaultJobFields()}
		c.formError = ""
		return nil
	})
}

// OpenEdit opens the form pre-populated from the loaded record.
func (c *Console) OpenEdit(id string) error {
	return c.update(func() error {
		if c.busy {
			return ErrBusy
		}
		for _, job := range c.jobs.items {
			if job.ID == id {
				c.form = Editing{JobID: id, Fields: job.Fields()}
				c.formError = ""
				return nil
			}
		}
		return ErrUnknownJob
	})
}

// Edit replaces the fields of the open job form with what the client typed.
func (c *Console) Edit(fields models.JobFields) error {
	return c.update(func() error {
		if c.busy {
			return ErrBusy
		}
		switch f := c.form.(type) {
		case Creating:
			f.Fields = fields
			c.form = f
		case Editing:
			f.Fields = fields
			c.form = f
		default:
			return ErrNoForm
		}
		return nil
	})
}

// RejectEdit shows err inline on the open job form, for input that could not
// be read into fields at all.
func (c *Console) RejectEdit(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cerr := c.checkLocked(); cerr != nil {
		return cerr
	}
	if _, ok := fieldsOf(c.form); !ok {
		return ErrNoForm
	}
	c.formError = validationMessage(err)
	c.notifyLocked()
	return err
}

// Submit validates and saves the open job form, then refetches the jobs and
// closes the form. On failure the form stays open with an inline error.
func (c *Console) Submit(ctx context.Context) error {
	c.mu.Lock()
	if err := c.checkLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	form := c.form
	fields, ok := fieldsOf(form)
	if !ok {
		c.mu.Unlock()
		return ErrNoForm
	}
	fields = fields.Normalized()
	if err := fields.Validate(); err != nil {
		c.formError = validationMessage(err)
		c.notifyLocked()
		c.mu.Unlock()
		return err
	}
	c.busy = true
	c.formError = ""
	epoch := c.epoch
	c.notifyLocked()
	c.mu.Unlock()

	var err error
	if e, editing := form.(Editing); editing {
		_, err = c.store.UpdateJob(ctx, e.JobID, fields)
	} else {
		_, err = c.store.CreateJob(ctx, fields)
	}

	if !c.finishMutation(epoch, err, "Failed to save job") {
		return err
	}
	return c.fetchJobs(ctx)
}

func (c *Console) Cancel() error {
	return c.update(func() error {
		if c.busy {
			return ErrBusy
		}
		c.form = Idle{}
		c.formError = ""
		return nil
	})
}

// RequestDelete asks for confirmation before deleting the target.
func (c *Console) RequestDelete(kind TargetKind, id string) error {
	if !kind.valid() || id == "" {
		return ErrBadTarget
	}
	return c.update(func() error {
		if c.busy {
			return ErrBusy
		}
		c.form = ConfirmingDelete{Target: DeleteTarget{Kind: kind, ID: id}}
		c.formError = ""
		return nil
	})
}

func (c *Console) CancelDelete() error {
	return c.update(func() error {
		if c.busy {
			return ErrBusy
		}
		if _, ok := c.form.(ConfirmingDelete); !ok {
			return ErrNoForm
		}
		c.form = Idle{}
		c.formError = ""
		return nil
	})
}

// ConfirmDelete deletes the pending target and refetches the list it was in.
func (c *Console) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if err := c.checkLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	pending, ok := c.form.(ConfirmingDelete)
	if !ok {
		c.mu.Unlock()
		return ErrNoForm
	}
	c.busy = true
	c.formError = ""
	epoch := c.epoch
	c.notifyLocked()
	c.mu.Unlock()

	var err error
	if pending.Target.Kind == KindJob {
		err = c.store.DeleteJob(ctx, pending.Target.ID)
	} else {
		err = c.store.DeleteApplication(ctx, pending.Target.ID)
	}

	if !c.finishMutation(epoch, err, "Failed to delete") {
		return err
	}
	if pending.Target.Kind == KindJob {
		return c.fetchJobs(ctx)
	}
	return c.fetchApplications(ctx)
}

// finishMutation settles a store call. It reports whether the change went
// through and the console should refetch.
func (c *Console) finishMutation(epoch uint64, err error, failure string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || epoch != c.epoch {
		return false
	}
	c.busy = false
	if err != nil {
		c.formError = failure + ": " + err.Error()
		c.notifyLocked()
		return false
	}
	c.form = Idle{}
	c.notifyLocked()
	return true
}

// update runs fn under the lock when signed in and publishes the change.
func (c *Console) update(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkLocked(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	c.notifyLocked()
	return nil
}

func (c *Console) checkLocked() error {
	if c.closed {
		return ErrClosed
	}
	if c.phase != PhaseLoggedIn {
		return ErrNotSignedIn
	}
	return nil
}

func (c *Console) notifyLocked() {
	if !c.closed {
		c.onChange(c.snapshotLocked())
	}
}

func validationMessage(err error) string {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}
