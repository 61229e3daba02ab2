package console

import (
	"zayro/auth"
	"zayro/models"
	"zayro/schedule"
	"zayro/utils"
)

// Snapshot is the render-ready state of a console. Outside the logged-in
// phase it carries no administrative data.
type Snapshot struct {
	Phase        Phase             `json:"phase"`
	Identity     *auth.Identity    `json:"identity,omitempty"`
	LoginError   string            `json:"loginError,omitempty"`
	Tab          Tab               `json:"tab,omitempty"`
	Search       string            `json:"search,omitempty"`
	Busy         bool              `json:"busy,omitempty"`
	Jobs         *JobsView         `json:"jobs,omitempty"`
	Applications *ApplicationsView `json:"applications,omitempty"`
	Form         *FormView         `json:"form,omitempty"`
}

type JobRow struct {
	models.Job
	// Schedule is empty for postings without a window.
	Schedule string `json:"schedule,omitempty"`
}

type JobsView struct {
	State LoadState `json:"state"`
	Error string    `json:"error,omitempty"`
	Rows  []JobRow  `json:"rows"`
	// Total counts loaded jobs before the search filter.
	Total int `json:"total"`
}

type ApplicationRow struct {
	models.Application
	ResumeLink    string `json:"resumeLink"`
	PortfolioLink string `json:"portfolioLink,omitempty"`
}

type ApplicationsView struct {
	State LoadState        `json:"state"`
	Error string           `json:"error,omitempty"`
	Rows  []ApplicationRow `json:"rows"`
}

type FormView struct {
	Mode   FormMode          `json:"mode"`
	JobID  string            `json:"jobId,omitempty"`
	Fields *models.JobFields `json:"fields,omitempty"`
	Target *DeleteTarget     `json:"target,omitempty"`
	Error  string            `json:"error,omitempty"`

	Departments []models.Department `json:"departments,omitempty"`
	Types       []models.JobType    `json:"types,omitempty"`
}

func (c *Console) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Console) snapshotLocked() Snapshot {
	snap := Snapshot{Phase: c.phase}
	if c.phase != PhaseLoggedIn {
		snap.LoginError = c.loginError
		return snap
	}

	id := *c.identity
	snap.Identity = &id
	snap.Tab = c.tab
	snap.Search = c.search
	snap.Busy = c.busy

	now := c.now()
	jobs := &JobsView{State: c.jobs.state, Error: c.jobs.err, Rows: []JobRow{}, Total: len(c.jobs.items)}
	for _, job := range c.jobs.items {
		if !matches(job, c.search) {
			continue
		}
		jobs.Rows = append(jobs.Rows, JobRow{Job: job, Schedule: schedule.Label(job, now)})
	}
	snap.Jobs = jobs

	apps := &ApplicationsView{State: c.apps.state, Error: c.apps.err, Rows: []ApplicationRow{}}
	for _, app := range c.apps.items {
		row := ApplicationRow{Application: app, ResumeLink: utils.FormatURL(app.ResumeURL)}
		if app.Portfolio != "" {
			row.PortfolioLink = utils.FormatURL(app.Portfolio)
		}
		apps.Rows = append(apps.Rows, row)
	}
	snap.Applications = apps

	snap.Form = formView(c.form, c.formError)
	return snap
}

func formView(f FormState, errMsg string) *FormView {
	view := &FormView{Mode: f.mode(), Error: errMsg}
	switch f := f.(type) {
	case Creating:
		view.Fields = &f.Fields
	case Editing:
		view.JobID = f.JobID
		view.Fields = &f.Fields
	case ConfirmingDelete:
		target := f.Target
		view.Target = &target
	}
	if view.Fields != nil {
		view.Departments = models.Departments
		view.Types = models.JobTypes
	}
	return view
}

func matches(job models.Job, term string) bool {
	return utils.ContainsIgnoreCase(job.Title, term) || utils.ContainsIgnoreCase(string(job.Department), term)
}
