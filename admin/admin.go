// Package admin is the authenticated REST API over jobs and applications.
// Every route is expected to sit behind middleware.Authenticate.
package admin

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"zayro/flyer"
	"zayro/models"
	"zayro/schedule"
	"zayro/store"
	"zayro/utils"
)

type Handler struct {
	store store.Store
	now   func() time.Time
}

func NewHandler(s store.Store, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{store: s, now: now}
}

type jobRow struct {
	models.Job
	Schedule string `json:"schedule,omitempty"`
}

type applicationRow struct {
	models.Application
	ResumeLink    string `json:"resumeLink"`
	PortfolioLink string `json:"portfolioLink,omitempty"`
}

// respondStoreError maps store failures to a status and a short message.
func respondStoreError(w http.ResponseWriter, op string, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, store.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Record not found")
	default:
		log.Printf("admin %s: %v", op, err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, fmt.Sprintf("Failed to %s", op))
	}
}

// GetJobs returns every job, newest first, each with its schedule label.
//
// Endpoint: GET /api/admin/jobs
func (h *Handler) GetJobs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	jobs, err := h.store.ListJobs(r.Context())
	if err != nil {
		respondStoreError(w, "load jobs", err)
		return
	}
	now := h.now()
	rows := make([]jobRow, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, jobRow{Job: job, Schedule: schedule.Label(job, now)})
	}
	utils.RespondWithJSON(w, http.StatusOK, rows)
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.JobInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	fields, err := in.Fields()
	if err != nil {
		respondStoreError(w, "save job", err)
		return
	}
	job, err := h.store.CreateJob(r.Context(), fields)
	if err != nil {
		respondStoreError(w, "save job", err)
		return
	}
	log.Printf("job %s created by %s", job.ID, utils.GetUserIDFromRequest(r))
	utils.RespondWithJSON(w, http.StatusCreated, jobRow{Job: job, Schedule: schedule.Label(job, h.now())})
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in models.JobInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	fields, err := in.Fields()
	if err != nil {
		respondStoreError(w, "save job", err)
		return
	}
	job, err := h.store.UpdateJob(r.Context(), ps.ByName("id"), fields)
	if err != nil {
		respondStoreError(w, "save job", err)
		return
	}
	log.Printf("job %s updated by %s", job.ID, utils.GetUserIDFromRequest(r))
	utils.RespondWithJSON(w, http.StatusOK, jobRow{Job: job, Schedule: schedule.Label(job, h.now())})
}

// DeleteJob removes the posting. Its applications are kept.
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := h.store.DeleteJob(r.Context(), id); err != nil {
		respondStoreError(w, "delete job", err)
		return
	}
	log.Printf("job %s deleted by %s", id, utils.GetUserIDFromRequest(r))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetApplications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	apps, err := h.store.ListApplications(r.Context())
	if err != nil {
		respondStoreError(w, "load applications", err)
		return
	}
	rows := make([]applicationRow, 0, len(apps))
	for _, app := range apps {
		row := applicationRow{Application: app, ResumeLink: utils.FormatURL(app.ResumeURL)}
		if app.Portfolio != "" {
			row.PortfolioLink = utils.FormatURL(app.Portfolio)
		}
		rows = append(rows, row)
	}
	utils.RespondWithJSON(w, http.StatusOK, rows)
}

func (h *Handler) DeleteApplication(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := h.store.DeleteApplication(r.Context(), id); err != nil {
		respondStoreError(w, "delete application", err)
		return
	}
	log.Printf("application %s deleted by %s", id, utils.GetUserIDFromRequest(r))
	w.WriteHeader(http.StatusNoContent)
}

// ExportApplications renders every application into a PDF report.
//
// Endpoint: GET /api/admin/exports/applications.pdf
func (h *Handler) ExportApplications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	apps, err := h.store.ListApplications(r.Context())
	if err != nil {
		respondStoreError(w, "load applications", err)
		return
	}
	now := h.now()
	pdf, err := flyer.ApplicationsReport(apps, now)
	if err != nil {
		log.Printf("admin export: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=applications-"+now.UTC().Format("20060102")+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
