package careers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"zayro/flyer"
	"zayro/models"
	"zayro/utils"
)

// Handler exposes the listing and detail flows over HTTP.
type Handler struct {
	listing *Listing
	detail  *Detail
	baseURL string
}

// NewHandler builds the public handlers. baseURL is the site origin used in
// flyer and QR links, such as https://zayro.studio.
func NewHandler(listing *Listing, detail *Detail, baseURL string) *Handler {
	return &Handler{listing: listing, detail: detail, baseURL: strings.TrimRight(baseURL, "/")}
}

func (h *Handler) JobLink(id string) string {
	return h.baseURL + ListingPath + "/" + id
}

func (h *Handler) ListOpen(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	positions, err := h.listing.OpenPositions(r.Context())
	if err != nil {
		log.Printf("careers listing: %v", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to load open positions")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, positions)
}

func redirect(w http.ResponseWriter, to string) {
	w.Header().Set("Location", to)
	utils.RespondWithJSON(w, http.StatusSeeOther, View{Redirect: to})
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view := h.detail.Open(r.Context(), ps.ByName("id"))
	if view.Job == nil {
		redirect(w, view.Redirect)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view)
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view := h.detail.Open(r.Context(), ps.ByName("id"))
	if view.Job == nil {
		redirect(w, view.Redirect)
		return
	}

	var fields models.ApplicationFields
	if err := utils.DecodeJSON(w, r, &fields); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.detail.NewApplication(*view.Job).Submit(r.Context(), fields)
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Message, "field": verr.Field})
		return
	case err != nil:
		log.Printf("apply to %s: %v", view.Job.ID, err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to submit your application. Please try again.")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"id":      created.ID,
		"message": "Application Sent!",
	})
}

func (h *Handler) Flyer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view := h.detail.Open(r.Context(), ps.ByName("id"))
	if view.Job == nil {
		redirect(w, view.Redirect)
		return
	}
	pdf, err := flyer.JobFlyer(*view.Job, h.JobLink(view.Job.ID))
	if err != nil {
		log.Printf("flyer %s: %v", view.Job.ID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=job-"+view.Job.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func (h *Handler) QRCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view := h.detail.Open(r.Context(), ps.ByName("id"))
	if view.Job == nil {
		redirect(w, view.Redirect)
		return
	}
	size := 256
	if s, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil {
		size = min(max(s, 64), 1024)
	}
	png, err := flyer.QRCode(h.JobLink(view.Job.ID), size, size/16)
	if err != nil {
		log.Printf("qr %s: %v", view.Job.ID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
