package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"zayro/utils"
)

const invalidLoginMessage = "Invalid email or password. Please try again."

// Handler serves the stateless sign-in endpoints used by the admin REST API.
type Handler struct {
	provider Provider
	tokens   *Tokens
	revoker  Revoker
}

func NewHandler(provider Provider, tokens *Tokens, revoker Revoker) *Handler {
	return &Handler{provider: provider, tokens: tokens, revoker: revoker}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Identity  Identity  `json:"identity"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.provider.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		utils.RespondWithError(w, http.StatusUnauthorized, invalidLoginMessage)
		return
	} else if err != nil {
		log.Printf("login: %v", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Sign-in is unavailable right now")
		return
	}

	token, claims, err := h.tokens.Issue(id)
	if err != nil {
		log.Printf("login: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Identity:  id,
	})
}

// Logout revokes the bearer token. It must run behind middleware.Authenticate.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
		if err := h.revoker.Revoke(r.Context(), claims.ID, ttl); err != nil {
			log.Printf("logout: revoke %s: %v", claims.ID, err)
			utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to sign out")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, SessionState{
		Status:    StatusSignedIn,
		Identity:  &Identity{UserID: claims.UserID, Email: claims.Email},
		ExpiresAt: claims.ExpiresAt.Time,
	})
}
