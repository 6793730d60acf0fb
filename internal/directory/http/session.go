package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/roster/internal/directory/service"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
	"github.com/aussiebroadwan/roster/pkg/slogx"
)

type SessionHandler struct {
	Directory *service.Directory
}

// HandleLogin godoc
//
//	@Summary		Login Endpoint
//	@Description	Starts the shared session for the account matching email (ignoring case) and secret (exactly).
//	@Description	A failed attempt leaves whatever session was active in place.
//	@Tags			Session
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			email	formData	string						true	"Account email"
//	@Param			secret	formData	string						true	"Account secret"
//	@Success		200		{object}	rostersdk.SessionResponse	"authenticated, account, started_at"
//	@Failure		400		{object}	rostersdk.ErrorResponse		"Missing field"
//	@Failure		401		{object}	rostersdk.ErrorResponse		"Invalid email or secret"
//	@Failure		429		{object}	rostersdk.ErrorResponse		"Rate limit exceeded"
//	@Failure		500		{object}	rostersdk.ErrorResponse		"Internal server error"
//	@Router			/v1/session [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		rostersdk.ErrInvalidRequest.WithDescription("invalid form body").WriteError(w)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	secret := r.FormValue("secret")
	if email == "" || secret == "" {
		rostersdk.ErrInvalidRequest.WithDescription("email and secret are required").WriteError(w)
		return
	}

	session, err := h.Directory.Login(ctx, email, secret)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		rostersdk.ErrInvalidCredentials.WriteError(w)
		return
	case err != nil:
		log.Error("failed to authenticate", "email", email, "err", err)
		rostersdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionView(session))
}

// HandleGet godoc
//
//	@Summary		Session Endpoint
//	@Description	Describes the current session. Account and started_at are only present while authenticated.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	rostersdk.SessionResponse	"authenticated, account, started_at"
//	@Router			/v1/session [get].
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, sessionView(h.Directory.Session()))
}

// HandleLogout godoc
//
//	@Summary		Logout Endpoint
//	@Description	Ends the session. It always succeeds, even when nobody is logged in.
//	@Tags			Session
//	@Success		204	"Session ended"
//	@Router			/v1/session [delete].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Directory.EndSession()

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
