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

type AccountsHandler struct {
	Directory *service.Directory
}

// HandleRegister godoc
//
//	@Summary		Register Account Endpoint
//	@Description	Creates an account. Name and email are trimmed, the secret is stored as sent.
//	@Description	Emails are unique ignoring case. Does not start a session.
//	@Tags			Accounts
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			name	formData	string						true	"Display name"
//	@Param			email	formData	string						true	"Email, unique ignoring case"
//	@Param			secret	formData	string						true	"Secret, compared exactly"
//	@Success		201		{object}	rostersdk.AccountResponse	"id, name, email, created_at"
//	@Failure		400		{object}	rostersdk.ErrorResponse		"Missing field"
//	@Failure		409		{object}	rostersdk.ErrorResponse		"Email already registered"
//	@Failure		429		{object}	rostersdk.ErrorResponse		"Rate limit exceeded"
//	@Failure		500		{object}	rostersdk.ErrorResponse		"Internal server error"
//	@Router			/v1/accounts [post].
func (h *AccountsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		rostersdk.ErrInvalidRequest.WithDescription("invalid form body").WriteError(w)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	secret := r.FormValue("secret")
	if name == "" || email == "" || secret == "" {
		rostersdk.ErrInvalidRequest.WithDescription("all fields are required").WriteError(w)
		return
	}

	acc, err := h.Directory.RegisterAccount(ctx, name, email, secret)
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		rostersdk.ErrDuplicateEmail.WriteError(w)
		return
	case err != nil:
		log.Error("failed to register account", "email", email, "err", err)
		rostersdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accountView(acc))
}

// HandleList godoc
//
//	@Summary		List Accounts Endpoint
//	@Description	Returns every account, newest first, without secrets.
//	@Description	Without an active session it answers login_required so the caller can send the user to log in.
//	@Tags			Accounts
//	@Produce		json
//	@Success		200	{object}	rostersdk.AccountListResponse	"accounts"
//	@Failure		401	{object}	rostersdk.ErrorResponse			"No active session"
//	@Failure		500	{object}	rostersdk.ErrorResponse			"Internal server error"
//	@Router			/v1/accounts [get].
func (h *AccountsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if !h.Directory.IsAuthenticated() {
		rostersdk.ErrLoginRequired.WriteError(w)
		return
	}

	accounts, err := h.Directory.ListAccounts(ctx)
	if err != nil {
		log.Error("failed to list accounts", "err", err)
		rostersdk.ErrServerError.WriteError(w)
		return
	}

	resp := rostersdk.AccountListResponse{
		Accounts: make([]rostersdk.AccountResponse, 0, len(accounts)),
	}
	for _, acc := range accounts {
		resp.Accounts = append(resp.Accounts, accountView(acc))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
