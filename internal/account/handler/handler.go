// Package handler is the thin HTTP layer over the account service. It maps
// transport concerns (routing, auth extraction, JSON envelopes) onto the
// service contract without embedding business logic.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/l31-dev/Autha/internal/account/models"
	"github.com/l31-dev/Autha/internal/platform/middleware"
	dErrors "github.com/l31-dev/Autha/pkg/domain-errors"
	"github.com/l31-dev/Autha/pkg/requestcontext"
)

// Service defines the profile operations the handler exposes.
type Service interface {
	GetProfile(ctx context.Context, vanity, requester string) (models.Profile, error)
	PatchProfile(ctx context.Context, vanity string, patch models.Patch) error
}

// Handler handles the /users routes.
type Handler struct {
	logger    *slog.Logger
	accounts  Service
	validator middleware.TokenValidator
}

// New creates the account Handler.
func New(accounts Service, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		accounts:  accounts,
		validator: validator,
	}
}

// Register mounts the account routes with their middleware chain.
func (h *Handler) Register(r chi.Router) {
	users := chi.NewRouter()
	users.Use(middleware.Recovery(h.logger))
	users.Use(middleware.RequestID)
	users.Use(middleware.Logger(h.logger))

	// Reads are public; a valid token only widens PII disclosure.
	users.With(middleware.OptionalAuth(h.validator)).
		Get("/users/{vanity}", h.handleGetProfile)
	users.With(middleware.RequireAuth(h.validator, h.logger)).
		Patch("/users/@me", h.handlePatchProfile)

	r.Mount("/", users)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vanity := chi.URLParam(r, "vanity")
	requester := requestcontext.Requester(ctx)

	profile, err := h.accounts.GetProfile(ctx, vanity, requester)
	if err != nil {
		h.logger.ErrorContext(ctx, "profile read failed",
			"vanity", vanity,
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		writeError(w, err)
		return
	}
	if profile.IsEmpty() {
		writeError(w, dErrors.New(dErrors.CodeNotFound, "unknown user"))
		return
	}
	// Deleted profiles come back as the redacted placeholder and are still
	// served with 200.
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) handlePatchProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester := requestcontext.Requester(ctx)

	var patch models.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "check the information provided"))
		return
	}

	if err := h.accounts.PatchProfile(ctx, requester, patch); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "profile patch failed",
				"vanity", requester,
				"error", err.Error(),
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Error: false, Message: "OK"})
}
