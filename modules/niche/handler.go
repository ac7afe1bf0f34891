package niche

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lumigen/lumigen/pkg/httpx"
	"github.com/lumigen/lumigen/pkg/plan"
	"github.com/lumigen/lumigen/pkg/profile"
)

// TierResolver maps an authenticated user to their billing tier.
type TierResolver interface {
	Ensure(ctx context.Context, userID uuid.UUID, email string) (profile.Profile, error)
}

// Handler serves the /niches routes.
type Handler struct {
	svc      *Service
	profiles TierResolver
	log      *slog.Logger
}

// NewHandler builds the niche HTTP handler.
func NewHandler(svc *Service, profiles TierResolver, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{svc: svc, profiles: profiles, log: log}
}

// Router mounts the niche endpoints plus the alert-subscription toggle.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/find", h.find)
	r.Get("/hot", h.hotFeed)
	return r
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request) {
	tier, ok := h.resolveTier(w, r)
	if !ok {
		return
	}

	var req FindRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	result, err := h.svc.Find(r.Context(), tier, req)
	if err != nil {
		h.writeError(w, r, err, "Niche Finder is only available for Creator and Pro plans.")
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) hotFeed(w http.ResponseWriter, r *http.Request) {
	tier, ok := h.resolveTier(w, r)
	if !ok {
		return
	}

	result, err := h.svc.HotFeed(r.Context(), tier,
		r.URL.Query().Get("region"), r.URL.Query().Get("contentType"))
	if err != nil {
		h.writeError(w, r, err, "Daily Hot Niches is only available for Creator and Pro plans.")
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) resolveTier(w http.ResponseWriter, r *http.Request) (plan.Tier, bool) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, httpx.ErrUnauthorized)
		return "", false
	}

	p, err := h.profiles.Ensure(r.Context(), userID, httpx.UserEmailFromContext(r.Context()))
	if err != nil {
		h.log.ErrorContext(r.Context(), "profile lookup failed",
			slog.Any("error", err), slog.String("user_id", userID.String()))
		httpx.Error(w, httpx.ErrInternal)
		return "", false
	}
	return p.Tier, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, lockedMessage string) {
	switch {
	case errors.Is(err, ErrFeatureLocked):
		httpx.Error(w, httpx.NewAPIError(http.StatusForbidden, "feature_unavailable", lockedMessage))
	case errors.Is(err, ErrUpstreamAI):
		h.log.ErrorContext(r.Context(), "niche analysis failed", slog.Any("error", err))
		httpx.Error(w, httpx.NewAPIError(http.StatusBadGateway, "analysis_failed",
			"Failed to analyze niches. Please try again."))
	default:
		h.log.ErrorContext(r.Context(), "unexpected niche error", slog.Any("error", err))
		httpx.Error(w, httpx.ErrInternal)
	}
}
