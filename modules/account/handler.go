package account

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lumigen/lumigen/pkg/httpx"
	"github.com/lumigen/lumigen/pkg/plan"
	"github.com/lumigen/lumigen/pkg/profile"
)

// ProfileStore is the slice of the profile store the account surface needs.
type ProfileStore interface {
	Ensure(ctx context.Context, userID uuid.UUID, email string) (profile.Profile, error)
	SetNicheAlerts(ctx context.Context, userID uuid.UUID, enabled bool) error
}

// View is the caller-facing profile shape.
type View struct {
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email,omitzero"`
	Tier        plan.Tier `json:"tier"`
	NicheAlerts bool      `json:"nicheAlerts"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AlertsRequest toggles the daily niche digest.
type AlertsRequest struct {
	Enabled bool `json:"enabled"`
}

// Handler serves the /account routes.
type Handler struct {
	profiles ProfileStore
	log      *slog.Logger
}

// NewHandler builds the account HTTP handler.
func NewHandler(profiles ProfileStore, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{profiles: profiles, log: log}
}

// Router mounts the account endpoints. Callers wrap it with the identity
// middleware.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.me)
	r.Put("/alerts", h.setAlerts)
	return r
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, ok := h.ensure(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, toView(p))
}

func (h *Handler) setAlerts(w http.ResponseWriter, r *http.Request) {
	p, ok := h.ensure(w, r)
	if !ok {
		return
	}

	var req AlertsRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.profiles.SetNicheAlerts(r.Context(), p.UserID, req.Enabled); err != nil {
		h.log.ErrorContext(r.Context(), "alert toggle failed",
			slog.Any("error", err), slog.String("user_id", p.UserID.String()))
		httpx.Error(w, httpx.ErrInternal)
		return
	}

	p.NicheAlerts = req.Enabled
	httpx.JSON(w, http.StatusOK, toView(p))
}

func (h *Handler) ensure(w http.ResponseWriter, r *http.Request) (profile.Profile, bool) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, httpx.ErrUnauthorized)
		return profile.Profile{}, false
	}

	p, err := h.profiles.Ensure(r.Context(), userID, httpx.UserEmailFromContext(r.Context()))
	if err != nil {
		h.log.ErrorContext(r.Context(), "profile lookup failed",
			slog.Any("error", err), slog.String("user_id", userID.String()))
		httpx.Error(w, httpx.ErrInternal)
		return profile.Profile{}, false
	}
	return p, true
}

func toView(p profile.Profile) View {
	return View{
		UserID:      p.UserID,
		Email:       p.Email,
		Tier:        p.Tier,
		NicheAlerts: p.NicheAlerts,
		CreatedAt:   p.CreatedAt,
	}
}
