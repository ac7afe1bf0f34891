package usage

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lumigen/lumigen/pkg/httpx"
	"github.com/lumigen/lumigen/pkg/metering"
	"github.com/lumigen/lumigen/pkg/plan"
	"github.com/lumigen/lumigen/pkg/profile"
)

// TierResolver maps an authenticated user to their billing tier, creating a
// free-tier profile on first contact.
type TierResolver interface {
	Ensure(ctx context.Context, userID uuid.UUID, email string) (profile.Profile, error)
}

// Response is the dashboard payload: per-feature usage plus the tier it was
// computed against.
type Response struct {
	Tier     plan.Tier               `json:"tier"`
	Features []metering.FeatureUsage `json:"features"`
}

// Handler serves the /usage route.
type Handler struct {
	engine   *metering.Engine
	profiles TierResolver
	log      *slog.Logger
}

// NewHandler builds the usage dashboard handler.
func NewHandler(engine *metering.Engine, profiles TierResolver, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{engine: engine, profiles: profiles, log: log}
}

// Router mounts the dashboard endpoint. Callers wrap it with the identity
// middleware.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.snapshot)
	return r
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, httpx.ErrUnauthorized)
		return
	}

	p, err := h.profiles.Ensure(r.Context(), userID, httpx.UserEmailFromContext(r.Context()))
	if err != nil {
		h.log.ErrorContext(r.Context(), "profile lookup failed",
			slog.Any("error", err), slog.String("user_id", userID.String()))
		httpx.Error(w, httpx.ErrInternal)
		return
	}

	features, err := h.engine.Snapshot(r.Context(), userID, p.Tier)
	if err != nil {
		if errors.Is(err, metering.ErrStoreUnavailable) {
			h.log.ErrorContext(r.Context(), "usage store unavailable", slog.Any("error", err))
			httpx.Error(w, httpx.NewAPIError(http.StatusServiceUnavailable, "service_unavailable",
				"Usage data is temporarily unavailable. Please try again."))
			return
		}
		h.log.ErrorContext(r.Context(), "usage snapshot failed", slog.Any("error", err))
		httpx.Error(w, httpx.ErrInternal)
		return
	}

	httpx.JSON(w, http.StatusOK, Response{Tier: p.Tier, Features: features})
}
