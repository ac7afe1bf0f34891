package generator

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

var upgradeMessages = map[plan.Feature]string{
	plan.FeatureScripts:    "Script generation limit reached. Please upgrade your plan.",
	plan.FeatureTitles:     "Title generation limit reached. Please upgrade your plan.",
	plan.FeatureThumbnails: "Thumbnail generation limit reached. Please upgrade your plan.",
}

// Handler serves the /generate routes.
type Handler struct {
	svc      *Service
	profiles TierResolver
	log      *slog.Logger
}

// NewHandler builds the generator HTTP handler.
func NewHandler(svc *Service, profiles TierResolver, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{svc: svc, profiles: profiles, log: log}
}

// Router mounts the generation endpoints. Callers wrap it with the identity
// middleware.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/script", h.generateScript)
	r.Post("/titles", h.generateTitles)
	r.Post("/thumbnail", h.generateThumbnail)
	return r
}

func (h *Handler) generateScript(w http.ResponseWriter, r *http.Request) {
	userID, tier, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req ScriptRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	result, err := h.svc.GenerateScript(r.Context(), userID, tier, req)
	if err != nil {
		h.writeError(w, r, plan.FeatureScripts, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) generateTitles(w http.ResponseWriter, r *http.Request) {
	userID, tier, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req TitleRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	result, err := h.svc.GenerateTitles(r.Context(), userID, tier, req)
	if err != nil {
		h.writeError(w, r, plan.FeatureTitles, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) generateThumbnail(w http.ResponseWriter, r *http.Request) {
	userID, tier, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req ThumbnailRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	result, err := h.svc.GenerateThumbnail(r.Context(), userID, tier, req)
	if err != nil {
		h.writeError(w, r, plan.FeatureThumbnails, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (uuid.UUID, plan.Tier, bool) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.Error(w, httpx.ErrUnauthorized)
		return uuid.Nil, "", false
	}

	p, err := h.profiles.Ensure(r.Context(), userID, httpx.UserEmailFromContext(r.Context()))
	if err != nil {
		h.log.ErrorContext(r.Context(), "profile lookup failed",
			slog.Any("error", err), slog.String("user_id", userID.String()))
		httpx.Error(w, httpx.ErrInternal)
		return uuid.Nil, "", false
	}
	return userID, p.Tier, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, feature plan.Feature, err error) {
	switch {
	case errors.Is(err, ErrMissingTopic):
		httpx.Error(w, httpx.NewAPIError(http.StatusBadRequest, "bad_request", "topic and niche are required"))
	case errors.Is(err, ErrMissingPrompt):
		httpx.Error(w, httpx.NewAPIError(http.StatusBadRequest, "bad_request", "prompt is required"))
	case errors.Is(err, ErrQuotaDenied):
		reason, _ := DenyReason(err)
		if reason == metering.ReasonUnavailable {
			httpx.Error(w, httpx.NewAPIError(http.StatusForbidden, string(reason),
				"This feature is not available on your plan. Please upgrade."))
			return
		}
		httpx.Error(w, httpx.NewAPIError(http.StatusTooManyRequests, string(reason), upgradeMessages[feature]))
	case errors.Is(err, metering.ErrStoreUnavailable):
		h.log.ErrorContext(r.Context(), "usage store unavailable", slog.Any("error", err))
		httpx.Error(w, httpx.NewAPIError(http.StatusServiceUnavailable, "service_unavailable",
			"Usage tracking is temporarily unavailable. Please try again."))
	case errors.Is(err, ErrUpstreamAI):
		h.log.ErrorContext(r.Context(), "generation failed",
			slog.Any("error", err), slog.String("feature", string(feature)))
		httpx.Error(w, httpx.NewAPIError(http.StatusBadGateway, "generation_failed",
			"Failed to generate. Please try again."))
	default:
		h.log.ErrorContext(r.Context(), "unexpected generator error", slog.Any("error", err))
		httpx.Error(w, httpx.ErrInternal)
	}
}
