package billing

import (
	"net/http"
	"slices"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/go-chi/chi/v5"

	"github.com/lumigen/lumigen/pkg/httpx"
	"github.com/lumigen/lumigen/pkg/plan"
)

// PlanView is the public pricing-page shape of one tier.
type PlanView struct {
	Tier        plan.Tier                   `json:"tier"`
	Name        string                      `json:"name"`
	Description string                      `json:"description,omitzero"`
	PriceUSD    int                         `json:"priceUsd"`
	ResetPeriod plan.Period                 `json:"resetPeriod"`
	Quotas      map[plan.Feature]plan.Quota `json:"quotas"`
	Flags       map[plan.Flag]bool          `json:"flags"`
}

// Handler serves the public /billing routes and mounts the webhook.
type Handler struct {
	catalog *plan.Catalog
	webhook *Webhook
}

// NewHandler builds the billing HTTP handler.
func NewHandler(catalog *plan.Catalog, webhook *Webhook) *Handler {
	return &Handler{catalog: catalog, webhook: webhook}
}

// Router mounts the billing endpoints. Both are public: the plan list backs
// the pricing page and the webhook authenticates via its signature.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/plans", h.listPlans)
	if h.webhook != nil {
		r.Post("/webhook", h.webhook.ServeHTTP)
	}
	return r
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	all := h.catalog.All()

	views := make([]PlanView, 0, len(all))
	for _, limits := range all {
		views = append(views, PlanView{
			Tier:        limits.Tier,
			Name:        limits.Name,
			Description: limits.Description,
			PriceUSD:    limits.PriceUSD,
			ResetPeriod: limits.ResetPeriod,
			Quotas:      limits.Quotas,
			Flags:       limits.Flags,
		})
	}
	slices.SortFunc(views, func(a, b PlanView) int { return a.PriceUSD - b.PriceUSD })

	httpx.JSON(w, http.StatusOK, map[string][]PlanView{"plans": views})
}

// NewPaddleVerifier wraps the SDK verifier so wiring code does not import the
// SDK directly.
func NewPaddleVerifier(secret string) SignatureVerifier {
	return paddle.NewWebhookVerifier(secret)
}
