package billing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/lumigen/lumigen/pkg/plan"
	"github.com/lumigen/lumigen/pkg/profile"
)

const maxWebhookBody = 1 << 20

var (
	ErrInvalidSignature = errors.New("billing.errors.invalid_signature")
	ErrMalformedEvent   = errors.New("billing.errors.malformed_event")
	ErrUnknownPrice     = errors.New("billing.errors.unknown_price")
)

// Config maps Paddle price IDs to tiers.
type Config struct {
	WebhookSecret  string `env:"PADDLE_WEBHOOK_SECRET"`
	PriceIDCreator string `env:"PADDLE_PRICE_CREATOR"`
	PriceIDPro     string `env:"PADDLE_PRICE_PRO"`
}

// SignatureVerifier validates the Paddle-Signature header. Satisfied by
// paddle.WebhookVerifier.
type SignatureVerifier interface {
	Verify(req *http.Request) (bool, error)
}

// ProfileUpdater is the slice of the profile store the webhook writes to.
type ProfileUpdater interface {
	Ensure(ctx context.Context, userID uuid.UUID, email string) (profile.Profile, error)
	SetTier(ctx context.Context, userID uuid.UUID, tier plan.Tier) error
}

// event is the subset of a Paddle webhook payload the tier sync needs. The
// user ID travels in custom_data, set when the checkout was created.
type event struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Data      struct {
		Status     string `json:"status"`
		CustomData struct {
			UserID string `json:"user_id"`
			Email  string `json:"email"`
		} `json:"custom_data"`
		Items []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"items"`
	} `json:"data"`
}

// Webhook processes Paddle subscription events.
type Webhook struct {
	cfg      Config
	verifier SignatureVerifier
	profiles ProfileUpdater
	log      *slog.Logger
}

// NewWebhook builds the webhook processor.
func NewWebhook(cfg Config, verifier SignatureVerifier, profiles ProfileUpdater, log *slog.Logger) *Webhook {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Webhook{cfg: cfg, verifier: verifier, profiles: profiles, log: log}
}

// ServeHTTP verifies the signature and applies the event. Unhandled event
// types acknowledge with 200 so Paddle stops retrying them.
func (wh *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(strings.NewReader(string(body)))

	ok, err := wh.verifier.Verify(r)
	if err != nil || !ok {
		wh.log.WarnContext(r.Context(), "webhook signature rejected", slog.Any("error", err))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var ev event
	if err := json.Unmarshal(body, &ev); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := wh.apply(r.Context(), ev); err != nil {
		switch {
		case errors.Is(err, ErrMalformedEvent), errors.Is(err, ErrUnknownPrice):
			wh.log.WarnContext(r.Context(), "webhook event rejected",
				slog.String("event_id", ev.EventID),
				slog.String("event_type", ev.EventType),
				slog.Any("error", err))
			w.WriteHeader(http.StatusBadRequest)
		default:
			// Profile store failure: signal Paddle to retry.
			wh.log.ErrorContext(r.Context(), "webhook apply failed",
				slog.String("event_id", ev.EventID), slog.Any("error", err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (wh *Webhook) apply(ctx context.Context, ev event) error {
	switch ev.EventType {
	case "subscription.activated", "subscription.created", "subscription.updated",
		"subscription.canceled", "subscription.past_due":
	default:
		wh.log.DebugContext(ctx, "ignoring webhook event", slog.String("event_type", ev.EventType))
		return nil
	}

	userID, err := uuid.Parse(ev.Data.CustomData.UserID)
	if err != nil {
		return errors.Join(ErrMalformedEvent, err)
	}

	tier, err := wh.resolveTier(ev)
	if err != nil {
		return err
	}

	if _, err := wh.profiles.Ensure(ctx, userID, ev.Data.CustomData.Email); err != nil {
		return err
	}
	if err := wh.profiles.SetTier(ctx, userID, tier); err != nil {
		return err
	}

	wh.log.InfoContext(ctx, "tier updated from billing event",
		slog.String("user_id", userID.String()),
		slog.String("event_type", ev.EventType),
		slog.String("tier", string(tier)))
	return nil
}

func (wh *Webhook) resolveTier(ev event) (plan.Tier, error) {
	// Lifecycle end states always demote, regardless of the price attached.
	switch ev.Data.Status {
	case "canceled", "expired", "paused":
		return plan.TierFree, nil
	}
	if ev.EventType == "subscription.canceled" {
		return plan.TierFree, nil
	}

	if len(ev.Data.Items) == 0 {
		return "", ErrMalformedEvent
	}

	switch ev.Data.Items[0].Price.ID {
	case wh.cfg.PriceIDCreator:
		return plan.TierCreator, nil
	case wh.cfg.PriceIDPro:
		return plan.TierPro, nil
	default:
		return "", ErrUnknownPrice
	}
}
