package billing_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumigen/lumigen/modules/billing"
	"github.com/lumigen/lumigen/pkg/plan"
	"github.com/lumigen/lumigen/pkg/profile"
)

type fakeVerifier struct {
	ok  bool
	err error
}

func (f *fakeVerifier) Verify(req *http.Request) (bool, error) { return f.ok, f.err }

type fakeProfiles struct {
	mu      sync.Mutex
	tiers   map[uuid.UUID]plan.Tier
	failSet bool
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{tiers: make(map[uuid.UUID]plan.Tier)}
}

func (f *fakeProfiles) Ensure(ctx context.Context, userID uuid.UUID, email string) (profile.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tiers[userID]; !ok {
		f.tiers[userID] = plan.TierFree
	}
	return profile.Profile{UserID: userID, Tier: f.tiers[userID]}, nil
}

func (f *fakeProfiles) SetTier(ctx context.Context, userID uuid.UUID, tier plan.Tier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return errors.New("db down")
	}
	f.tiers[userID] = tier
	return nil
}

func (f *fakeProfiles) tierOf(userID uuid.UUID) plan.Tier {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tiers[userID]
}

var testConfig = billing.Config{
	WebhookSecret:  "whsec_test",
	PriceIDCreator: "pri_creator",
	PriceIDPro:     "pri_pro",
}

func eventBody(eventType, status, userID, priceID string) string {
	items := "[]"
	if priceID != "" {
		items = fmt.Sprintf(`[{"price":{"id":%q}}]`, priceID)
	}
	return fmt.Sprintf(`{
		"event_id": "evt_1",
		"event_type": %q,
		"data": {
			"status": %q,
			"custom_data": {"user_id": %q, "email": "creator@example.com"},
			"items": %s
		}
	}`, eventType, status, userID, items)
}

func postWebhook(t *testing.T, wh *billing.Webhook, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/billing/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, req)
	return rec
}

func TestWebhookActivatesCreator(t *testing.T) {
	t.Parallel()

	profiles := newFakeProfiles()
	wh := billing.NewWebhook(testConfig, &fakeVerifier{ok: true}, profiles, nil)

	userID := uuid.New()
	rec := postWebhook(t, wh, eventBody("subscription.activated", "active", userID.String(), "pri_creator"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, plan.TierCreator, profiles.tierOf(userID))
}

func TestWebhookUpgradesToPro(t *testing.T) {
	t.Parallel()

	profiles := newFakeProfiles()
	wh := billing.NewWebhook(testConfig, &fakeVerifier{ok: true}, profiles, nil)

	userID := uuid.New()
	rec := postWebhook(t, wh, eventBody("subscription.updated", "active", userID.String(), "pri_pro"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, plan.TierPro, profiles.tierOf(userID))
}

func TestWebhookCancellationDemotesToFree(t *testing.T) {
	t.Parallel()

	profiles := newFakeProfiles()
	wh := billing.NewWebhook(testConfig, &fakeVerifier{ok: true}, profiles, nil)

	userID := uuid.New()
	postWebhook(t, wh, eventBody("subscription.activated", "active", userID.String(), "pri_pro"))
	require.Equal(t, plan.TierPro, profiles.tierOf(userID))

	rec := postWebhook(t, wh, eventBody("subscription.canceled", "canceled", userID.String(), "pri_pro"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, plan.TierFree, profiles.tierOf(userID))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	t.Parallel()

	profiles := newFakeProfiles()
	wh := billing.NewWebhook(testConfig, &fakeVerifier{ok: false}, profiles, nil)

	rec := postWebhook(t, wh, eventBody("subscription.activated", "active", uuid.NewString(), "pri_pro"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookRejectsUnknownPrice(t *testing.T) {
	t.Parallel()

	wh := billing.NewWebhook(testConfig, &fakeVerifier{ok: true}, newFakeProfiles(), nil)

	rec := postWebhook(t, wh, eventBody("subscription.activated", "active", uuid.NewString(), "pri_other"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookIgnoresUnrelatedEvents(t *testing.T) {
	t.Parallel()

	profiles := newFakeProfiles()
	wh := billing.NewWebhook(testConfig, &fakeVerifier{ok: true}, profiles, nil)

	userID := uuid.New()
	rec := postWebhook(t, wh, eventBody("transaction.completed", "completed", userID.String(), "pri_pro"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, profiles.tierOf(userID), "no profile is touched for unhandled events")
}

func TestWebhookRetriesOnStoreFailure(t *testing.T) {
	t.Parallel()

	profiles := newFakeProfiles()
	profiles.failSet = true
	wh := billing.NewWebhook(testConfig, &fakeVerifier{ok: true}, profiles, nil)

	rec := postWebhook(t, wh, eventBody("subscription.activated", "active", uuid.NewString(), "pri_pro"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "5xx makes the provider retry")
}

func TestListPlans(t *testing.T) {
	t.Parallel()

	handler := billing.NewHandler(plan.DefaultCatalog(), nil)
	r := chi.NewRouter()
	r.Mount("/billing", handler.Router())

	req := httptest.NewRequest(http.MethodGet, "/billing/plans", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data struct {
			Plans []map[string]any `json:"plans"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data.Plans, 3)

	assert.Equal(t, "free", env.Data.Plans[0]["tier"], "sorted by price ascending")
	assert.Equal(t, "pro", env.Data.Plans[2]["tier"])

	proQuotas := env.Data.Plans[2]["quotas"].(map[string]any)
	assert.Equal(t, "unbounded", proQuotas["scripts"])

	freeFlags := env.Data.Plans[0]["flags"].(map[string]any)
	assert.Equal(t, false, freeFlags["niche_finder"])
}
