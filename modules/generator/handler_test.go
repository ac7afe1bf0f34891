package generator_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumigen/lumigen/modules/generator"
	"github.com/lumigen/lumigen/pkg/entitlement"
	"github.com/lumigen/lumigen/pkg/httpx"
	"github.com/lumigen/lumigen/pkg/metering"
	"github.com/lumigen/lumigen/pkg/plan"
	"github.com/lumigen/lumigen/pkg/profile"
)

type fakeText struct {
	script string
	titles []entitlement.TitleCandidate
	err    error
}

func (f *fakeText) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	return f.script, f.err
}

func (f *fakeText) GenerateJSON(ctx context.Context, system, prompt string, v any) error {
	if f.err != nil {
		return f.err
	}
	raw, err := json.Marshal(map[string]any{"titles": f.titles})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

type fakeImage struct {
	url string
	err error
}

func (f *fakeImage) Generate(ctx context.Context, prompt string) (string, error) {
	return f.url, f.err
}

type fakeArchiver struct {
	url string
	err error
}

func (f *fakeArchiver) Enabled() bool { return true }

func (f *fakeArchiver) ArchiveThumbnail(ctx context.Context, userID uuid.UUID, srcURL string) (string, error) {
	return f.url, f.err
}

type fakeProfiles struct {
	tier plan.Tier
}

func (f *fakeProfiles) Ensure(ctx context.Context, userID uuid.UUID, email string) (profile.Profile, error) {
	return profile.Profile{UserID: userID, Tier: f.tier}, nil
}

func newTestServer(t *testing.T, tier plan.Tier, text *fakeText, image *fakeImage) (*httptest.Server, uuid.UUID) {
	t.Helper()

	engine := metering.NewEngine(plan.DefaultCatalog(), metering.NewMemoryStore())

	svc := generator.NewService(engine, entitlement.NewResolver(plan.DefaultCatalog()), text, image,
		&fakeArchiver{url: "https://cdn.lumigen.app/t.jpg"}, nil)
	handler := generator.NewHandler(svc, &fakeProfiles{tier: tier}, nil)

	r := chi.NewRouter()
	r.Mount("/generate", httpx.RequireUser(handler.Router()))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, uuid.New()
}

func post(t *testing.T, srv *httptest.Server, userID uuid.UUID, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set(httpx.UserIDHeader, userID.String())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var env map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestGenerateScript(t *testing.T) {
	t.Parallel()

	srv, userID := newTestServer(t, plan.TierFree, &fakeText{script: "HOOK: wait for it"}, &fakeImage{})

	resp, env := post(t, srv, userID, "/generate/script", `{"topic":"cats","niche":"pets"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := env["data"].(map[string]any)
	assert.Equal(t, "HOOK: wait for it", data["script"])
	assert.Equal(t, "long", data["format"])
	assert.Equal(t, float64(4), data["remaining"], "free plan starts with 5 daily scripts")
}

func TestGenerateScriptValidation(t *testing.T) {
	t.Parallel()

	srv, userID := newTestServer(t, plan.TierFree, &fakeText{}, &fakeImage{})

	resp, env := post(t, srv, userID, "/generate/script", `{"topic":"cats"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env["error"].(map[string]any)["message"], "topic and niche")
}

func TestGenerateScriptQuotaExhausted(t *testing.T) {
	t.Parallel()

	srv, userID := newTestServer(t, plan.TierFree, &fakeText{script: "s"}, &fakeImage{})

	for range 5 {
		resp, _ := post(t, srv, userID, "/generate/script", `{"topic":"cats","niche":"pets"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, env := post(t, srv, userID, "/generate/script", `{"topic":"cats","niche":"pets"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	errBody := env["error"].(map[string]any)
	assert.Equal(t, "quota_exhausted", errBody["code"])
	assert.Equal(t, "Script generation limit reached. Please upgrade your plan.", errBody["message"])
}

func TestGenerateScriptUnauthorized(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, plan.TierFree, &fakeText{}, &fakeImage{})

	resp, err := http.Post(srv.URL+"/generate/script", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGenerateTitlesRedactsForFree(t *testing.T) {
	t.Parallel()

	candidates := []entitlement.TitleCandidate{{
		Title:        "You Won't Believe These Cats",
		PredictedCTR: 8,
		CharCount:    27,
		Recommendation: entitlement.Recommendation{
			WhyItWorks:      "strong curiosity gap",
			HookExplanation: "opens a loop",
		},
	}}

	srv, userID := newTestServer(t, plan.TierFree, &fakeText{titles: candidates}, &fakeImage{})

	resp, env := post(t, srv, userID, "/generate/titles", `{"topic":"cats"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	titles := env["data"].(map[string]any)["titles"].([]any)
	require.Len(t, titles, 1)

	first := titles[0].(map[string]any)
	assert.Equal(t, "You Won't Believe These Cats", first["title"])
	assert.Equal(t, float64(0), first["predictedCtr"])

	rec := first["recommendation"].(map[string]any)
	assert.Equal(t, entitlement.UpsellRecommendation, rec["whyItWorks"])
	assert.Equal(t, entitlement.UpsellHookAnalysis, rec["hookExplanation"])
}

func TestGenerateTitlesKeepsCTRForCreator(t *testing.T) {
	t.Parallel()

	candidates := []entitlement.TitleCandidate{{Title: "T", PredictedCTR: 9, CharCount: 1}}
	srv, userID := newTestServer(t, plan.TierCreator, &fakeText{titles: candidates}, &fakeImage{})

	resp, env := post(t, srv, userID, "/generate/titles", `{"topic":"cats"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	first := env["data"].(map[string]any)["titles"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(9), first["predictedCtr"])
}

func TestGenerateThumbnail(t *testing.T) {
	t.Parallel()

	srv, userID := newTestServer(t, plan.TierFree,
		&fakeText{}, &fakeImage{url: "https://image.pollinations.ai/prompt/cat"})

	resp, env := post(t, srv, userID, "/generate/thumbnail", `{"prompt":"dramatic cat"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := env["data"].(map[string]any)
	assert.Equal(t, "https://image.pollinations.ai/prompt/cat", data["imageUrl"])
	assert.Equal(t, "https://cdn.lumigen.app/t.jpg", data["archivedUrl"])
	assert.Equal(t, float64(2), data["remaining"])
}

func TestGenerateThumbnailUpstreamFailure(t *testing.T) {
	t.Parallel()

	srv, userID := newTestServer(t, plan.TierFree,
		&fakeText{}, &fakeImage{err: errors.New("image host down")})

	resp, env := post(t, srv, userID, "/generate/thumbnail", `{"prompt":"cat"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "generation_failed", env["error"].(map[string]any)["code"])
}

func TestProUnboundedRemaining(t *testing.T) {
	t.Parallel()

	srv, userID := newTestServer(t, plan.TierPro, &fakeText{script: "s"}, &fakeImage{})

	resp, env := post(t, srv, userID, "/generate/script", `{"topic":"cats","niche":"pets"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "unbounded", env["data"].(map[string]any)["remaining"])
}

func TestArchiveFailureDegrades(t *testing.T) {
	t.Parallel()

	engine := metering.NewEngine(plan.DefaultCatalog(), metering.NewMemoryStore())

	svc := generator.NewService(engine,
		entitlement.NewResolver(plan.DefaultCatalog()),
		&fakeText{},
		&fakeImage{url: "https://image.pollinations.ai/prompt/cat"},
		&fakeArchiver{err: fmt.Errorf("bucket gone")},
		nil)

	result, err := svc.GenerateThumbnail(context.Background(), uuid.New(), plan.TierCreator,
		generator.ThumbnailRequest{Prompt: "cat"})
	require.NoError(t, err)
	assert.Equal(t, "https://image.pollinations.ai/prompt/cat", result.ImageURL)
	assert.Empty(t, result.ArchivedURL)
}
