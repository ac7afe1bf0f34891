package genai

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
)

// thumbnailStylePrefix steers the image model towards click-worthy YouTube
// thumbnails regardless of the user's subject prompt.
const thumbnailStylePrefix = "Professional YouTube thumbnail, 16:9 aspect ratio, high quality, " +
	"vibrant saturated colors, eye-catching composition, dramatic lighting, " +
	"bold visual impact, click-worthy, photorealistic: "

// ImageClient generates thumbnail images via a URL-addressed image API.
type ImageClient struct {
	cfg    ImageConfig
	client *http.Client
	seed   func() int
}

// ImageOption configures an ImageClient.
type ImageOption func(*ImageClient)

// WithImageHTTPClient overrides the HTTP client, mainly for tests.
func WithImageHTTPClient(c *http.Client) ImageOption {
	return func(ic *ImageClient) {
		if c != nil {
			ic.client = c
		}
	}
}

// WithSeedFunc overrides the random seed source for deterministic tests.
func WithSeedFunc(fn func() int) ImageOption {
	return func(ic *ImageClient) {
		if fn != nil {
			ic.seed = fn
		}
	}
}

// NewImageClient returns an image generation client.
func NewImageClient(cfg ImageConfig, opts ...ImageOption) *ImageClient {
	ic := &ImageClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		seed:   func() int { return rand.IntN(1_000_000) },
	}
	for _, opt := range opts {
		opt(ic)
	}
	return ic
}

// ImageURL builds the generation URL for a prompt. A random seed keeps
// repeated prompts from returning the same cached render.
func (ic *ImageClient) ImageURL(prompt string) string {
	encoded := url.PathEscape(thumbnailStylePrefix + prompt)
	return fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&seed=%d&model=%s&nologo=true",
		strings.TrimSuffix(ic.cfg.BaseURL, "/"), encoded,
		ic.cfg.Width, ic.cfg.Height, ic.seed(), ic.cfg.Model)
}

// Generate builds the image URL and verifies the image is actually
// reachable with a HEAD request before handing the URL to the client.
func (ic *ImageClient) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	imageURL := ic.ImageURL(prompt)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, imageURL, nil)
	if err != nil {
		return "", errors.Join(ErrImageUnavailable, err)
	}

	resp, err := ic.client.Do(req)
	if err != nil {
		return "", errors.Join(ErrImageUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrImageUnavailable, resp.StatusCode)
	}
	return imageURL, nil
}
