package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config configures the YouTube Data API client. The key is optional: an
// empty key disables the client rather than failing startup.
type Config struct {
	APIKey  string        `env:"YOUTUBE_API_KEY"`
	BaseURL string        `env:"YOUTUBE_API_URL" envDefault:"https://www.googleapis.com/youtube/v3"`
	Timeout time.Duration `env:"YOUTUBE_TIMEOUT" envDefault:"15s"`
}

var (
	ErrDisabled      = errors.New("youtube.errors.client_disabled")
	ErrRequestFailed = errors.New("youtube.errors.request_failed")
)

// Client calls the YouTube Data API v3.
type Client struct {
	cfg    Config
	client *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.client = c
		}
	}
}

// New returns a YouTube client. With an empty API key the client is
// disabled: SearchChannels returns ErrDisabled and callers degrade.
func New(cfg Config, opts ...Option) *Client {
	cl := &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.cfg.APIKey != "" }

// SearchChannels searches for channels matching the query and resolves their
// statistics in a second call, mirroring the search/channels two-step of the
// Data API.
func (c *Client) SearchChannels(ctx context.Context, query string, maxResults int) ([]Channel, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	ids, err := c.searchChannelIDs(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return c.channelStats(ctx, ids)
}

func (c *Client) searchChannelIDs(ctx context.Context, query string, maxResults int) ([]string, error) {
	q := url.Values{
		"part":       {"snippet"},
		"type":       {"channel"},
		"q":          {query},
		"maxResults": {strconv.Itoa(maxResults)},
		"key":        {c.cfg.APIKey},
	}

	var body struct {
		Items []struct {
			ID struct {
				ChannelID string `json:"channelId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := c.get(ctx, "/search", q, &body); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(body.Items))
	for _, item := range body.Items {
		if item.ID.ChannelID != "" {
			ids = append(ids, item.ID.ChannelID)
		}
	}
	return ids, nil
}

func (c *Client) channelStats(ctx context.Context, ids []string) ([]Channel, error) {
	q := url.Values{
		"part": {"snippet,statistics"},
		"id":   {strings.Join(ids, ",")},
		"key":  {c.cfg.APIKey},
	}

	var body struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				CustomURL   string `json:"customUrl"`
				PublishedAt string `json:"publishedAt"`
				Thumbnails  struct {
					Default struct {
						URL string `json:"url"`
					} `json:"default"`
				} `json:"thumbnails"`
			} `json:"snippet"`
			Statistics struct {
				SubscriberCount string `json:"subscriberCount"`
				ViewCount       string `json:"viewCount"`
				VideoCount      string `json:"videoCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	if err := c.get(ctx, "/channels", q, &body); err != nil {
		return nil, err
	}

	channels := make([]Channel, 0, len(body.Items))
	for _, item := range body.Items {
		channels = append(channels, Channel{
			ID:              item.ID,
			Title:           item.Snippet.Title,
			Description:     item.Snippet.Description,
			SubscriberCount: parseCount(item.Statistics.SubscriberCount),
			ViewCount:       parseCount(item.Statistics.ViewCount),
			VideoCount:      parseCount(item.Statistics.VideoCount),
			ThumbnailURL:    item.Snippet.Thumbnails.Default.URL,
			CustomURL:       item.Snippet.CustomURL,
			PublishedAt:     item.Snippet.PublishedAt,
		})
	}
	return channels, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimSuffix(c.cfg.BaseURL, "/")+path+"?"+q.Encode(), nil)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrRequestFailed, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	return nil
}

// parseCount tolerates the API's string-encoded counters and hidden
// subscriber counts (empty string).
func parseCount(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
