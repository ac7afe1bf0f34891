package youtube

import "fmt"

// Channel is the subset of channel data the niche features consume.
type Channel struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	SubscriberCount int64  `json:"subscriberCount"`
	ViewCount       int64  `json:"viewCount"`
	VideoCount      int64  `json:"videoCount"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	CustomURL       string `json:"customUrl,omitempty"`
	PublishedAt     string `json:"publishedAt"`
}

// URL returns the public channel URL, preferring the custom handle.
func (c Channel) URL() string {
	if c.CustomURL != "" {
		return "https://youtube.com/" + c.CustomURL
	}
	return "https://youtube.com/channel/" + c.ID
}

// AvgViewsPerVideo returns total views divided by video count, guarding
// against channels with zero uploads.
func (c Channel) AvgViewsPerVideo() int64 {
	return c.ViewCount / max(c.VideoCount, 1)
}

// FormatCount renders subscriber/view counts the way creators read them:
// 1.2M, 3.4K, or the raw number below a thousand.
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
