package youtube

import "strings"

// facelessKeywords mark channels that very likely publish without an
// on-camera host. Heuristic only; used for labeling, never for hard
// filtering of API data.
var facelessKeywords = []string{
	"faceless", "animation", "animated", "no face", "voiceover", "voice over",
	"ai generated", "stock footage", "compilation", "facts", "top 10", "explained",
	"documentary", "mystery", "stories", "reddit", "cash cow", "automated",
	"relaxing", "ambient", "lofi", "lo-fi", "music mix", "meditation", "sleep",
}

// IsLikelyFaceless reports whether a channel's title and description suggest
// faceless content.
func IsLikelyFaceless(c Channel) bool {
	combined := strings.ToLower(c.Title + " " + c.Description)
	for _, kw := range facelessKeywords {
		if strings.Contains(combined, kw) {
			return true
		}
	}
	return false
}
