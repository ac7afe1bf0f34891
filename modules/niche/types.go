package niche

// Details is the qualitative analysis attached to every niche.
type Details struct {
	WhyItWorks      string   `json:"whyItWorks"`
	Risks           []string `json:"risks"`
	ExampleChannels []string `json:"exampleChannels"`
	ExampleTitles   []string `json:"exampleTitles"`
}

// Niche is one market-analysis result.
type Niche struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Score              int     `json:"score"`
	AvgViews           int64   `json:"avgViews"`
	AvgSubGrowth       int64   `json:"avgSubGrowth"`
	MonetizationRating string  `json:"monetizationRating"`
	FacelessFriendly   bool    `json:"facelessFriendly"`
	Details            Details `json:"details"`
}

// Channel is a real-channel reference inside a hot niche, with display-ready
// counts.
type Channel struct {
	Name        string `json:"name"`
	Subscribers string `json:"subscribers"`
	AvgViews    string `json:"avgViews"`
	ChannelURL  string `json:"channelUrl"`
	IsFaceless  bool   `json:"isFaceless"`
}

// HotNiche is one entry of the daily feed.
type HotNiche struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Score              int       `json:"score"`
	AvgViews           int64     `json:"avgViews"`
	AvgSubGrowth       int64     `json:"avgSubGrowth"`
	MonetizationRating string    `json:"monetizationRating"`
	FacelessFriendly   bool      `json:"facelessFriendly"`
	ContentType        string    `json:"contentType"`
	TrendingReason     string    `json:"trendingReason"`
	Channels           []Channel `json:"channels"`
	Details            Details   `json:"details"`
}

// FindRequest is the body of POST /niches/find.
type FindRequest struct {
	ChannelType string   `json:"channelType,omitzero"`
	Goals       []string `json:"goals,omitzero"`
	Timeframe   int      `json:"timeframe,omitzero"`
	Region      string   `json:"region,omitzero"`
}

// FindResult is the successful analysis payload, sorted by score descending.
type FindResult struct {
	Niches []Niche `json:"niches"`
}

// HotFeedResult is the daily feed payload.
type HotFeedResult struct {
	Date           string     `json:"date"`
	Region         string     `json:"region"`
	Niches         []HotNiche `json:"niches"`
	HasYouTubeData bool       `json:"hasYouTubeData"`
}
