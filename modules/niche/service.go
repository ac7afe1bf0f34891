package niche

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/lumigen/lumigen/pkg/entitlement"
	"github.com/lumigen/lumigen/pkg/plan"
	"github.com/lumigen/lumigen/pkg/youtube"
)

const (
	// UpsellMonetization replaces monetization ratings on plans without the
	// scoring flag. Values are zeroed, never omitted, so clients keep a
	// stable shape.
	UpsellMonetization = "Upgrade to see monetization potential"

	defaultTimeframe = 30
	defaultRegion    = "global"

	feedCacheTTL        = 48 * time.Hour
	channelsPerCategory = 5
	channelsPerNiche    = 3
)

var (
	ErrFeatureLocked = errors.New("niche.errors.feature_locked")
	ErrUpstreamAI    = errors.New("niche.errors.upstream_ai_failed")
)

// TextGenerator produces the AI market analysis.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string, v any) error
}

// ChannelSearcher supplies real channel data for the feed. A disabled
// searcher degrades the feed to AI-only data.
type ChannelSearcher interface {
	Enabled() bool
	SearchChannels(ctx context.Context, query string, maxResults int) ([]youtube.Channel, error)
}

// Service implements niche discovery and the hot feed.
type Service struct {
	resolver *entitlement.Resolver
	text     TextGenerator
	yt       ChannelSearcher
	cache    Cache
	log      *slog.Logger
	now      func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithClock overrides the time source for deterministic cache keys in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the niche module.
func NewService(resolver *entitlement.Resolver, text TextGenerator, yt ChannelSearcher, cache Cache, log *slog.Logger, opts ...Option) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		resolver: resolver,
		text:     text,
		yt:       yt,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Find runs an AI market analysis for the given criteria. Gated by the
// niche_finder flag; results come back sorted by score descending with
// plan-dependent projections applied.
func (s *Service) Find(ctx context.Context, tier plan.Tier, req FindRequest) (FindResult, error) {
	if err := s.requireFlag(tier, plan.FlagNicheFinder); err != nil {
		return FindResult{}, err
	}

	if req.Timeframe <= 0 {
		req.Timeframe = defaultTimeframe
	}
	if req.Region == "" {
		req.Region = defaultRegion
	}

	var parsed struct {
		Niches []Niche `json:"niches"`
	}
	if err := s.text.GenerateJSON(ctx, finderSystem, finderPrompt(req), &parsed); err != nil {
		return FindResult{}, errors.Join(ErrUpstreamAI, err)
	}

	niches := parsed.Niches

	// The faceless-only filter is itself a plan feature; without the flag
	// the full result set is returned even for a faceless search.
	if req.ChannelType == "faceless" && s.hasFlag(tier, plan.FlagFacelessFiltering) {
		niches = slices.DeleteFunc(niches, func(n Niche) bool { return !n.FacelessFriendly })
	}

	if !s.hasFlag(tier, plan.FlagMonetizationScore) {
		for i := range niches {
			niches[i].MonetizationRating = UpsellMonetization
		}
	}

	slices.SortStableFunc(niches, func(a, b Niche) int { return b.Score - a.Score })
	return FindResult{Niches: niches}, nil
}

// HotFeed returns today's feed for the region, computing and caching it on
// first request. Gated by the hot_niche_feed flag.
func (s *Service) HotFeed(ctx context.Context, tier plan.Tier, region, contentType string) (HotFeedResult, error) {
	if err := s.requireFlag(tier, plan.FlagHotNicheFeed); err != nil {
		return HotFeedResult{}, err
	}
	if region == "" {
		region = defaultRegion
	}

	date := s.now().UTC().Format("2006-01-02")
	key := fmt.Sprintf("niches:hot:%s:%s:%s", date, region, contentType)

	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.log.WarnContext(ctx, "feed cache read failed", slog.Any("error", err))
	} else if ok {
		var result HotFeedResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return result, nil
		}
		s.log.WarnContext(ctx, "discarding corrupt feed cache entry", slog.String("key", key))
	}

	result, err := s.buildFeed(ctx, date, region, contentType)
	if err != nil {
		return HotFeedResult{}, err
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), feedCacheTTL); err != nil {
			s.log.WarnContext(ctx, "feed cache write failed", slog.Any("error", err))
		}
	}
	return result, nil
}

func (s *Service) buildFeed(ctx context.Context, date, region, contentType string) (HotFeedResult, error) {
	channelsByNiche := s.collectChannels(ctx)

	var parsed struct {
		Niches []HotNiche `json:"niches"`
	}
	if err := s.text.GenerateJSON(ctx, feedSystem, feedPrompt(channelsByNiche, contentType), &parsed); err != nil {
		return HotFeedResult{}, errors.Join(ErrUpstreamAI, err)
	}

	niches := parsed.Niches
	for i, n := range niches {
		real, ok := channelsByNiche[n.Name]
		if !ok || len(real) == 0 {
			continue
		}
		refs := make([]Channel, 0, channelsPerNiche)
		for _, c := range real[:min(len(real), channelsPerNiche)] {
			refs = append(refs, Channel{
				Name:        c.Title,
				Subscribers: youtube.FormatCount(c.SubscriberCount),
				AvgViews:    youtube.FormatCount(c.AvgViewsPerVideo()),
				ChannelURL:  c.URL(),
				IsFaceless:  youtube.IsLikelyFaceless(c),
			})
		}
		niches[i].Channels = refs
	}

	slices.SortStableFunc(niches, func(a, b HotNiche) int { return b.Score - a.Score })

	return HotFeedResult{
		Date:           date,
		Region:         region,
		Niches:         niches,
		HasYouTubeData: len(channelsByNiche) > 0,
	}, nil
}

// collectChannels gathers real channel data per category. Failures are soft;
// the feed falls back to AI-only data for any category that errors.
func (s *Service) collectChannels(ctx context.Context) map[string][]youtube.Channel {
	if s.yt == nil || !s.yt.Enabled() {
		return nil
	}

	byNiche := make(map[string][]youtube.Channel)
	for _, cat := range feedCategories {
		channels, err := s.yt.SearchChannels(ctx, cat.Query, channelsPerCategory)
		if err != nil {
			s.log.WarnContext(ctx, "channel search failed",
				slog.String("query", cat.Query), slog.Any("error", err))
			continue
		}
		if len(channels) > 0 {
			byNiche[cat.Niche] = channels
		}
	}
	return byNiche
}

func (s *Service) requireFlag(tier plan.Tier, flag plan.Flag) error {
	ok, err := s.resolver.HasAccess(tier, flag)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFeatureLocked
	}
	return nil
}

func (s *Service) hasFlag(tier plan.Tier, flag plan.Flag) bool {
	ok, err := s.resolver.HasAccess(tier, flag)
	return err == nil && ok
}
