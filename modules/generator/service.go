package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lumigen/lumigen/pkg/entitlement"
	"github.com/lumigen/lumigen/pkg/metering"
	"github.com/lumigen/lumigen/pkg/plan"
)

const (
	formatShort = "short"
	formatLong  = "long"
)

var (
	ErrMissingTopic  = errors.New("generator.errors.missing_topic")
	ErrMissingPrompt = errors.New("generator.errors.missing_prompt")
	ErrQuotaDenied   = errors.New("generator.errors.quota_denied")
	ErrUpstreamAI    = errors.New("generator.errors.upstream_ai_failed")
)

// UsageEngine gates each generation behind the user's quota.
type UsageEngine interface {
	CheckAndConsume(ctx context.Context, userID uuid.UUID, feature plan.Feature, tier plan.Tier) (metering.Decision, error)
}

// TextGenerator produces scripts and title candidates.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, prompt string) (string, error)
	GenerateJSON(ctx context.Context, system, prompt string, v any) error
}

// ImageGenerator produces thumbnail image URLs.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ThumbnailArchiver optionally copies generated thumbnails to durable storage.
type ThumbnailArchiver interface {
	Enabled() bool
	ArchiveThumbnail(ctx context.Context, userID uuid.UUID, srcURL string) (string, error)
}

// ScriptRequest is the body of POST /generate/script.
type ScriptRequest struct {
	Topic    string `json:"topic"`
	Niche    string `json:"niche"`
	Format   string `json:"format,omitzero"`
	Duration int    `json:"duration,omitzero"`
}

// ScriptResult is the successful script generation payload.
type ScriptResult struct {
	Script    string     `json:"script"`
	Format    string     `json:"format"`
	Duration  int        `json:"duration"`
	Remaining plan.Quota `json:"remaining"`
}

// TitleRequest is the body of POST /generate/titles. CurrentTitle plus
// IterateAction switches from fresh generation to single-title refinement.
type TitleRequest struct {
	Topic         string `json:"topic"`
	Inspiration   string `json:"inspiration,omitzero"`
	Tone          string `json:"tone,omitzero"`
	Length        string `json:"length,omitzero"`
	ShowEmojis    bool   `json:"showEmojis,omitzero"`
	CurrentTitle  string `json:"currentTitle,omitzero"`
	IterateAction string `json:"iterateAction,omitzero"`
}

// TitleResult carries the candidates after plan-based CTR projection.
type TitleResult struct {
	Titles    []entitlement.TitleCandidate `json:"titles"`
	Remaining plan.Quota                   `json:"remaining"`
}

// ThumbnailRequest is the body of POST /generate/thumbnail.
type ThumbnailRequest struct {
	Prompt string `json:"prompt"`
}

// ThumbnailResult is the successful thumbnail payload. ArchivedURL is set
// only when the S3 archiver is configured and the copy succeeded.
type ThumbnailResult struct {
	ImageURL    string     `json:"imageUrl"`
	ArchivedURL string     `json:"archivedUrl,omitzero"`
	Remaining   plan.Quota `json:"remaining"`
}

// Service implements the generation operations.
type Service struct {
	engine   UsageEngine
	resolver *entitlement.Resolver
	text     TextGenerator
	image    ImageGenerator
	archiver ThumbnailArchiver
	log      *slog.Logger
}

// NewService wires the generator. The archiver may be nil.
func NewService(engine UsageEngine, resolver *entitlement.Resolver, text TextGenerator, image ImageGenerator, archiver ThumbnailArchiver, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{engine: engine, resolver: resolver, text: text, image: image, archiver: archiver, log: log}
}

// GenerateScript produces a video script for the topic, consuming one unit of
// script quota.
func (s *Service) GenerateScript(ctx context.Context, userID uuid.UUID, tier plan.Tier, req ScriptRequest) (ScriptResult, error) {
	if req.Topic == "" || req.Niche == "" {
		return ScriptResult{}, ErrMissingTopic
	}
	if req.Format != formatShort {
		req.Format = formatLong
	}
	if req.Duration <= 0 {
		if req.Format == formatShort {
			req.Duration = 30
		} else {
			req.Duration = 8
		}
	}

	decision, err := s.engine.CheckAndConsume(ctx, userID, plan.FeatureScripts, tier)
	if err != nil {
		return ScriptResult{}, err
	}
	if !decision.Allowed {
		return ScriptResult{}, denyError(decision.Reason)
	}

	system := scriptSystemLong
	if req.Format == formatShort {
		system = scriptSystemShort
	}

	script, err := s.text.GenerateText(ctx, system, scriptPrompt(req.Topic, req.Niche, req.Format, req.Duration))
	if err != nil {
		return ScriptResult{}, errors.Join(ErrUpstreamAI, err)
	}

	return ScriptResult{
		Script:    script,
		Format:    req.Format,
		Duration:  req.Duration,
		Remaining: decision.Remaining,
	}, nil
}

// GenerateTitles produces title candidates and projects CTR data according to
// the user's plan, consuming one unit of title quota.
func (s *Service) GenerateTitles(ctx context.Context, userID uuid.UUID, tier plan.Tier, req TitleRequest) (TitleResult, error) {
	if req.Topic == "" && req.CurrentTitle == "" {
		return TitleResult{}, ErrMissingTopic
	}

	decision, err := s.engine.CheckAndConsume(ctx, userID, plan.FeatureTitles, tier)
	if err != nil {
		return TitleResult{}, err
	}
	if !decision.Allowed {
		return TitleResult{}, denyError(decision.Reason)
	}

	var parsed struct {
		Titles []entitlement.TitleCandidate `json:"titles"`
	}
	if err := s.text.GenerateJSON(ctx, titleSystem, titlePrompt(req), &parsed); err != nil {
		return TitleResult{}, errors.Join(ErrUpstreamAI, err)
	}

	titles, err := s.resolver.ProjectTitles(tier, parsed.Titles)
	if err != nil {
		return TitleResult{}, err
	}

	return TitleResult{
		Titles:    titles,
		Remaining: decision.Remaining,
	}, nil
}

// GenerateThumbnail produces a thumbnail image URL, consuming one unit of
// thumbnail quota. Archiving failures degrade to the upstream URL.
func (s *Service) GenerateThumbnail(ctx context.Context, userID uuid.UUID, tier plan.Tier, req ThumbnailRequest) (ThumbnailResult, error) {
	if req.Prompt == "" {
		return ThumbnailResult{}, ErrMissingPrompt
	}

	decision, err := s.engine.CheckAndConsume(ctx, userID, plan.FeatureThumbnails, tier)
	if err != nil {
		return ThumbnailResult{}, err
	}
	if !decision.Allowed {
		return ThumbnailResult{}, denyError(decision.Reason)
	}

	imageURL, err := s.image.Generate(ctx, req.Prompt)
	if err != nil {
		return ThumbnailResult{}, errors.Join(ErrUpstreamAI, err)
	}

	result := ThumbnailResult{ImageURL: imageURL, Remaining: decision.Remaining}
	if s.archiver != nil && s.archiver.Enabled() {
		archived, err := s.archiver.ArchiveThumbnail(ctx, userID, imageURL)
		if err != nil {
			s.log.WarnContext(ctx, "thumbnail archive failed",
				slog.Any("error", err), slog.String("user_id", userID.String()))
		} else {
			result.ArchivedURL = archived
		}
	}
	return result, nil
}

// denyReason attaches the metering reason to a quota denial so the handler
// can pick the right status code.
type denyReason struct {
	reason metering.Reason
}

func (e denyReason) Error() string {
	return fmt.Sprintf("generation denied: %s", e.reason)
}

func (e denyReason) Is(target error) bool { return target == ErrQuotaDenied }

func denyError(reason metering.Reason) error {
	return denyReason{reason: reason}
}

// DenyReason extracts the metering reason from a quota denial error.
func DenyReason(err error) (metering.Reason, bool) {
	var d denyReason
	if errors.As(err, &d) {
		return d.reason, true
	}
	return metering.ReasonOK, false
}
