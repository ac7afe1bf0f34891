package entitlement

import "github.com/lumigen/lumigen/pkg/plan"

// Upsell copy substituted into redacted recommendation fields. Fixed strings
// so clients can rely on stable content for locked states.
const (
	UpsellRecommendation = "Upgrade to Creator or Pro plan for AI recommendations"
	UpsellHookAnalysis   = "Upgrade to see hook analysis"
)

// Recommendation explains why a generated title works and how to improve it.
type Recommendation struct {
	WhyItWorks            string   `json:"whyItWorks"`
	SuggestedImprovements []string `json:"suggestedImprovements"`
	HookExplanation       string   `json:"hookExplanation"`
}

// TitleCandidate is one generated title option with its quality analysis.
type TitleCandidate struct {
	Title           string         `json:"title"`
	PredictedCTR    int            `json:"predictedCtr"`
	CharCount       int            `json:"charCount"`
	EmojiSuggestion string         `json:"emojiSuggestion,omitempty"`
	Recommendation  Recommendation `json:"recommendation"`
}

// ProjectTitles shapes title candidates for the tier. Without the CTR
// scoring capability, predicted CTR is neutralized to zero and the
// recommendation is replaced with upsell copy; the field set never changes.
// Candidates pass through untouched for entitled tiers.
func (r *Resolver) ProjectTitles(tier plan.Tier, candidates []TitleCandidate) ([]TitleCandidate, error) {
	hasCTR, err := r.HasAccess(tier, plan.FlagTitleCTRScoring)
	if err != nil {
		return nil, err
	}
	if hasCTR {
		return candidates, nil
	}

	out := make([]TitleCandidate, len(candidates))
	for i, c := range candidates {
		c.PredictedCTR = 0
		c.Recommendation = Recommendation{
			WhyItWorks:            UpsellRecommendation,
			SuggestedImprovements: []string{},
			HookExplanation:       UpsellHookAnalysis,
		}
		out[i] = c
	}
	return out, nil
}
