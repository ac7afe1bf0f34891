package niche

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lumigen/lumigen/pkg/youtube"
)

const (
	finderSystem = "You are a YouTube market research expert. Always respond with valid JSON only, no markdown formatting or code blocks."
	feedSystem   = "You are a YouTube trend analyst specializing in faceless content creation. Always respond with valid JSON only, no markdown formatting or code blocks."
)

// feedCategories are the search seeds for the daily feed, paired with the
// niche name the results are grouped under.
var feedCategories = []struct {
	Query string
	Niche string
}{
	{"faceless youtube channel motivation", "Motivational Content"},
	{"reddit stories youtube", "Reddit Stories"},
	{"top 10 facts youtube channel", "Top 10 Lists"},
	{"relaxing music sleep youtube", "Relaxation/Sleep Content"},
	{"true crime documentary youtube", "True Crime"},
	{"history documentary faceless", "History Documentaries"},
	{"personal finance animation youtube", "Personal Finance"},
	{"gaming compilation youtube", "Gaming Compilations"},
	{"ai news technology explained", "Tech/AI Explainers"},
	{"scary stories animated youtube", "Horror Stories"},
	{"travel compilation 4k", "Travel Compilations"},
	{"cooking recipe shorts", "Cooking/Recipe Shorts"},
}

func finderPrompt(req FindRequest) string {
	var channelType string
	switch req.ChannelType {
	case "faceless":
		channelType = "faceless channels (no face on camera)"
	case "on-camera":
		channelType = "on-camera channels (face required)"
	default:
		channelType = "any channel type"
	}

	region := "worldwide"
	if req.Region != "" && req.Region != "global" {
		region = fmt.Sprintf("focused on %s", strings.ToUpper(req.Region))
	}

	return fmt.Sprintf(`You are a YouTube market research expert. Analyze current YouTube trends and identify high-opportunity niches.

Search Parameters:
- Channel Type: %s
- Goals: %s
- Timeframe: Last %d days trends
- Region: %s

Generate 6 high-opportunity YouTube niches that match these criteria. For each niche, provide:
1. A specific, actionable niche name (not too broad)
2. A niche score (0-100) based on opportunity potential
3. Average views per video estimate
4. Average monthly subscriber growth estimate
5. Monetization potential (High/Medium/Low) based on CPM and sponsorship opportunities
6. Whether it's faceless-friendly (true/false)
7. Detailed analysis including why it works, risks, example channels, and example video titles

Consider these scoring factors:
- View velocity and growth potential
- Competition density (fewer established channels = higher score)
- Monetization potential (CPM rates, sponsorship appeal)
- Faceless compatibility (if applicable)
- Subscriber conversion ratio
- Content sustainability

Return in this exact JSON format:
{
  "niches": [
    {
      "id": "unique-slug-1",
      "name": "Specific Niche Name",
      "score": 85,
      "avgViews": 50000,
      "avgSubGrowth": 5000,
      "monetizationRating": "High",
      "facelessFriendly": true,
      "details": {
        "whyItWorks": "Detailed explanation of why this niche is a good opportunity",
        "risks": ["Risk 1", "Risk 2"],
        "exampleChannels": ["Channel 1", "Channel 2", "Channel 3"],
        "exampleTitles": ["Example Video Title 1", "Example Video Title 2", "Example Video Title 3"]
      }
    }
  ]
}

Make the niches specific and actionable, not generic categories like "Gaming" - instead use "Indie Horror Game Reviews" or "Minecraft Redstone Tutorials".`,
		channelType, strings.Join(req.Goals, ", "), req.Timeframe, region)
}

func feedPrompt(channelsByNiche map[string][]youtube.Channel, contentFilter string) string {
	var dataSection string
	if len(channelsByNiche) > 0 {
		raw, err := json.MarshalIndent(channelsByNiche, "", "  ")
		if err == nil {
			dataSection = fmt.Sprintf(`I have real YouTube channel data for some niches. Incorporate this data and analyze these channels:
%s

`, raw)
		}
	}

	focus := "Include both long-form and short-form opportunities."
	if contentFilter != "" {
		focus = fmt.Sprintf("Focus on %s content specifically.", contentFilter)
	}

	return fmt.Sprintf(`You are a YouTube trend analyst specializing in faceless YouTube channels. Generate today's top 10 hottest FACELESS YouTube niches based on current trends.

%sFor each niche, provide:
1. A specific, actionable niche name
2. A niche score (0-100) based on current trending potential for FACELESS content
3. Average views per video estimate
4. Average monthly subscriber growth estimate
5. Monetization potential (High/Medium/Low) - consider CPM and sponsorship potential
6. Whether it's suitable for long-form, short-form, or both content types
7. Why it's trending right now
8. Detailed analysis including risks and example titles

Focus specifically on:
- Niches that work well WITHOUT showing your face
- Content that can be created with stock footage, animations, or AI-generated visuals
- Topics with high search volume and viewer retention
- Sustainable niches with monetization potential

Return in this exact JSON format:
{
  "niches": [
    {
      "id": "unique-slug",
      "name": "Specific Niche Name",
      "score": 92,
      "avgViews": 150000,
      "avgSubGrowth": 8000,
      "monetizationRating": "High",
      "facelessFriendly": true,
      "contentType": "long-form",
      "trendingReason": "Brief explanation of why this is hot right now",
      "channels": [
        {
          "name": "Channel Name",
          "subscribers": "1.2M",
          "avgViews": "500K",
          "channelUrl": "https://youtube.com/@channelname",
          "isFaceless": true
        }
      ],
      "details": {
        "whyItWorks": "Detailed explanation of why this faceless niche works",
        "risks": ["Risk 1", "Risk 2"],
        "exampleChannels": ["Channel 1", "Channel 2"],
        "exampleTitles": ["Title 1", "Title 2", "Title 3"]
      }
    }
  ]
}

%s

Make niches specific and actionable. All niches must be FACELESS-FRIENDLY.`, dataSection, focus)
}
