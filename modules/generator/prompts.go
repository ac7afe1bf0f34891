package generator

import (
	"fmt"
	"math"
	"strings"
)

const (
	scriptSystemShort = `You are an expert short-form content creator who writes viral TikTok, Instagram Reels, and YouTube Shorts scripts.
You understand platform algorithms, trending formats, and how to create scroll-stopping content that gets views and engagement.
Your scripts are punchy, fast-paced, and optimized for the vertical video format.`

	scriptSystemLong = `You are an expert YouTube script writer who creates engaging, viral-ready long-form scripts.
You understand YouTube's algorithm and know how to create content that maximizes watch time and engagement.
Your scripts are well-structured with hooks, pattern interrupts, and strong calls to action.`

	titleSystem = "You are a YouTube title optimization expert. Always respond with valid JSON only, no markdown formatting or code blocks."
)

var toneInstructions = map[string]string{
	"informative": "Clear, educational, and factual. Focus on what viewers will learn.",
	"curiosity":   "Create intrigue and make viewers NEED to click. Use open loops and mystery.",
	"bold":        "Make strong, confident statements. Be provocative but not clickbait.",
	"emotional":   "Connect with feelings. Use words that evoke emotion and relatability.",
	"punchy":      "Short, direct, and impactful. Every word must earn its place.",
}

var lengthLimits = map[string]int{
	"short":  50,
	"medium": 60,
	"long":   70,
}

var iterateInstructions = map[string]string{
	"improve":   "Make this title better while keeping the same core message. Improve word choice, flow, and impact.",
	"viral":     "Make this title more viral and clickable. Add more intrigue, urgency, or emotional pull.",
	"shorten":   "Make this title shorter and punchier while keeping the key message. Remove unnecessary words.",
	"curiosity": "Add more curiosity and intrigue. Make viewers feel they MUST click to find out more.",
}

// scriptPrompt builds the generation prompt. Short form measures duration in
// seconds, long form in minutes, both targeting ~150 spoken words per minute.
func scriptPrompt(topic, niche, format string, duration int) string {
	if format == formatShort {
		wordCount := int(math.Round(float64(duration) / 60 * 150))
		return fmt.Sprintf(`Create a viral short-form video script for TikTok/Reels/YouTube Shorts:

Topic: %s
Niche: %s
Target Duration: %d seconds
Approximate Word Count: %d words

Requirements:
1. HOOK (first 1-2 seconds): Start with an attention-grabbing statement, question, or visual cue that stops the scroll
2. PROBLEM/INTRIGUE (2-5 seconds): State the problem or create curiosity
3. MAIN CONTENT (bulk of video): Deliver value quickly with punchy, fast-paced points
4. PAYOFF/CTA (last 3-5 seconds): Satisfying conclusion with a clear call to action (follow, like, comment)

Format Guidelines:
- Use [VISUAL:] tags for on-screen text/graphics suggestions
- Use [ACTION:] tags for physical movements or transitions
- Keep sentences SHORT and punchy
- Include trending hooks patterns
- Write for fast-paced, energetic delivery
- Each line should be its own beat/moment

Make it scroll-stopping and highly shareable!`, topic, niche, duration, wordCount)
	}

	wordCount := duration * 150
	sections := longFormSections(duration)
	return fmt.Sprintf(`Create a YouTube long-form video script:

Topic: %s
Niche: %s
Target Duration: %d minutes
Approximate Word Count: %d words
Number of Main Sections: %d

Structure:
1. HOOK (0:00-0:05): Powerful opening that grabs attention immediately
2. INTRO (0:05-0:30): Quick preview of what viewers will learn + why it matters
3. MAIN CONTENT: %d distinct sections with clear transitions
4. ENGAGEMENT PROMPTS: Naturally placed reminders to like, subscribe, comment
5. CONCLUSION: Summary + strong call to action + preview next video

Format Guidelines:
- Use [SECTION:] headers for main content breaks
- Use [B-ROLL:] suggestions for visual variety
- Use [GRAPHICS:] for on-screen text/lower thirds
- Use [TIMESTAMP:] markers at key points
- Include pattern interrupts every 2-3 minutes to maintain attention
- Write conversationally - short sentences, simple words
- Add emphasis markers for **key points**

Make it engaging, valuable, and optimized for watch time!`, topic, niche, duration, wordCount, sections, sections)
}

func longFormSections(minutes int) int {
	switch {
	case minutes <= 5:
		return 3
	case minutes <= 10:
		return 4
	case minutes <= 20:
		return 5
	default:
		return 6
	}
}

// titlePrompt builds either the initial 7-candidate prompt or, when req
// carries a current title and iterate action, a single-title refinement
// prompt.
func titlePrompt(req TitleRequest) string {
	maxChars, ok := lengthLimits[req.Length]
	if !ok {
		maxChars = lengthLimits["medium"]
	}
	toneGuide, ok := toneInstructions[req.Tone]
	if !ok {
		toneGuide = toneInstructions["curiosity"]
	}

	emojiField := ""
	emojiLine := "Do not include emojis."
	if req.ShowEmojis {
		emojiField = `"emojiSuggestion": "relevant emoji",`
		emojiLine = "Suggest a relevant emoji that could enhance the title."
	}

	if req.IterateAction != "" && req.CurrentTitle != "" {
		instruction := iterateInstructions[req.IterateAction]
		return fmt.Sprintf(`You are a YouTube title optimization expert. %s

Current title: %q
Topic: %s
Tone style: %s
Maximum characters: %d
%s

Return exactly 1 improved title in this JSON format:
{
  "titles": [
    {
      "title": "Your improved title here",
      "predictedCtr": 8,
      "charCount": 45,
      %s
      "recommendation": {
        "whyItWorks": "Explanation of why this title is effective",
        "suggestedImprovements": ["Optional improvement 1", "Optional improvement 2"],
        "hookExplanation": "How the hook grabs attention"
      }
    }
  ]
}

Predicted CTR should be 1-10 based on: curiosity factor, emotional impact, specificity, and relevance.`,
			instruction, req.CurrentTitle, req.Topic, toneGuide, maxChars, emojiLine, emojiField)
	}

	var inspiration string
	if req.Inspiration != "" {
		inspiration = fmt.Sprintf("Style inspiration: %s\n", req.Inspiration)
	}
	if req.ShowEmojis {
		emojiLine = "Suggest a relevant emoji for each title that could enhance it."
	}

	return fmt.Sprintf(`You are a world-class YouTube title expert who creates viral, high-CTR titles.

Topic: %s
%sTone style: %s
Maximum characters: %d
%s

Generate 7 unique, high-performing YouTube titles. Each title should:
- Be under %d characters
- Follow the %s tone
- Be optimized for maximum click-through rate
- NOT be clickbait (deliver on the promise)
- Use proven YouTube title patterns (numbers, questions, curiosity gaps, etc.)

Return the titles in this exact JSON format:
{
  "titles": [
    {
      "title": "Your title here",
      "predictedCtr": 8,
      "charCount": 45,
      %s
      "recommendation": {
        "whyItWorks": "Explanation of why this title is effective",
        "suggestedImprovements": ["Optional improvement 1"],
        "hookExplanation": "How the hook grabs attention"
      }
    }
  ]
}

Predicted CTR should be 1-10 based on: curiosity factor, emotional impact, specificity, and relevance.
Make titles diverse - different structures, hooks, and approaches.`,
		req.Topic, inspiration, toneGuide, maxChars, emojiLine, maxChars, strings.TrimSpace(req.Tone), emojiField)
}
