package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode"

	"google.golang.org/genai"

	"github.com/inkwell-app/inkwell-backend/internal/models"
)

// fallbackSummaryMax is the truncation point for locally derived summaries.
const fallbackSummaryMax = 120

// Analyzer derives a summary and a mood label from entry text. Analyze never
// fails: when the Gemini client is absent or errors, a deterministic local
// fallback runs instead, so every persisted entry carries an annotation.
type Analyzer struct {
	client *genai.Client
	model  string
}

// NewAnalyzer builds an Analyzer. An empty apiKey (or a client construction
// failure) yields a fallback-only analyzer, never an error.
func NewAnalyzer(ctx context.Context, apiKey, model string) *Analyzer {
	if apiKey == "" {
		log.Println("No Gemini API key configured, using fallback analysis only")
		return &Analyzer{}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		log.Printf("Failed to create Gemini client, using fallback analysis only: %v", err)
		return &Analyzer{}
	}

	log.Println("✅ Gemini analyzer initialized")
	return &Analyzer{client: client, model: model}
}

// analysisSchema constrains the model output: mood must be one of the closed
// set, summary a short free-text field.
func analysisSchema() *genai.Schema {
	moods := models.Moods()
	enum := make([]string, len(moods))
	for i, m := range moods {
		enum[i] = string(m)
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {
				Type:        genai.TypeString,
				Description: "A brief 1-2 sentence summary of the journal entry",
			},
			"mood": {
				Type:        genai.TypeString,
				Enum:        enum,
				Description: "The primary mood detected in the journal entry",
			},
		},
		Required: []string{"summary", "mood"},
	}
}

// Analyze returns an annotation for text. The external call is best-effort;
// any error is logged and the fallback result returned.
func (a *Analyzer) Analyze(ctx context.Context, text string) models.Analysis {
	if a.client == nil {
		return fallbackAnalysis(text)
	}

	analysis, err := a.generate(ctx, text)
	if err != nil {
		log.Printf("Gemini analysis failed, using fallback: %v", err)
		return fallbackAnalysis(text)
	}
	return analysis
}

func (a *Analyzer) generate(ctx context.Context, text string) (models.Analysis, error) {
	prompt := fmt.Sprintf("Analyze this journal entry and provide a brief summary and detect the primary mood:\n\n%q\n\nBe empathetic and accurate in your analysis.", text)

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema(),
	})
	if err != nil {
		return models.Analysis{}, err
	}

	var analysis models.Analysis
	if err := json.Unmarshal([]byte(resp.Text()), &analysis); err != nil {
		return models.Analysis{}, fmt.Errorf("decoding analysis response: %w", err)
	}
	if strings.TrimSpace(analysis.Summary) == "" || !analysis.Mood.Valid() {
		return models.Analysis{}, fmt.Errorf("analysis response missing summary or valid mood")
	}
	return analysis, nil
}

func fallbackAnalysis(text string) models.Analysis {
	return models.Analysis{
		Summary: fallbackSummary(text, fallbackSummaryMax),
		Mood:    detectMoodFromText(text),
	}
}

// fallbackSummary truncates text to max characters on a clean boundary and
// marks the truncation with an ellipsis.
func fallbackSummary(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := strings.TrimRightFunc(string(runes[:max]), unicode.IsSpace)
	return cut + "…"
}

type moodRule struct {
	mood models.Mood
	cues []string
}

// moodRules is an ordered table; the first rule with a matching cue wins.
var moodRules = []moodRule{
	{models.MoodHappy, []string{"happy", "joy", "excited", "great"}},
	{models.MoodSad, []string{"sad", "down", "depressed"}},
	{models.MoodAnxious, []string{"anxious", "worried", "nervous"}},
	{models.MoodGrateful, []string{"grateful", "thankful", "blessed"}},
	{models.MoodCalm, []string{"calm", "peaceful", "serene"}},
	{models.MoodFrustrated, []string{"frustrated", "angry", "annoyed"}},
	{models.MoodEnergetic, []string{"energy", "energetic", "pumped"}},
}

// detectMoodFromText is a case-insensitive keyword scan over the fixed rule
// table. No match defaults to reflective.
func detectMoodFromText(text string) models.Mood {
	lower := strings.ToLower(text)
	for _, rule := range moodRules {
		for _, cue := range rule.cues {
			if strings.Contains(lower, cue) {
				return rule.mood
			}
		}
	}
	return models.MoodReflective
}
