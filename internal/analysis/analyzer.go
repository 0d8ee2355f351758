// Package analysis wraps the external text-analysis collaborator. It prepares
// deep-extracted section content for an LLM provider and parses the structured
// response into per-section quality scores. The provider is slow and fallible;
// callers must survive every failure here.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/prPMDev/elevateli/internal/prompts"
	"github.com/prPMDev/elevateli/internal/types"
)

// PreparedSection is one section's deep-extracted content ready for scoring.
type PreparedSection struct {
	Section   types.Section `json:"section"`
	Text      string        `json:"text"`
	ItemCount int           `json:"item_count,omitempty"`
}

// Analysis is the analyzer's structured verdict.
type Analysis struct {
	SectionScores   map[types.Section]float64   `json:"sectionScores"`
	Recommendations types.TieredRecommendations `json:"recommendations"`
	Insights        types.Insights              `json:"insights"`
}

// Analyzer is the abstraction over analysis providers.
type Analyzer interface {
	// Analyze scores the prepared sections. Instructions, when non-empty,
	// are appended to the reviewer prompt.
	Analyze(ctx context.Context, sections []PreparedSection, instructions string) (*Analysis, error)
	// Close releases any resources held by the provider client.
	Close() error
}

// defaultModel is the provider model used for profile scoring.
const defaultModel = "gemini-1.5-flash"

// GeminiAnalyzer implements Analyzer for Google Gemini.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates a Gemini-backed analyzer.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, &APICallError{Message: "API key is required"}
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &APICallError{Message: "failed to create Gemini client", Cause: err}
	}
	if model == "" {
		model = defaultModel
	}
	return &GeminiAnalyzer{client: client, model: model}, nil
}

// Analyze sends the prepared sections for scoring and parses the response.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, sections []PreparedSection, instructions string) (*Analysis, error) {
	prompt, err := buildPrompt(sections, instructions)
	if err != nil {
		return nil, err
	}

	model := a.client.GenerativeModel(a.model)
	model.SetTemperature(0.1) // Low temperature for consistent scoring
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &APICallError{Message: "failed to generate content", Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}
	return ParseAnalysis(text)
}

// Close releases resources held by the client.
func (a *GeminiAnalyzer) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// buildPrompt renders the reviewer prompt with the serialized sections.
func buildPrompt(sections []PreparedSection, instructions string) (string, error) {
	payload, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return "", &ParseError{Message: "failed to serialize sections", Cause: err}
	}
	prompt := prompts.Format(prompts.MustGet("analysis.json", "score-profile"), map[string]string{
		"Sections": string(payload),
	})
	if instructions != "" {
		prompt += prompts.Format(prompts.MustGet("analysis.json", "custom-instructions-suffix"), map[string]string{
			"Instructions": instructions,
		})
	}
	return prompt, nil
}

// extractTextFromResponse pulls the text parts out of a Gemini response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &APICallError{Message: "no candidates in response"}
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &APICallError{Message: "no content in response"}
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", &APICallError{Message: "no text parts in response"}
	}
	return strings.Join(parts, ""), nil
}

// Prepare converts a snapshot's deep-extracted sections into analyzer input,
// in canonical order, skipping sections with no content. Truncated lists are
// annotated with their visible/total counts.
func Prepare(snap *types.Snapshot) []PreparedSection {
	var out []PreparedSection
	for _, sec := range types.SectionOrder {
		res := snap.Get(sec)
		if !res.Exists || res.Text == "" {
			continue
		}
		text := res.Text
		if res.HasMore {
			text = fmt.Sprintf("%s\n[%d of %d entries shown]", text, res.VisibleCount, res.TotalCount)
		}
		out = append(out, PreparedSection{Section: sec, Text: text, ItemCount: res.TotalCount})
	}
	return out
}
