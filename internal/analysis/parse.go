package analysis

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/prPMDev/elevateli/internal/types"
)

//go:embed analysis_response.schema.json
var responseSchema []byte

// ParseAnalysis decodes the analyzer's raw text output. Markdown code fences
// are stripped, the JSON is validated against the response schema, and
// unknown section names are dropped. Any failure returns a *ParseError;
// callers fall back to the neutral score rather than propagating it.
func ParseAnalysis(raw string) (*Analysis, error) {
	cleaned := cleanJSONBlock(raw)
	if cleaned == "" {
		return nil, &ParseError{Message: "empty response"}
	}

	schemaResult, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(responseSchema),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil {
		return nil, &ParseError{Message: "response is not valid JSON", Cause: err}
	}
	if !schemaResult.Valid() {
		var issues []string
		for _, desc := range schemaResult.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, &ParseError{Message: "response violates schema: " + strings.Join(issues, "; ")}
	}

	var wire struct {
		SectionScores   map[string]float64          `json:"sectionScores"`
		Recommendations types.TieredRecommendations `json:"recommendations"`
		Insights        types.Insights              `json:"insights"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, &ParseError{Message: "failed to decode response", Cause: err}
	}

	result := &Analysis{
		SectionScores:   make(map[types.Section]float64, len(wire.SectionScores)),
		Recommendations: wire.Recommendations,
		Insights:        wire.Insights,
	}
	for name, score := range wire.SectionScores {
		sec := types.Section(strings.ToLower(name))
		if !sec.Known() {
			continue
		}
		result.SectionScores[sec] = score
	}
	if len(result.SectionScores) == 0 {
		return nil, &ParseError{Message: "response contains no known section scores"}
	}
	return result, nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
