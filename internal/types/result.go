//nolint:revive // types is a standard Go package name pattern
package types

// Phase identifies which extraction pass produced a SectionResult.
// Later phases overwrite earlier ones for the same section.
type Phase int

// Extraction phases, in escalating cost order.
const (
	PhaseScan Phase = iota + 1
	PhaseExtract
	PhaseDeep
)

// String returns the phase name for logs and progress events.
func (p Phase) String() string {
	switch p {
	case PhaseScan:
		return "scan"
	case PhaseExtract:
		return "extract"
	case PhaseDeep:
		return "deep"
	}
	return "unknown"
}

// Item is one entry inside a list-shaped section (a position, a skill, a
// certification, ...). Fields that do not apply to a section are left empty.
type Item struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	Meta        string `json:"meta,omitempty"`
}

// SectionResult is the per-section record produced once per phase.
// A section that could not be located is represented by Exists=false,
// never by a missing map key.
type SectionResult struct {
	Exists       bool   `json:"exists"`
	VisibleCount int    `json:"visible_count"`
	TotalCount   int    `json:"total_count"`
	HasMore      bool   `json:"has_more"`
	DetailURL    string `json:"detail_url,omitempty"`
	Text         string `json:"text,omitempty"`
	CharCount    int    `json:"char_count"`
	Items        []Item `json:"items,omitempty"`
	Phase        Phase  `json:"phase,omitempty"`
}

// Missing returns the canonical result for a section that could not be
// located or whose extraction failed past the retry budget.
func Missing(phase Phase) SectionResult {
	return SectionResult{Exists: false, Phase: phase}
}

// Normalize enforces the count invariants: TotalCount is never below
// VisibleCount, HasMore is derived rather than trusted, and CharCount
// tracks Text when the extractor did not set it explicitly.
func (r *SectionResult) Normalize() {
	if r.TotalCount < r.VisibleCount {
		r.TotalCount = r.VisibleCount
	}
	r.HasMore = r.TotalCount > r.VisibleCount
	if r.CharCount == 0 && r.Text != "" {
		r.CharCount = len([]rune(r.Text))
	}
}
