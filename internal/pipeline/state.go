package pipeline

import "github.com/prPMDev/elevateli/internal/types"

// State is one phase of an analysis run.
type State string

// Run states. Transitions are one-directional except that CALCULATING may be
// re-entered on a forced refresh; ERROR is reachable from any state.
const (
	StateInitializing State = "INITIALIZING"
	StateScanning     State = "SCANNING"
	StateExtracting   State = "EXTRACTING"
	StateCalculating  State = "CALCULATING"
	StateAIAnalyzing  State = "AI_ANALYZING"
	StateComplete     State = "COMPLETE"
	StateError        State = "ERROR"
)

// validNext enumerates the permitted forward transitions.
var validNext = map[State][]State{
	StateInitializing: {StateScanning, StateError},
	StateScanning:     {StateExtracting, StateError},
	StateExtracting:   {StateCalculating, StateError},
	StateCalculating:  {StateAIAnalyzing, StateComplete, StateCalculating, StateError},
	StateAIAnalyzing:  {StateComplete, StateError},
	StateComplete:     {},
	StateError:        {},
}

// CanTransition reports whether moving from one state to another is legal.
func CanTransition(from, to State) bool {
	for _, next := range validNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ProgressEvent is one state-transition notification for the UI surface.
// The core never renders; consumers do.
type ProgressEvent struct {
	State        State         `json:"state"`
	Section      types.Section `json:"section,omitempty"`
	ItemCount    int           `json:"item_count,omitempty"`
	Completeness *int          `json:"completeness,omitempty"`
	QualityScore *float64      `json:"quality_score,omitempty"`
	Message      string        `json:"message,omitempty"`
	RunID        int64         `json:"run_id,omitempty"`
}

// ProgressCallback is invoked on each progress event. Callbacks from a
// superseded run are suppressed before they fire.
type ProgressCallback func(event ProgressEvent)
