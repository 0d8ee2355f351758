package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardPath(t *testing.T) {
	path := []State{
		StateInitializing, StateScanning, StateExtracting,
		StateCalculating, StateAIAnalyzing, StateComplete,
	}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, CanTransition(path[i], path[i+1]),
			"%s -> %s must be legal", path[i], path[i+1])
	}
}

func TestCanTransition_NoBackwardMoves(t *testing.T) {
	assert.False(t, CanTransition(StateExtracting, StateScanning))
	assert.False(t, CanTransition(StateComplete, StateScanning))
	assert.False(t, CanTransition(StateAIAnalyzing, StateCalculating))
}

func TestCanTransition_ErrorReachableFromActiveStates(t *testing.T) {
	for _, from := range []State{
		StateInitializing, StateScanning, StateExtracting,
		StateCalculating, StateAIAnalyzing,
	} {
		assert.True(t, CanTransition(from, StateError), "from %s", from)
	}
}

func TestCanTransition_TerminalStatesAreFinal(t *testing.T) {
	for _, from := range []State{StateComplete, StateError} {
		for _, to := range []State{
			StateInitializing, StateScanning, StateExtracting,
			StateCalculating, StateAIAnalyzing, StateComplete, StateError,
		} {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_CalculatingReentrantForRefresh(t *testing.T) {
	assert.True(t, CanTransition(StateCalculating, StateCalculating))
}
