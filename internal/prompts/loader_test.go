package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get("analysis.json", "score-profile")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "{{.Sections}}")
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("analysis.json", "no-such-key")
	assert.Error(t, err)
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "score-profile")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	got := Format("Hello {{.Name}}, {{.Name}} again: {{.Other}}", map[string]string{
		"Name":  "world",
		"Other": "done",
	})
	assert.Equal(t, "Hello world, world again: done", got)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() { MustGet("analysis.json", "definitely-missing") })
}
