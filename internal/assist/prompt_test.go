package assist

import (
	"strings"
	"testing"

	"digestsim/internal/registry"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptFeedstockOnly(t *testing.T) {
	prompt := BuildPrompt("pig slurry, high protein", false)

	assert.Contains(t, prompt, "pig slurry, high protein")
	for _, s := range registry.Feedstock() {
		assert.Contains(t, prompt, `"`+s.Name+`"`, "schema line for %s", s.Name)
	}
	// Feedstock-only mode must not enumerate kinetic keys.
	assert.NotContains(t, prompt, `"k_su"`)
	assert.NotContains(t, prompt, `"f_ac_pro"`)
}

func TestBuildPromptWithKinetics(t *testing.T) {
	prompt := BuildPrompt("food waste, 40% carbs", true)

	for _, s := range registry.Feedstock() {
		assert.Contains(t, prompt, `"`+s.Name+`"`)
	}
	for _, s := range registry.Kinetics() {
		assert.Contains(t, prompt, `"`+s.Name+`"`)
	}
}

func TestSchemaLinesCarryUnits(t *testing.T) {
	lines := schemaLines(registry.Kinetics())
	assert.Contains(t, lines, `"K_su": [value, "kg COD/m3", "explanation"]`)
	assert.Contains(t, lines, `"KI_nh3": [value, "M", "explanation"]`)

	// One line per registry entry, comma-separated except the last.
	n := strings.Count(lines, "[value,")
	assert.Equal(t, len(registry.Kinetics()), n)
}
