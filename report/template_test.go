package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(
		"How do we stack up against Acme?",
		"Acme ships weekly and undercuts on price.",
		"We serve mid-market analytics teams.",
	)

	assert.Contains(t, prompt, "How do we stack up against Acme?")
	assert.Contains(t, prompt, "Competitor Information:\nAcme ships weekly and undercuts on price.")
	assert.Contains(t, prompt, "Business Information:\nWe serve mid-market analytics teams.")
	assert.Contains(t, prompt, directiveMarker)
	assert.Contains(t, prompt, "Ensure your analysis is thorough")

	for i := 0; i < len(RequiredSections); i++ {
		assert.Contains(t, prompt, RequiredSections[i])
	}

	assert.NotContains(t, prompt, "{context}")
	assert.NotContains(t, prompt, "{query}")
	assert.True(t, hasDirective(prompt))
}

func TestBuildPromptEmptyBlocks(t *testing.T) {
	prompt := BuildPrompt("market overview", "", "   ")

	assert.Contains(t, prompt, "No competitor information available.")
	assert.Contains(t, prompt, "No business information available.")
}

func TestRequiredSectionsContract(t *testing.T) {
	require.Len(t, RequiredSections, 7)
	assert.Equal(t, "Executive Summary", RequiredSections[0])
	assert.Equal(t, "Risk Assessment", RequiredSections[6])
}

func TestMissingSections(t *testing.T) {
	t.Run("CompleteAnalysis", func(t *testing.T) {
		var full strings.Builder
		for i := 0; i < len(RequiredSections); i++ {
			full.WriteString("## " + RequiredSections[i] + "\nSome findings.\n\n")
		}
		assert.Nil(t, MissingSections(full.String()))
	})

	t.Run("PartialAnalysis", func(t *testing.T) {
		text := "Executive Summary\n...\nIndustry Analysis\n...\nRisk Assessment\n..."
		missing := MissingSections(text)
		assert.Equal(t, []string{
			"List of Top Competitors",
			"Market Positioning",
			"Competitive Analysis",
			"Strategic Recommendations",
		}, missing)
	})

	t.Run("EmptyText", func(t *testing.T) {
		assert.Len(t, MissingSections(""), 7)
	})
}
