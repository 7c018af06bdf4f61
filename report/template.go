package report

import "strings"

// RequiredSections are the section headings every generated analysis
// must contain. The model is reminded of them twice, once in the system
// prompt and once in the directive block below; drift in either spot
// shows up as missing headings in the response.
var RequiredSections = []string{
	"Executive Summary",
	"List of Top Competitors",
	"Industry Analysis",
	"Market Positioning",
	"Competitive Analysis",
	"Strategic Recommendations",
	"Risk Assessment",
}

// directiveMarker opens the section requirements in the prompt. Keep the
// wording stable: integrity checks search for it verbatim.
const directiveMarker = "Your analysis should include all of the following"

const analysisTemplate = `Based on the following context about our business and competitors:

{context}

Please provide a detailed competitor analysis for this request: {query}

Your analysis should include all of the following sections:

1. Executive Summary
2. List of Top Competitors
3. Industry Analysis
4. Market Positioning
5. Competitive Analysis
6. Strategic Recommendations
7. Risk Assessment

Ensure your analysis is thorough, specific, and grounded in the provided context.`

// Fallback block contents when a retrieval partition came back empty.
const (
	noCompetitorContext = "No competitor information available."
	noBusinessContext   = "No business information available."
)

// BuildPrompt renders the analysis prompt from the query and the two
// retrieval blocks. Empty blocks are replaced with explicit "nothing
// found" statements so the model does not hallucinate sources.
func BuildPrompt(query, competitorBlock, businessBlock string) string {
	if strings.TrimSpace(competitorBlock) == "" {
		competitorBlock = noCompetitorContext
	}
	if strings.TrimSpace(businessBlock) == "" {
		businessBlock = noBusinessContext
	}

	context := "Competitor Information:\n" + competitorBlock +
		"\n\nBusiness Information:\n" + businessBlock

	replacer := strings.NewReplacer(
		"{context}", context,
		"{query}", query,
	)

	return replacer.Replace(analysisTemplate)
}

// MissingSections returns the required section headings absent from
// text, in contract order. A nil result means the analysis is complete.
func MissingSections(text string) []string {
	var missing []string
	for _, section := range RequiredSections {
		if !strings.Contains(text, section) {
			missing = append(missing, section)
		}
	}
	return missing
}

// hasDirective reports whether the rendered prompt still carries the
// section requirements block.
func hasDirective(prompt string) bool {
	return strings.Contains(prompt, directiveMarker)
}
