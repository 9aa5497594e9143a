// Package parser extracts care metadata from the analysis markdown returned
// by the AI collaborator. The upstream format is not contractually guaranteed,
// so everything here is best-effort pattern matching behind one narrow
// boundary: when extraction fails the caller gets a zero value, never an error.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FallbackPlantName is used when the markdown carries no level-1 heading
const FallbackPlantName = "Unknown Plant"

var markdown = goldmark.New()

var (
	// Water section runs from its header to the next ### header (or EOF).
	// Matches the English and Turkish section titles the assistant emits.
	waterSectionRe = regexp.MustCompile(`(?is)(?:### 💧|water needs|su ihtiyacı)(.*?)(?:###|$)`)

	// "7 days", "7-14 days", "7 gün" — first number wins, ranges are not averaged
	daysRe  = regexp.MustCompile(`(?i)(\d+)\s*-?\s*\d*\s*(?:days|gün)`)
	weeksRe = regexp.MustCompile(`(?i)(\d+)\s*-?\s*\d*\s*(?:weeks|hafta)`)

	soilRe       = regexp.MustCompile(`(?i)\*\*(?:Soil|Toprak):\*\*\s*(.+)`)
	scientificRe = regexp.MustCompile(`(?i)\*\*Scientific Name:\*\*\s*\*?([^*\n]+)\*?`)
)

// PlantName returns the first level-1 heading of the markdown, or
// FallbackPlantName when there is none.
func PlantName(md string) string {
	source := []byte(md)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var name string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok && heading.Level == 1 {
			var sb strings.Builder
			for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
				if t, ok := child.(*ast.Text); ok {
					sb.Write(t.Segment.Value(source))
				}
			}
			name = strings.TrimSpace(sb.String())
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if name == "" {
		return FallbackPlantName
	}
	return name
}

// ScientificName returns the scientific name line, stripped of emphasis,
// or "" when absent.
func ScientificName(md string) string {
	match := scientificRe.FindStringSubmatch(md)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(strings.Trim(match[1], "* "))
}

// WateringDays extracts the recommended watering frequency in days from the
// water-needs section: the first "N days" match wins, otherwise the first
// "N weeks" match times seven. Returns 0 when nothing matches.
func WateringDays(md string) int {
	section := waterSectionRe.FindStringSubmatch(strings.ToLower(md))
	if section == nil {
		return 0
	}
	waterText := section[1]

	if match := daysRe.FindStringSubmatch(waterText); match != nil {
		days, _ := strconv.Atoi(match[1])
		return days
	}

	if match := weeksRe.FindStringSubmatch(waterText); match != nil {
		weeks, _ := strconv.Atoi(match[1])
		return weeks * 7
	}

	return 0
}

// SoilType returns the soil description from a "**Soil:**" (or localized
// "**Toprak:**") line, or "" when absent.
func SoilType(md string) string {
	match := soilRe.FindStringSubmatch(md)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}
