// Package upf derives a heuristic ultra-processed-food score from free-text
// ingredient lists. The score is an estimate, not a certified classification.
package upf

import (
	"regexp"
	"strings"
)

// Score range and tier thresholds. The tiers loosely follow the NOVA groups:
// whole foods, culinary ingredients, processed foods, ultra-processed foods.
const (
	MinScore = 1
	MaxScore = 10

	tierMinimalEntries   = 5
	tierCulinaryEntries  = 8
	tierProcessedEntries = 15

	scoreMinimal   = 1
	scoreCulinary  = 3
	scoreProcessed = 5
	scoreUltraBase = 7
)

// additivePattern matches EU food additive codes like "E330" or "E 160a".
var additivePattern = regexp.MustCompile(`[eE]\s*\d{3}[a-z]?`)

// noIngredientSentinels are catalog phrases meaning "this product has no
// ingredient list". Compared case-insensitively against the whole text.
var noIngredientSentinels = []string{
	"geen ingrediënten",
	"no ingredients",
}

// processingMarkers is the closed vocabulary of Dutch terms indicating
// chemical or industrial processing. Each marker counts at most once, no
// matter how many ingredient entries it appears in.
var processingMarkers = []string{
	"gemodificeerd",
	"gehydrogeneerd",
	"geconcentreerd",
	"extract",
	"isolaat",
	"hydrolysaat",
	"maltodextrine",
	"glucose",
	"fructose",
	"siroop",
	"verdikkingsmiddel",
	"emulgator",
	"stabilisator",
	"conserveermiddel",
	"smaakversterker",
	"kleurstof",
	"aroma",
}

// Score maps a comma-separated ingredient list to a score in [1,10], where 1
// is minimally processed and 10 is ultra-processed. Absence of data is treated
// optimistically: empty input and the known "no ingredients" sentinels score 1.
// The function is pure and deterministic so ranking on it is stable.
func Score(ingredients string) int {
	trimmed := strings.TrimSpace(ingredients)
	if trimmed == "" || isSentinel(trimmed) {
		return MinScore
	}

	additives := len(additivePattern.FindAllString(trimmed, -1))

	entries := splitEntries(trimmed)
	markers := countMarkers(entries)

	var score int
	switch {
	case len(entries) <= tierMinimalEntries && additives == 0 && markers == 0:
		score = scoreMinimal
	case len(entries) <= tierCulinaryEntries && additives <= 1 && markers <= 1:
		score = scoreCulinary
	case len(entries) <= tierProcessedEntries && additives <= 3 && markers <= 3:
		score = scoreProcessed
	default:
		// Scale above the ultra-processed base with additive and marker density.
		extra := additives/2 + markers/3
		if extra > 3 {
			extra = 3
		}
		score = scoreUltraBase + extra
	}

	if score > MaxScore {
		score = MaxScore
	}
	if score < MinScore {
		score = MinScore
	}
	return score
}

func isSentinel(text string) bool {
	lower := strings.ToLower(text)
	for _, s := range noIngredientSentinels {
		if lower == s {
			return true
		}
	}
	return false
}

// splitEntries tokenizes the list on commas and trims each entry.
func splitEntries(text string) []string {
	parts := strings.Split(text, ",")
	entries := make([]string, 0, len(parts))
	for _, p := range parts {
		entries = append(entries, strings.TrimSpace(p))
	}
	return entries
}

// countMarkers counts how many processing markers appear as a substring of at
// least one ingredient entry.
func countMarkers(entries []string) int {
	lowered := make([]string, len(entries))
	for i, e := range entries {
		lowered[i] = strings.ToLower(e)
	}

	count := 0
	for _, marker := range processingMarkers {
		for _, entry := range lowered {
			if strings.Contains(entry, marker) {
				count++
				break
			}
		}
	}
	return count
}
