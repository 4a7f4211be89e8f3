package usecase

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/upfchecker/backend/internal/domain"
)

// Weights for combining the two similarity signals. Character-sequence
// similarity dominates, word overlap refines.
const (
	sequenceWeight = 0.7
	overlapWeight  = 0.3
)

// SimilarityService filters and reorders products by approximate textual
// relevance to a query. It is a fallback for when a catalog's own search
// under-returns, not semantic search.
type SimilarityService struct {
	logger *zap.Logger
}

// NewSimilarityService creates a similarity ranking service.
func NewSimilarityService(logger *zap.Logger) *SimilarityService {
	return &SimilarityService{logger: logger}
}

// Rank returns the products whose combined similarity to the query meets the
// threshold, ordered by similarity descending. A candidate containing any
// query token verbatim is always kept, so an exact keyword hit can never be
// excluded by a low aggregate score. The sort is stable: ties keep their
// original relative order. An empty query returns the input unchanged.
func (s *SimilarityService) Rank(products []domain.Product, query string, threshold float64) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(products) == 0 {
		return products
	}
	queryTokens := strings.Fields(query)

	type scoredProduct struct {
		product domain.Product
		score   float64
	}

	kept := make([]scoredProduct, 0, len(products))
	for _, p := range products {
		text := strings.ToLower(strings.TrimSpace(p.Name + " " + p.Brand))
		combined := sequenceWeight*sequenceRatio(query, text) +
			overlapWeight*tokenOverlap(queryTokens, strings.Fields(text))

		if combined >= threshold || containsAnyToken(text, queryTokens) {
			kept = append(kept, scoredProduct{product: p, score: combined})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})

	s.logger.Debug("similarity ranking applied",
		zap.String("query", query),
		zap.Int("in", len(products)),
		zap.Int("kept", len(kept)))

	ranked := make([]domain.Product, len(kept))
	for i, sp := range kept {
		ranked[i] = sp.product
	}
	return ranked
}

// sequenceRatio maps Levenshtein edit distance to a similarity ratio in [0,1].
func sequenceRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshteinDistance(a, b))/float64(longest)
}

// tokenOverlap computes the Jaccard ratio between two token lists.
func tokenOverlap(tokens1, tokens2 []string) float64 {
	set := make(map[string]bool, len(tokens1))
	for _, t := range tokens1 {
		set[t] = true
	}

	union := make(map[string]bool, len(tokens1)+len(tokens2))
	for _, t := range tokens1 {
		union[t] = true
	}

	intersection := 0
	seen := make(map[string]bool, len(tokens2))
	for _, t := range tokens2 {
		union[t] = true
		if set[t] && !seen[t] {
			intersection++
			seen[t] = true
		}
	}

	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

// containsAnyToken reports whether any query token appears verbatim as a
// substring of the candidate text.
func containsAnyToken(text string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
