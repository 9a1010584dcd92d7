package service

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/milantony05/smart-kissan/internal/database/repository"
)

// FieldSearch ranks saved fields against a query for the jump-to-field
// picker. Substring matches rank first, then closest edit distance.
type FieldSearch struct{}

type scoredField struct {
	field repository.Field
	score float64
}

// Rank returns fields ordered best-match first. An empty query returns the
// input order unchanged.
func (FieldSearch) Rank(fields []repository.Field, query string) []repository.Field {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return fields
	}

	scored := make([]scoredField, 0, len(fields))
	for _, f := range fields {
		scored = append(scored, scoredField{field: f, score: matchScore(strings.ToLower(f.Name), q)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	out := make([]repository.Field, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.field)
	}
	return out
}

// matchScore is 1 for substring matches, otherwise normalized edit
// similarity in [0,1).
func matchScore(name, query string) float64 {
	if strings.Contains(name, query) {
		return 1
	}
	longest := max(len(name), len(query))
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(name, query)
	sim := 1 - float64(dist)/float64(longest)
	if sim >= 1 {
		sim = 0.99
	}
	return sim
}
