// Package graph holds set and frequency helpers shared by the recommender:
// Jaccard overlap of category sets, keyword extraction from reading
// history and category trend analysis.
package graph

// Jaccard returns |a ∩ b| / |a ∪ b| treating both slices as sets.
// Two empty sets have similarity 0.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]bool, len(a))
	for _, x := range a {
		setA[x] = true
	}
	setB := make(map[string]bool, len(b))
	for _, x := range b {
		setB[x] = true
	}

	intersection := 0
	for x := range setA {
		if setB[x] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// Keys returns the keys of m in unspecified order.
func Keys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
