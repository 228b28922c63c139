package graph

import (
	"sort"
	"unicode/utf8"

	"github.com/julienpequegnot/phynews/internal/lexical"
)

// ExtractKeywords returns the distinct significant words of content in
// order of first appearance. Words shorter than minLen runes are skipped.
func ExtractKeywords(content string, minLen int) []string {
	seen := make(map[string]bool)
	var keywords []string

	for _, word := range lexical.Tokenize(content) {
		if utf8.RuneCountInString(word) >= minLen && !seen[word] {
			seen[word] = true
			keywords = append(keywords, word)
		}
	}

	return keywords
}

// KeywordCount is a word with the number of titles it appeared in.
type KeywordCount struct {
	Word  string
	Count int
}

// TopKeywords counts in how many titles each word of four letters or more
// appears and returns the limit most frequent, ties broken alphabetically.
func TopKeywords(titles []string, limit int) []KeywordCount {
	counts := make(map[string]int)
	for _, title := range titles {
		for _, word := range ExtractKeywords(title, 4) {
			counts[word]++
		}
	}

	top := make([]KeywordCount, 0, len(counts))
	for word, count := range counts {
		top = append(top, KeywordCount{Word: word, Count: count})
	}

	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Word < top[j].Word
	})

	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top
}
