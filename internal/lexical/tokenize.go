package lexical

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stopWords = map[string]bool{
	"the": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "from": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"could": true, "should": true, "may": true, "might": true, "must": true,
	"this": true, "that": true, "these": true, "those": true,
	"it": true, "its": true, "we": true, "our": true, "they": true,
	"what": true, "which": true, "who": true, "when": true, "where": true,
	"why": true, "how": true, "all": true, "each": true, "both": true,
	"more": true, "most": true, "other": true, "some": true, "such": true,
	"no": true, "not": true, "only": true, "same": true, "so": true,
	"than": true, "too": true, "very": true, "also": true, "as": true,
	"into": true, "can": true, "via": true, "using": true,
	"their": true, "there": true, "if": true,
}

// Tokenize lower-cases and accent-folds text, then splits it on anything
// that is not a letter or digit. Tokens shorter than two runes and stop
// words are dropped.
func Tokenize(text string) []string {
	text = strings.ToLower(fold(text))

	var tokens []string
	var current strings.Builder
	runesInToken := 0

	flush := func() {
		if runesInToken >= 2 {
			token := current.String()
			if !stopWords[token] {
				tokens = append(tokens, token)
			}
		}
		current.Reset()
		runesInToken = 0
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
			runesInToken++
		} else if current.Len() > 0 {
			flush()
		}
	}
	flush()

	return tokens
}

// fold strips combining marks so "Schrödinger" and "Schrodinger" tokenize
// alike. The transformer chain keeps state, so one is built per call.
func fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}
