package search

import (
	"strings"
	"unicode"
)

// stopwords are dropped by Tokenize
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true, "i": true,
	"in": true, "into": true, "is": true, "it": true, "like": true, "me": true,
	"my": true, "of": true, "on": true, "or": true, "so": true, "that": true,
	"the": true, "to": true, "we": true, "with": true, "you": true,
}

// Tokenize splits text into normalized tokens (lowercase words). Single
// letters and stopwords are skipped; short terms such as "ai" or "go" are
// kept.
func Tokenize(text string) []string {
	f := func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c)
	}
	fields := strings.FieldsFunc(text, f)
	var tokens []string
	for _, field := range fields {
		if len([]rune(field)) < 2 {
			continue
		}
		token := strings.ToLower(field)
		if stopwords[token] {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
