package quality

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\b\w{4,}\b`)

// stopwords are filler tokens excluded from keyword alignment checks.
var stopwords = map[string]bool{
	"that": true,
	"with": true,
	"have": true,
	"will": true,
	"this": true,
	"from": true,
	"they": true,
	"want": true,
}

// keywords extracts the lowercase tokens of length >= 4, minus stopwords.
func keywords(text string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if !stopwords[w] {
			out[w] = true
		}
	}
	return out
}

// keyTerms is the ordered variant of keywords, used where match counts per
// item matter.
func keyTerms(text string) []string {
	var out []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if !stopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func countContained(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}
