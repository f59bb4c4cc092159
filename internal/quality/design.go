package quality

import (
	"fmt"
	"strings"
)

// designScorer scores a design document for completeness, traceability to
// the input stories, security coverage, and technical best practices.
type designScorer struct{}

func (designScorer) Assess(a Artifact, c Context) (Metrics, error) {
	if a.Design == nil {
		return Metrics{}, fmt.Errorf("design artifact has no parsed document")
	}
	completeness := designCompleteness(a.Design.Functional, a.Design.Technical)
	consistency := designStoryAlignment(a.Design, c.Stories)
	security := designSecurity(a.Design.Technical)
	best := designBestPractices(a.Design.Technical)

	return Metrics{
		Completeness:  completeness,
		Consistency:   consistency,
		Security:      security,
		BestPractices: best,
		Overall:       mean(completeness, consistency, security, best),
	}, nil
}

// designCompleteness scores functional and technical item counts on a step
// function: 5+ items earn the full half-share, 3-4 a partial one, fewer a
// linear fraction.
func designCompleteness(functional, technical []string) float64 {
	share := func(items []string) float64 {
		switch {
		case len(items) >= 5:
			return 0.5
		case len(items) >= 3:
			return 0.35
		default:
			return float64(len(items)) * 0.1
		}
	}
	return clamp01(share(functional) + share(technical))
}

// designStoryAlignment is the fraction of stories whose key terms are
// traceable into the design text. A story counts as covered when at least
// two of its terms appear, or one when the story yields two terms or fewer.
func designStoryAlignment(doc *DesignDoc, stories []string) float64 {
	if len(stories) == 0 {
		return 1.0
	}
	var all []string
	all = append(all, doc.Functional...)
	all = append(all, doc.Technical...)
	all = append(all, doc.Assumptions...)
	designText := strings.ToLower(strings.Join(all, " "))

	covered := 0
	for _, story := range stories {
		terms := keyTerms(story)
		matches := countContained(designText, terms)
		if matches >= 2 || (len(terms) <= 2 && matches >= 1) {
			covered++
		}
	}
	return float64(covered) / float64(len(stories))
}

// technicalAspects is the fixed taxonomy of concerns a thorough design
// mentions; each matched aspect contributes an equal increment.
var technicalAspects = [][]string{
	{"api", "endpoint", "rest", "graphql"},
	{"database", "data model", "schema", "storage"},
	{"security", "authentication", "authorization", "encryption"},
	{"scalability", "performance", "load", "cache"},
	{"error handling", "exception", "validation", "logging"},
	{"test", "testing", "quality"},
	{"deployment", "docker", "cloud", "infrastructure"},
}

func designBestPractices(technical []string) float64 {
	if len(technical) == 0 {
		return 0.3
	}
	text := strings.ToLower(strings.Join(technical, " "))
	score := 0.0
	for _, aspect := range technicalAspects {
		if containsAny(text, aspect) {
			score += 0.14
		}
	}
	return clamp01(score)
}

var designSecurityKeywords = []string{
	"authentication", "authorization", "encryption", "validation",
	"sanitization", "ssl", "https", "token", "security", "access control",
}

func designSecurity(technical []string) float64 {
	score := 0.4
	if len(technical) == 0 {
		return score
	}
	text := strings.ToLower(strings.Join(technical, " "))
	for _, kw := range designSecurityKeywords {
		if strings.Contains(text, kw) {
			score += 0.06
		}
	}
	return clamp01(score)
}
