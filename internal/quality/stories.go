package quality

import "strings"

// storyScorer scores generated user stories against the canonical
// "As a / I want / So that" shape and the originating requirements.
type storyScorer struct{}

func (storyScorer) Assess(a Artifact, c Context) (Metrics, error) {
	completeness := storyCompleteness(a.Stories)
	consistency := requirementsAlignment(a.Stories, c.Requirements)
	best := storyBestPractices(a.Stories)

	return Metrics{
		Completeness:  completeness,
		Consistency:   consistency,
		Security:      notApplicable,
		BestPractices: best,
		Overall:       mean(completeness, consistency, best),
	}, nil
}

// storyCompleteness grants full credit for the role/goal/benefit triple,
// partial credit for role+goal, minimal credit for a single clause.
func storyCompleteness(stories []string) float64 {
	if len(stories) == 0 {
		return 0
	}
	credit := 0.0
	for _, story := range stories {
		s := strings.ToLower(story)
		hasRole := strings.Contains(s, "as a")
		hasGoal := strings.Contains(s, "i want")
		hasBenefit := strings.Contains(s, "so that")
		switch {
		case hasRole && hasGoal && hasBenefit:
			credit += 1.0
		case hasRole && hasGoal:
			credit += 0.7
		case hasRole || hasGoal || hasBenefit:
			credit += 0.3
		}
	}
	return credit / float64(len(stories))
}

// requirementsAlignment measures the fraction of requirement keywords that
// reappear in the stories. 0.5 when the requirements yield no keywords.
func requirementsAlignment(stories []string, requirements string) float64 {
	if requirements == "" || len(stories) == 0 {
		return 0
	}
	reqWords := keywords(requirements)
	if len(reqWords) == 0 {
		return 0.5
	}
	storyWords := keywords(strings.Join(stories, " "))
	common := 0
	for w := range reqWords {
		if storyWords[w] {
			common++
		}
	}
	return clamp01(float64(common) / float64(len(reqWords)))
}

var testableIndicators = []string{"validate", "verify", "ensure", "check", "confirm"}

// storyBestPractices starts at 1.0 and deducts for length problems,
// duplicates, and an insufficient share of testable stories.
func storyBestPractices(stories []string) float64 {
	if len(stories) == 0 {
		return 0
	}
	score := 1.0
	for _, story := range stories {
		words := len(strings.Fields(story))
		if words < 8 {
			score -= 0.1
		} else if words > 60 {
			score -= 0.1
		}
	}

	unique := make(map[string]bool, len(stories))
	for _, story := range stories {
		unique[story] = true
	}
	if len(unique) < len(stories) {
		score -= 0.2
	}

	testable := 0
	for _, story := range stories {
		if containsAny(strings.ToLower(story), testableIndicators) {
			testable++
		}
	}
	if float64(testable) < float64(len(stories))*0.3 {
		score -= 0.15
	}

	return clamp01(score)
}
