package quality

import "fmt"

// Scorer turns an artifact plus context into metrics for one stage kind.
type Scorer interface {
	Assess(a Artifact, c Context) (Metrics, error)
}

// Engine dispatches assessment to the scorer registered for a stage kind.
type Engine struct {
	scorers map[Kind]Scorer
}

// NewEngine builds the engine with the default scorer table.
func NewEngine() *Engine {
	return &Engine{
		scorers: map[Kind]Scorer{
			KindStories:  storyScorer{},
			KindDesign:   designScorer{},
			KindCode:     codeScorer{languages: defaultLanguageAnalyzers()},
			KindSecurity: securityScorer{},
			KindTests:    testScorer{},
			KindQA:       qaScorer{},
		},
	}
}

// Assess scores an artifact with the scorer for kind.
func (e *Engine) Assess(kind Kind, a Artifact, c Context) (Metrics, error) {
	scorer, ok := e.scorers[kind]
	if !ok {
		return Metrics{}, fmt.Errorf("no scorer registered for kind %s", kind)
	}
	return scorer.Assess(a, c)
}
