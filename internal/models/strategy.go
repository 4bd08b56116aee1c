package models

import "time"

// ContentPillar is one thematic lane within a strategy. Three are expected
// per strategy but the parser tolerates fewer.
type ContentPillar struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ContentStrategy is one of the five options recovered from a Phase-1
// response. Fields the parser could not extract hold their zero value and
// are reported as warnings alongside the result.
type ContentStrategy struct {
	Number           int               `json:"strategyNumber"`
	Name             string            `json:"name"`
	Tagline          string            `json:"tagline"`
	CoreApproach     string            `json:"coreApproach"`
	WhyThisStrategy  string            `json:"whyThisStrategy,omitempty"`
	Pillars          []ContentPillar   `json:"contentPillars"`
	PostingFrequency map[string]string `json:"postingFrequency"` // channel -> cadence text
	ContentMix       map[string]int    `json:"contentMix"`       // category -> percentage
	TopIdeas         []string          `json:"topIdeas"`         // at most 3
	Effort           string            `json:"effort,omitempty"`
	ExpectedResults  []string          `json:"expectedResults,omitempty"`
	Pros             []string          `json:"pros"`
	Cons             []string          `json:"cons"`
	Recommended      bool              `json:"recommended"`
}

// StrategyRecommendation is the closing RECOMMENDATION block of a Phase-1
// response: which strategy the model endorses and why.
type StrategyRecommendation struct {
	StrategyNumber int      `json:"strategyNumber"`
	Reasoning      string   `json:"reasoning,omitempty"`
	Week1Actions   []string `json:"week1Actions,omitempty"`
}

// StrategySet is the persisted Phase-1 outcome a calendar run resumes from.
type StrategySet struct {
	Strategies     []ContentStrategy       `json:"strategies"`
	Recommendation *StrategyRecommendation `json:"recommendation,omitempty"`
	GeneratedAt    time.Time               `json:"generatedAt"`
}

// Strategy returns the 1-based strategy with the given number, or nil.
func (s *StrategySet) Strategy(number int) *ContentStrategy {
	for i := range s.Strategies {
		if s.Strategies[i].Number == number {
			return &s.Strategies[i]
		}
	}
	return nil
}
