package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	stderrors "strategist-pipeline/internal/common/errors"
	"strategist-pipeline/internal/models"
)

const expectedStrategies = 5

var (
	strategyHeadingRe = regexp.MustCompile(`(?im)^\s*(?:#{1,3}\s*)?(?:\*\*)?strategy\s+#?\s*(\d+)\s*[:.]?\s*(.*)$`)
	recommendationRe  = regexp.MustCompile(`(?im)^\s*(?:#{1,3}\s*)?(?:\*\*)?recommendation(?:\*\*)?\s*$`)

	nameLabelRe     = labelPattern(`strategy name|name`)
	taglineRe       = labelPattern(`tagline`)
	approachRe      = labelPattern(`core approach|approach`)
	whyRe           = labelPattern(`why this strategy|why`)
	pillarsRe       = labelPattern(`content pillars|pillars`)
	frequencyRe     = labelPattern(`posting frequency|frequency`)
	mixRe           = labelPattern(`content mix`)
	ideasRe         = labelPattern(`top \d+ content ideas|content ideas`)
	effortLabelRe   = labelPattern(`effort`)
	resultsRe       = labelPattern(`30-day results|expected results`)
	prosRe          = labelPattern(`pros`)
	consRe          = labelPattern(`cons`)
	bestStrategyRe  = labelPattern(`best strategy`)
	actionPlanRe    = labelPattern(`week 1 action plan|week 1 actions`)
	pillarDescRe    = regexp.MustCompile(`^([^:]+):\s*(.+)$`)
	mixEntryRe      = regexp.MustCompile(`(?i)([A-Za-z][A-Za-z ]*?)\s*:?\s*(\d{1,3})\s*%`)
	mixEntryFlipRe  = regexp.MustCompile(`(?i)(\d{1,3})\s*%\s*([A-Za-z][A-Za-z ]*)`)
	freqEntryRe     = regexp.MustCompile(`^(.+?)[\s:]+(\d.*)$`)
	strategyRefRe   = regexp.MustCompile(`(?i)(?:strategy\s*#?\s*)?(\d)`)

	mixSumTolerance = 5
)

// ParseStrategies recovers the five strategy options and the closing
// recommendation from a Phase-1 response. Missing sub-fields become
// warnings, not failures; only zero recognizable blocks is fatal.
func ParseStrategies(raw string) (*models.StrategySet, []Warning, error) {
	blocks := splitBlocks(raw, strategyHeadingRe, recommendationRe)
	if len(blocks) == 0 {
		return nil, nil, stderrors.NewResponseUnparseableError("strategies")
	}

	var warnings []Warning
	if len(blocks) != expectedStrategies {
		warnings = append(warnings, warnf(0, "strategies",
			fmt.Sprintf("expected %d strategy blocks, recovered %d", expectedStrategies, len(blocks))))
	}

	// GeneratedAt is stamped by the orchestrator; parsing the same text
	// twice yields identical sets.
	set := &models.StrategySet{
		Strategies: make([]models.ContentStrategy, 0, len(blocks)),
	}
	for i := range blocks {
		strategy, blockWarnings := parseStrategyBlock(&blocks[i], i+1)
		set.Strategies = append(set.Strategies, strategy)
		warnings = append(warnings, blockWarnings...)
	}

	rec, recWarnings := parseRecommendation(raw)
	warnings = append(warnings, recWarnings...)
	if rec != nil {
		set.Recommendation = rec
		if chosen := set.Strategy(rec.StrategyNumber); chosen != nil {
			chosen.Recommended = true
		}
	}

	return set, warnings, nil
}

func parseStrategyBlock(b *block, index int) (models.ContentStrategy, []Warning) {
	var warnings []Warning
	missing := func(field string) {
		warnings = append(warnings, warnf(index, field, "field not found in block"))
	}

	s := models.ContentStrategy{
		Number:           b.number,
		Name:             b.heading,
		PostingFrequency: map[string]string{},
		ContentMix:       map[string]int{},
	}
	if s.Number == 0 {
		s.Number = index
	}

	if s.Name == "" {
		if v, ok := b.labelValue(nameLabelRe); ok && v != "" {
			s.Name = v
		} else {
			missing("name")
		}
	}
	if v, ok := b.labelValue(taglineRe); ok && v != "" {
		s.Tagline = v
	} else {
		missing("tagline")
	}
	if v, ok := b.labelValue(approachRe); ok && v != "" {
		s.CoreApproach = v
	} else {
		missing("coreApproach")
	}
	// Optional in older response shapes, so absence is not warned.
	if v, ok := b.labelValue(whyRe); ok {
		s.WhyThisStrategy = v
	}

	if v, ok := b.lineValue(pillarsRe); ok && v != "" {
		for _, part := range strings.Split(v, "|") {
			part = trimDecoration(part)
			if part == "" {
				continue
			}
			pillar := models.ContentPillar{Name: part}
			if m := pillarDescRe.FindStringSubmatch(part); m != nil {
				pillar.Name = strings.TrimSpace(m[1])
				pillar.Description = strings.TrimSpace(m[2])
			}
			s.Pillars = append(s.Pillars, pillar)
		}
	}
	if len(s.Pillars) == 0 {
		missing("contentPillars")
	}

	if v, ok := b.lineValue(frequencyRe); ok && v != "" {
		for _, part := range strings.Split(v, ",") {
			if m := freqEntryRe.FindStringSubmatch(strings.TrimSpace(part)); m != nil {
				s.PostingFrequency[trimDecoration(m[1])] = strings.TrimSpace(m[2])
			}
		}
	}
	if len(s.PostingFrequency) == 0 {
		missing("postingFrequency")
	}

	if v, ok := b.lineValue(mixRe); ok && v != "" {
		parseContentMix(v, s.ContentMix)
	}
	if len(s.ContentMix) == 0 {
		missing("contentMix")
	} else if sum := mixSum(s.ContentMix); sum < 100-mixSumTolerance || sum > 100+mixSumTolerance {
		warnings = append(warnings, warnf(index, "contentMix",
			fmt.Sprintf("percentages sum to %d, expected 100±%d", sum, mixSumTolerance)))
	}

	if ideas, ok := b.labelList(ideasRe); ok && len(ideas) > 0 {
		s.TopIdeas = ideas
	} else {
		missing("topIdeas")
	}
	if v, ok := b.labelValue(effortLabelRe); ok && v != "" {
		s.Effort = v
	} else {
		missing("effort")
	}
	if results, ok := b.labelList(resultsRe); ok && len(results) > 0 {
		s.ExpectedResults = results
	} else {
		missing("expectedResults")
	}
	if pros, ok := b.labelList(prosRe); ok && len(pros) > 0 {
		s.Pros = pros
	} else {
		missing("pros")
	}
	if cons, ok := b.labelList(consRe); ok && len(cons) > 0 {
		s.Cons = cons
	} else {
		missing("cons")
	}

	return s, warnings
}

// parseContentMix coerces entries like "Educational 40%" or "40% Educational"
// into the category map. The first form wins on conflicts.
func parseContentMix(text string, mix map[string]int) {
	for _, m := range mixEntryRe.FindAllStringSubmatch(text, -1) {
		category := trimDecoration(m[1])
		if pct, err := strconv.Atoi(m[2]); err == nil && category != "" {
			mix[category] = pct
		}
	}
	for _, m := range mixEntryFlipRe.FindAllStringSubmatch(text, -1) {
		category := trimDecoration(m[2])
		if _, seen := mix[category]; seen || category == "" {
			continue
		}
		if pct, err := strconv.Atoi(m[1]); err == nil {
			mix[category] = pct
		}
	}
}

func mixSum(mix map[string]int) int {
	sum := 0
	for _, pct := range mix {
		sum += pct
	}
	return sum
}

// parseRecommendation extracts the "## RECOMMENDATION" section. A missing
// section or an unresolvable strategy number is a warning; the result is
// then nil and no strategy is flagged recommended.
func parseRecommendation(raw string) (*models.StrategyRecommendation, []Warning) {
	loc := recommendationRe.FindStringIndex(raw)
	if loc == nil {
		return nil, []Warning{warnf(0, "recommendation", "no recommendation section found")}
	}

	section := block{}
	for _, line := range strings.Split(raw[loc[1]:], "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			section.lines = append(section.lines, trimmed)
			section.segments = append(section.segments, trimmed)
		}
	}

	rec := &models.StrategyRecommendation{}
	if v, ok := section.labelValue(bestStrategyRe); ok {
		if m := strategyRefRe.FindStringSubmatch(v); m != nil {
			rec.StrategyNumber, _ = strconv.Atoi(m[1])
		}
	}
	if rec.StrategyNumber < 1 || rec.StrategyNumber > expectedStrategies {
		return nil, []Warning{warnf(0, "recommendation", "recommended strategy number not found")}
	}

	if v, ok := section.labelValue(whyRe); ok {
		rec.Reasoning = v
	}
	if actions, ok := section.labelList(actionPlanRe); ok {
		rec.Week1Actions = actions
	}
	return rec, nil
}
