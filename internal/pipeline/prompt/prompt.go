// Package prompt builds the Phase-1 and Phase-2 provider prompts. Brand
// fields are embedded only after the validator has sanitized them.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"strategist-pipeline/internal/models"
	"strategist-pipeline/internal/pipeline/llm"
)

// BrandProfile renders the sanitized input as the labeled block both phases
// share. Empty optional fields are omitted.
func BrandProfile(in models.BrandInput) string {
	var b strings.Builder

	writeLine := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	writeList := func(label string, values []string) {
		if len(values) > 0 {
			fmt.Fprintf(&b, "%s: %s\n", label, strings.Join(values, ", "))
		}
	}

	writeLine("Brand Name", in.BrandName)
	writeLine("Industry", in.Industry)
	writeLine("Website", in.Website)
	writeLine("Target Audience", in.TargetAudience)
	writeList("Business Goals", in.BusinessGoals)
	writeList("Active Channels", in.ActiveChannels)
	writeList("Primary Channels", in.PrimaryChannels)
	writeLine("Brand Tone", in.BrandTone)
	writeLine("Monthly Budget", in.MonthlyBudget)
	writeLine("Weekly Time Commitment", in.TimeCommitment)
	writeList("Available Resources", in.Resources)
	writeLine("Unique Value Proposition", in.UniqueValueProp)
	writeLine("Key Products/Services", in.ProductsServices)
	writeLine("Competitors", in.Competitors)
	writeLine("Past Successes", in.PastSuccesses)
	writeLine("Additional Notes", in.AdditionalNotes)

	return b.String()
}

// Strategies builds the Phase-1 prompt. The format contract below is what
// the parser's block and label patterns are written against; change them
// together.
func Strategies(in models.BrandInput) []llm.Message {
	system := "You are a renowned content strategist who has developed award-winning " +
		"campaigns for Fortune 500 companies and scrappy startups alike. You always " +
		"complete your full assignment - if asked for 5 strategies, you deliver all 5."

	user := fmt.Sprintf(`IMPORTANT: You must generate ALL 5 strategies in a single response.

Analyze the following brand and create 5 COMPLETE AND DISTINCT content strategy options.

%s
For EACH of the 5 strategies, provide (keep it concise):

**Strategy [NUMBER]: [Name]**
**Tagline:** One memorable sentence
**Core Approach:** 2-3 sentences
**Why This Strategy:** 1-2 sentences
**Content Pillars:** Pillar 1 | Pillar 2 | Pillar 3
**Posting Frequency:** [Channel] [X]/week for each primary channel
**Content Mix:** Educational [X]%%, Promotional [X]%%, Engagement [X]%%, Curated [X]%%
**Top 3 Content Ideas:**
  1. [Title]
  2. [Title]
  3. [Title]
**Effort:** [X]hrs/week, Resources: [brief list]
**30-Day Results:** [Key metrics]
**Pros:** [2 key advantages]
**Cons:** [2 key challenges with brief mitigations]

---

After ALL 5 COMPLETE STRATEGIES, add:

## RECOMMENDATION
**Best Strategy:** Strategy [number]
**Why:** [2-3 sentences explaining why this specific strategy fits best]
**Week 1 Action Plan:** [3-5 specific steps to get started]`, BrandProfile(in))

	return []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}

// Calendar builds the Phase-2 prompt from the chosen Phase-1 strategy.
func Calendar(in models.BrandInput, strategy models.ContentStrategy) []llm.Message {
	system := "You are a content calendar specialist. You create calendars that are " +
		"specific, actionable, and realistic. You never use vague titles - you write " +
		"actual content titles that could be published as-is."

	var ctx strings.Builder
	fmt.Fprintf(&ctx, "Strategy %d: %s\n", strategy.Number, strategy.Name)
	if strategy.Tagline != "" {
		fmt.Fprintf(&ctx, "Tagline: %s\n", strategy.Tagline)
	}
	if strategy.CoreApproach != "" {
		fmt.Fprintf(&ctx, "Core Approach: %s\n", strategy.CoreApproach)
	}
	if len(strategy.Pillars) > 0 {
		names := make([]string, 0, len(strategy.Pillars))
		for _, p := range strategy.Pillars {
			names = append(names, p.Name)
		}
		fmt.Fprintf(&ctx, "Content Pillars: %s\n", strings.Join(names, " | "))
	}
	if len(strategy.PostingFrequency) > 0 {
		channels := make([]string, 0, len(strategy.PostingFrequency))
		for channel := range strategy.PostingFrequency {
			channels = append(channels, channel)
		}
		sort.Strings(channels)
		parts := make([]string, 0, len(channels))
		for _, channel := range channels {
			parts = append(parts, fmt.Sprintf("%s %s", channel, strategy.PostingFrequency[channel]))
		}
		fmt.Fprintf(&ctx, "Posting Frequency: %s\n", strings.Join(parts, ", "))
	}

	user := fmt.Sprintf(`IMPORTANT: You must generate ALL 20-25 content pieces in a single response.

Create a detailed one-month content calendar for the following brand and its chosen strategy.

%s
Chosen strategy:

%s
YOU MUST GENERATE EXACTLY 20-25 CONTENT PIECES. DO NOT STOP EARLY.

For each content piece (numbered 1-25), provide (keep concise):

**Content #[number]**
Week [1-4] | [Date] | **Title:** [Specific title]
Pillar: [Name] | Channel: [Platform] | Format: [Type]
Message: [One sentence]
CTA: [Specific action]
Effort: [L/M/H]

---

After all 20-25 content pieces, include:

## EXECUTIVE SUMMARY
[2-3 sentences about the overall calendar strategy]

REMEMBER: Generate all 20-25 pieces before moving to the summary sections.`, BrandProfile(in), ctx.String())

	return []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}
