// Package parser turns the provider's prose responses into typed records.
// It is deliberately tolerant: a missing sub-field becomes a warning and a
// documented default, and only a response with zero recognizable blocks is
// a hard failure. Parsing is pure; the same text always yields the same
// records and warnings.
package parser

import (
	"regexp"
	"strings"
)

// Warning flags a field the parser could not recover, or a count that fell
// outside the expected range. Block is 1-based; 0 means the warning applies
// to the whole document.
type Warning struct {
	Block   int    `json:"block"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func warnf(block int, field, message string) Warning {
	return Warning{Block: block, Field: field, Message: message}
}

// block is one heading-delimited section of the response: the number from
// the heading, the remainder of the heading line, and the body text in two
// granularities. lines is the body split on newlines; segments additionally
// splits each line on "|", for formats where several fields share a line.
// Which one a field matcher uses depends on whether "|" separates fields or
// values in that field's line.
type block struct {
	number   int
	heading  string
	lines    []string
	segments []string
}

// splitBlocks slices text into blocks at each match of headingRe, which must
// capture the block number in group 1 (group 2, if present, is the heading
// remainder). stopRe, when non-nil, truncates the final block at the first
// trailing section the heading pattern does not own.
func splitBlocks(text string, headingRe, stopRe *regexp.Regexp) []block {
	locs := headingRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	blocks := make([]block, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		} else if stopRe != nil {
			if stop := stopRe.FindStringIndex(text[loc[1]:]); stop != nil {
				end = loc[1] + stop[0]
			}
		}

		b := block{number: parseInt(text[loc[2]:loc[3]])}
		if len(loc) >= 6 && loc[4] >= 0 {
			b.heading = trimDecoration(text[loc[4]:loc[5]])
		}
		for _, line := range strings.Split(text[loc[1]:end], "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				b.lines = append(b.lines, trimmed)
			}
			for _, seg := range strings.Split(line, "|") {
				if seg = strings.TrimSpace(seg); seg != "" {
					b.segments = append(b.segments, seg)
				}
			}
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// labelValue returns the text following the first segment matching labelRe,
// stripped of markdown decoration. ok is false when no segment matched.
func (b *block) labelValue(labelRe *regexp.Regexp) (string, bool) {
	for _, seg := range b.segments {
		if m := labelRe.FindStringSubmatch(seg); m != nil {
			return trimDecoration(m[1]), true
		}
	}
	return "", false
}

// lineValue is labelValue over whole lines, for fields whose value itself
// contains "|" separators (content pillars, for one).
func (b *block) lineValue(labelRe *regexp.Regexp) (string, bool) {
	for _, line := range b.lines {
		if m := labelRe.FindStringSubmatch(line); m != nil {
			return trimDecoration(m[1]), true
		}
	}
	return "", false
}

// labelList returns the inline value (if any) plus any bulleted or numbered
// segments that immediately follow the matching label segment. Collection
// stops at the first segment that looks like another label.
func (b *block) labelList(labelRe *regexp.Regexp) ([]string, bool) {
	for i, seg := range b.segments {
		m := labelRe.FindStringSubmatch(seg)
		if m == nil {
			continue
		}

		var items []string
		if inline := trimDecoration(m[1]); inline != "" {
			items = append(items, inline)
		}
		for _, next := range b.segments[i+1:] {
			bm := bulletRe.FindStringSubmatch(next)
			if bm == nil {
				break
			}
			if item := trimDecoration(bm[1]); item != "" {
				items = append(items, item)
			}
		}
		return items, true
	}
	return nil, false
}

var bulletRe = regexp.MustCompile(`^(?:\d+[.)]|[-•*])\s+(.+)$`)

// labelPattern compiles a case-insensitive matcher for "Label: value"
// segments, tolerating markdown bold around the label and leading bullets.
func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(?:[-•*]\s*)?(?:\*\*)?(?:` + label + `)(?:\*\*)?\s*[:：]\s*(.*)$`)
}

func trimDecoration(s string) string {
	return strings.Trim(strings.TrimSpace(s), `*"'` + "` -")
}

func parseInt(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
