package parser

import (
	"fmt"
	"regexp"
	"strconv"

	stderrors "strategist-pipeline/internal/common/errors"
	"strategist-pipeline/internal/models"
)

const (
	minCalendarEntries = 20
	maxCalendarEntries = 25
	entriesPerWeek     = 5
)

var (
	contentHeadingRe = regexp.MustCompile(`(?im)^\s*(?:#{1,3}\s*)?(?:\*\*)?content\s*(?:piece)?\s*#\s*(\d+)(?:\*\*)?\s*[:.]?\s*(.*)$`)
	summaryHeadingRe = regexp.MustCompile(`(?im)^\s*(?:#{1,3}\s*)?(?:\*\*)?executive summary(?:\*\*)?\s*$`)

	weekRe        = regexp.MustCompile(`(?i)^(?:\*\*)?week\s*[:\s]\s*(?:\*\*)?\s*(\d+)`)
	titleRe       = labelPattern(`title`)
	pillarLabelRe = labelPattern(`pillar`)
	channelRe     = labelPattern(`channel`)
	formatRe      = labelPattern(`format`)
	messageRe     = labelPattern(`key message|message`)
	ctaRe         = labelPattern(`call to action|cta`)
	dateLabelRe   = labelPattern(`suggested date|date`)
	effortRe      = labelPattern(`effort level|effort`)
	labeledSegRe  = regexp.MustCompile(`^(?:\*\*)?[A-Za-z][A-Za-z 0-9]*(?:\*\*)?\s*[:：]`)
)

// ParseCalendar recovers the 20-25 content pieces from a Phase-2 response.
// A count outside that range and any missing sub-field are warnings; only a
// response with no content blocks at all is fatal.
func ParseCalendar(raw string) ([]models.CalendarEntry, []Warning, error) {
	blocks := splitBlocks(raw, contentHeadingRe, summaryHeadingRe)
	if len(blocks) == 0 {
		return nil, nil, stderrors.NewResponseUnparseableError("calendar")
	}

	var warnings []Warning
	if len(blocks) < minCalendarEntries || len(blocks) > maxCalendarEntries {
		warnings = append(warnings, warnf(0, "entries",
			fmt.Sprintf("expected %d-%d content pieces, recovered %d",
				minCalendarEntries, maxCalendarEntries, len(blocks))))
	}

	entries := make([]models.CalendarEntry, 0, len(blocks))
	for i := range blocks {
		entry, blockWarnings := parseCalendarBlock(&blocks[i], i+1)
		entries = append(entries, entry)
		warnings = append(warnings, blockWarnings...)
	}
	return entries, warnings, nil
}

func parseCalendarBlock(b *block, index int) (models.CalendarEntry, []Warning) {
	var warnings []Warning
	missing := func(field string) {
		warnings = append(warnings, warnf(index, field, "field not found in block"))
	}

	entry := models.CalendarEntry{ID: b.number}
	if entry.ID == 0 {
		entry.ID = index
	}

	entry.Week, entry.Date = weekAndDate(b)
	if entry.Week == 0 {
		// Five pieces per week is the cadence the prompt asks for, so the
		// piece number still places the entry when the line is absent.
		entry.Week = (entry.ID-1)/entriesPerWeek + 1
		missing("week")
	}
	if entry.Date == "" {
		missing("date")
	}

	if v, ok := b.labelValue(titleRe); ok && v != "" {
		entry.Title = v
	} else if b.heading != "" {
		entry.Title = b.heading
	} else {
		missing("title")
	}
	if v, ok := b.labelValue(pillarLabelRe); ok && v != "" {
		entry.Pillar = v
	} else {
		missing("pillar")
	}
	if v, ok := b.labelValue(channelRe); ok && v != "" {
		entry.Channel = v
	} else {
		missing("channel")
	}
	if v, ok := b.labelValue(formatRe); ok && v != "" {
		entry.Format = v
	} else {
		missing("format")
	}
	if v, ok := b.labelValue(messageRe); ok && v != "" {
		entry.Message = v
	} else {
		missing("message")
	}
	if v, ok := b.labelValue(ctaRe); ok && v != "" {
		entry.CallToAction = v
	} else {
		missing("callToAction")
	}
	if v, ok := b.labelValue(effortRe); ok && v != "" {
		entry.EffortLevel = models.NormalizeEffort(v)
	} else {
		entry.EffortLevel = models.EffortMedium
		missing("effortLevel")
	}

	return entry, warnings
}

// weekAndDate extracts the week number and the date. The date is the
// unlabeled segment directly after the week segment ("Week 1 | Jan 6 | ..."),
// or an explicit "Date:" label wherever it appears.
func weekAndDate(b *block) (int, string) {
	week := 0
	date, _ := b.labelValue(dateLabelRe)
	for i, seg := range b.segments {
		m := weekRe.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		week, _ = strconv.Atoi(m[1])
		if date == "" && i+1 < len(b.segments) && !labeledSegRe.MatchString(b.segments[i+1]) {
			date = trimDecoration(b.segments[i+1])
		}
		break
	}
	return week, date
}
