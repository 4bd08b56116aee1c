// internal/pipeline/parser/calendar_test.go
package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "strategist-pipeline/internal/common/errors"
	"strategist-pipeline/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func calendarPiece(number int, omit ...string) string {
	omitted := func(field string) bool {
		for _, o := range omit {
			if o == field {
				return true
			}
		}
		return false
	}

	week := (number-1)/5 + 1
	var b strings.Builder
	fmt.Fprintf(&b, "**Content #%d**\n", number)
	fmt.Fprintf(&b, "Week %d | Mar %d | **Title:** Teardown episode %d\n", week, number, number)
	b.WriteString("Pillar: Teardowns | Channel: LinkedIn | Format: Carousel\n")
	if !omitted("message") {
		b.WriteString("Message: One operational mistake and what it cost.\n")
	}
	b.WriteString("CTA: Comment with your own war story\n")
	b.WriteString("Effort: M\n")
	return b.String()
}

func wellFormedCalendar(pieces int) string {
	var b strings.Builder
	for i := 1; i <= pieces; i++ {
		b.WriteString(calendarPiece(i))
		b.WriteString("\n---\n\n")
	}
	b.WriteString("## EXECUTIVE SUMMARY\n")
	b.WriteString("A depth-first month: teardown carousels that compound into a pillar archive.\n")
	return b.String()
}

// ==========================
// Core Functionality Tests
// ==========================

func TestParseCalendar_WellFormed(t *testing.T) {
	entries, warnings, err := ParseCalendar(wellFormedCalendar(22))

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 22)

	first := entries[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 1, first.Week)
	assert.Equal(t, "Mar 1", first.Date)
	assert.Equal(t, "Teardown episode 1", first.Title)
	assert.Equal(t, "Teardowns", first.Pillar)
	assert.Equal(t, "LinkedIn", first.Channel)
	assert.Equal(t, "Carousel", first.Format)
	assert.Equal(t, "One operational mistake and what it cost.", first.Message)
	assert.Equal(t, "Comment with your own war story", first.CallToAction)
	assert.Equal(t, models.EffortMedium, first.EffortLevel)

	last := entries[21]
	assert.Equal(t, 22, last.ID)
	assert.Equal(t, 5, last.Week)
}

func TestParseCalendar_EffortLevels(t *testing.T) {
	text := calendarPiece(1) + "\n" + calendarPiece(2) + "\n" + calendarPiece(3)
	text = strings.Replace(text, "Effort: M", "Effort: L", 1)
	text = strings.Replace(text, "Effort: M", "Effort: High", 1)

	entries, _, err := ParseCalendar(text)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.EffortLow, entries[0].EffortLevel)
	assert.Equal(t, models.EffortHigh, entries[1].EffortLevel)
	assert.Equal(t, models.EffortMedium, entries[2].EffortLevel)
}

func TestParseCalendar_CountOutsideRangeIsWarning(t *testing.T) {
	entries, warnings, err := ParseCalendar(wellFormedCalendar(7))

	require.NoError(t, err)
	assert.Len(t, entries, 7)
	require.Len(t, warnings, 1)
	assert.Equal(t, 0, warnings[0].Block)
	assert.Equal(t, "entries", warnings[0].Field)
	assert.Contains(t, warnings[0].Message, "recovered 7")
}

func TestParseCalendar_MissingFieldIsWarningWithDefault(t *testing.T) {
	text := calendarPiece(1) + "\n" + calendarPiece(2, "message") + "\n"
	for i := 3; i <= 20; i++ {
		text += calendarPiece(i) + "\n"
	}

	entries, warnings, err := ParseCalendar(text)

	require.NoError(t, err)
	require.Len(t, entries, 20)
	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings[0].Block)
	assert.Equal(t, "message", warnings[0].Field)
	assert.Empty(t, entries[1].Message)
	assert.NotEmpty(t, entries[1].Title)
}

func TestParseCalendar_WeekInferredFromNumber(t *testing.T) {
	piece := "**Content #12**\n**Title:** Orphaned piece\nPillar: Teardowns | Channel: Blog | Format: Article\n" +
		"Message: m\nCTA: c\nEffort: L\n"

	entries, warnings, err := ParseCalendar(piece)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	// Week and date are missing; week falls back to the 5-per-week cadence.
	assert.Equal(t, 3, entries[0].Week)
	fields := make([]string, 0, len(warnings))
	for _, w := range warnings {
		fields = append(fields, w.Field)
	}
	assert.Contains(t, fields, "week")
	assert.Contains(t, fields, "date")
}

func TestParseCalendar_ZeroBlocksIsFatal(t *testing.T) {
	_, _, err := ParseCalendar("Sorry, I cannot produce a calendar right now.")

	se := stderrors.AsStandardError(err)
	require.NotNil(t, se)
	assert.Equal(t, stderrors.ErrCodeResponseUnparseable, se.Code)
}
