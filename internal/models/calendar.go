package models

// EffortLevel is the production effort estimate for one content piece.
type EffortLevel string

const (
	EffortLow    EffortLevel = "Low"
	EffortMedium EffortLevel = "Medium"
	EffortHigh   EffortLevel = "High"
)

// CalendarEntry is one content piece recovered from a Phase-2 response.
// Between 20 and 25 are expected per calendar.
type CalendarEntry struct {
	ID           int         `json:"contentId"`
	Week         int         `json:"week"`
	Date         string      `json:"suggestedDate"`
	Title        string      `json:"title"`
	Pillar       string      `json:"pillar"`
	Channel      string      `json:"channel"`
	Format       string      `json:"format"`
	Message      string      `json:"keyMessage"`
	CallToAction string      `json:"callToAction"`
	EffortLevel  EffortLevel `json:"effortLevel"`
}

// NormalizeEffort maps the short forms the model tends to emit (L/M/H) onto
// the canonical levels, defaulting to Medium.
func NormalizeEffort(raw string) EffortLevel {
	switch raw {
	case "L", "l", "Low", "low":
		return EffortLow
	case "H", "h", "High", "high":
		return EffortHigh
	case "M", "m", "Medium", "medium":
		return EffortMedium
	}
	return EffortMedium
}
