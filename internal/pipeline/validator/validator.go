// Package validator sanitizes and whitelists all user-supplied brand fields
// before they reach the generation pipeline.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"strategist-pipeline/internal/models"
	"strategist-pipeline/pkg/catalog"
)

// FieldError is one validation failure, addressed to a specific field so the
// UI can render it inline.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is immutable once produced. Errors are ordered by field declaration,
// not discovery, for deterministic user feedback.
type Result struct {
	OK        bool              `json:"ok"`
	Sanitized models.BrandInput `json:"sanitized"`
	Errors    []FieldError      `json:"errors,omitempty"`
}

// Maps returns the errors as field/message maps for error metadata.
func (r *Result) Maps() []map[string]string {
	out := make([]map[string]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, map[string]string{"field": e.Field, "message": e.Message})
	}
	return out
}

// Validator holds the static rule table. It is pure: ValidateAll has no side
// effects and the same input always produces the same result.
type Validator struct {
	cat *catalog.FieldCatalog
}

func New(cat *catalog.FieldCatalog) *Validator {
	return &Validator{cat: cat}
}

var urlPattern = regexp.MustCompile(`(?i)^https?://[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)+(:[0-9]+)?(/.*)?$`)

// ValidateAll checks every field in declaration order and returns a sanitized
// copy of the input. Free text is injection-scanned and HTML-entity-escaped;
// length bounds apply to the escaped form so validating the sanitized output
// again yields the same result. Selections must match the catalog whitelists.
func (v *Validator) ValidateAll(in models.BrandInput) Result {
	var errs []FieldError
	out := in

	// brandName: required free text, tight length, low special-char ratio.
	name := SanitizeText(in.BrandName)
	switch {
	case strings.TrimSpace(in.BrandName) == "":
		errs = append(errs, FieldError{"brandName", "Brand name cannot be empty"})
	case len(name) > 100:
		errs = append(errs, FieldError{"brandName", "Brand name must be 100 characters or less"})
	case containsInjectionPattern(in.BrandName):
		errs = append(errs, FieldError{"brandName", "Brand name contains invalid characters"})
	case specialCharRatio(in.BrandName) > 0.3:
		errs = append(errs, FieldError{"brandName", "Brand name contains too many special characters"})
	default:
		out.BrandName = name
	}

	// industry: required whitelist selection.
	if in.Industry == "" {
		errs = append(errs, FieldError{"industry", "Industry is required"})
	} else if !catalog.Contains(v.cat.Options.Industries, in.Industry) {
		errs = append(errs, FieldError{"industry", "Industry selection is invalid"})
	}

	// website: optional URL.
	if in.Website != "" {
		if len(in.Website) > 200 {
			errs = append(errs, FieldError{"website", "Website URL is too long"})
		} else if !urlPattern.MatchString(in.Website) {
			errs = append(errs, FieldError{"website", "Website URL format is invalid (must start with http:// or https://)"})
		}
	}

	out.TargetAudience = v.checkText(&errs, "targetAudience", "Target Audience", in.TargetAudience, true, 50, 2000)

	// businessGoals: required multi-select, 1-4 of the goal catalog.
	v.checkMultiSelect(&errs, "businessGoals", "Business Goals", in.BusinessGoals, v.cat.Options.BusinessGoals, true, 1, 4)

	// activeChannels / primaryChannels: optional multi-selects over channels.
	v.checkMultiSelect(&errs, "activeChannels", "Active Channels", in.ActiveChannels, v.cat.Options.Channels, false, 1, len(v.cat.Options.Channels))
	v.checkMultiSelect(&errs, "primaryChannels", "Primary Channels", in.PrimaryChannels, v.cat.Options.Channels, false, 1, 3)

	// Remaining dropdowns, optional.
	v.checkDropdown(&errs, "brandTone", "Brand Tone", in.BrandTone, v.cat.Options.Tones)
	v.checkDropdown(&errs, "monthlyBudget", "Monthly Budget", in.MonthlyBudget, v.cat.Options.Budgets)
	v.checkDropdown(&errs, "timeCommitment", "Time Commitment", in.TimeCommitment, v.cat.Options.TimeCommitments)

	v.checkMultiSelect(&errs, "resources", "Resources", in.Resources, v.cat.Options.Resources, false, 1, len(v.cat.Options.Resources))

	// Remaining free text, all optional.
	out.UniqueValueProp = v.checkText(&errs, "uniqueValueProp", "Unique Value Proposition", in.UniqueValueProp, false, 20, 1000)
	out.ProductsServices = v.checkText(&errs, "productsServices", "Products/Services", in.ProductsServices, false, 0, 500)
	out.Competitors = v.checkText(&errs, "competitors", "Competitors", in.Competitors, false, 0, 500)
	out.PastSuccesses = v.checkText(&errs, "pastSuccesses", "Past Successes", in.PastSuccesses, false, 0, 1000)
	out.AdditionalNotes = v.checkText(&errs, "additionalNotes", "Additional Notes", in.AdditionalNotes, false, 0, 1000)

	if len(errs) > 0 {
		return Result{OK: false, Errors: errs}
	}
	return Result{OK: true, Sanitized: out}
}

// checkText validates a free-text field and returns the sanitized value to
// forward. On failure the raw value is returned unchanged; the caller only
// uses the sanitized copy when the overall result is OK.
func (v *Validator) checkText(errs *[]FieldError, field, label, value string, required bool, minLen, maxLen int) string {
	if strings.TrimSpace(value) == "" {
		if required {
			*errs = append(*errs, FieldError{field, fmt.Sprintf("%s is required", label)})
		}
		return value
	}

	sanitized := SanitizeText(value)

	if minLen > 0 && len(strings.TrimSpace(value)) < minLen {
		*errs = append(*errs, FieldError{field, fmt.Sprintf("%s must be at least %d characters", label, minLen)})
		return value
	}
	if len(sanitized) > maxLen {
		*errs = append(*errs, FieldError{field, fmt.Sprintf("%s must be %d characters or less", label, maxLen)})
		return value
	}
	if containsInjectionPattern(value) {
		*errs = append(*errs, FieldError{field, fmt.Sprintf("%s contains invalid content", label)})
		return value
	}
	return sanitized
}

func (v *Validator) checkDropdown(errs *[]FieldError, field, label, value string, options []string) {
	if value == "" {
		return
	}
	if !catalog.Contains(options, value) {
		*errs = append(*errs, FieldError{field, fmt.Sprintf("%s selection is invalid", label)})
	}
}

func (v *Validator) checkMultiSelect(errs *[]FieldError, field, label string, values, options []string, required bool, minSel, maxSel int) {
	if len(values) == 0 {
		if required {
			*errs = append(*errs, FieldError{field, fmt.Sprintf("%s is required", label)})
		}
		return
	}

	if len(values) < minSel {
		*errs = append(*errs, FieldError{field, fmt.Sprintf("%s: Please select at least %d", label, minSel)})
		return
	}
	if len(values) > maxSel {
		*errs = append(*errs, FieldError{field, fmt.Sprintf("%s: Please select no more than %d", label, maxSel)})
		return
	}
	for _, val := range values {
		if !catalog.Contains(options, val) {
			*errs = append(*errs, FieldError{field, fmt.Sprintf("%s: Invalid selection '%s'", label, val)})
			return
		}
	}
}

// specialCharRatio measures non-alphanumeric, non-space density. Brand names
// that are mostly punctuation are rejected even when no catalog pattern hits.
func specialCharRatio(value string) float64 {
	if value == "" {
		return 0
	}
	special := 0
	total := 0
	for _, r := range value {
		total++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			special++
		}
	}
	return float64(special) / float64(total)
}
