package validator

import (
	"regexp"
	"strings"
)

// knownEntities are left alone by SanitizeText so that sanitizing an
// already-sanitized value is a no-op. Validation must be idempotent over its
// own output.
var knownEntities = []string{"&amp;", "&lt;", "&gt;", "&quot;", "&#39;"}

// SanitizeText HTML-entity-escapes a value for safe embedding into prompts
// and documents, and strips NUL bytes. Escaping is applied in addition to the
// injection scan, not instead of it.
func SanitizeText(value string) string {
	if value == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(value))

	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case 0x00:
			// drop NUL
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		case '&':
			if startsKnownEntity(value[i:]) {
				b.WriteByte(c)
			} else {
				b.WriteString("&amp;")
			}
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func startsKnownEntity(s string) bool {
	for _, e := range knownEntities {
		if strings.HasPrefix(s, e) {
			return true
		}
	}
	return false
}

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SanitizeForFilename makes a brand name safe for use in a generated document
// filename. Downstream renderers rely on this when naming exports.
func SanitizeForFilename(value string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(value, "_")

	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}

	sanitized = strings.Trim(sanitized, " .")

	if sanitized == "" {
		sanitized = "document"
	}

	return sanitized
}
