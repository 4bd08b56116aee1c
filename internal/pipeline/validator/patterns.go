package validator

import "regexp"

// injectionPatterns is the fixed catalog of suspicious content scanned for in
// every free-text field: markup/script injection, SQL meta-characters, and
// prompt-injection phrasing. A match rejects the field outright; nothing is
// silently stripped, so the user sees why the value was refused.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)onerror\s*=`),
	regexp.MustCompile(`(?i)onclick\s*=`),
	regexp.MustCompile(`(?i)onload\s*=`),
	regexp.MustCompile(`(?i)eval\(`),
	regexp.MustCompile(`(?i)exec\(`),
	regexp.MustCompile(`(?i)__import__`),
	regexp.MustCompile(`(?i)system\(`),
	regexp.MustCompile(`(?i)os\.system`),
	regexp.MustCompile(`(?i)subprocess`),
	regexp.MustCompile(`(?i)\bDROP\b`),
	regexp.MustCompile(`(?i)\bDELETE\b`),
	regexp.MustCompile(`(?i)\bUNION\b.*\bSELECT\b`),
	regexp.MustCompile(`--\s*$`),
	regexp.MustCompile(`/\*.*\*/`),
	regexp.MustCompile(`(?i)xp_cmdshell`),
	regexp.MustCompile(`(?i)\bignore\b.*\bprevious\b.*\binstructions\b`),
	regexp.MustCompile(`(?i)\bignore\b.*\bprior\b`),
	regexp.MustCompile(`(?i)\bdisregard\b.*\babove\b`),
	regexp.MustCompile(`(?i)\bforget\b.*\bearlier\b`),
	regexp.MustCompile(`(?i)\byou\b.*\bare\b.*\bnow\b`),
	regexp.MustCompile(`(?i)\bact\b.*\bas\b.*\bif\b`),
	regexp.MustCompile(`(?i)\bpretend\b.*\bto\b.*\bbe\b`),
	regexp.MustCompile(`(?i)\broleplay\b`),
	regexp.MustCompile(`(?i)\bsystem\b.*\bprompt\b`),
	regexp.MustCompile(`(?i)\boverride\b.*\binstructions\b`),
}

// containsInjectionPattern checks a value against the full catalog.
func containsInjectionPattern(value string) bool {
	for _, re := range injectionPatterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}
