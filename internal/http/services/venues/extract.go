package venues

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns that tend to carry the seating capacity in Wikipedia prose.
var capacityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:with\s+)?(?:a\s+)?capacity\s+of\s+([0-9,]+)`),
	regexp.MustCompile(`(?i)capacity[:\s]+(?:of\s+)?([0-9,]+)`),
	regexp.MustCompile(`(?i)seats?\s+([0-9,]+)`),
	regexp.MustCompile(`(?i)([0-9,]+)\s+(?:capacity|seats?)`),
	regexp.MustCompile(`(?i)([0-9,]+)\s+seating\s+capacity`),
	regexp.MustCompile(`(?i)seating\s+capacity\s+of\s+([0-9,]+)`),
	regexp.MustCompile(`(?i)can\s+(?:accommodate|hold)\s+(?:up\s+to\s+)?([0-9,]+)`),
	regexp.MustCompile(`(?i)holds?\s+(?:up\s+to\s+)?([0-9,]+)`),
}

var openedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opened?\s+(?:in\s+)?(\d{4})`),
	regexp.MustCompile(`(?i)built\s+(?:in\s+)?(\d{4})`),
}

// extractCapacity scans the text for a capacity figure and normalizes it
// with thousands separators. Empty string if nothing matches.
func extractCapacity(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range capacityPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := m[1]
		if v, err := strconv.Atoi(strings.ReplaceAll(raw, ",", "")); err == nil {
			return formatThousands(v)
		}
		return raw
	}
	return ""
}

// extractOpeningYear finds the opening/construction year, or "".
func extractOpeningYear(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range openedPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}
