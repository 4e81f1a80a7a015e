package model

import (
	"regexp"
	"strings"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s/]+`)

// DefaultLabeler converts a parameter name into a human-friendly label by
// splitting on underscores, dashes and camelCase boundaries.
func DefaultLabeler(name string) string {
	if name == "" {
		return ""
	}

	words := splitWordsPattern.Split(name, -1)
	var segments []string
	for _, word := range words {
		if word == "" {
			continue
		}
		segments = append(segments, titleCase(splitCamel(word)))
	}
	return strings.TrimSpace(strings.Join(segments, " "))
}

// unitPatterns pick the unit out of descriptions such as "The rate in Hz" or
// "How long in seconds".
var unitPatterns = []struct {
	pattern *regexp.Regexp
	unit    string
}{
	{regexp.MustCompile(`\bin Hz\b`), "Hz"},
	{regexp.MustCompile(`\bin seconds\b`), "s"},
	{regexp.MustCompile(`\bin meters\b`), "m"},
}

func unitFromDescription(description string) string {
	for _, candidate := range unitPatterns {
		if candidate.pattern.MatchString(description) {
			return candidate.unit
		}
	}
	return ""
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return isLower(prev) && isUpper(r)
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
