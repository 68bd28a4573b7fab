// internal/llmutil/parser.go
package llmutil

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// Regex definitions use \x60 (hex representation) for backticks because Go raw strings cannot contain backticks.

	// fencedObjectRegex extracts a JSON object if the response is wrapped in markdown.
	fencedObjectRegex = regexp.MustCompile("(?s)\x60\x60\x60(?:json|JSON)?\\s*({.*})\\s*\x60\x60\x60")
)

// ErrNoJSONObject is returned when a response contains no brace-delimited payload.
var ErrNoJSONObject = errors.New("no JSON object found in model output")

// ExtractJSONObject returns the JSON object embedded in free-form model output.
// A fenced block is preferred; otherwise the span from the first '{' to the
// last '}' is taken, which tolerates prose before and after the payload.
func ExtractJSONObject(response string) (string, error) {
	response = strings.TrimSpace(response)

	if strings.Contains(response, "```") {
		if matches := fencedObjectRegex.FindStringSubmatch(response); len(matches) > 1 {
			return matches[1], nil
		}
	}

	first := strings.Index(response, "{")
	last := strings.LastIndex(response, "}")
	if first == -1 || last == -1 || last < first {
		return "", fmt.Errorf("%w: %s", ErrNoJSONObject, truncateString(response, 200))
	}
	return response[first : last+1], nil
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	// Simple truncation; does not account for rune boundaries but sufficient for error logging.
	return s[:maxLen] + "..."
}
