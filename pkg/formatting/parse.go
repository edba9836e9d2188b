package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content does not contain a JSON object
// that can be unmarshaled into the target type.
var ErrParseFailed = errors.New("failed to parse output")

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI SGR color sequences (ESC [ ... m) from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// ExtractObject returns the substring of content spanning the first '{'
// through the last '}'. ok is false when no such span exists.
func ExtractObject(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return content[start : end+1], true
}

// ParseObject strips color sequences from noisy program output, locates
// the embedded JSON object, and unmarshals it into T. Returns
// ErrParseFailed when no object is present or it is not valid JSON.
func ParseObject[T any](content string) (T, error) {
	var result T

	obj, ok := ExtractObject(StripANSI(content))
	if !ok {
		return result, fmt.Errorf("%w: no JSON object found", ErrParseFailed)
	}

	if err := json.Unmarshal([]byte(obj), &result); err != nil {
		return result, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	return result, nil
}
