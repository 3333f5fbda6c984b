package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended to content cut at the character limit.
const TruncationMarker = "\n... [truncated]"

// DecodeText converts raw file bytes to a string, replacing invalid UTF-8
// sequences with U+FFFD instead of failing.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

// TruncateCharacters cuts text to at most limit characters and appends
// TruncationMarker when it had to cut. A non-positive limit disables truncation.
func TruncateCharacters(text string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text, false
	}
	characterIndex := 0
	for byteOffset := range text {
		if characterIndex == limit {
			return text[:byteOffset] + TruncationMarker, true
		}
		characterIndex++
	}
	return text, false
}

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		return "0b"
	}
	units := []string{"b", "kb", "mb", "gb", "tb", "pb"}
	value := float64(bytes)
	unitIndex := 0
	for value >= 1024 && unitIndex < len(units)-1 {
		value /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", bytes)
	}
	if value < 10 {
		formatted := fmt.Sprintf("%.1f", value)
		formatted = strings.TrimSuffix(formatted, ".0")
		return formatted + units[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", value, units[unitIndex])
}
