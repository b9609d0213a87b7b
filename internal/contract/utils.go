package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Error rate label constants.
const (
	CriticalValue = "Critical" // Critical value
	HighValue     = "High"     // High value
	ElevatedValue = "Elevated" // Elevated value
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // CriticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // HighColor represents strong, distinct warning.
	ElevatedColor = color.New(color.FgYellow)              // ElevatedColor represents standard caution, not bold.
)

// GetPlainLabel returns a plain text label for an error percentage that has
// already crossed the reporting threshold.
func GetPlainLabel(rate float64) string {
	switch {
	case rate >= 10:
		return CriticalValue
	case rate >= 2.5:
		return HighValue
	default:
		return ElevatedValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(rate float64) string {
	text := GetPlainLabel(rate)

	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	default:
		return ElevatedColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
