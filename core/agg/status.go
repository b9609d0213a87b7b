package agg

import "strings"

// StatusClassifier decides whether an HTTP status line counts as an error.
type StatusClassifier struct {
	codes   map[string]struct{} // exact codes, e.g. "404"
	classes map[byte]struct{}   // leading digits of "4xx" style patterns
}

// NewStatusClassifier builds a classifier from codes like "404" and classes
// like "5xx". Patterns are expected to be validated already.
func NewStatusClassifier(patterns []string) *StatusClassifier {
	c := &StatusClassifier{
		codes:   make(map[string]struct{}),
		classes: make(map[byte]struct{}),
	}
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if len(p) != 3 {
			continue
		}
		if strings.HasSuffix(p, "xx") {
			c.classes[p[0]] = struct{}{}
			continue
		}
		c.codes[p] = struct{}{}
	}
	return c
}

// IsError reports whether status starts with a configured error code.
// Statuses without a leading 3-digit code are never errors.
func (c *StatusClassifier) IsError(status string) bool {
	code, ok := statusCode(status)
	if !ok {
		return false
	}
	if _, ok := c.codes[code]; ok {
		return true
	}
	_, ok = c.classes[code[0]]
	return ok
}

// statusCode extracts the leading 3-digit code from "404 NOT FOUND".
func statusCode(status string) (string, bool) {
	status = strings.TrimSpace(status)
	if len(status) < 3 {
		return "", false
	}
	for i := range 3 {
		if status[i] < '0' || status[i] > '9' {
			return "", false
		}
	}
	if len(status) > 3 && status[3] >= '0' && status[3] <= '9' {
		return "", false
	}
	return status[:3], true
}
