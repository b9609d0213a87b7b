package iostore

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// timeLayouts are the text forms a log timestamp may come back in when the
// driver does not decode it natively.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

// dbTime scans a timestamp column across drivers. Values that cannot be
// parsed leave it zero, which the day grouping skips.
type dbTime struct {
	time.Time
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v
	case string:
		t.Time = parseTimeText(v)
	case []byte:
		t.Time = parseTimeText(string(v))
	case int64:
		t.Time = time.Unix(v, 0).UTC()
	default:
		return fmt.Errorf("unsupported time value of type %T", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (t dbTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Time, nil
}

// parseTimeText tries each known layout, returning the zero time on failure.
// Text without a zone is taken as UTC.
func parseTimeText(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
