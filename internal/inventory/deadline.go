package inventory

import (
	"regexp"
	"strings"
	"time"

	"github.com/venuebook/bookgo/internal/domain"
)

// Matches "Deadline:", "Ticket Deadline:" or "Sales Deadline:" followed by a
// date/time value like "2025-01-01 10:00" (seconds optional, T accepted).
var reDeadline = regexp.MustCompile(
	`(?i)(?:ticket\s+|sales\s+)?deadline\s*:\s*(\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}(?::\d{2})?)`,
)

// ResolveDeadline picks the applicable sales deadline for a record.
// Precedence: the structured deadline field, then a deadline parsed out of
// the free-text note, then the event start time as last resort. An
// unparseable note capture is discarded and falls through.
func ResolveDeadline(record domain.ProgramRecord) *time.Time {
	if record.Deadline != nil {
		return record.Deadline
	}

	if dl, ok := deadlineFromNote(record.Note); ok {
		return &dl
	}

	if !record.StartsAt.IsZero() {
		starts := record.StartsAt
		return &starts
	}

	return nil
}

func deadlineFromNote(note string) (time.Time, bool) {
	m := reDeadline.FindStringSubmatch(note)
	if m == nil {
		return time.Time{}, false
	}

	// "2025-01-01 10:00" -> "2025-01-01T10:00"; source carries no zone, so
	// the value is parsed as local wall time.
	raw := strings.Replace(m[1], " ", "T", 1)

	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Passed reports whether the deadline has strictly passed. Equality is not
// passed, and no deadline at all never passes.
func Passed(now time.Time, deadline *time.Time) bool {
	return deadline != nil && now.After(*deadline)
}

// Deadline resolves and evaluates a record's sales deadline in one step.
func Deadline(record domain.ProgramRecord, now time.Time) domain.SalesDeadline {
	dl := ResolveDeadline(record)
	return domain.SalesDeadline{
		Instant: dl,
		Passed:  Passed(now, dl),
	}
}
