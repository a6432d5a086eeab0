// Package recurrence validates and normalizes the date lists that schedule
// recurring tasks. Input dates arrive as "DD-MM-YYYY" strings; output is a
// deduplicated, calendar-ordered list of midnight times in the configured
// local timezone.
package recurrence

import (
	"sort"
	"time"

	"github.com/juniperhq/chorequest/internal/apperror"
	"github.com/juniperhq/chorequest/internal/model"
)

// DateLayout is the wire format for schedule dates.
const DateLayout = "02-01-2006"

// Policy controls optional expansion behavior. Past dates are accepted by
// default so parents can backfill; RejectPastDates makes them a validation
// failure instead.
type Policy struct {
	RejectPastDates bool
}

// Expand parses, deduplicates, validates, and sorts the schedule dates for
// the given recurrence. Cardinality rules:
//
//	ONCE, DAILY: exactly one date
//	WEEKLY:      one to seven dates
//	MONTHLY:     one to days-in-month dates, all within the month of the
//	             first supplied date
//
// today is only consulted when policy.RejectPastDates is set.
func Expand(rec model.Recurrence, dates []string, loc *time.Location, today time.Time, policy Policy) ([]time.Time, error) {
	if len(dates) == 0 {
		return nil, apperror.Validation("at least one date is required")
	}

	seen := make(map[string]bool, len(dates))
	parsed := make([]time.Time, 0, len(dates))
	for _, raw := range dates {
		if seen[raw] {
			continue
		}
		seen[raw] = true

		d, err := time.ParseInLocation(DateLayout, raw, loc)
		if err != nil {
			return nil, apperror.Validation("invalid date %q: expected DD-MM-YYYY", raw)
		}
		parsed = append(parsed, d)
	}

	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })

	switch rec {
	case model.RecurrenceOnce, model.RecurrenceDaily:
		if len(parsed) != 1 {
			return nil, apperror.Validation("%s recurrence requires exactly one date, got %d", rec, len(parsed))
		}
	case model.RecurrenceWeekly:
		if len(parsed) > 7 {
			return nil, apperror.Validation("WEEKLY recurrence allows at most 7 dates, got %d", len(parsed))
		}
	case model.RecurrenceMonthly:
		first := parsed[0]
		max := daysInMonth(first.Year(), first.Month())
		if len(parsed) > max {
			return nil, apperror.Validation("MONTHLY recurrence allows at most %d dates for %s, got %d",
				max, first.Format("January 2006"), len(parsed))
		}
		for _, d := range parsed {
			if d.Year() != first.Year() || d.Month() != first.Month() {
				return nil, apperror.Validation("MONTHLY recurrence dates must all fall in %s, got %s",
					first.Format("January 2006"), d.Format(DateLayout))
			}
		}
	default:
		return nil, apperror.Validation("unknown recurrence %q", rec)
	}

	if policy.RejectPastDates {
		todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
		for _, d := range parsed {
			if d.Before(todayStart) {
				return nil, apperror.Validation("date %s is in the past", d.Format(DateLayout))
			}
		}
	}

	return parsed, nil
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
