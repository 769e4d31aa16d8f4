package cost

import (
	"fmt"
	"time"

	"github.com/de-tools/cost-monitor/pkg/models/domain"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// DayPeriod covers a calendar day from midnight to its last instant.
func DayPeriod(day time.Time) domain.TimePeriod {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return domain.TimePeriod{
		Start: start,
		End:   start.AddDate(0, 0, 1).Add(-time.Nanosecond),
	}
}

// MonthPeriod covers the calendar month containing t.
func MonthPeriod(t time.Time) domain.TimePeriod {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return domain.TimePeriod{
		Start: start,
		End:   start.AddDate(0, 1, 0).Add(-time.Nanosecond),
	}
}

// Yesterday returns the day before now.
func Yesterday(now time.Time) domain.TimePeriod {
	return DayPeriod(now.AddDate(0, 0, -1))
}

// PreviousMonth returns the calendar month before now.
func PreviousMonth(now time.Time) domain.TimePeriod {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return MonthPeriod(first.AddDate(0, -1, 0))
}

// ParseMonth parses a YYYY-MM label into its period.
func ParseMonth(label string, loc *time.Location) (domain.TimePeriod, error) {
	t, err := time.ParseInLocation(MonthLayout, label, loc)
	if err != nil {
		return domain.TimePeriod{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", label, err)
	}
	return MonthPeriod(t), nil
}

// ParseDay parses a YYYY-MM-DD date into its period.
func ParseDay(date string, loc *time.Location) (domain.TimePeriod, error) {
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return domain.TimePeriod{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", date, err)
	}
	return DayPeriod(t), nil
}
