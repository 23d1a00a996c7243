package membership

import (
	"strings"
	"time"
)

// periodRule maps recognized label substrings to a date shift. Rules are
// matched in order; the first token found in the label wins.
type periodRule struct {
	tokens []string
	apply  func(time.Time) time.Time
}

var periodRules = []periodRule{
	{tokens: []string{"1 día", "1 dia", "diario"}, apply: func(t time.Time) time.Time { return addDays(t, 1) }},
	{tokens: []string{"15 días", "15 dias", "quincenal"}, apply: func(t time.Time) time.Time { return addDays(t, 15) }},
	{tokens: []string{"mensual", "1 mes"}, apply: func(t time.Time) time.Time { return AddMonthsClamped(t, 1) }},
	{tokens: []string{"3 meses", "trimestral"}, apply: func(t time.Time) time.Time { return AddMonthsClamped(t, 3) }},
	{tokens: []string{"6 meses", "semestral"}, apply: func(t time.Time) time.Time { return AddMonthsClamped(t, 6) }},
	{tokens: []string{"año", "anual", "12 meses"}, apply: func(t time.Time) time.Time { return AddMonthsClamped(t, 12) }},
}

// CalculateEndDate derives a membership end date from its start date and a
// human-entered period label ("mensual", "15 dias", ...). Matching is
// case-insensitive and by substring; an empty or unrecognized label falls
// back to one calendar month.
func CalculateEndDate(startDate time.Time, periodLabel string) time.Time {
	label := strings.ToLower(strings.TrimSpace(periodLabel))

	for _, rule := range periodRules {
		for _, token := range rule.tokens {
			if strings.Contains(label, token) {
				return rule.apply(startDate)
			}
		}
	}

	return AddMonthsClamped(startDate, 1)
}

// AddMonthsClamped adds calendar months preserving the day-of-month. When
// the day does not exist in the target month (Jan 31 + 1 month) the result
// is clamped to the last day of that month instead of rolling over.
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	target := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}

	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func addDays(t time.Time, days int) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day+days, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
