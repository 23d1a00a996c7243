package membership

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateEndDate_Tokens(t *testing.T) {
	start := date(2025, time.March, 10)

	tests := []struct {
		name     string
		label    string
		expected time.Time
	}{
		{"One day", "1 dia", date(2025, time.March, 11)},
		{"One day accented", "1 día", date(2025, time.March, 11)},
		{"Daily", "pase diario", date(2025, time.March, 11)},
		{"Fifteen days", "15 dias", date(2025, time.March, 25)},
		{"Fifteen days accented", "15 días", date(2025, time.March, 25)},
		{"Biweekly", "quincenal", date(2025, time.March, 25)},
		{"Monthly", "mensual", date(2025, time.April, 10)},
		{"One month", "1 mes", date(2025, time.April, 10)},
		{"Quarterly", "3 meses", date(2025, time.June, 10)},
		{"Quarterly word", "trimestral", date(2025, time.June, 10)},
		{"Semester", "6 meses", date(2025, time.September, 10)},
		{"Semester word", "semestral", date(2025, time.September, 10)},
		{"Yearly", "anual", date(2026, time.March, 10)},
		{"Yearly accented", "año completo", date(2026, time.March, 10)},
		{"Twelve months", "12 meses", date(2026, time.March, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateEndDate(start, tt.label))
		})
	}
}

func TestCalculateEndDate_CaseInsensitive(t *testing.T) {
	start := date(2025, time.March, 10)

	assert.Equal(t, date(2025, time.April, 10), CalculateEndDate(start, "MENSUAL"))
	assert.Equal(t, date(2025, time.March, 25), CalculateEndDate(start, "Plan Quincenal"))
}

func TestCalculateEndDate_DefaultFallback(t *testing.T) {
	start := date(2025, time.March, 10)

	assert.Equal(t, CalculateEndDate(start, "mensual"), CalculateEndDate(start, ""))
	assert.Equal(t, CalculateEndDate(start, "mensual"), CalculateEndDate(start, "promo especial"))
}

func TestCalculateEndDate_MonthEndClamp(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		label    string
		expected time.Time
	}{
		{"Jan 31 plus one month", date(2025, time.January, 31), "mensual", date(2025, time.February, 28)},
		{"Jan 31 plus one month leap year", date(2024, time.January, 31), "mensual", date(2024, time.February, 29)},
		{"Nov 30 plus three months", date(2024, time.November, 30), "3 meses", date(2025, time.February, 28)},
		{"Aug 31 plus one month", date(2025, time.August, 31), "1 mes", date(2025, time.September, 30)},
		{"Feb 29 plus one year", date(2024, time.February, 29), "anual", date(2025, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateEndDate(tt.start, tt.label))
		})
	}
}

func TestCalculateEndDate_PreservesTimeOfDayAndLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	assert.NoError(t, err)

	start := time.Date(2025, time.January, 31, 9, 30, 0, 0, loc)
	end := CalculateEndDate(start, "mensual")

	assert.Equal(t, time.Date(2025, time.February, 28, 9, 30, 0, 0, loc), end)
	assert.Equal(t, loc, end.Location())
}

func TestCalculateEndDate_Deterministic(t *testing.T) {
	start := date(2025, time.January, 1)

	first := CalculateEndDate(start, "15 dias")
	second := CalculateEndDate(start, "15 dias")

	assert.Equal(t, first, second)
	assert.Equal(t, date(2025, time.January, 16), first)
}
