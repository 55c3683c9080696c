package util

import (
	"errors"
	"testing"
	"time"

	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportTime(t *testing.T) {
	got, err := ParseReportTime("2024-02-29 13:45:10")
	require.NoError(t, err)

	want := time.Date(2024, 2, 29, 13, 45, 10, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %s", got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseReportTime_Malformed(t *testing.T) {
	tests := []string{"", "2024-02-29", "2024-13-01 00:00:00", "29/02/2024 10:00:00", "2024-02-29T10:00:00Z"}

	for _, input := range tests {
		_, err := ParseReportTime(input)
		if !errors.Is(err, domain.ErrInvalidDate) {
			t.Errorf("ParseReportTime(%q) error = %v, want ErrInvalidDate", input, err)
		}
	}
}

func TestResolveLocation(t *testing.T) {
	loc, err := ResolveLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = ResolveLocation("Europe/Rome")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Rome", loc.String())

	_, err = ResolveLocation("Mars/Olympus")
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)
}

func TestEndOfDayUTC(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	// 00:30 in Rome is still the previous day in UTC
	got := EndOfDayUTC(time.Date(2024, 5, 10, 0, 30, 0, 0, rome))
	assert.Equal(t, time.Date(2024, 5, 9, 23, 59, 59, 0, time.UTC), got)
}

func TestDayKey_ConvertsTimezone(t *testing.T) {
	instant := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-10", DayKey(instant, time.UTC))
	assert.Equal(t, "2024-03-11", DayKey(instant, tokyo))
}

func TestDayKeys_Contiguous(t *testing.T) {
	start := time.Date(2024, 2, 27, 15, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC)

	keys := DayKeys(start, end, time.UTC)

	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, keys)
}

func TestDayKeys_CountMatchesCalendarDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"single day", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)},
		{"month", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"leap year", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := int(StartOfDay(tt.end, time.UTC).Sub(StartOfDay(tt.start, time.UTC)).Hours()/24) + 1
			assert.Len(t, DayKeys(tt.start, tt.end, time.UTC), days)
		})
	}
}

func TestDayKeys_AcrossDSTTransition(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Clocks spring forward on 2024-03-10 and fall back on 2024-11-03
	start := time.Date(2024, 3, 9, 12, 0, 0, 0, newYork)
	end := time.Date(2024, 3, 11, 12, 0, 0, 0, newYork)
	assert.Equal(t, []string{"2024-03-09", "2024-03-10", "2024-03-11"}, DayKeys(start, end, newYork))

	start = time.Date(2024, 11, 2, 0, 0, 0, 0, newYork)
	end = time.Date(2024, 11, 4, 0, 0, 0, 0, newYork)
	assert.Equal(t, []string{"2024-11-02", "2024-11-03", "2024-11-04"}, DayKeys(start, end, newYork))
}

func TestDayKeys_SkippedMidnight(t *testing.T) {
	tests := []struct {
		zone  string
		start time.Time
		end   time.Time
		want  []string
	}{
		// Clocks jump from 00:00 to 01:00 on 2018-11-04
		{"America/Sao_Paulo", time.Date(2018, 11, 2, 12, 0, 0, 0, time.UTC), time.Date(2018, 11, 6, 12, 0, 0, 0, time.UTC),
			[]string{"2018-11-02", "2018-11-03", "2018-11-04", "2018-11-05", "2018-11-06"}},
		// 2011-12-30 was skipped entirely when Samoa crossed the date line
		{"Pacific/Apia", time.Date(2011, 12, 28, 22, 0, 0, 0, time.UTC), time.Date(2012, 1, 1, 22, 0, 0, 0, time.UTC),
			[]string{"2011-12-28", "2011-12-29", "2011-12-30", "2011-12-31", "2012-01-01", "2012-01-02"}},
	}

	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			loc, err := time.LoadLocation(tt.zone)
			require.NoError(t, err)

			done := make(chan []string, 1)
			go func() { done <- DayKeys(tt.start, tt.end, loc) }()

			select {
			case keys := <-done:
				assert.Equal(t, tt.want, keys)
				assert.Equal(t, len(tt.want), DaySpan(tt.start, tt.end, loc))
			case <-time.After(2 * time.Second):
				t.Fatal("DayKeys did not return")
			}
		})
	}
}

func TestStartOfDay_SkippedMidnight(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	got := StartOfDay(time.Date(2018, 11, 4, 12, 0, 0, 0, saoPaulo), saoPaulo)

	assert.Equal(t, "2018-11-04", DayKey(got, saoPaulo))
	assert.True(t, got.Equal(time.Date(2018, 11, 4, 3, 0, 0, 0, time.UTC)), "got %s", got)

	// Ordinary days still start at midnight
	got = StartOfDay(time.Date(2018, 11, 5, 12, 0, 0, 0, saoPaulo), saoPaulo)
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, "2018-11-05", DayKey(got, saoPaulo))
}

func TestDaySpan(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaySpan(jan1, jan1, time.UTC))
	assert.Equal(t, 366, DaySpan(jan1, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), time.UTC))
	assert.Equal(t, 0, DaySpan(jan1, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), time.UTC))

	// 23:00 UTC is already the next day in Tokyo
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, 2, DaySpan(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), jan1, tokyo))
}

func TestDayKeys_StartAfterEnd(t *testing.T) {
	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, DayKeys(start, end, time.UTC))
}

func TestFormatAmount(t *testing.T) {
	// Variables, so the sum happens in float64 rather than as an exact constant
	a, b := 0.1, 0.2
	tests := []struct {
		value float64
		want  string
	}{
		{0, "0"},
		{12.5, "12.5"},
		{-3, "-3"},
		{1000000, "1000000"},
		{a + b, "0.30000000000000004"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.value); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
