package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2 January 2024 is a Tuesday.
var refTuesday = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endDay(y int, m time.Month, d int) time.Time {
	return EndOfDay(day(y, m, d))
}

func TestResolve_Presets(t *testing.T) {
	tests := []struct {
		mode     FilterMode
		from, to time.Time
	}{
		{Today, day(2024, 1, 2), endDay(2024, 1, 2)},
		{Yesterday, day(2024, 1, 1), endDay(2024, 1, 1)},
		{ThisWeek, day(2023, 12, 31), endDay(2024, 1, 6)},
		{ThisMonth, day(2024, 1, 1), endDay(2024, 1, 31)},
		{Last7Days, day(2023, 12, 27), endDay(2024, 1, 2)},
		{ThisWeekFetched, day(2023, 12, 24), endDay(2024, 1, 6)},
		{ThisMonthFetched, day(2023, 12, 1), endDay(2024, 1, 31)},
		{All, time.Unix(0, 0).UTC(), refTuesday},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			w, err := Resolve(tt.mode, nil, refTuesday)
			require.NoError(t, err)
			assert.True(t, tt.from.Equal(w.From), "from: want %s got %s", tt.from, w.From)
			assert.True(t, tt.to.Equal(w.To), "to: want %s got %s", tt.to, w.To)
			assert.False(t, w.Empty())
		})
	}
}

func TestResolve_TodayStaysOnReferenceDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	ref := time.Date(2024, time.March, 10, 0, 15, 0, 0, loc)

	w, err := Resolve(Today, nil, ref)
	require.NoError(t, err)
	assert.Equal(t, ref.YearDay(), w.From.YearDay())
	assert.Equal(t, ref.YearDay(), w.To.YearDay())
	assert.False(t, w.From.After(w.To))
	assert.Equal(t, loc, w.From.Location())
}

func TestResolve_ThisMonthFetchedDoesNotOverflow(t *testing.T) {
	ref := time.Date(2023, time.March, 31, 12, 0, 0, 0, time.UTC)
	w, err := Resolve(ThisMonthFetched, nil, ref)
	require.NoError(t, err)
	assert.True(t, day(2023, 2, 1).Equal(w.From))
	assert.True(t, endDay(2023, 3, 31).Equal(w.To))
}

func TestResolve_Custom(t *testing.T) {
	custom := &DateWindow{
		From: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC),
	}
	w, err := Resolve(Custom, custom, refTuesday)
	require.NoError(t, err)
	assert.True(t, day(2024, 1, 5).Equal(w.From))
	assert.True(t, endDay(2024, 1, 9).Equal(w.To))
}

func TestResolve_CustomInvalid(t *testing.T) {
	tests := map[string]*DateWindow{
		"nil range":   nil,
		"missing from": {To: day(2024, 1, 1)},
		"missing to":   {From: day(2024, 1, 1)},
		"reversed":     {From: day(2024, 1, 9), To: day(2024, 1, 5)},
	}
	for name, custom := range tests {
		t.Run(name, func(t *testing.T) {
			w, err := Resolve(Custom, custom, refTuesday)
			assert.ErrorIs(t, err, ErrInvalidRange)
			assert.True(t, w.Empty())
		})
	}
}

func TestResolve_UnknownMode(t *testing.T) {
	_, err := Resolve(FilterMode("Fortnight"), nil, refTuesday)
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestParseFilterMode(t *testing.T) {
	tests := map[string]FilterMode{
		"Today":             Today,
		"yesterday":         Yesterday,
		"ThisWeek":          ThisWeek,
		"this_month":        ThisMonth,
		"last-7-days":       Last7Days,
		"This Week Fetched": ThisWeekFetched,
		"ThisMonthFetched":  ThisMonthFetched,
		" all ":             All,
		"CUSTOM":            Custom,
	}
	for in, want := range tests {
		got, err := ParseFilterMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFilterMode("quarter")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestPreviousWindow(t *testing.T) {
	tests := []struct {
		mode     FilterMode
		ref      time.Time
		from, to time.Time
	}{
		{Today, refTuesday, day(2024, 1, 1), endDay(2024, 1, 1)},
		{Yesterday, refTuesday, day(2023, 12, 31), endDay(2023, 12, 31)},
		{ThisWeek, refTuesday, day(2023, 12, 24), endDay(2023, 12, 30)},
		{Last7Days, refTuesday, day(2023, 12, 20), endDay(2023, 12, 26)},
		{ThisMonth, refTuesday, day(2023, 12, 1), endDay(2023, 12, 31)},
		// 1 March minus 30 days lands in January.
		{ThisMonth, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), day(2023, 1, 1), endDay(2023, 1, 31)},
		{ThisMonth, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), day(2024, 1, 1), endDay(2024, 1, 31)},
		{ThisMonth, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), day(2024, 4, 1), endDay(2024, 4, 30)},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode)+" "+tt.ref.Format("2006-01-02"), func(t *testing.T) {
			current, err := Resolve(tt.mode, nil, tt.ref)
			require.NoError(t, err)
			prev, ok := PreviousWindow(tt.mode, current)
			require.True(t, ok)
			assert.True(t, tt.from.Equal(prev.From), "from: want %s got %s", tt.from, prev.From)
			assert.True(t, tt.to.Equal(prev.To), "to: want %s got %s", tt.to, prev.To)
		})
	}
}

func TestPreviousWindow_NoComparison(t *testing.T) {
	for _, mode := range []FilterMode{All, Custom, ThisWeekFetched, ThisMonthFetched} {
		current := DateWindow{From: day(2024, 1, 1), To: endDay(2024, 1, 7)}
		_, ok := PreviousWindow(mode, current)
		assert.False(t, ok, string(mode))
	}

	_, ok := PreviousWindow(Today, DateWindow{})
	assert.False(t, ok, "empty window")
}

func TestFetchWindow_CoversComparison(t *testing.T) {
	refs := []time.Time{
		refTuesday,
		time.Date(2023, 3, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 31, 9, 0, 0, 0, time.UTC),
	}
	for _, ref := range refs {
		for _, mode := range []FilterMode{Today, Yesterday, ThisWeek, ThisMonth, Last7Days} {
			fetch, err := FetchWindow(mode, nil, ref)
			require.NoError(t, err)
			current, err := Resolve(mode, nil, ref)
			require.NoError(t, err)
			prev, ok := PreviousWindow(mode, current)
			require.True(t, ok)

			for _, w := range []DateWindow{current, prev} {
				assert.False(t, w.From.Before(fetch.From), "%s %s: from not covered", mode, ref)
				assert.False(t, w.To.After(fetch.To), "%s %s: to not covered", mode, ref)
			}
		}
	}
}

func TestFetchWindow_ThisWeekUsesFetchedMode(t *testing.T) {
	fetch, err := FetchWindow(ThisWeek, nil, refTuesday)
	require.NoError(t, err)
	fetched, err := Resolve(ThisWeekFetched, nil, refTuesday)
	require.NoError(t, err)
	assert.Equal(t, fetched, fetch)
}

func TestFetchWindow_CustomInvalid(t *testing.T) {
	w, err := FetchWindow(Custom, &DateWindow{}, refTuesday)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.True(t, w.Empty())
}

func TestDateWindow_ContainsUsesWindowLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	w, err := Resolve(Today, nil, time.Date(2024, 1, 2, 1, 0, 0, 0, loc))
	require.NoError(t, err)

	assert.True(t, w.Contains(NewDate(2024, 1, 2)))
	assert.False(t, w.Contains(NewDate(2024, 1, 1)))
	assert.False(t, w.Contains(NewDate(2024, 1, 3)))
}
