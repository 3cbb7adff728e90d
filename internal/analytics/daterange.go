package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidRange  = errors.New("invalid date range")
	ErrUnknownFilter = errors.New("unknown filter")
)

// FilterMode selects the reporting window. Values are the labels shown in the
// dashboard filter dropdown.
type FilterMode string

const (
	Today            FilterMode = "Today"
	Yesterday        FilterMode = "Yesterday"
	ThisWeek         FilterMode = "This Week"
	ThisMonth        FilterMode = "This Month"
	Last7Days        FilterMode = "Last 7 Days"
	ThisWeekFetched  FilterMode = "This Week Fetched"
	ThisMonthFetched FilterMode = "This Month Fetched"
	All              FilterMode = "All"
	Custom           FilterMode = "Custom"
)

var filterModes = []FilterMode{
	Today, Yesterday, ThisWeek, ThisMonth, Last7Days,
	ThisWeekFetched, ThisMonthFetched, All, Custom,
}

func normalizeFilterName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

// ParseFilterMode accepts display labels ("This Week"), camel case ("ThisWeek")
// and snake or kebab case ("this_week"), ignoring case.
func ParseFilterMode(s string) (FilterMode, error) {
	key := normalizeFilterName(s)
	for _, m := range filterModes {
		if normalizeFilterName(string(m)) == key {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// DateWindow is an inclusive [From, To] range. The zero value is the empty
// window, which contains nothing.
type DateWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (w DateWindow) Empty() bool {
	return w.From.IsZero() || w.To.IsZero() || w.From.After(w.To)
}

// Contains reports whether the calendar day d falls inside the window. The day
// is interpreted in the location of w.From.
func (w DateWindow) Contains(d Date) bool {
	if w.Empty() {
		return false
	}
	day := d.On(w.From.Location())
	return !day.Before(StartOfDay(w.From)) && !day.After(EndOfDay(w.To))
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// StartOfWeek returns the Sunday that starts t's week.
func StartOfWeek(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func EndOfWeek(t time.Time) time.Time {
	return EndOfDay(StartOfWeek(t).AddDate(0, 0, 6))
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func EndOfMonth(t time.Time) time.Time {
	return EndOfDay(StartOfMonth(t).AddDate(0, 1, -1))
}

func dayWindow(t time.Time) DateWindow {
	return DateWindow{From: StartOfDay(t), To: EndOfDay(t)}
}

// Resolve maps a filter to a concrete window relative to ref. Day arithmetic
// happens in ref's location. Custom uses the supplied range; a missing bound or
// a reversed range yields ErrInvalidRange together with the empty window.
func Resolve(mode FilterMode, custom *DateWindow, ref time.Time) (DateWindow, error) {
	switch mode {
	case Today:
		return dayWindow(ref), nil
	case Yesterday:
		return dayWindow(ref.AddDate(0, 0, -1)), nil
	case ThisWeek:
		return DateWindow{From: StartOfWeek(ref), To: EndOfWeek(ref)}, nil
	case ThisMonth:
		return DateWindow{From: StartOfMonth(ref), To: EndOfMonth(ref)}, nil
	case Last7Days:
		return DateWindow{From: StartOfDay(ref.AddDate(0, 0, -6)), To: EndOfDay(ref)}, nil
	case ThisWeekFetched:
		return DateWindow{From: StartOfWeek(ref.AddDate(0, 0, -7)), To: EndOfWeek(ref)}, nil
	case ThisMonthFetched:
		// Step back from the first of the month so day 31 never overflows.
		return DateWindow{From: StartOfMonth(StartOfMonth(ref).AddDate(0, -1, 0)), To: EndOfMonth(ref)}, nil
	case All:
		return DateWindow{From: time.Unix(0, 0).In(ref.Location()), To: ref}, nil
	case Custom:
		if custom == nil || custom.From.IsZero() || custom.To.IsZero() {
			return DateWindow{}, fmt.Errorf("%w: custom filter needs both from and to", ErrInvalidRange)
		}
		w := DateWindow{From: StartOfDay(custom.From), To: EndOfDay(custom.To)}
		if w.From.After(w.To) {
			return DateWindow{}, fmt.Errorf("%w: from %s is after to %s", ErrInvalidRange,
				custom.From.Format(dateLayout), custom.To.Format(dateLayout))
		}
		return w, nil
	}
	return DateWindow{}, fmt.Errorf("%w: %q", ErrUnknownFilter, string(mode))
}

// PreviousWindow returns the comparable window immediately before current.
// The month comparison steps back a fixed 30 days before taking month bounds,
// so a window starting on 1 March resolves to January in non-leap years.
// All, Custom and the fetch-only modes have no comparison.
func PreviousWindow(mode FilterMode, current DateWindow) (DateWindow, bool) {
	if current.Empty() {
		return DateWindow{}, false
	}
	switch mode {
	case Today, Yesterday:
		return DateWindow{
			From: StartOfDay(current.From.AddDate(0, 0, -1)),
			To:   EndOfDay(current.To.AddDate(0, 0, -1)),
		}, true
	case ThisWeek, Last7Days:
		return DateWindow{
			From: StartOfDay(current.From.AddDate(0, 0, -7)),
			To:   EndOfDay(current.To.AddDate(0, 0, -7)),
		}, true
	case ThisMonth:
		ref := current.From.AddDate(0, 0, -30)
		return DateWindow{From: StartOfMonth(ref), To: EndOfMonth(ref)}, true
	}
	return DateWindow{}, false
}

// FetchWindow is the range a caller must load so that both the current window
// and its comparison window are covered.
func FetchWindow(mode FilterMode, custom *DateWindow, ref time.Time) (DateWindow, error) {
	switch mode {
	case ThisWeek:
		return Resolve(ThisWeekFetched, nil, ref)
	case ThisMonth:
		current, _ := Resolve(ThisMonth, nil, ref)
		fetched, _ := Resolve(ThisMonthFetched, nil, ref)
		if prev, ok := PreviousWindow(ThisMonth, current); ok && prev.From.Before(fetched.From) {
			fetched.From = prev.From
		}
		return fetched, nil
	}
	current, err := Resolve(mode, custom, ref)
	if err != nil {
		return current, err
	}
	if prev, ok := PreviousWindow(mode, current); ok {
		return union(current, prev), nil
	}
	return current, nil
}

func union(a, b DateWindow) DateWindow {
	w := a
	if b.From.Before(w.From) {
		w.From = b.From
	}
	if b.To.After(w.To) {
		w.To = b.To
	}
	return w
}
