package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/hospital-ops-backend/internal/analytics"
)

// DefaultFilter is used when the request has no filter parameter.
const DefaultFilter = analytics.ThisWeek

var dateLayouts = []string{"02/01/2006", "2006-01-02"}

// parseDay accepts dd/mm/yyyy and yyyy-mm-dd in loc. Empty input returns the
// zero time.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected dd/mm/yyyy or yyyy-mm-dd", s)
}

// parseQuery reads filter, from, to and reference. A custom range is passed
// through as given; the engine decides whether it is usable.
func parseQuery(c echo.Context, loc *time.Location) (analytics.Query, error) {
	q := analytics.Query{Mode: DefaultFilter}
	if s := c.QueryParam("filter"); s != "" {
		mode, err := analytics.ParseFilterMode(s)
		if err != nil {
			return q, err
		}
		q.Mode = mode
	}

	from, err := parseDay(c.QueryParam("from"), loc)
	if err != nil {
		return q, fmt.Errorf("from: %w", err)
	}
	to, err := parseDay(c.QueryParam("to"), loc)
	if err != nil {
		return q, fmt.Errorf("to: %w", err)
	}
	if q.Mode == analytics.Custom {
		q.Custom = &analytics.DateWindow{From: from, To: to}
	}

	ref, err := parseDay(c.QueryParam("reference"), loc)
	if err != nil {
		return q, fmt.Errorf("reference: %w", err)
	}
	if !ref.IsZero() {
		// Midday keeps the reference on its calendar day after any offset shift.
		q.Reference = ref.Add(12 * time.Hour)
	}
	return q, nil
}
