package models

// View selects which service lines a report collects.
type View string

const (
	ViewDashboard  View = "dashboard"
	ViewStatistics View = "statistics"
)

// RecordsChangedEvent is pushed to websocket clients after an upsert so open
// dashboards know to re-query.
type RecordsChangedEvent struct {
	Type string `json:"type"`
	Date string `json:"date"`
}

const EventRecordsChanged = "records_changed"
