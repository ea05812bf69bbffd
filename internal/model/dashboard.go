package model

import "time"

// DashboardTotal is the remote dashboard figure for one period. Month is
// zero-indexed (January = 0), following the dashboard API convention; the
// format package converts for display.
type DashboardTotal struct {
	Amount float64 `json:"totalAmount"`
	Year   int     `json:"year"`
	Month  int     `json:"month"`
}

// DashboardRecord is the cached form of DashboardTotal. Exactly one record
// exists per (year, month) at any time.
type DashboardRecord struct {
	LastUpdated time.Time
	Amount      float64
	Year        int
	Month       int
	ID          int64
}

// Total strips the persistence metadata.
func (r DashboardRecord) Total() DashboardTotal {
	return DashboardTotal{Amount: r.Amount, Year: r.Year, Month: r.Month}
}

// CurrentPeriod returns the default dashboard period for a point in time:
// the calendar year and the zero-indexed month.
func CurrentPeriod(now time.Time) (year, month int) {
	return now.Year(), int(now.Month()) - 1
}
