package models

import "time"

// DashboardPeriod selects the dashboard window
type DashboardPeriod string

const (
	PeriodToday DashboardPeriod = "today"
	PeriodWeek  DashboardPeriod = "week"
	PeriodMonth DashboardPeriod = "month"
)

// ParseDashboardPeriod falls back to today for unknown values
func ParseDashboardPeriod(s string) DashboardPeriod {
	switch DashboardPeriod(s) {
	case PeriodWeek:
		return PeriodWeek
	case PeriodMonth:
		return PeriodMonth
	default:
		return PeriodToday
	}
}

// WindowStart returns the start of the window ending at now
func (p DashboardPeriod) WindowStart(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	default:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}
}

// BookingCounts counts bookings per status
type BookingCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}

// TotalAmount wraps a single aggregate for the dashboard blocks
type TotalAmount struct {
	Total int64 `json:"total"`
}

// TotalCount wraps a single count for the dashboard blocks
type TotalCount struct {
	Total int `json:"total"`
}

// DashboardStats is the admin dashboard payload
type DashboardStats struct {
	Period         DashboardPeriod `json:"period"`
	Bookings       BookingCounts   `json:"bookings"`
	Revenue        TotalAmount     `json:"revenue"`
	Users          TotalCount      `json:"users"`
	Services       TotalCount      `json:"services"`
	RecentBookings []BookingDetail `json:"recentBookings"`
}

// GroupBy selects the financial report bucket size
type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

// ParseGroupBy falls back to day for unknown values
func ParseGroupBy(s string) GroupBy {
	switch GroupBy(s) {
	case GroupByWeek:
		return GroupByWeek
	case GroupByMonth:
		return GroupByMonth
	default:
		return GroupByDay
	}
}

// BucketKey returns the chart bucket of t: UTC date for days,
// the Sunday starting the week for weeks, YYYY-MM for months
func (g GroupBy) BucketKey(t time.Time) string {
	t = t.UTC()
	switch g {
	case GroupByWeek:
		return t.AddDate(0, 0, -int(t.Weekday())).Format("2006-01-02")
	case GroupByMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// ReportPeriod is the resolved range of a financial report
type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReportSummary holds the report totals
type ReportSummary struct {
	TotalRevenue       int64   `json:"totalRevenue"`
	TotalTransactions  int     `json:"totalTransactions"`
	AverageTransaction float64 `json:"averageTransaction"`
}

// ChartPoint is one bucket of the financial chart
type ChartPoint struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
	Count   int    `json:"count"`
}

// FinancialReport is the grouped revenue report
type FinancialReport struct {
	Period    ReportPeriod  `json:"period"`
	GroupBy   GroupBy       `json:"groupBy"`
	Summary   ReportSummary `json:"summary"`
	ChartData []ChartPoint  `json:"chartData"`
}
