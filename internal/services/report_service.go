package services

import (
	"context"
	"sort"
	"time"

	"github.com/carwash/carwash-backend/internal/database"
	"github.com/carwash/carwash-backend/internal/models"
	"golang.org/x/sync/errgroup"
)

// ReportStore runs the dashboard aggregates
type ReportStore interface {
	BookingCounts(ctx context.Context, start, end time.Time) (*models.BookingCounts, error)
	NewUsers(ctx context.Context, start, end time.Time) (int, error)
}

// RevenueStore reads paid transactions
type RevenueStore interface {
	PaidRevenue(ctx context.Context, start, end time.Time) (int64, error)
	PaidInRange(ctx context.Context, start, end time.Time) ([]models.Transaction, error)
}

// ServiceCounter counts the catalog
type ServiceCounter interface {
	Count(ctx context.Context) (int, error)
}

// BookingLister lists bookings with relations
type BookingLister interface {
	List(ctx context.Context, filter models.BookingFilter, page models.PageRequest, rel database.Relations) ([]models.BookingDetail, int, error)
}

// recentBookingsLimit is the size of the dashboard recent bookings list
const recentBookingsLimit = 10

// financialReportDays is the default financial report window
const financialReportDays = 30

// ReportService builds the admin dashboard and financial report
type ReportService struct {
	reports  ReportStore
	revenue  RevenueStore
	services ServiceCounter
	bookings BookingLister
	now      func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(reports ReportStore, revenue RevenueStore, services ServiceCounter, bookings BookingLister) *ReportService {
	return &ReportService{
		reports:  reports,
		revenue:  revenue,
		services: services,
		bookings: bookings,
		now:      time.Now,
	}
}

// DashboardStats runs the dashboard queries concurrently over [period start, now]
func (s *ReportService) DashboardStats(ctx context.Context, periodStr string) (*models.DashboardStats, error) {
	period := models.ParseDashboardPeriod(periodStr)
	end := s.now()
	start := period.WindowStart(end)

	stats := &models.DashboardStats{Period: period}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := s.reports.BookingCounts(gctx, start, end)
		if err != nil {
			return err
		}
		stats.Bookings = *counts
		return nil
	})
	g.Go(func() error {
		total, err := s.revenue.PaidRevenue(gctx, start, end)
		stats.Revenue.Total = total
		return err
	})
	g.Go(func() error {
		n, err := s.reports.NewUsers(gctx, start, end)
		stats.Users.Total = n
		return err
	})
	g.Go(func() error {
		n, err := s.services.Count(gctx)
		stats.Services.Total = n
		return err
	})
	g.Go(func() error {
		recent, _, err := s.bookings.List(gctx, models.BookingFilter{},
			models.PageRequest{Page: 1, Limit: recentBookingsLimit}, database.WithUser|database.WithTransaction)
		stats.RecentBookings = recent
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if stats.RecentBookings == nil {
		stats.RecentBookings = []models.BookingDetail{}
	}
	return stats, nil
}

// FinancialReport buckets paid revenue. Without both bounds it covers the trailing 30 days.
func (s *ReportService) FinancialReport(ctx context.Context, startStr, endStr, groupByStr string) (*models.FinancialReport, error) {
	groupBy := models.ParseGroupBy(groupByStr)

	end := s.now()
	start := end.AddDate(0, 0, -financialReportDays)
	if startStr != "" && endStr != "" {
		var err error
		start, end, err = parseRange(startStr, endStr)
		if err != nil {
			return nil, err
		}
	}

	txns, err := s.revenue.PaidInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*models.ChartPoint)
	var summary models.ReportSummary
	for _, t := range txns {
		key := groupBy.BucketKey(t.CreatedAt)
		point, ok := buckets[key]
		if !ok {
			point = &models.ChartPoint{Date: key}
			buckets[key] = point
		}
		point.Revenue += t.Amount
		point.Count++
		summary.TotalRevenue += t.Amount
		summary.TotalTransactions++
	}
	if summary.TotalTransactions > 0 {
		summary.AverageTransaction = float64(summary.TotalRevenue) / float64(summary.TotalTransactions)
	}

	chart := make([]models.ChartPoint, 0, len(buckets))
	for _, p := range buckets {
		chart = append(chart, *p)
	}
	sort.Slice(chart, func(i, j int) bool { return chart[i].Date < chart[j].Date })

	return &models.FinancialReport{
		Period:    models.ReportPeriod{Start: start, End: end},
		GroupBy:   groupBy,
		Summary:   summary,
		ChartData: chart,
	}, nil
}
