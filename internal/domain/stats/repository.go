package stats

import "context"

type Repository interface {
	Revenue(ctx context.Context, filter RangeFilter) (RevenueSummary, error)
	MonthlyRevenue(ctx context.Context, filter RangeFilter) ([]MonthlyRevenue, error)
	BookingsByStatus(ctx context.Context, filter RangeFilter) ([]StatusCount, error)
	// TopServices ranks services by booking count and also reports how many
	// bookings fell inside the window.
	TopServices(ctx context.Context, filter TopServicesFilter) ([]ServiceUsage, int64, error)
}
