package ports

import "beat-planning-service/internal/domain"

// Contract for deriving display metrics from a route's ordered stops.
// Estimate is only called with at least one stop.
type MetricEstimator interface {
	Estimate(stops []domain.Stop) domain.RouteMetrics
}
