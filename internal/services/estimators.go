package services

import (
	"beat-planning-service/internal/config"
	"beat-planning-service/internal/domain"
	"beat-planning-service/internal/ports"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

const earthRadiusKm = 6371.0

// PlaceholderEstimator reproduces the dashboard's stand-in metrics:
// 2.5 km and 12 minutes per stop, and an efficiency drawn uniformly from
// [80,100]. The source is injected so runs can be reproduced.
type PlaceholderEstimator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPlaceholderEstimator seeds the efficiency source; seed 0 uses the clock.
func NewPlaceholderEstimator(seed uint64) *PlaceholderEstimator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &PlaceholderEstimator{rnd: rand.New(rand.NewSource(seed))}
}

func (p *PlaceholderEstimator) Estimate(stops []domain.Stop) domain.RouteMetrics {
	n := len(stops)

	p.mu.Lock()
	eff := 80 + p.rnd.Intn(21)
	p.mu.Unlock()

	return domain.RouteMetrics{
		DistanceKm: domain.Ptr(math.Max(1, roundHalfUp(float64(n)*2.5))),
		EtaMinutes: domain.Ptr(n * 12),
		Efficiency: domain.Ptr(eff),
	}
}

// GeodesicEstimator derives metrics from the stop coordinates themselves.
//
// Distance is the great-circle length of the path through the stops in order.
// ETA assumes a constant average speed plus a fixed service time per stop.
// Efficiency is the straight-line distance between first and last stop as
// a percentage of the path length.
type GeodesicEstimator struct {
	SpeedKmh           float64
	ServiceMinutesStop int
}

func (g GeodesicEstimator) Estimate(stops []domain.Stop) domain.RouteMetrics {
	pathKm := 0.0
	for i := 1; i < len(stops); i++ {
		pathKm += greatCircleKm(stops[i-1].Coordinates(), stops[i].Coordinates())
	}

	drive := 0.0
	if g.SpeedKmh > 0 {
		drive = pathKm / g.SpeedKmh * 60
	}
	eta := int(roundHalfUp(drive)) + len(stops)*g.ServiceMinutesStop

	eff := 100
	if pathKm > 0 {
		direct := greatCircleKm(stops[0].Coordinates(), stops[len(stops)-1].Coordinates())
		eff = domain.ClampPercent(direct / pathKm * 100)
	}

	return domain.RouteMetrics{
		DistanceKm: domain.Ptr(roundTo(pathKm, 2)),
		EtaMinutes: domain.Ptr(eta),
		Efficiency: domain.Ptr(eff),
	}
}

func greatCircleKm(a, b domain.Coordinates) float64 {
	return a.LatLng().Distance(b.LatLng()).Radians() * earthRadiusKm
}

// roundHalfUp rounds .5 toward +Inf, matching the dashboard's arithmetic.
func roundHalfUp(x float64) float64 { return math.Floor(x + 0.5) }

func roundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return roundHalfUp(x*p) / p
}

// NewEstimator builds the estimator selected by cfg.Kind.
func NewEstimator(cfg config.EstimatorConfig) (ports.MetricEstimator, error) {
	switch cfg.Kind {
	case config.EstimatorPlaceholder, "":
		return NewPlaceholderEstimator(cfg.Seed), nil
	case config.EstimatorGeodesic:
		if cfg.SpeedKmh <= 0 {
			return nil, fmt.Errorf("new estimator: speed must be positive, got %v", cfg.SpeedKmh)
		}
		return GeodesicEstimator{SpeedKmh: cfg.SpeedKmh, ServiceMinutesStop: cfg.ServiceMinutesStop}, nil
	default:
		return nil, fmt.Errorf("new estimator: unknown kind %q", cfg.Kind)
	}
}
