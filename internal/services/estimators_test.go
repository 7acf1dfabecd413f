package services

import (
	"beat-planning-service/internal/config"
	"beat-planning-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopsN(n int) []domain.Stop {
	out := make([]domain.Stop, n)
	for i := range out {
		out[i] = domain.Stop{Lat: float64(i), Lng: float64(i)}
	}
	return out
}

func TestPlaceholderEstimator(t *testing.T) {
	est := NewPlaceholderEstimator(42)

	m := est.Estimate(stopsN(1))
	assert.Equal(t, 3.0, *m.DistanceKm) // max(1, round(2.5))
	assert.Equal(t, 12, *m.EtaMinutes)

	m = est.Estimate(stopsN(4))
	assert.Equal(t, 10.0, *m.DistanceKm)
	assert.Equal(t, 48, *m.EtaMinutes)

	for i := 0; i < 200; i++ {
		eff := *est.Estimate(stopsN(2)).Efficiency
		assert.GreaterOrEqual(t, eff, 80)
		assert.LessOrEqual(t, eff, 100)
	}
}

func TestPlaceholderEstimatorIsReproducible(t *testing.T) {
	a := NewPlaceholderEstimator(7)
	b := NewPlaceholderEstimator(7)

	for i := 0; i < 20; i++ {
		assert.Equal(t, *a.Estimate(stopsN(3)).Efficiency, *b.Estimate(stopsN(3)).Efficiency)
	}
}

func TestGeodesicEstimator(t *testing.T) {
	est := GeodesicEstimator{SpeedKmh: 60, ServiceMinutesStop: 10}

	t.Run("straight path along the equator", func(t *testing.T) {
		stops := []domain.Stop{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 0.5}, {Lat: 0, Lng: 1}}
		m := est.Estimate(stops)

		assert.InDelta(t, 111.19, *m.DistanceKm, 0.01)
		assert.Equal(t, 100, *m.Efficiency)
		// 111.19 km at 60 km/h is 111 minutes, plus 3 stops of service.
		assert.Equal(t, 141, *m.EtaMinutes)
	})

	t.Run("round trip has zero efficiency", func(t *testing.T) {
		stops := []domain.Stop{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 0, Lng: 0}}
		m := est.Estimate(stops)
		assert.Equal(t, 0, *m.Efficiency)
	})

	t.Run("single stop", func(t *testing.T) {
		m := est.Estimate([]domain.Stop{{Lat: 10, Lng: 10}})
		assert.Equal(t, 0.0, *m.DistanceKm)
		assert.Equal(t, 100, *m.Efficiency)
		assert.Equal(t, 10, *m.EtaMinutes)
	})
}

func TestNewEstimator(t *testing.T) {
	e, err := NewEstimator(config.EstimatorConfig{Kind: config.EstimatorPlaceholder, Seed: 1})
	require.NoError(t, err)
	assert.IsType(t, &PlaceholderEstimator{}, e)

	e, err = NewEstimator(config.EstimatorConfig{Kind: config.EstimatorGeodesic, SpeedKmh: 40})
	require.NoError(t, err)
	assert.Equal(t, GeodesicEstimator{SpeedKmh: 40}, e)

	_, err = NewEstimator(config.EstimatorConfig{Kind: config.EstimatorGeodesic})
	assert.Error(t, err)

	_, err = NewEstimator(config.EstimatorConfig{Kind: "magic"})
	assert.Error(t, err)
}
