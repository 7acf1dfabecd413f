package services

import (
	"beat-planning-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	routes := []domain.Route{
		{Stops: make([]domain.Stop, 3), Metrics: &domain.RouteMetrics{Efficiency: domain.Ptr(90)}},
		{Stops: make([]domain.Stop, 2), Metrics: &domain.RouteMetrics{Efficiency: domain.Ptr(85)}},
		{Stops: nil},
	}
	assignments := []domain.Assignment{
		{Status: domain.StatusCompleted},
		{Status: domain.StatusInProgress},
		{Status: domain.StatusCompleted},
	}

	s := Summarize(routes, assignments)
	assert.Equal(t, Summary{TotalRoutes: 3, TotalStops: 5, AvgEfficiency: 58, CompletionRate: 67}, s)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil, nil))
}
