package services

import "beat-planning-service/internal/domain"

// Summary holds the dashboard headline figures.
type Summary struct {
	TotalRoutes    int `json:"totalRoutes"`
	TotalStops     int `json:"totalStops"`
	AvgEfficiency  int `json:"avgEfficiency"`
	CompletionRate int `json:"completionRate"`
}

// Summarize computes headline figures. Routes without an efficiency count
// as 0; rates are rounded percentages and 0 for empty collections.
func Summarize(routes []domain.Route, assignments []domain.Assignment) Summary {
	s := Summary{TotalRoutes: len(routes)}

	effSum := 0
	for _, r := range routes {
		s.TotalStops += len(r.Stops)
		if r.Metrics != nil && r.Metrics.Efficiency != nil {
			effSum += *r.Metrics.Efficiency
		}
	}
	if len(routes) > 0 {
		s.AvgEfficiency = int(roundHalfUp(float64(effSum) / float64(len(routes))))
	}

	if len(assignments) > 0 {
		done := 0
		for _, a := range assignments {
			if a.Status == domain.StatusCompleted {
				done++
			}
		}
		s.CompletionRate = int(roundHalfUp(float64(done) / float64(len(assignments)) * 100))
	}

	return s
}
