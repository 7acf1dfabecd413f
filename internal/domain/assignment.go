package domain

import (
	"fmt"
	"math"
	"time"
)

type AssignmentStatus string

const (
	StatusNotStarted AssignmentStatus = "not-started"
	StatusInProgress AssignmentStatus = "in-progress"
	StatusCompleted  AssignmentStatus = "completed"
	StatusBlocked    AssignmentStatus = "blocked"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusBlocked:
		return true
	}
	return false
}

func ParseAssignmentStatus(s string) (AssignmentStatus, error) {
	st := AssignmentStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown assignment status %q", s)
	}
	return st, nil
}

// Tracks a salesperson's progress on a route.
// RouteID is a back-reference re-linked whenever routes are replaced.
type Assignment struct {
	ID              string           `json:"id"`
	SalespersonID   string           `json:"salespersonId"`
	SalespersonName string           `json:"salespersonName"`
	RouteID         string           `json:"routeId,omitempty"`
	Status          AssignmentStatus `json:"status"`
	Progress        int              `json:"progress"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// ClampPercent rounds p half-up and clamps it to [0,100].
// Assignment progress is always stored through it.
func ClampPercent(p float64) int {
	if math.IsNaN(p) {
		return 0
	}
	r := math.Floor(p + 0.5)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return int(r)
}
