package ports

import (
	"context"
	"encoding/json"
)

// A file attached to a multipart solver request.
type Upload struct {
	Filename string
	Content  []byte
}

// Inputs of a beat-planning solve. Nil options are omitted from the form.
type SolveRequest struct {
	Locations          Upload
	Assignments        Upload
	NumSalespeople     *int
	DailyWorkingHours  *float64
	MaxDailyDistanceKm *float64
	TargetStoresPerDay *int
}

// A field visit reported by a salesperson.
type CheckinRequest struct {
	SalesID      int
	Lat          float64
	Long         float64
	Notes        string
	AssignmentID *int
	Photo        *Upload
}

// Contract for the external optimization service.
type Solver interface {
	// Submit a solve and return the raw JSON response.
	SolveBeatPlanning(ctx context.Context, req SolveRequest) (json.RawMessage, error)
}

// Optional extension of Solver for the authenticated field endpoints.
type FieldService interface {
	Checkin(ctx context.Context, token string, req CheckinRequest) (json.RawMessage, error)
	AdminMetrics(ctx context.Context, token string) (json.RawMessage, error)
}
