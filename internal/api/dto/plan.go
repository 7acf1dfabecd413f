package dto

import (
	"beat-planning-service/internal/domain"
	"encoding/json"
)

// Optional solve parameters; nil fields are not sent to the optimizer.
type SolveOptions struct {
	NumSalespeople     *int     `validate:"omitnil,gt=0"`
	DailyWorkingHours  *float64 `validate:"omitnil,gt=0,lte=24"`
	MaxDailyDistanceKm *float64 `validate:"omitnil,gt=0"`
	TargetStoresPerDay *int     `validate:"omitnil,gt=0"`
}

type UploadPlanResponse struct {
	Routes      []domain.Route `json:"routes"`
	DroppedRows int            `json:"droppedRows"`
}

type SolveResponse struct {
	Solution     json.RawMessage `json:"solution"`
	Routes       []domain.Route  `json:"routes"`
	DroppedStops int             `json:"droppedStops"`
}
