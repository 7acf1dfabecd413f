package dto

type AssignmentRequest struct {
	SalespersonID   string   `json:"salespersonId" validate:"required"`
	SalespersonName string   `json:"salespersonName"`
	RouteID         string   `json:"routeId"`
	Status          string   `json:"status" validate:"required,oneof=not-started in-progress completed blocked"`
	Progress        *float64 `json:"progress" validate:"required"`
}
