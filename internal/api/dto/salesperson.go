package dto

type CreateSalespersonRequest struct {
	Name      string   `json:"name" validate:"required"`
	Contact   string   `json:"contact"`
	StartLat  *float64 `json:"startLat" validate:"required_with=StartLng,omitempty,latitude"`
	StartLng  *float64 `json:"startLng" validate:"required_with=StartLat,omitempty,longitude"`
	StartName string   `json:"startName"`
}
