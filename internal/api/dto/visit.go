package dto

type CheckinForm struct {
	SalesID      int     `validate:"gt=0"`
	Lat          float64 `validate:"latitude"`
	Long         float64 `validate:"longitude"`
	Notes        string  `validate:"max=2000"`
	AssignmentID *int    `validate:"omitnil,gt=0"`
}
