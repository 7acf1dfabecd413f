package domain

import "time"

// An enrolled salesperson. Salespeople are only created through enrollment
// and are never deleted while the state lives.
type Salesperson struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	StartLat  *float64  `json:"startLat,omitempty"`
	StartLng  *float64  `json:"startLng,omitempty"`
	StartName string    `json:"startName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Fields supplied when enrolling a salesperson; id and createdAt are generated.
type NewSalesperson struct {
	Name      string
	Contact   string
	StartLat  *float64
	StartLng  *float64
	StartName string
}

func (s Salesperson) Clone() Salesperson {
	out := s
	if s.StartLat != nil {
		out.StartLat = Ptr(*s.StartLat)
	}
	if s.StartLng != nil {
		out.StartLng = Ptr(*s.StartLng)
	}
	return out
}
