package domain

import (
	"bytes"
	"encoding/json"
)

// SolverSolution is the optimizer's JSON response passed through verbatim,
// with routes, total_distance and total_time rewritten to their normalized
// values. The payload is never mutated after construction.
type SolverSolution struct {
	Payload json.RawMessage
}

func (s SolverSolution) MarshalJSON() ([]byte, error) {
	if len(s.Payload) == 0 {
		return []byte("null"), nil
	}
	return s.Payload, nil
}

func (s *SolverSolution) UnmarshalJSON(b []byte) error {
	s.Payload = append(json.RawMessage(nil), bytes.TrimSpace(b)...)
	return nil
}
