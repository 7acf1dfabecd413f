// Package state holds the application state: enrolled salespeople, the
// current routes, assignments and the last solver result.
package state

import (
	"beat-planning-service/internal/domain"
	"beat-planning-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidStatus = errors.New("invalid assignment status")

// Version written into the persisted envelope. Blobs are rehydrated as-is
// whatever their version.
const persistVersion = 0

// Snapshot is an immutable copy of the state. Callers own it.
type Snapshot struct {
	Salespeople []domain.Salesperson   `json:"salespeople"`
	Routes      []domain.Route         `json:"routes"`
	Assignments []domain.Assignment    `json:"assignments"`
	Solution    *domain.SolverSolution `json:"solution"`
}

type envelope struct {
	State   Snapshot `json:"state"`
	Version int      `json:"version"`
}

// AssignmentFields are the caller-supplied fields of an upsert. ID is
// optional; progress is clamped and rounded on the way in.
type AssignmentFields struct {
	ID              string
	SalespersonID   string
	SalespersonName string
	RouteID         string
	Status          domain.AssignmentStatus
	Progress        float64
}

// Store is the single writer of the application state. Each mutation is
// applied to a copy, persisted, then published, so readers only ever see
// whole states and a failed save leaves the previous state in place.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot

	repo  ports.StateRepository
	now   func() time.Time
	newID func(prefix string) string
	log   *zap.Logger
}

type Option func(*Store)

// WithRepository persists every mutation through r.
func WithRepository(r ports.StateRepository) Option {
	return func(s *Store) { s.repo = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func(prefix string) string) Option {
	return func(s *Store) { s.newID = gen }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

func New(opts ...Option) *Store {
	s := &Store{
		snap:  emptySnapshot(),
		now:   time.Now,
		newID: newID,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Salespeople: []domain.Salesperson{},
		Routes:      []domain.Route{},
		Assignments: []domain.Assignment{},
	}
}

// Load rehydrates the state from the repository. A missing blob leaves the
// state empty.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	data, found, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if !found {
		s.log.Info("no persisted state, starting empty")
		return nil
	}

	snap, version, err := decode(data)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if version != persistVersion {
		s.log.Warn("persisted state has a different version, loading as-is",
			zap.Int("version", version), zap.Int("want", persistVersion))
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.log.Info("state loaded",
		zap.Int("salespeople", len(snap.Salespeople)),
		zap.Int("routes", len(snap.Routes)),
		zap.Int("assignments", len(snap.Assignments)),
	)
	return nil
}

// Export returns the persisted form of the current state.
func (s *Store) Export() ([]byte, error) {
	return encode(s.Snapshot())
}

// Restore replaces the whole state with a previously exported blob.
func (s *Store) Restore(ctx context.Context, data []byte) error {
	snap, _, err := decode(data)
	if err != nil {
		return fmt.Errorf("restore state: %w", err)
	}
	return s.update(ctx, "restore", func(next *Snapshot) error {
		*next = snap
		return nil
	})
}

func decode(data []byte) (Snapshot, int, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Snapshot{}, 0, fmt.Errorf("decode state: %w", err)
	}
	return env.State.clone(), env.Version, nil
}

func encode(snap Snapshot) ([]byte, error) {
	b, err := json.Marshal(envelope{State: snap, Version: persistVersion})
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return b, nil
}

// update applies fn to a copy of the state, persists the copy and only then
// makes it visible.
func (s *Store) update(ctx context.Context, op string, fn func(next *Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.clone()
	if err := fn(&next); err != nil {
		return err
	}

	if s.repo != nil {
		data, err := encode(next)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := s.repo.Save(ctx, data); err != nil {
			return fmt.Errorf("%s: persist: %w", op, err)
		}
	}

	s.snap = next
	s.log.Debug("state updated", zap.String("op", op))
	return nil
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

func (s *Store) Salespeople() []domain.Salesperson { return s.Snapshot().Salespeople }
func (s *Store) Routes() []domain.Route             { return s.Snapshot().Routes }
func (s *Store) Assignments() []domain.Assignment   { return s.Snapshot().Assignments }

// Solution returns the last solver result, or nil.
func (s *Store) Solution() *domain.SolverSolution { return s.Snapshot().Solution }

// AddSalesperson enrolls a salesperson at the head of the list and creates
// their not-started assignment.
func (s *Store) AddSalesperson(ctx context.Context, in domain.NewSalesperson) (domain.Salesperson, error) {
	now := s.now().UTC()
	sp := domain.Salesperson{
		ID:        s.newID("sp"),
		Name:      in.Name,
		Contact:   in.Contact,
		StartLat:  in.StartLat,
		StartLng:  in.StartLng,
		StartName: in.StartName,
		CreatedAt: now,
	}.Clone()

	a := domain.Assignment{
		ID:              s.newID("as"),
		SalespersonID:   sp.ID,
		SalespersonName: sp.Name,
		Status:          domain.StatusNotStarted,
		Progress:        0,
		UpdatedAt:       now,
	}

	err := s.update(ctx, "add salesperson", func(next *Snapshot) error {
		next.Salespeople = append([]domain.Salesperson{sp}, next.Salespeople...)
		next.Assignments = append([]domain.Assignment{a}, next.Assignments...)
		return nil
	})
	if err != nil {
		return domain.Salesperson{}, err
	}
	return sp.Clone(), nil
}

// SetRoutes replaces all routes and re-links assignments: by salesperson id
// first, then by salesperson name. Unmatched assignments keep their route.
func (s *Store) SetRoutes(ctx context.Context, routes []domain.Route) error {
	incoming := cloneRoutes(routes)

	return s.update(ctx, "set routes", func(next *Snapshot) error {
		next.Routes = incoming

		byID := make(map[string]string, len(incoming))
		byName := make(map[string]string, len(incoming))
		for _, r := range incoming {
			if _, ok := byID[r.SalespersonID]; !ok && r.SalespersonID != "" {
				byID[r.SalespersonID] = r.ID
			}
			if _, ok := byName[r.SalespersonName]; !ok && r.SalespersonName != "" {
				byName[r.SalespersonName] = r.ID
			}
		}

		for i := range next.Assignments {
			a := &next.Assignments[i]
			if id, ok := byID[a.SalespersonID]; ok {
				a.RouteID = id
			} else if id, ok := byName[a.SalespersonName]; ok {
				a.RouteID = id
			}
		}
		return nil
	})
}

// SetSolution stores the last solver result verbatim; nil clears it.
func (s *Store) SetSolution(ctx context.Context, solution *domain.SolverSolution) error {
	var stored *domain.SolverSolution
	if solution != nil {
		stored = &domain.SolverSolution{Payload: append(json.RawMessage(nil), solution.Payload...)}
	}

	return s.update(ctx, "set solution", func(next *Snapshot) error {
		next.Solution = stored
		return nil
	})
}

// UpsertAssignment replaces the assignment with in.ID in place, or prepends
// a new one when the id is empty or unknown.
func (s *Store) UpsertAssignment(ctx context.Context, in AssignmentFields) (domain.Assignment, error) {
	if !in.Status.Valid() {
		return domain.Assignment{}, fmt.Errorf("upsert assignment: %w: %q", ErrInvalidStatus, in.Status)
	}

	id := in.ID
	if id == "" {
		id = s.newID("as")
	}

	full := domain.Assignment{
		ID:              id,
		SalespersonID:   in.SalespersonID,
		SalespersonName: in.SalespersonName,
		RouteID:         in.RouteID,
		Status:          in.Status,
		Progress:        domain.ClampPercent(in.Progress),
		UpdatedAt:       s.now().UTC(),
	}

	err := s.update(ctx, "upsert assignment", func(next *Snapshot) error {
		for i := range next.Assignments {
			if next.Assignments[i].ID == id {
				next.Assignments[i] = full
				return nil
			}
		}
		next.Assignments = append([]domain.Assignment{full}, next.Assignments...)
		return nil
	})
	if err != nil {
		return domain.Assignment{}, err
	}
	return full, nil
}

// Reset clears all four collections.
func (s *Store) Reset(ctx context.Context) error {
	return s.update(ctx, "reset", func(next *Snapshot) error {
		*next = emptySnapshot()
		return nil
	})
}

func (snap Snapshot) clone() Snapshot {
	out := Snapshot{
		Salespeople: make([]domain.Salesperson, 0, len(snap.Salespeople)),
		Routes:      cloneRoutes(snap.Routes),
		Assignments: append(make([]domain.Assignment, 0, len(snap.Assignments)), snap.Assignments...),
	}
	for _, sp := range snap.Salespeople {
		out.Salespeople = append(out.Salespeople, sp.Clone())
	}
	if snap.Solution != nil {
		out.Solution = &domain.SolverSolution{Payload: append(json.RawMessage(nil), snap.Solution.Payload...)}
	}
	return out
}

func cloneRoutes(routes []domain.Route) []domain.Route {
	out := make([]domain.Route, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Clone())
	}
	return out
}
