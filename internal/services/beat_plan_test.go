package services

import (
	"beat-planning-service/internal/adapters/solver"
	"beat-planning-service/internal/domain"
	"beat-planning-service/internal/ports"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRouteStore struct {
	routes      []domain.Route
	solution    *domain.SolverSolution
	solutionSet int
	err         error
}

func (s *fakeRouteStore) SetRoutes(ctx context.Context, routes []domain.Route) error {
	if s.err != nil {
		return s.err
	}
	s.routes = routes
	return nil
}

func (s *fakeRouteStore) SetSolution(ctx context.Context, solution *domain.SolverSolution) error {
	if s.err != nil {
		return s.err
	}
	s.solution = solution
	s.solutionSet++
	return nil
}

func TestImportBeatPlan(t *testing.T) {
	store := &fakeRouteStore{}
	rows := []domain.RawRow{
		{"salespersonId": "sp_1", "lat": "1", "lng": "2"},
		{"salespersonId": "sp_1", "lat": "bad", "lng": "2"},
	}

	res, err := ImportBeatPlan(context.Background(), rows, &fixedEstimator{}, store)
	require.NoError(t, err)
	assert.Equal(t, 1, res.DroppedRows)
	require.Len(t, store.routes, 1)
	assert.Equal(t, "sp_1", store.routes[0].SalespersonID)
}

func TestImportBeatPlanNoData(t *testing.T) {
	store := &fakeRouteStore{routes: []domain.Route{{ID: "keep"}}}

	_, err := ImportBeatPlan(context.Background(), nil, &fixedEstimator{}, store)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, "keep", store.routes[0].ID)
}

func TestImportBeatPlanStoreError(t *testing.T) {
	store := &fakeRouteStore{err: errors.New("disk full")}
	rows := []domain.RawRow{{"salespersonId": "sp_1", "lat": 1.0, "lng": 2.0}}

	_, err := ImportBeatPlan(context.Background(), rows, &fixedEstimator{}, store)
	assert.ErrorContains(t, err, "disk full")
}

func TestRunSolverStoresSolutionAndRoutes(t *testing.T) {
	mock := solver.NewMockSolver(`{"routes":[{"vehicle_id":0,"route":[{"node":"A","lat":1,"long":2}],"distance":5000,"time":600}],"status":"ok"}`)
	store := &fakeRouteStore{}

	norm, err := RunSolver(context.Background(), mock, ports.SolveRequest{}, store)
	require.NoError(t, err)

	require.Len(t, mock.Solves, 1)
	require.NotNil(t, store.solution)
	assert.JSONEq(t,
		`{"routes":[{"vehicle_id":0,"route":[{"node":"A","lat":1,"long":2}],"distance":5000,"time":600}],"status":"ok","total_distance":null,"total_time":null}`,
		string(store.solution.Payload))
	require.Len(t, store.routes, 1)
	assert.Equal(t, "A", store.routes[0].SalespersonName)
	assert.Equal(t, norm.Routes, store.routes)
}

func TestRunSolverFailureClearsSolution(t *testing.T) {
	mock := &solver.MockSolver{Err: &solver.APIError{Status: 400, Message: "bad file"}}
	previous := &domain.SolverSolution{Payload: []byte(`{"routes":[]}`)}
	store := &fakeRouteStore{solution: previous, routes: []domain.Route{{ID: "old"}}}

	_, err := RunSolver(context.Background(), mock, ports.SolveRequest{}, store)

	var apiErr *solver.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad file", apiErr.Message)
	assert.Nil(t, store.solution)
	assert.Equal(t, 1, store.solutionSet)
	assert.Equal(t, "old", store.routes[0].ID)
}
