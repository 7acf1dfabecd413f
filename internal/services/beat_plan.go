package services

import (
	"beat-planning-service/internal/domain"
	"beat-planning-service/internal/platform/obs"
	"beat-planning-service/internal/ports"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// The slice of the application state the planning flows write to.
type RouteStore interface {
	SetRoutes(ctx context.Context, routes []domain.Route) error
	SetSolution(ctx context.Context, solution *domain.SolverSolution) error
}

// ImportBeatPlan groups uploaded rows into routes and replaces the stored
// routes with them. ErrNoData is returned untouched for empty uploads.
func ImportBeatPlan(
	ctx context.Context,
	rows []domain.RawRow,
	estimator ports.MetricEstimator,
	store RouteStore,
) (_ GroupResult, err error) {
	defer obs.Time(ctx, "plans.Import")(&err)

	res, err := GroupRows(rows, estimator)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return GroupResult{}, err
		}
		return GroupResult{}, fmt.Errorf("import beat plan: %w", err)
	}

	if res.DroppedRows > 0 {
		obs.L().Info("beat plan rows dropped",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.Int("dropped", res.DroppedRows),
			zap.Int("rows", len(rows)),
		)
	}

	if err := store.SetRoutes(ctx, res.Routes); err != nil {
		return GroupResult{}, fmt.Errorf("import beat plan: store routes: %w", err)
	}

	return res, nil
}

// RunSolver submits a solve, normalizes the response and stores both the
// solution and its routes. On failure the stored solution is cleared and
// the solver error is returned; routes from earlier runs are kept.
func RunSolver(
	ctx context.Context,
	solver ports.Solver,
	req ports.SolveRequest,
	store RouteStore,
) (_ NormalizedSolution, err error) {
	defer obs.Time(ctx, "solver.Run")(&err)

	raw, err := solver.SolveBeatPlanning(ctx, req)
	if err != nil {
		if clearErr := store.SetSolution(ctx, nil); clearErr != nil {
			obs.L().Warn("clear solution failed", zap.Error(clearErr))
		}
		return NormalizedSolution{}, fmt.Errorf("run solver: %w", err)
	}

	norm, err := NormalizeSolution(raw)
	if err != nil {
		return NormalizedSolution{}, fmt.Errorf("run solver: %w", err)
	}

	if err := store.SetSolution(ctx, &norm.Solution); err != nil {
		return NormalizedSolution{}, fmt.Errorf("run solver: store solution: %w", err)
	}
	if err := store.SetRoutes(ctx, norm.Routes); err != nil {
		return NormalizedSolution{}, fmt.Errorf("run solver: store routes: %w", err)
	}

	return norm, nil
}
