package handlers

import (
	"beat-planning-service/internal/adapters/csvrows"
	"beat-planning-service/internal/api/dto"
	"beat-planning-service/internal/ports"
	"beat-planning-service/internal/services"
	"beat-planning-service/internal/state"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	Store     *state.Store
	Estimator ports.MetricEstimator
	Solver    ports.Solver
}

// Upload groups an uploaded beat-plan sheet (multipart field "file") into
// routes and replaces the current routes with them.
func (h *PlanHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "file is required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "cannot read file")
		return
	}
	defer f.Close()

	rows, err := csvrows.Read(fh.Filename, f)
	if err != nil {
		if errors.Is(err, csvrows.ErrUnsupportedFormat) {
			writeError(c, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		writeError(c, http.StatusBadRequest, "cannot parse file: "+err.Error())
		return
	}

	res, err := services.ImportBeatPlan(c.Request.Context(), rows, h.Estimator, h.Store)
	if err != nil {
		writeServiceError(c, "import beat plan", err)
		return
	}

	writeJSON(c, http.StatusOK, dto.UploadPlanResponse{Routes: res.Routes, DroppedRows: res.DroppedRows})
}

// Solve forwards locations_file and assignments_file with the optional
// numeric parameters to the optimizer and stores the normalized result.
func (h *PlanHandler) Solve(c *gin.Context) {
	locations, err := readUpload(c, "locations_file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "Please select both locations.csv and assignments.csv")
		return
	}
	assignments, err := readUpload(c, "assignments_file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "Please select both locations.csv and assignments.csv")
		return
	}

	opts, err := parseSolveOptions(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := dto.Validate(opts); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	req := ports.SolveRequest{
		Locations:          locations,
		Assignments:        assignments,
		NumSalespeople:     opts.NumSalespeople,
		DailyWorkingHours:  opts.DailyWorkingHours,
		MaxDailyDistanceKm: opts.MaxDailyDistanceKm,
		TargetStoresPerDay: opts.TargetStoresPerDay,
	}

	norm, err := services.RunSolver(c.Request.Context(), h.Solver, req, h.Store)
	if err != nil {
		writeServiceError(c, "run solver", err)
		return
	}

	writeJSON(c, http.StatusOK, dto.SolveResponse{
		Solution:     norm.Solution.Payload,
		Routes:       norm.Routes,
		DroppedStops: norm.DroppedStops,
	})
}

// Solution returns the last solver result, or null.
func (h *PlanHandler) Solution(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"solution": h.Store.Solution()})
}

func (h *PlanHandler) Reset(c *gin.Context) {
	if err := h.Store.Reset(c.Request.Context()); err != nil {
		writeServiceError(c, "reset", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func readUpload(c *gin.Context, field string) (ports.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return ports.Upload{}, err
	}
	return readFileHeader(fh)
}

func readFileHeader(fh *multipart.FileHeader) (ports.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return ports.Upload{}, err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return ports.Upload{}, err
	}
	return ports.Upload{Filename: fh.Filename, Content: b}, nil
}

func parseSolveOptions(c *gin.Context) (dto.SolveOptions, error) {
	var opts dto.SolveOptions
	var err error

	if opts.NumSalespeople, err = optionalInt(c, "num_salespeople"); err != nil {
		return opts, err
	}
	if opts.DailyWorkingHours, err = optionalFloat(c, "daily_working_hours"); err != nil {
		return opts, err
	}
	if opts.MaxDailyDistanceKm, err = optionalFloat(c, "max_daily_distance_km"); err != nil {
		return opts, err
	}
	if opts.TargetStoresPerDay, err = optionalInt(c, "target_stores_per_day"); err != nil {
		return opts, err
	}
	return opts, nil
}

// Empty form values count as absent.
func optionalInt(c *gin.Context, key string) (*int, error) {
	v := strings.TrimSpace(c.PostForm(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

func optionalFloat(c *gin.Context, key string) (*float64, error) {
	v := strings.TrimSpace(c.PostForm(key))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &f, nil
}
