package handlers

import (
	"beat-planning-service/internal/api/dto"
	"beat-planning-service/internal/domain"
	"beat-planning-service/internal/services"
	"beat-planning-service/internal/state"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	Store *state.Store
}

func (h *AssignmentHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"assignments": h.Store.Assignments()})
}

// Create prepends a new assignment.
func (h *AssignmentHandler) Create(c *gin.Context) {
	h.upsert(c, "", http.StatusCreated)
}

// Update replaces the assignment named in the path, keeping its position.
func (h *AssignmentHandler) Update(c *gin.Context) {
	h.upsert(c, c.Param("id"), http.StatusOK)
}

func (h *AssignmentHandler) upsert(c *gin.Context, id string, status int) {
	var req dto.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dto.Validate(req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.Store.UpsertAssignment(c.Request.Context(), state.AssignmentFields{
		ID:              id,
		SalespersonID:   req.SalespersonID,
		SalespersonName: req.SalespersonName,
		RouteID:         req.RouteID,
		Status:          domain.AssignmentStatus(req.Status),
		Progress:        *req.Progress,
	})
	if err != nil {
		writeServiceError(c, "upsert assignment", err)
		return
	}

	writeJSON(c, status, a)
}

type RouteHandler struct {
	Store *state.Store
}

func (h *RouteHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"routes": h.Store.Routes()})
}

// Metrics returns the dashboard headline figures.
func (h *RouteHandler) Metrics(c *gin.Context) {
	snap := h.Store.Snapshot()
	writeJSON(c, http.StatusOK, services.Summarize(snap.Routes, snap.Assignments))
}
