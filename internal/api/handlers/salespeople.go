package handlers

import (
	"beat-planning-service/internal/api/dto"
	"beat-planning-service/internal/domain"
	"beat-planning-service/internal/services"
	"beat-planning-service/internal/state"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type SalespersonHandler struct {
	Store *state.Store
}

func (h *SalespersonHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"salespeople": h.Store.Salespeople()})
}

// Create enrolls a salesperson and opens their not-started assignment.
func (h *SalespersonHandler) Create(c *gin.Context) {
	var req dto.CreateSalespersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := dto.Validate(req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	sp, err := h.Store.AddSalesperson(c.Request.Context(), domain.NewSalesperson{
		Name:      req.Name,
		Contact:   strings.TrimSpace(req.Contact),
		StartLat:  req.StartLat,
		StartLng:  req.StartLng,
		StartName: strings.TrimSpace(req.StartName),
	})
	if err != nil {
		writeServiceError(c, "add salesperson", err)
		return
	}

	writeJSON(c, http.StatusCreated, sp)
}

type ExportHandler struct {
	Store *state.Store
}

func (h *ExportHandler) Enrolled(c *gin.Context) {
	b, err := services.EnrolledCSV(h.Store.Salespeople())
	if err != nil {
		writeServiceError(c, "export enrolled", err)
		return
	}
	writeCSV(c, "enrolled.csv", b)
}

func (h *ExportHandler) Assignments(c *gin.Context) {
	b, err := services.AssignmentsCSV(h.Store.Salespeople())
	if err != nil {
		writeServiceError(c, "export assignments", err)
		return
	}
	writeCSV(c, "assignments.csv", b)
}

func writeCSV(c *gin.Context, filename string, b []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", b)
}
