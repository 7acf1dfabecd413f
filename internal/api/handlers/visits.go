package handlers

import (
	"beat-planning-service/internal/api/dto"
	"beat-planning-service/internal/ports"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// VisitHandler forwards field visits and admin metrics to the optimization
// service using the caller's own token.
type VisitHandler struct {
	Field ports.FieldService
}

func (h *VisitHandler) Checkin(c *gin.Context) {
	form, err := parseCheckin(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := dto.Validate(form); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	req := ports.CheckinRequest{
		SalesID:      form.SalesID,
		Lat:          form.Lat,
		Long:         form.Long,
		Notes:        form.Notes,
		AssignmentID: form.AssignmentID,
	}
	if fh, err := c.FormFile("photo"); err == nil {
		photo, err := readFileHeader(fh)
		if err != nil {
			writeError(c, http.StatusBadRequest, "cannot read photo")
			return
		}
		req.Photo = &photo
	}

	out, err := h.Field.Checkin(c.Request.Context(), bearerToken(c), req)
	if err != nil {
		writeServiceError(c, "checkin", err)
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}

func (h *VisitHandler) AdminMetrics(c *gin.Context) {
	out, err := h.Field.AdminMetrics(c.Request.Context(), bearerToken(c))
	if err != nil {
		writeServiceError(c, "admin metrics", err)
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}

func parseCheckin(c *gin.Context) (dto.CheckinForm, error) {
	var form dto.CheckinForm
	var err error

	if form.SalesID, err = strconv.Atoi(strings.TrimSpace(c.PostForm("sales_id"))); err != nil {
		return form, errBadField("sales_id")
	}
	if form.Lat, err = strconv.ParseFloat(strings.TrimSpace(c.PostForm("lat")), 64); err != nil {
		return form, errBadField("lat")
	}
	if form.Long, err = strconv.ParseFloat(strings.TrimSpace(c.PostForm("long")), 64); err != nil {
		return form, errBadField("long")
	}
	form.Notes = c.PostForm("notes")
	if form.AssignmentID, err = optionalInt(c, "assignment_id"); err != nil {
		return form, err
	}
	return form, nil
}

func errBadField(name string) error {
	return fmt.Errorf("%s is required and must be numeric", name)
}
