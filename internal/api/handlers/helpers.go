package handlers

import (
	"beat-planning-service/internal/adapters/solver"
	"beat-planning-service/internal/platform/obs"
	"beat-planning-service/internal/services"
	"beat-planning-service/internal/state"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by the role middleware.
const (
	ClaimsKey = "auth.claims"
	TokenKey  = "auth.token"
)

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, gin.H{"error": msg})
}

// writeServiceError maps domain and solver errors to HTTP responses.
// Unknown errors are logged and reported as 500.
func writeServiceError(c *gin.Context, op string, err error) {
	var apiErr *solver.APIError

	switch {
	case errors.Is(err, services.ErrNoData):
		writeError(c, http.StatusBadRequest, "No data found. Please upload a CSV with a header row.")
	case errors.Is(err, state.ErrInvalidStatus):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &apiErr):
		body := gin.H{"error": apiErr.Message, "status": apiErr.Status}
		if apiErr.Snippet != "" {
			body["snippet"] = apiErr.Snippet
		}
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		writeJSON(c, status, body)
	case errors.Is(err, solver.ErrNetwork):
		writeError(c, http.StatusBadGateway, solver.ErrNetwork.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "upstream timed out")
	default:
		obs.L().Error(op+" failed",
			zap.String("req_id", obs.RequestID(c.Request.Context())),
			zap.Error(err),
		)
		writeError(c, http.StatusInternalServerError, "internal server error")
	}
}

func bearerToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}
