package api

import (
	"beat-planning-service/internal/api/handlers"
	"beat-planning-service/internal/auth"
	"beat-planning-service/internal/ports"
	"beat-planning-service/internal/state"

	"github.com/gin-gonic/gin"
)

// Dependencies of the HTTP surface.
type Deps struct {
	Store     *state.Store
	Estimator ports.MetricEstimator
	Solver    ports.Solver
	Field     ports.FieldService
	Verifier  *auth.Verifier
}

// NewRouter wires HTTP handlers with their dependencies and returns the engine.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger())

	salespeople := &handlers.SalespersonHandler{Store: d.Store}
	exports := &handlers.ExportHandler{Store: d.Store}
	plans := &handlers.PlanHandler{Store: d.Store, Estimator: d.Estimator, Solver: d.Solver}
	assignments := &handlers.AssignmentHandler{Store: d.Store}
	routes := &handlers.RouteHandler{Store: d.Store}
	visits := &handlers.VisitHandler{Field: d.Field}

	r.GET("/health", handlers.Health)

	api := r.Group("/api")

	manager := api.Group("", requireRole(d.Verifier, auth.RoleManager))
	{
		manager.GET("/salespeople", salespeople.List)
		manager.POST("/salespeople", salespeople.Create)
		manager.GET("/exports/enrolled.csv", exports.Enrolled)
		manager.GET("/exports/assignments.csv", exports.Assignments)
		manager.POST("/plans/upload", plans.Upload)
		manager.POST("/solve", plans.Solve)
		manager.GET("/solution", plans.Solution)
		manager.POST("/reset", plans.Reset)
		manager.GET("/admin/metrics", visits.AdminMetrics)
	}

	sales := api.Group("", requireRole(d.Verifier, auth.RoleSales, auth.RoleManager, auth.RoleAdmin))
	{
		sales.GET("/routes", routes.List)
		sales.GET("/assignments", assignments.List)
		sales.POST("/assignments", assignments.Create)
		sales.PUT("/assignments/:id", assignments.Update)
		sales.GET("/metrics", routes.Metrics)
		sales.POST("/visits/checkin", visits.Checkin)
	}

	return r
}
