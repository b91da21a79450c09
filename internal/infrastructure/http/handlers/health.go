package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// HealthHandler handles GET /health — liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// HealthDependenciesHandler handles GET /health/ready — readiness probe.
// The only dependency is the data directory: every database file must exist
// and be a regular file before the service is ready to take traffic.
type HealthDependenciesHandler struct {
	dataDir string
}

func NewHealthDependenciesHandler(dataDir string) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{dataDir: dataDir}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

var dataFiles = []string{
	"db_users.dat",
	"db_accounts.dat",
	"db_transactions.dat",
	"db_loans.dat",
	"db_feedback.dat",
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	deps := make(map[string]dependencyStatus)
	healthy := true

	for _, name := range dataFiles {
		info, err := os.Stat(filepath.Join(h.dataDir, name))
		switch {
		case err != nil:
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		case !info.Mode().IsRegular():
			deps[name] = dependencyStatus{Status: "unhealthy", Error: "not a regular file"}
			healthy = false
		default:
			deps[name] = dependencyStatus{Status: "ok"}
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
