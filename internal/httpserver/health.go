package httpserver

import (
	"github.com/gin-gonic/gin"

	"energy-accounting-bot/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "From Energy Accounting Bot With Love"
	HealthVersion = "1.0.0"
	ServiceName   = "energy-accounting-bot"
)

// systemStatus answers the health family of endpoints. The three routes
// exist for orchestrator probes; they differ only in the status word.
func systemStatus(c *gin.Context, status string) {
	response.OK(c, gin.H{
		"status":  status,
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is healthy"
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) { systemStatus(c, "healthy") }

// @Summary Readiness Check
// @Description Check if the API is ready to serve traffic
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is ready"
// @Router /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) { systemStatus(c, "ready") }

// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "API is alive"
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) { systemStatus(c, "alive") }
