package handlers

import (
	"net/http"

	"livebooking/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last Mongo/Redis probe. 503 if a dependency is down.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "checks": status})
}
