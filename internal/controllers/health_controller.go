package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	DB pinger
}

func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running"})
}

// Ready also checks that both database handles answer.
func (hc *HealthController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if hc.DB == nil || hc.DB.Ping(ctx) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "UNAVAILABLE", "message": "Database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Database reachable"})
}
