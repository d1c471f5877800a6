package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRootHandler beantwortet die Wurzel mit den Eckdaten des Dienstes.
func NewRootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ScoreSight API",
			"version": "1.0.0",
			"status":  "running",
		})
	}
}

// NewHealthHandler ist der schlichte Lebenszeichen-Endpunkt für Load-Balancer.
func NewHealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
