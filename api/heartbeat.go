package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Ping lets the compose healthcheck and the dashboard know we're alive
func (a *API) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}
