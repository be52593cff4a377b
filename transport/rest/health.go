package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const serviceName = "Connect Four Game Server"

type healthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	RoomsCount int    `json:"rooms_count"`
	Timestamp  string `json:"timestamp"`
}

type statusResponse struct {
	TotalRooms  int    `json:"total_rooms"`
	ActiveRooms int    `json:"active_rooms"`
	Uptime      string `json:"uptime"`
}

func (that *Server) handleHealth(c *gin.Context) {
	stats, err := that.uRoom.Stats(c.Request.Context())
	if err != nil {
		that.logger.Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "service": serviceName})
		return
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:     "ok",
		Service:    serviceName,
		RoomsCount: stats.Total,
		Timestamp:  strconv.FormatInt(that.clock.Now().Unix(), 10),
	})
}

func (that *Server) handleStatus(c *gin.Context) {
	stats, err := that.uRoom.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err, msgInternal)
		return
	}

	uptime := that.clock.Since(that.startedAt)

	c.JSON(http.StatusOK, statusResponse{
		TotalRooms:  stats.Total,
		ActiveRooms: stats.Active,
		Uptime:      strconv.FormatInt(int64(uptime.Seconds()), 10),
	})
}

func (that *Server) handlePing(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}
