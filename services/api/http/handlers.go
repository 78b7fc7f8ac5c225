package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const dayFormat = "2006-01-02"

// handleClimateSummary returns AVG/MIN/MAX temperature for one calendar day.
// GET /api/v1/climate/summary?date=YYYY-MM-DD
func (s *Server) handleClimateSummary(c *gin.Context) {
	date := c.Query("date")
	if _, err := time.Parse(dayFormat, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	summary, err := s.store.GetTemperatureSummary(ctx, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":        date,
		"temperature": summary,
	})
}

// handleParticulateDay returns the ordered P1/P2 series of one day.
// GET /api/v1/particulate/:date
func (s *Server) handleParticulateDay(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(dayFormat, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	points, err := s.store.GetParticulateDay(ctx, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"count":    len(points),
		"readings": points,
	})
}

// handleClimateYear returns the ordered temperature series of one year.
// GET /api/v1/climate/year/:year
func (s *Server) handleClimateYear(c *gin.Context) {
	year := c.Param("year")
	if y, err := strconv.Atoi(year); err != nil || len(year) != 4 || y <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a four-digit number"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	points, err := s.store.GetTemperatureYear(ctx, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":     year,
		"count":    len(points),
		"readings": points,
	})
}
