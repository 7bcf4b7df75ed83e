package api

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"go-jobmarket-scraper/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 20
	maxLimit     = 200
)

// JobLister is the read side of the listing store.
type JobLister interface {
	ListJobs(ctx context.Context, limit, offset int) ([]models.JobRecord, error)
	CountJobs(ctx context.Context) (int, error)
}

func NewRouter(store JobLister) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Job market scraper API is running!",
			"status":  "healthy",
		})
	})

	r.GET("/jobs", listJobs(store))
	return r
}

func listJobs(store JobLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := intQuery(c, "limit", defaultLimit)
		if !ok {
			return
		}
		offset, ok := intQuery(c, "offset", 0)
		if !ok {
			return
		}
		if offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be >= 0"})
			return
		}
		if limit < 1 {
			limit = 1
		}
		if limit > maxLimit {
			limit = maxLimit
		}

		ctx := c.Request.Context()
		jobs, err := store.ListJobs(ctx, limit, offset)
		if err != nil {
			log.Printf("❌ Failed to list jobs: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
			return
		}
		total, err := store.CountJobs(ctx)
		if err != nil {
			log.Printf("❌ Failed to count jobs: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count jobs"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"jobs":   jobs,
			"total":  total,
			"limit":  limit,
			"offset": offset,
		})
	}
}

// intQuery parses an optional integer query parameter, answering 400 itself
// when the value is malformed.
func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return v, true
}
