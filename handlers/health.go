package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// Pinger is a dependency the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler probes the database and any optional backends. Only the
// database decides whether the service is reported unavailable.
type HealthHandler struct {
	db       Pinger
	optional map[string]Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, optional: map[string]Pinger{}}
}

// WithOptional adds a backend whose failure degrades but does not fail the check.
func (h *HealthHandler) WithOptional(name string, p Pinger) *HealthHandler {
	h.optional[name] = p
	return h
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		log.Printf("Error pinging database: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "Database connection failed",
		})
		return
	}

	names := make([]string, 0, len(h.optional))
	for name := range h.optional {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "healthy"
	checks := gin.H{"database": "ok"}
	for _, name := range names {
		if err := h.optional[name].Ping(ctx); err != nil {
			log.Printf("Error pinging %s: %v", name, err)
			checks[name] = "unavailable"
			status = "degraded"
			continue
		}
		checks[name] = "ok"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"checks": checks,
	})
}
