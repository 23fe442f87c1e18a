package health

import (
	"context"
	"net/http"
	"time"

	"pkcegen/pkg/logger"
	"pkcegen/pkg/oauth2"
	"pkcegen/pkg/pkce"

	"github.com/gin-gonic/gin"
)

type Checker struct {
	cache     CacheChecker
	generator oauth2.CodeGenerator
	logger    logger.Logger
}

type CacheChecker interface {
	Ping(ctx context.Context) error
}

// NewChecker builds the probes. cache may be nil when state is kept in memory.
func NewChecker(cache CacheChecker, generator oauth2.CodeGenerator, logger logger.Logger) *Checker {
	return &Checker{
		cache:     cache,
		generator: generator,
		logger:    logger,
	}
}

type Status struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (h *Checker) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, Status{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Readiness verifies the state store and that a PKCE pair can be produced
// and verified end to end, which covers the entropy source and digest.
func (h *Checker) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			h.logger.Error(ctx, "cache readiness check failed", logger.Field{Key: "error", Value: err.Error()})
			checks["cache"] = "unhealthy: " + err.Error()
			healthy = false
		} else {
			checks["cache"] = "healthy"
		}
	}

	if h.generator != nil {
		codes, err := h.generator.GenerateCodes(ctx)
		switch {
		case err != nil:
			h.logger.Error(ctx, "pkce readiness check failed", logger.Field{Key: "error", Value: err.Error()})
			checks["pkce"] = "unhealthy: " + err.Error()
			healthy = false
		case !pkce.Verify(codes.Challenge(), codes.Method(), codes.Verifier()):
			checks["pkce"] = "unhealthy: challenge does not match verifier"
			healthy = false
		default:
			checks["pkce"] = "healthy"
		}
	}

	if healthy {
		c.JSON(http.StatusOK, Status{
			Status:    "ready",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
		})
	} else {
		c.JSON(http.StatusServiceUnavailable, Status{
			Status:    "not_ready",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
		})
	}
}
