package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/anointed-vessels/sponsorship-api/internal/service"
	appErrors "github.com/anointed-vessels/sponsorship-api/pkg/errors"
	"github.com/anointed-vessels/sponsorship-api/pkg/response"
)

// MetricsHandler serves operational endpoints: Prometheus metrics, liveness
// and readiness.
type MetricsHandler struct {
	metricsService *service.MetricsService
	db             *sqlx.DB
	redisClient    *redis.Client
	startedAt      time.Time
}

// NewMetricsHandler constructs a MetricsHandler. The redis client may be nil
// when caching is disabled.
func NewMetricsHandler(metricsService *service.MetricsService, db *sqlx.DB, redisClient *redis.Client) *MetricsHandler {
	return &MetricsHandler{
		metricsService: metricsService,
		db:             db,
		redisClient:    redisClient,
		startedAt:      time.Now().UTC(),
	}
}

// Metrics exposes the Prometheus scrape endpoint.
func (h *MetricsHandler) Metrics(c *gin.Context) {
	h.metricsService.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health is the liveness probe: the process is up.
func (h *MetricsHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}

// Ready is the readiness probe: the backing stores answer.
func (h *MetricsHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			response.Error(c, appErrors.Wrap(err, "NOT_READY", http.StatusServiceUnavailable, "database unreachable"))
			return
		}
	}
	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			response.Error(c, appErrors.Wrap(err, "NOT_READY", http.StatusServiceUnavailable, "redis unreachable"))
			return
		}
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "ready"})
}
