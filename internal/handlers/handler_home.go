package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/casafin/boarding_ledger_app/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// registerHealthRoute registers the liveness endpoint, optionally probing
// the database when ENABLE_DB_CHECK is set.
func registerHealthRoute(r *gin.Engine, cfg *config.Config, pool *pgxpool.Pool) {
	r.GET("/health", func(c *gin.Context) {
		if cfg.EnableDBCheck && pool != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := pool.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
