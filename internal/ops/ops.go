// Package ops exposes the operational HTTP surface: liveness and
// readiness endpoints for load balancers and monitoring. The booking
// protocol itself never travels over HTTP.
package ops

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Start launches the ops HTTP server on the given port in its own
// goroutine. /healthz answers as long as the process runs; /readyz also
// pings the ledger store.
func Start(port string, db *sql.DB) {
	e := echo.New()
	e.HideBanner = true

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/readyz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			log.Printf("ops: http server stopped: %v", err)
		}
	}()
}
