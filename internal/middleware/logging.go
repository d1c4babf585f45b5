package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes a concise structured line for each HTTP request. The tenant
// fields are filled in by the JWT middleware further down the chain, so they
// are read after the handler has run.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			rid, _ := c.Get(ContextKeyRequestID).(string)
			line := "request_id=" + rid + " method=" + c.Request().Method + " path=" + c.Request().URL.Path
			if role, ok := c.Get(ContextKeyUserRole).(string); ok && role != "" {
				line += " role=" + role
			}
			if customer, ok := c.Get(ContextKeyCustomerID).(string); ok && customer != "" {
				line += " customer=" + customer
			}
			log.Printf("%s status=%d latency=%s", line, c.Response().Status, latency)

			return err
		}
	}
}
