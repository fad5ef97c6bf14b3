// Package http adapts real HTTP traffic into the same event shape the Lambda
// entrypoint receives, so local runs exercise the exact routing logic that
// ships. All decision logic stays in the event router.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"user-management-api/internal/domain"
	"user-management-api/internal/transport/event"
	mdw "user-management-api/internal/transport/http/middleware"
)

func NewEngine(l *zap.Logger, router *event.Router) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		ginzap.Ginzap(l, time.RFC3339, true),
		ginzap.RecoveryWithZap(l, true),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := dispatch(router)
	r.Any("/users", h)
	r.Any("/users/:id", h)

	// 其余路径和未知方法一样，交给统一的 404 语义
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, event.ErrorBody{Message: "endpoint not found"})
	})

	return r
}

// dispatch converts the request into an Event, hands it to the router and
// writes the envelope back.
func dispatch(router *event.Router) gin.HandlerFunc {
	return func(c *gin.Context) {
		ev := event.Event{
			Path:       c.Request.URL.Path,
			HTTPMethod: c.Request.Method,
			Headers:    singleHeaders(c.Request.Header),
			RequestContext: event.RequestContext{
				Stage:      "local",
				RequestID:  c.GetString(mdw.KeyRequestID),
				HTTPMethod: c.Request.Method,
				Path:       c.Request.URL.Path,
				Protocol:   c.Request.Proto,
			},
		}

		if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.JSON(http.StatusBadRequest, event.ErrorBody{Message: "invalid body"})
				return
			}
			if len(body) > 0 {
				var u domain.User
				if err := json.Unmarshal(body, &u); err != nil {
					c.JSON(http.StatusBadRequest, event.ErrorBody{Message: "invalid body"})
					return
				}
				ev.Body = &u
			}
		}

		resp := router.Handle(c.Request.Context(), ev)
		if resp.Body == nil {
			c.Status(resp.StatusCode)
			return
		}
		c.JSON(resp.StatusCode, resp.Body)
	}
}

func singleHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
