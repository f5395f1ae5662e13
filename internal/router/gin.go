package router

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"story-analyzer/internal/views"
)

// ContextFunc builds the view context for a request
type ContextFunc func(c *gin.Context) views.Context

// Register mounts every route in the table as a GET returning the rendered view
func Register(engine gin.IRoutes, contextFor ContextFunc) {
	for _, route := range Routes {
		engine.GET(route.Path, handler(route, contextFor))
	}
}

func handler(route Route, contextFor ContextFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := contextFor(c)
		ctx.Plain = true

		var buf bytes.Buffer
		if err := route.View.Render(&buf, ctx); err != nil {
			c.String(http.StatusInternalServerError, "failed to render %s: %v", route.Name, err)
			return
		}

		if ctx.Dark {
			c.Header("X-Theme-Class", "dark")
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
	}
}
