package router

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/damagelog/internal/server/handlers"
)

// IntakePath is the JSON endpoint served when the Sheets backend is enabled.
const IntakePath = "/api/intake"

// New wires the Gin engine with required routes and middlewares. intake may be
// nil when the form talks to a remote endpoint.
func New(page *handlers.FormHandler, intake *handlers.IntakeHandler, tmpl *template.Template, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.SetHTMLTemplate(tmpl)

	r.GET("/", page.Show)
	r.POST("/", page.Act)

	if intake != nil {
		r.GET(IntakePath, intake.Sites)
		r.POST(IntakePath, intake.Submit)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized", zap.Bool("intake_api", intake != nil))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
