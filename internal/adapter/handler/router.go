package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/capnotes/internal/adapter/dto/common"
	"github.com/johnquangdev/capnotes/pkg/config"
)

// multipartOverhead leaves room for form boundaries and headers around the file
const multipartOverhead = 1 << 20

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	transcribeHandler *Transcribe
	authMiddleware    echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, transcribeHandler *Transcribe, authMiddleware echo.MiddlewareFunc) *Router {
	return &Router{
		cfg:               cfg,
		transcribeHandler: transcribeHandler,
		authMiddleware:    authMiddleware,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupTranscribeRoutes(v1)
}

// setupTranscribeRoutes configures transcription routes
func (rt *Router) setupTranscribeRoutes(g *echo.Group) {
	var mws []echo.MiddlewareFunc
	if rt.authMiddleware != nil {
		mws = append(mws, rt.authMiddleware)
	}
	transcribeGroup := g.Group("/transcribe", mws...)

	bodyLimit := middleware.BodyLimit(fmt.Sprintf("%dK", (rt.maxAudioBytes()+multipartOverhead)/1024))
	transcribeGroup.POST("/audio", rt.transcribeHandler.Audio, bodyLimit)
	transcribeGroup.POST("/ask", rt.transcribeHandler.Ask)
}

func (rt *Router) maxAudioBytes() int64 {
	if rt.cfg == nil || rt.cfg.Pipeline.MaxAudioBytes <= 0 {
		return rt.transcribeHandler.maxBytes
	}
	return rt.cfg.Pipeline.MaxAudioBytes
}

// healthCheck returns health status
// @Summary      Health check
// @Tags         System
// @Produce      json
// @Success      200  {object}  common.HealthResponse
// @Router       /health [get]
func (rt *Router) healthCheck(c echo.Context) error {
	env := ""
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, common.HealthResponse{
		Status:      "ok",
		Environment: env,
	})
}
