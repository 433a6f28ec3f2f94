package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/callnote-team/callnote/pkg/config"
	"github.com/callnote-team/callnote/web"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	webhookHandler *CallWebhookHandler
	recordsHandler *RecordsHandler
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, webhookHandler *CallWebhookHandler, recordsHandler *RecordsHandler) *Router {
	return &Router{
		cfg:            cfg,
		webhookHandler: webhookHandler,
		recordsHandler: recordsHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// Embedded dashboard
	e.GET("/", rt.dashboard)

	// Telephony provider webhooks
	e.POST("/twilio/call", rt.webhookHandler.Answer)
	e.POST(rt.cfg.Intake.CompletionPath, rt.webhookHandler.Complete)

	// Dashboard records API
	api := e.Group("/api")
	api.GET("/records", rt.recordsHandler.List)
	api.PUT("/records", rt.recordsHandler.Update)
}

func (rt *Router) dashboard(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, web.IndexHTML)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
