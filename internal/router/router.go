package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wb-go/wbf/ginext"
)

type Handler interface {
	CreateEvent(c *ginext.Context)
	GetEvent(c *ginext.Context)
	JoinEvent(c *ginext.Context)
	StripeWebhook(c *ginext.Context)
	AdminGetEvent(c *ginext.Context)
	UpdatePrice(c *ginext.Context)
	SetCapacity(c *ginext.Context)
	CloseEvent(c *ginext.Context)
	RefundPayment(c *ginext.Context)
	RefundAll(c *ginext.Context)
	RotateToken(c *ginext.Context)
	GetActionLog(c *ginext.Context)
}

func InitRouter(
	mode string,
	h Handler,
	adminAuth ginext.HandlerFunc,
	joinLimit ginext.HandlerFunc,
	mw ...ginext.HandlerFunc,
) *ginext.Engine {
	router := ginext.New(mode)
	router.Use(mw...)

	api := router.Group("/api")
	{
		// Events
		api.POST("/events", h.CreateEvent)
		api.GET("/events/:slug", h.GetEvent)
		api.POST("/events/:slug/join", joinLimit, h.JoinEvent)

		// Provider callbacks
		api.POST("/webhooks/stripe", h.StripeWebhook)

		// Organiser operations, scoped to the event the token resolves to
		admin := api.Group("/admin", adminAuth)
		{
			admin.GET("/event", h.AdminGetEvent)
			admin.PATCH("/event/price", h.UpdatePrice)
			admin.PATCH("/event/capacity", h.SetCapacity)
			admin.POST("/event/close", h.CloseEvent)
			admin.POST("/payments/:id/refund", h.RefundPayment)
			admin.POST("/refunds", h.RefundAll)
			admin.POST("/token/rotate", h.RotateToken)
			admin.GET("/actions", h.GetActionLog)
		}
	}

	router.GET("/health", func(c *ginext.Context) {
		c.JSON(http.StatusOK, ginext.H{"status": "ok"})
	})

	router.GET("/metrics", func(c *ginext.Context) {
		promhttp.Handler().ServeHTTP(c.Writer, c.Request)
	})

	return router
}
