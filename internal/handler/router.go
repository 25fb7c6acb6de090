package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	Requests       *RequestHandler
	Public         *PublicHandler
	Webhooks       *WebhookHandler
	Health         *HealthHandler
	PublicLimiter  *IPRateLimiter
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For. Empty means the client IP is always
	// the connection's remote address.
	TrustedProxies []string
}

func publicCORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// Engine registers every route on a new gin engine.
func (r *Router) Engine() (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(r.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(gin.Logger(), gin.Recovery(), RequestID())

	router.GET("/health", r.Health.Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	operator := router.Group("/api/requests", RequireOperator())
	{
		operator.POST("", r.Requests.CreateRequest)
		operator.GET("", r.Requests.ListRequests)
		operator.GET("/token/:token", r.Requests.GetRequestByToken)
		operator.GET("/:id", r.Requests.GetRequest)
		operator.POST("/:id/finalize", r.Requests.FinalizeRequest)
		operator.POST("/:id/archive", r.Requests.ArchiveRequest)
		operator.POST("/:id/resend", r.Requests.ResendSMS)
		operator.GET("/:id/messages", r.Requests.ListMessages)
		operator.POST("/:id/messages", r.Requests.AppendMessage)
		operator.POST("/:id/messages/read", r.Requests.MarkMessagesRead)
	}

	public := router.Group("/api/public", publicCORS(r.AllowedOrigins))
	if r.PublicLimiter != nil {
		public.Use(r.PublicLimiter.Middleware())
	}
	{
		public.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		public.GET("/config", r.Public.GetConfig)
		public.GET("/resolve", r.Public.ResolveByPhone)
		public.GET("/requests/:token", r.Public.GetRequestStatus)
		public.POST("/requests/:token/location", r.Public.SubmitLocation)
		public.GET("/requests/:token/messages", r.Public.ListMessages)
		public.POST("/requests/:token/messages", r.Public.AppendMessage)
	}

	router.POST("/webhooks/sms-status", r.Webhooks.SMSStatus)

	return router, nil
}
