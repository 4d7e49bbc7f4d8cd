package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"migrascore/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	consultationH *ConsultationHandler,
	webhookH *WebhookHandler,
	jwtSvc *service.JWTService,
	webhookSecretHash string,
	health gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	consultations := r.Group("/consultations", JWTAuthMiddleware(jwtSvc))
	consultations.POST("", consultationH.CreateConsultation)
	consultations.GET("/:id", consultationH.GetConsultation)
	consultations.POST("/:id/cancel", consultationH.CancelConsultation)

	webhooks := r.Group("/webhooks", WebhookSecretMiddleware(webhookSecretHash))
	webhooks.POST("/payment", webhookH.PaymentConfirmed)

	if health != nil {
		r.GET("/healthz", health)
	}

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
