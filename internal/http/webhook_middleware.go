package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const webhookTokenHeader = "X-Webhook-Token"

// WebhookSecretMiddleware autentica al colaborador de pagos comparando el
// token presentado contra el hash bcrypt configurado. El secreto en claro
// nunca se guarda del lado del servicio.
func WebhookSecretMiddleware(secretHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(secretHash) == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "webhook not configured"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(c.GetHeader(webhookTokenHeader))
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing webhook token"})
			c.Abort()
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(token)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
