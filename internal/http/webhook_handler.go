package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"migrascore/internal/service"
)

// WebhookHandler recibe confirmaciones de pago del colaborador externo.
// La entrega puede ser at-least-once: el handler debe ser seguro de reintentar.
type WebhookHandler struct {
	logger        *zap.Logger
	consultations *service.ConsultationService
}

func NewWebhookHandler(logger *zap.Logger, consultations *service.ConsultationService) *WebhookHandler {
	return &WebhookHandler{
		logger:        logger,
		consultations: consultations,
	}
}

// PaymentConfirmed maneja POST /webhooks/payment. Repetir la misma
// confirmacion devuelve el mismo resultado sin efectos adicionales.
func (h *WebhookHandler) PaymentConfirmed(c *gin.Context) {
	var req struct {
		ConsultationID string `json:"consultation_id" binding:"required"`
		PaymentRef     string `json:"payment_ref" binding:"required"`
		IdempotencyKey string `json:"idempotency_key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid payment webhook", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	consultation, err := h.consultations.Unlock(c.Request.Context(), req.ConsultationID, req.PaymentRef, req.IdempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConsultationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "consultation not found"})
		case errors.Is(err, service.ErrTerminalState):
			// Cancelada: el colaborador de pagos debe reembolsar, no reintentar.
			c.JSON(http.StatusConflict, gin.H{"error": "consultation cancelled, refund the payment"})
		default:
			h.logger.Error("payment unlock failed", zap.Error(err), zap.String("consultation_id", req.ConsultationID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not unlock consultation"})
		}
		return
	}

	c.JSON(http.StatusOK, consultation.Full())
}
