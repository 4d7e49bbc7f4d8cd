package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"migrascore/internal/domain"
	"migrascore/internal/service"
)

// ConsultationHandler expone el ciclo de vida de la consulta a clientes
// autenticados.
type ConsultationHandler struct {
	logger        *zap.Logger
	consultations *service.ConsultationService
}

func NewConsultationHandler(logger *zap.Logger, consultations *service.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{
		logger:        logger,
		consultations: consultations,
	}
}

// CreateConsultation maneja POST /consultations. La respuesta es siempre el
// teaser: el resultado completo queda detras del pago.
func (h *ConsultationHandler) CreateConsultation(c *gin.Context) {
	var raw domain.RawProfile
	if err := c.ShouldBindJSON(&raw); err != nil {
		h.logger.Warn("invalid create consultation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing client identity"})
		return
	}

	teaser, err := h.consultations.Create(c.Request.Context(), claims.ClientID, raw)
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many consultations, try again later"})
			return
		}
		h.logger.Error("create consultation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create consultation"})
		return
	}

	c.JSON(http.StatusCreated, teaser)
}

// GetConsultation maneja GET /consultations/:id. La vista depende del estado:
// teaser en LOCKED, registro completo en COMPLETED, aviso en CANCELLED.
func (h *ConsultationHandler) GetConsultation(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing client identity"})
		return
	}

	view, err := h.consultations.ReadForClient(c.Request.Context(), c.Param("id"), claims.ClientID)
	if err != nil {
		h.respondError(c, err, "read consultation failed")
		return
	}

	c.JSON(http.StatusOK, view)
}

// CancelConsultation maneja POST /consultations/:id/cancel.
func (h *ConsultationHandler) CancelConsultation(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid cancel consultation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing client identity"})
		return
	}

	cancelled, err := h.consultations.Cancel(c.Request.Context(), c.Param("id"), claims.ClientID, req.Reason)
	if err != nil {
		h.respondError(c, err, "cancel consultation failed")
		return
	}

	c.JSON(http.StatusOK, domain.CancelledNotice{
		ID:     cancelled.ID,
		Status: cancelled.Status,
		Reason: cancelled.CancelReason,
	})
}

func (h *ConsultationHandler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrConsultationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "consultation not found"})
	case errors.Is(err, service.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, service.ErrTerminalState):
		c.JSON(http.StatusConflict, gin.H{"error": "consultation already finalized"})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
