package handlers

import (
	"io"
	"net/http"

	"barakah/models"
	"barakah/services/payment"
	"barakah/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody mirrors Stripe's documented payload ceiling.
const maxWebhookBody = 65536

// PaymentHandler serves checkout, webhook and access endpoints.
type PaymentHandler struct {
	Service payment.Service
}

func NewPaymentHandler(svc payment.Service) *PaymentHandler {
	return &PaymentHandler{Service: svc}
}

func (h *PaymentHandler) CreateSessionHandler(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	session, err := h.Service.CreateCheckoutSession(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// WebhookHandler must see the raw body for signature verification.
func (h *PaymentHandler) WebhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid payload", err.Error())
		return
	}
	result, err := h.Service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	getLogger(c).Info("stripe webhook handled", zap.String("event_type", result.EventType), zap.Bool("granted", result.Grant != nil))
	c.JSON(http.StatusOK, gin.H{"status": "success", "event_type": result.EventType, "granted": result.Grant != nil})
}

func (h *PaymentHandler) VerifySessionHandler(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	result, err := h.Service.VerifySession(c.Request.Context(), req.SessionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) PricingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.Service.Plans()})
}

func (h *PaymentHandler) AccessHandler(c *gin.Context) {
	grants, err := h.Service.LookupAccess(c.Request.Context(), c.Param("email"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	levels := []models.PlanID{}
	for _, g := range grants {
		levels = append(levels, g.AccessLevel)
	}
	c.JSON(http.StatusOK, gin.H{"has_access": len(levels) > 0, "access_levels": levels})
}
