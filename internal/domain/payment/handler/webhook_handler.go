package handler

import (
	"net/http"
	"strconv"
	"strings"

	"storefront_api/internal/domain/payment/service"
	"storefront_api/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	service service.ReconcileService
}

func NewWebhookHandler(s service.ReconcileService) *WebhookHandler {
	return &WebhookHandler{service: s}
}

// SePayWebhookInput mirrors the gateway's notification payload. The gateway
// sends both a numeric id and a reference code; either serves as the
// transaction identifier.
type SePayWebhookInput struct {
	ID             int64  `json:"id"`
	Content        string `json:"content" binding:"required"`
	TransferAmount int64  `json:"transferAmount" binding:"required"`
	TransactionID  string `json:"transactionId"`
	ReferenceCode  string `json:"referenceCode"`
}

// SePayNotify handles bank-transfer notifications.
// @Summary SePay webhook
// @Tags Payment
// @Router /payment/webhook/sepay [post]
func (h *WebhookHandler) SePayNotify(c *gin.Context) {
	if !h.authenticated(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid api key"})
		return
	}

	var input SePayWebhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	txID := input.TransactionID
	if txID == "" {
		txID = input.ReferenceCode
	}
	if txID == "" && input.ID != 0 {
		txID = strconv.FormatInt(input.ID, 10)
	}

	result, err := h.service.Reconcile(input.Content, input.TransferAmount, txID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
		return
	}

	if !result.Success {
		// 400 tells the gateway the notification was understood and rejected;
		// it will not retry a rejected delivery.
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": result.Reason})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// authenticated checks the gateway's shared-secret header ("Apikey <key>").
func (h *WebhookHandler) authenticated(c *gin.Context) bool {
	header := c.GetHeader("Authorization")
	expected := config.GlobalConfig.SePay.APIKey
	if expected == "" {
		return false
	}

	key, ok := strings.CutPrefix(header, "Apikey ")
	return ok && key == expected
}
