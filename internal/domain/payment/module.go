package payment

import (
	orderRepo "storefront_api/internal/domain/order/repository"
	"storefront_api/internal/domain/payment/handler"
	"storefront_api/internal/domain/payment/service"
	"storefront_api/internal/pkg/notifier"
	"storefront_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PaymentModule wires the bank-transfer reconciliation surface.
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	// After the order module; reconciliation writes order rows.
	return 20
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	rService := service.NewReconcileService(orderRepo.NewOrderRepository(ctx.DB), notifier.Global)
	rHandler := handler.NewWebhookHandler(rService)

	setupRoutes(ctx.Router, rHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.WebhookHandler) {
	g := r.Group("/payment")

	// Authenticated by shared-secret header, not by JWT.
	g.POST("/webhook/sepay", h.SePayNotify)
}
