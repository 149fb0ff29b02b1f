package order

import (
	cartRepo "storefront_api/internal/domain/cart/repository"
	catalogRepo "storefront_api/internal/domain/catalog/repository"
	"storefront_api/internal/domain/order/handler"
	"storefront_api/internal/domain/order/repository"
	"storefront_api/internal/domain/order/service"
	voucherRepo "storefront_api/internal/domain/voucher/repository"
	voucherService "storefront_api/internal/domain/voucher/service"
	"storefront_api/internal/pkg/config"
	"storefront_api/internal/pkg/middleware"
	"storefront_api/internal/pkg/notifier"
	"storefront_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// OrderModule wires checkout, order queries and the status state machine.
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	return 10
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	oRepo := repository.NewOrderRepository(ctx.DB)
	pRepo := catalogRepo.NewProductRepository(ctx.DB)
	cRepo := cartRepo.NewCartRepository(ctx.DB)
	vService := voucherService.NewVoucherService(voucherRepo.NewVoucherRepository(ctx.DB))

	oService := service.NewOrderService(oRepo, pRepo, cRepo, vService, notifier.Global, config.GlobalConfig.Shop)
	oHandler := handler.NewOrderHandler(oService)

	setupRoutes(ctx.Router, oHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	g := r.Group("/orders")

	// Guest checkout and lookup work without a token; a token attaches
	// the order to the account.
	g.POST("", middleware.OptionalAuthMiddleware(), h.CreateOrder)
	g.POST("/lookup", h.GuestLookup)

	authorized := g.Group("")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.GET("/:id", h.GetOrder)

		admin := authorized.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("", h.ListOrders)
			admin.PATCH("/:id/status", h.UpdateStatus)
		}
	}
}
