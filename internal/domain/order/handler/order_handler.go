package handler

import (
	"errors"
	"net/http"

	"storefront_api/internal/domain/order/model"
	"storefront_api/internal/domain/order/repository"
	"storefront_api/internal/domain/order/service"
	voucherService "storefront_api/internal/domain/voucher/service"
	"storefront_api/internal/pkg/middleware"
	"storefront_api/pkg/response"
	"storefront_api/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrderInput is the checkout request body.
type CreateOrderInput struct {
	Items         []service.LineRequest `json:"items"`
	ShippingInfo  model.ShippingInfo    `json:"shippingInfo" binding:"required"`
	PaymentMethod string                `json:"paymentMethod" binding:"required"`
	VoucherCode   string                `json:"voucherCode"`
}

// CreateOrder places an order.
// @Summary Checkout
// @Tags Order
// @Accept json
// @Produce json
// @Param input body CreateOrderInput true "Checkout payload"
// @Success 200 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	svcInput := service.CreateOrderInput{
		Items:         input.Items,
		ShippingInfo:  input.ShippingInfo,
		PaymentMethod: input.PaymentMethod,
		VoucherCode:   input.VoucherCode,
	}
	if userID, ok := middleware.UserIDFromContext(c); ok {
		svcInput.UserID = &userID
	}

	order, err := h.service.CreateOrder(svcInput)
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	response.Success(c, order)
}

func (h *OrderHandler) writeCreateError(c *gin.Context, err error) {
	var stockErr *service.StockError
	var unavailableErr *service.UnavailableProductError

	switch {
	case errors.Is(err, service.ErrEmptyOrder):
		response.Error(c, http.StatusBadRequest, response.ErrEmptyOrder, err.Error())
	case errors.Is(err, service.ErrMissingShipping):
		response.Error(c, http.StatusBadRequest, response.ErrMissingShipping, err.Error())
	case errors.Is(err, service.ErrUnsupportedMethod):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	case errors.Is(err, service.ErrProductNotFound):
		response.Error(c, http.StatusNotFound, response.ErrProductUnavailable, err.Error())
	case errors.As(err, &stockErr):
		response.Error(c, http.StatusConflict, response.ErrInsufficientStock, err.Error())
	case errors.As(err, &unavailableErr):
		response.Error(c, http.StatusConflict, response.ErrProductUnavailable, err.Error())
	case errors.Is(err, voucherService.ErrVoucherNotFound),
		errors.Is(err, voucherService.ErrVoucherNotActive),
		errors.Is(err, voucherService.ErrVoucherExhausted),
		errors.Is(err, voucherService.ErrBelowMinimumOrder):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidVoucher, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}

// GetOrder returns one order. Buyers see their own orders; admins see any.
// @Summary Get order
// @Tags Order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	if role, _ := c.Get("role"); role != middleware.RoleAdmin {
		userID, ok := middleware.UserIDFromContext(c)
		if !ok || order.UserID == nil || *order.UserID != userID {
			// Same generic answer as an unknown id.
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, service.ErrOrderNotFound.Error())
			return
		}
	}

	response.Success(c, order)
}

// ListOrders returns a paginated order list for the back office.
// @Summary List orders
// @Tags Order
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param status query string false "Status filter"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	status := c.Query("status")
	if status != "" && !model.IsValidStatus(status) {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "unknown status: "+status)
		return
	}

	offset, limit := p.GetPageOffset()
	orders, total, err := h.service.ListOrders(status, offset, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{List: orders, Total: total, Page: p.Page, Limit: p.Limit})
}

// UpdateStatusInput is the admin transition request body.
type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus applies a status transition.
// @Summary Transition order status
// @Tags Order
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body UpdateStatusInput true "New status"
// @Success 200 {object} response.Response
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if !model.IsValidStatus(input.Status) {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "unknown status: "+input.Status)
		return
	}

	order, err := h.service.UpdateStatus(c.Param("id"), input.Status)
	if err != nil {
		var transitionErr *service.TransitionError
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, err.Error())
		case errors.As(err, &transitionErr):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidTransition, err.Error())
		case errors.Is(err, repository.ErrStaleStatus):
			response.Error(c, http.StatusConflict, response.ErrInvalidTransition, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, order)
}

// GuestLookupInput carries the order id and a single contact credential.
type GuestLookupInput struct {
	OrderID    string `json:"orderId" binding:"required"`
	Credential string `json:"credential" binding:"required"`
}

// GuestLookup returns a redacted order for unauthenticated buyers.
// @Summary Guest order lookup
// @Tags Order
// @Accept json
// @Produce json
// @Param input body GuestLookupInput true "Order id and email or phone"
// @Success 200 {object} response.Response
// @Router /orders/lookup [post]
func (h *OrderHandler) GuestLookup(c *gin.Context) {
	var input GuestLookupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	redacted, err := h.service.GuestLookup(input.OrderID, input.Credential)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, redacted)
}
