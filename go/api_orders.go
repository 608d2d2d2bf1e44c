package ventasveserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	ordershttpmapper "github.com/ventasve/ventasve-api/internal/domains/orders/adapters/http/mapper"
	orderstypes "github.com/ventasve/ventasve-api/internal/domains/orders/application/types"
	ordersdomain "github.com/ventasve/ventasve-api/internal/domains/orders/domain"
	ordersports "github.com/ventasve/ventasve-api/internal/domains/orders/ports"
	apierrors "github.com/ventasve/ventasve-api/internal/shared/errors"
)

// OrdersAPI wires HTTP transport with the orders bounded context service.
type OrdersAPI struct {
	service ordersports.Service
	errors  *apierrors.Responder
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service.
func NewOrdersAPI(service ordersports.Service, responder *apierrors.Responder) OrdersAPI {
	return OrdersAPI{service: service, errors: responder}
}

// Post /orders
// Checkout: creates a PENDING order
func (api *OrdersAPI) PlaceOrder(c *gin.Context) {
	var payload ordershttpmapper.PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondValidation(c, api.errors, err)
		return
	}
	input := ordershttpmapper.ToPlaceOrderInput(payload, c.GetHeader(idempotencyHeader))
	order, err := api.service.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		api.errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordershttpmapper.FromDomainOrder(order))
}

// Get /orders?businessId=&status=
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	statuses, err := bindStatusQuery(c)
	if err != nil {
		respondValidation(c, api.errors, err)
		return
	}
	businessID := strings.TrimSpace(c.Query("businessId"))
	if businessID == "" {
		respondValidation(c, api.errors, errors.New("businessId query parameter is required"))
		return
	}
	input := orderstypes.ListOrdersInput{BusinessID: businessID}
	for _, s := range statuses {
		input.Statuses = append(input.Statuses, ordersdomain.Status(s))
	}
	orders, err := api.service.ListOrders(c.Request.Context(), input)
	if err != nil {
		api.errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDomainOrders(orders))
}

// Get /orders/:orderId
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	id, ok := api.orderID(c)
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), orderstypes.OrderIdentifier{ID: id})
	if err != nil {
		api.errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDomainOrder(order))
}

// Get /orders/:orderId/history
func (api *OrdersAPI) GetOrderHistory(c *gin.Context) {
	id, ok := api.orderID(c)
	if !ok {
		return
	}
	changes, err := api.service.History(c.Request.Context(), orderstypes.OrderIdentifier{ID: id})
	if err != nil {
		api.errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDomainHistory(changes))
}

// Post /orders/:orderId/verify-payment
func (api *OrdersAPI) VerifyPayment(c *gin.Context) {
	id, ok := api.orderID(c)
	if !ok {
		return
	}
	input := orderstypes.TransitionInput{OrderID: id, Target: ordersdomain.StatusConfirmed, Actor: actor(c)}
	api.respondOrder(c, func() (*ordersdomain.Order, error) {
		return api.service.VerifyPayment(c.Request.Context(), input)
	})
}

// Post /orders/:orderId/status
func (api *OrdersAPI) TransitionOrder(c *gin.Context) {
	id, ok := api.orderID(c)
	if !ok {
		return
	}
	var payload ordershttpmapper.TransitionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondValidation(c, api.errors, err)
		return
	}
	input := orderstypes.TransitionInput{
		OrderID: id,
		Target:  ordersdomain.Status(payload.Status),
		Actor:   actor(c),
		Reason:  payload.Reason,
	}
	api.respondOrder(c, func() (*ordersdomain.Order, error) {
		return api.service.ApplyTransition(c.Request.Context(), input)
	})
}

// Post /orders/:orderId/cancel
func (api *OrdersAPI) CancelOrder(c *gin.Context) {
	id, ok := api.orderID(c)
	if !ok {
		return
	}
	var payload ordershttpmapper.CancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondValidation(c, api.errors, err)
			return
		}
	}
	input := orderstypes.CancelOrderInput{OrderID: id, Actor: actor(c), Reason: payload.Reason}
	api.respondOrder(c, func() (*ordersdomain.Order, error) {
		return api.service.CancelOrder(c.Request.Context(), input)
	})
}

func (api *OrdersAPI) respondOrder(c *gin.Context, call func() (*ordersdomain.Order, error)) {
	order, err := call()
	if err != nil {
		api.errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": ordershttpmapper.FromDomainOrder(order)})
}

func (api *OrdersAPI) orderID(c *gin.Context) (string, bool) {
	id, err := bindUUIDParam(c, "orderId")
	if err != nil {
		respondValidation(c, api.errors, err)
		return "", false
	}
	return id, true
}
