// Package ventasveserver exposes the order and delivery services over HTTP.
package ventasveserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers registered on the router.
type ApiHandleFunctions struct {
	OrdersAPI   OrdersAPI
	DeliveryAPI DeliveryAPI
	HealthAPI   HealthAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes without a wired handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"PlaceOrder", http.MethodPost, "/orders", h.OrdersAPI.PlaceOrder},
		{"ListOrders", http.MethodGet, "/orders", h.OrdersAPI.ListOrders},
		{"GetOrder", http.MethodGet, "/orders/:orderId", h.OrdersAPI.GetOrder},
		{"GetOrderHistory", http.MethodGet, "/orders/:orderId/history", h.OrdersAPI.GetOrderHistory},
		{"VerifyPayment", http.MethodPost, "/orders/:orderId/verify-payment", h.OrdersAPI.VerifyPayment},
		{"TransitionOrder", http.MethodPost, "/orders/:orderId/status", h.OrdersAPI.TransitionOrder},
		{"CancelOrder", http.MethodPost, "/orders/:orderId/cancel", h.OrdersAPI.CancelOrder},
		{"AssignDelivery", http.MethodPost, "/delivery/orders/:orderId/assign", h.DeliveryAPI.AssignDelivery},
		{"ConfirmDelivery", http.MethodPost, "/delivery/orders/:orderId/confirm-otp", h.DeliveryAPI.ConfirmDelivery},
		{"ReissueOTP", http.MethodPost, "/delivery/orders/:orderId/reissue-otp", h.DeliveryAPI.ReissueOTP},
		{"GetDeliveryOrder", http.MethodGet, "/delivery/orders/:orderId", h.DeliveryAPI.GetDeliveryOrder},
		{"RegisterDeliveryPerson", http.MethodPost, "/delivery/persons", h.DeliveryAPI.RegisterPerson},
		{"GetDeliveryPerson", http.MethodGet, "/delivery/persons/:personId", h.DeliveryAPI.GetPerson},
		{"SetAvailability", http.MethodPut, "/delivery/persons/:personId/availability", h.DeliveryAPI.SetAvailability},
		{"ListPersonDeliveries", http.MethodGet, "/delivery/persons/:personId/orders", h.DeliveryAPI.ListPersonDeliveries},
		{"Healthz", http.MethodGet, "/healthz", h.HealthAPI.Healthz},
	}
}
