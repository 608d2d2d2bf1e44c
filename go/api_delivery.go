package ventasveserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	deliveryhttpmapper "github.com/ventasve/ventasve-api/internal/domains/delivery/adapters/http/mapper"
	deliverytypes "github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	deliverydomain "github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	deliveryports "github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	apierrors "github.com/ventasve/ventasve-api/internal/shared/errors"
)

// DeliveryAPI wires HTTP transport with the delivery service and the assignment workflow.
type DeliveryAPI struct {
	service   deliveryports.Service
	workflows deliveryports.AssignmentOrchestrator
	errors    *apierrors.Responder
}

// NewDeliveryAPI creates a DeliveryAPI. A nil orchestrator assigns through the service.
func NewDeliveryAPI(service deliveryports.Service, workflows deliveryports.AssignmentOrchestrator, responder *apierrors.Responder) DeliveryAPI {
	return DeliveryAPI{service: service, workflows: workflows, errors: responder}
}

// Post /delivery/orders/:orderId/assign
// Binds a driver to an order and returns the handoff code
func (api *DeliveryAPI) AssignDelivery(c *gin.Context) {
	orderID, ok := api.uuidParam(c, "orderId")
	if !ok {
		return
	}
	var payload deliveryhttpmapper.AssignRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondValidation(c, api.errors, err)
		return
	}
	input := deliverytypes.AssignInput{OrderID: orderID, DeliveryPersonID: payload.DeliveryPersonID, Actor: actor(c)}
	var (
		delivery *deliverydomain.DeliveryOrder
		err      error
	)
	if api.workflows != nil {
		delivery, err = api.workflows.Assign(c.Request.Context(), input)
	} else {
		delivery, err = api.service.Assign(c.Request.Context(), input)
	}
	if err != nil {
		api.errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deliveryOrder": deliveryhttpmapper.FromDomainDeliveryOrder(delivery, true)})
}

// Post /delivery/orders/:orderId/confirm-otp
// :orderId is the delivery order id
func (api *DeliveryAPI) ConfirmDelivery(c *gin.Context) {
	id, ok := api.uuidParam(c, "orderId")
	if !ok {
		return
	}
	var payload deliveryhttpmapper.ConfirmRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondValidation(c, api.errors, err)
		return
	}
	input := deliverytypes.ConfirmInput{DeliveryOrderID: id, OTPCode: payload.OTPCode, Actor: actor(c)}
	delivery, err := api.service.ConfirmDelivery(c.Request.Context(), input)
	if err != nil {
		api.errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deliveryOrder": deliveryhttpmapper.FromDomainDeliveryOrder(delivery, false)})
}

// Post /delivery/orders/:orderId/reissue-otp
// Replaces the handoff code of a delivery order and returns the new one
func (api *DeliveryAPI) ReissueOTP(c *gin.Context) {
	id, ok := api.uuidParam(c, "orderId")
	if !ok {
		return
	}
	delivery, err := api.service.ReissueOTP(c.Request.Context(), deliverytypes.ReissueOTPInput{DeliveryOrderID: id, Actor: actor(c)})
	if err != nil {
		api.errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deliveryOrder": deliveryhttpmapper.FromDomainDeliveryOrder(delivery, true)})
}

// Get /delivery/orders/:orderId
func (api *DeliveryAPI) GetDeliveryOrder(c *gin.Context) {
	id, ok := api.uuidParam(c, "orderId")
	if !ok {
		return
	}
	delivery, err := api.service.GetDeliveryOrder(c.Request.Context(), deliverytypes.DeliveryOrderIdentifier{ID: id})
	if err != nil {
		api.errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deliveryhttpmapper.FromDomainDeliveryOrder(delivery, false))
}

// Post /delivery/persons
func (api *DeliveryAPI) RegisterPerson(c *gin.Context) {
	var payload deliveryhttpmapper.RegisterPersonRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondValidation(c, api.errors, err)
		return
	}
	person, err := api.service.RegisterPerson(c.Request.Context(), deliverytypes.RegisterPersonInput{
		BusinessID: payload.BusinessID,
		Name:       payload.Name,
		Phone:      payload.Phone,
	})
	if err != nil {
		api.errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deliveryhttpmapper.FromDomainDeliveryPerson(person))
}

// Get /delivery/persons/:personId
func (api *DeliveryAPI) GetPerson(c *gin.Context) {
	id, ok := api.uuidParam(c, "personId")
	if !ok {
		return
	}
	person, err := api.service.GetPerson(c.Request.Context(), deliverytypes.PersonIdentifier{ID: id})
	if err != nil {
		api.errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deliveryhttpmapper.FromDomainDeliveryPerson(person))
}

// Put /delivery/persons/:personId/availability
func (api *DeliveryAPI) SetAvailability(c *gin.Context) {
	id, ok := api.uuidParam(c, "personId")
	if !ok {
		return
	}
	var payload deliveryhttpmapper.AvailabilityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondValidation(c, api.errors, err)
		return
	}
	person, err := api.service.SetAvailability(c.Request.Context(), deliverytypes.AvailabilityInput{
		DeliveryPersonID: id,
		Available:        *payload.IsAvailable,
	})
	if err != nil {
		api.errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deliveryhttpmapper.FromDomainDeliveryPerson(person))
}

// Get /delivery/persons/:personId/orders?status=
func (api *DeliveryAPI) ListPersonDeliveries(c *gin.Context) {
	id, ok := api.uuidParam(c, "personId")
	if !ok {
		return
	}
	statuses, err := bindStatusQuery(c)
	if err != nil {
		respondValidation(c, api.errors, err)
		return
	}
	input := deliverytypes.ListDeliveriesInput{DeliveryPersonID: id}
	for _, s := range statuses {
		input.Statuses = append(input.Statuses, deliverydomain.Status(s))
	}
	list, err := api.service.ListPersonDeliveries(c.Request.Context(), input)
	if err != nil {
		api.errors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deliveryhttpmapper.FromDomainDeliveryOrders(list))
}

func (api *DeliveryAPI) uuidParam(c *gin.Context, name string) (string, bool) {
	id, err := bindUUIDParam(c, name)
	if err != nil {
		respondValidation(c, api.errors, err)
		return "", false
	}
	return id, true
}
