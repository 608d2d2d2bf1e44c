package ventasveserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deliverymemory "github.com/ventasve/ventasve-api/internal/domains/delivery/adapters/memory"
	deliveryapp "github.com/ventasve/ventasve-api/internal/domains/delivery/application"
	ordersmemory "github.com/ventasve/ventasve-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/ventasve/ventasve-api/internal/domains/orders/application"
	"github.com/ventasve/ventasve-api/internal/platform/memdb"
	"github.com/ventasve/ventasve-api/internal/platform/notify"
)

const handoffCode = "271828"

type testServer struct {
	router     *gin.Engine
	publisher  *notify.MemoryPublisher
	businesses *deliverymemory.BusinessDirectory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := memdb.New()
	orders := ordersmemory.NewRepository(db)
	publisher := notify.NewMemoryPublisher()
	businesses := deliverymemory.NewBusinessDirectory()

	deps := deliveryapp.Dependencies{
		Tx:         db,
		Orders:     orders,
		Deliveries: deliverymemory.NewDeliveryOrderRepository(db),
		Persons:    deliverymemory.NewDeliveryPersonRepository(db),
		Businesses: businesses,
		Publisher:  publisher,
		Logger:     logger,
		OTP:        func() (string, error) { return handoffCode, nil },
	}
	orderService := ordersapp.NewService(orders, db,
		ordersapp.WithPublisher(publisher),
		ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore(db)),
		ordersapp.WithTransitionHook(deliveryapp.NewOrderTransitionGuard(deps)),
		ordersapp.WithLogger(logger),
	)
	deliveryService := deliveryapp.NewService(deps, deliveryapp.Policy{MaxOTPAttempts: 3})

	responder := NewErrorResponder(logger)
	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
		OrdersAPI:   NewOrdersAPI(orderService, responder),
		DeliveryAPI: NewDeliveryAPI(deliveryService, nil, responder),
	})
	return &testServer{router: router, publisher: publisher, businesses: businesses}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) placeOrder(t *testing.T, businessID string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/orders", map[string]any{
		"businessId":        businessID,
		"customerId":        "customer-1",
		"totalCents":        2500,
		"paymentMethod":     "PAGO_MOVIL",
		"shippingCostCents": 350,
		"deliveryAddress":   "Av. Libertador, Caracas",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)["id"].(string)
}

func (s *testServer) registerPerson(t *testing.T, businessID string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/delivery/persons", map[string]any{"businessId": businessID, "name": "Luis"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)["id"].(string)
}

func (s *testServer) advance(t *testing.T, orderID string, statuses ...string) {
	t.Helper()
	for _, status := range statuses {
		rec := s.do(t, http.MethodPost, "/orders/"+orderID+"/status", map[string]any{"status": status})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestAssignAndConfirmOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	srv.businesses.SetStoreAddress("biz-1", "Calle 5, Valencia")
	orderID := srv.placeOrder(t, "biz-1")
	personID := srv.registerPerson(t, "biz-1")
	srv.advance(t, orderID, "CONFIRMED", "PREPARING")

	rec := srv.do(t, http.MethodPost, "/delivery/orders/"+orderID+"/assign", map[string]any{"deliveryPersonId": personID}, actorHeader, "dispatcher-7")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	delivery := body["deliveryOrder"].(map[string]any)
	assert.Equal(t, handoffCode, delivery["otpCode"])
	assert.Equal(t, "ASSIGNED", delivery["status"])
	assert.Equal(t, "Calle 5, Valencia", delivery["pickupAddress"])
	assert.Equal(t, 3.5, delivery["deliveryFee"])
	deliveryID := delivery["id"].(string)

	rec = srv.do(t, http.MethodGet, "/delivery/orders/"+deliveryID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, decode(t, rec), "otpCode")

	rec = srv.do(t, http.MethodPost, "/delivery/orders/"+deliveryID+"/confirm-otp", map[string]any{"otpCode": handoffCode})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "DELIVERED", body["deliveryOrder"].(map[string]any)["status"])

	rec = srv.do(t, http.MethodGet, "/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DELIVERED", decode(t, rec)["status"])

	rec = srv.do(t, http.MethodGet, "/delivery/persons/"+personID+"/orders?status=DELIVERED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, deliveryID, listed[0]["id"])

	rec = srv.do(t, http.MethodGet, "/delivery/persons/"+personID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	person := decode(t, rec)
	assert.Equal(t, 1.0, person["completedOrders"])
	assert.Equal(t, true, person["isAvailable"])

	assert.Contains(t, srv.publisher.Types(), "delivery_completed")
}

func TestConfirmOTPMismatchContract(t *testing.T) {
	srv := newTestServer(t)
	orderID := srv.placeOrder(t, "biz-1")
	personID := srv.registerPerson(t, "biz-1")
	srv.advance(t, orderID, "CONFIRMED", "PREPARING")
	rec := srv.do(t, http.MethodPost, "/delivery/orders/"+orderID+"/assign", map[string]any{"deliveryPersonId": personID})
	require.Equal(t, http.StatusOK, rec.Code)
	deliveryID := decode(t, rec)["deliveryOrder"].(map[string]any)["id"].(string)

	rec = srv.do(t, http.MethodPost, "/delivery/orders/"+deliveryID+"/confirm-otp", map[string]any{"otpCode": "000000"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "DELIVERY_OTP_INVALID", body["code"])
	assert.NotEmpty(t, body["error"])

	rec = srv.do(t, http.MethodGet, "/delivery/orders/"+deliveryID, nil)
	assert.Equal(t, "ASSIGNED", decode(t, rec)["status"])
}

func TestReissueOTPAfterLockout(t *testing.T) {
	srv := newTestServer(t)
	orderID := srv.placeOrder(t, "biz-1")
	personID := srv.registerPerson(t, "biz-1")
	srv.advance(t, orderID, "CONFIRMED")
	rec := srv.do(t, http.MethodPost, "/delivery/orders/"+orderID+"/assign", map[string]any{"deliveryPersonId": personID})
	require.Equal(t, http.StatusOK, rec.Code)
	deliveryID := decode(t, rec)["deliveryOrder"].(map[string]any)["id"].(string)

	for i := 0; i < 3; i++ {
		rec = srv.do(t, http.MethodPost, "/delivery/orders/"+deliveryID+"/confirm-otp", map[string]any{"otpCode": "000000"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}
	rec = srv.do(t, http.MethodPost, "/delivery/orders/"+deliveryID+"/confirm-otp", map[string]any{"otpCode": handoffCode})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "DELIVERY_OTP_LOCKED", decode(t, rec)["code"])

	rec = srv.do(t, http.MethodPost, "/delivery/orders/"+deliveryID+"/reissue-otp", nil, actorHeader, "biz-1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reissued := decode(t, rec)["deliveryOrder"].(map[string]any)
	assert.Equal(t, handoffCode, reissued["otpCode"])

	rec = srv.do(t, http.MethodPost, "/delivery/orders/"+deliveryID+"/confirm-otp", map[string]any{"otpCode": handoffCode})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/delivery/orders/"+deliveryID+"/reissue-otp", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DELIVERY_ALREADY_DELIVERED", decode(t, rec)["code"])
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	orderID := srv.placeOrder(t, "biz-1")
	personID := srv.registerPerson(t, "biz-1")
	otherPerson := srv.registerPerson(t, "biz-2")
	ready := srv.placeOrder(t, "biz-1")
	srv.advance(t, ready, "CONFIRMED")
	missing := uuid.NewString()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"malformed id", http.MethodGet, "/orders/not-a-uuid", nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing body field", http.MethodPost, "/delivery/orders/" + orderID + "/assign", map[string]any{}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown order", http.MethodGet, "/orders/" + missing, nil, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"assign unknown order", http.MethodPost, "/delivery/orders/" + missing + "/assign", map[string]any{"deliveryPersonId": personID}, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"assign unknown driver", http.MethodPost, "/delivery/orders/" + ready + "/assign", map[string]any{"deliveryPersonId": missing}, http.StatusNotFound, "DELIVERY_PERSON_NOT_FOUND"},
		{"foreign driver", http.MethodPost, "/delivery/orders/" + ready + "/assign", map[string]any{"deliveryPersonId": otherPerson}, http.StatusForbidden, "DELIVERY_BUSINESS_MISMATCH"},
		{"pending order", http.MethodPost, "/delivery/orders/" + orderID + "/assign", map[string]any{"deliveryPersonId": personID}, http.StatusConflict, "ORDER_INVALID_TRANSITION"},
		{"unknown delivery order", http.MethodPost, "/delivery/orders/" + missing + "/confirm-otp", map[string]any{"otpCode": handoffCode}, http.StatusNotFound, "DELIVERY_ORDER_NOT_FOUND"},
		{"reissue unknown delivery order", http.MethodPost, "/delivery/orders/" + missing + "/reissue-otp", nil, http.StatusNotFound, "DELIVERY_ORDER_NOT_FOUND"},
		{"bad otp format", http.MethodPost, "/delivery/orders/" + missing + "/confirm-otp", map[string]any{"otpCode": "12ab"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"skip lifecycle", http.MethodPost, "/orders/" + orderID + "/status", map[string]any{"status": "DELIVERED"}, http.StatusConflict, "ORDER_INVALID_TRANSITION"},
		{"unknown status", http.MethodPost, "/orders/" + orderID + "/status", map[string]any{"status": "LOST"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"list without business", http.MethodGet, "/orders", nil, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := srv.do(t, tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Equal(t, tc.code, decode(t, rec)["code"])
		})
	}
}

func TestDuplicateAssignmentOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	orderID := srv.placeOrder(t, "biz-1")
	first := srv.registerPerson(t, "biz-1")
	second := srv.registerPerson(t, "biz-1")
	srv.advance(t, orderID, "CONFIRMED", "PREPARING")

	rec := srv.do(t, http.MethodPost, "/delivery/orders/"+orderID+"/assign", map[string]any{"deliveryPersonId": first})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(t, http.MethodPost, "/delivery/orders/"+orderID+"/assign", map[string]any{"deliveryPersonId": second})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DELIVERY_DUPLICATE_ASSIGNMENT", decode(t, rec)["code"])
}

func TestCheckoutIdempotencyOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	payload := map[string]any{"businessId": "biz-1", "customerId": "c-1", "totalCents": 1000, "paymentMethod": "ZELLE"}

	first := srv.do(t, http.MethodPost, "/orders", payload, idempotencyHeader, "key-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	replay := srv.do(t, http.MethodPost, "/orders", payload, idempotencyHeader, "key-1")
	require.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, decode(t, first)["id"], decode(t, replay)["id"])

	payload["totalCents"] = 2000
	conflict := srv.do(t, http.MethodPost, "/orders", payload, idempotencyHeader, "key-1")
	require.Equal(t, http.StatusConflict, conflict.Code)
	assert.Equal(t, "IDEMPOTENCY_CONFLICT", decode(t, conflict)["code"])
}

func TestCancelOrderReleasesDriver(t *testing.T) {
	srv := newTestServer(t)
	orderID := srv.placeOrder(t, "biz-1")
	personID := srv.registerPerson(t, "biz-1")
	srv.advance(t, orderID, "CONFIRMED", "PREPARING")
	rec := srv.do(t, http.MethodPost, "/delivery/orders/"+orderID+"/assign", map[string]any{"deliveryPersonId": personID})
	require.Equal(t, http.StatusOK, rec.Code)
	deliveryID := decode(t, rec)["deliveryOrder"].(map[string]any)["id"].(string)

	rec = srv.do(t, http.MethodPost, "/orders/"+orderID+"/cancel", map[string]any{"reason": "customer changed mind"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "CANCELLED", decode(t, rec)["order"].(map[string]any)["status"])

	rec = srv.do(t, http.MethodGet, "/delivery/orders/"+deliveryID, nil)
	assert.Equal(t, "CANCELLED", decode(t, rec)["status"])
	rec = srv.do(t, http.MethodGet, "/delivery/persons/"+personID, nil)
	assert.Equal(t, true, decode(t, rec)["isAvailable"])

	rec = srv.do(t, http.MethodGet, "/orders/"+orderID+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.NotEmpty(t, history)
	assert.Equal(t, "CANCELLED", history[len(history)-1]["toStatus"])
}

func TestAvailabilityAndHealth(t *testing.T) {
	srv := newTestServer(t)
	personID := srv.registerPerson(t, "biz-1")

	rec := srv.do(t, http.MethodPut, "/delivery/persons/"+personID+"/availability", map[string]any{"isAvailable": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, false, decode(t, rec)["isAvailable"])

	rec = srv.do(t, http.MethodPut, "/delivery/persons/"+personID+"/availability", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
