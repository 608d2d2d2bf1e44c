//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/ventasve/ventasve-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type deliveryOrder struct {
	ID      string `json:"id"`
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type confirmResponse struct {
	Success       bool          `json:"success"`
	DeliveryOrder deliveryOrder `json:"deliveryOrder"`
}

type apiError struct {
	status  int
	Message string `json:"error"`
	Code    string `json:"code"`
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.status)
}

func TestDeliveryAppContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	confirmPath := fmt.Sprintf("/delivery/orders/%s/confirm-otp", pacttest.DeliveryOrderID)

	pact.AddInteraction().
		Given(pacttest.StateAwaitingConfirmation).
		UponReceiving("a confirmation with the wrong otp").
		WithRequest(http.MethodPost, confirmPath, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"otpCode": matchers.S(pacttest.WrongOTPCode)})
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"error": matchers.Like("otp code does not match"),
				"code":  matchers.S("DELIVERY_OTP_INVALID"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateAwaitingConfirmation).
		UponReceiving("a confirmation with the correct otp").
		WithRequest(http.MethodPost, confirmPath, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"otpCode": matchers.S(pacttest.OTPCode)})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"success": matchers.Like(true),
				"deliveryOrder": matchers.Map{
					"id":      matchers.S(pacttest.DeliveryOrderID),
					"orderId": matchers.S(pacttest.OrderID),
					"status":  matchers.S("DELIVERED"),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateNoDeliveryOrder).
		UponReceiving("a request for a missing delivery order").
		WithRequest(http.MethodGet, "/delivery/orders/"+pacttest.MissingDeliveryID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"error": matchers.Like("delivery order not found"),
				"code":  matchers.S("DELIVERY_ORDER_NOT_FOUND"),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newDeliveryClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := client.Confirm(ctx, pacttest.DeliveryOrderID, pacttest.WrongOTPCode); err == nil {
			return fmt.Errorf("expected wrong otp to be rejected")
		} else if apiErr, ok := err.(apiError); !ok || apiErr.Code != "DELIVERY_OTP_INVALID" {
			return fmt.Errorf("expected DELIVERY_OTP_INVALID, got %v", err)
		}

		confirmed, err := client.Confirm(ctx, pacttest.DeliveryOrderID, pacttest.OTPCode)
		if err != nil {
			return fmt.Errorf("confirm: %w", err)
		}
		if !confirmed.Success || confirmed.DeliveryOrder.Status != "DELIVERED" {
			return fmt.Errorf("expected delivered order, got %+v", confirmed)
		}

		if err := client.Get(ctx, pacttest.MissingDeliveryID); err == nil {
			return fmt.Errorf("expected 404 for delivery order %s", pacttest.MissingDeliveryID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.status)
		}
		return nil
	})
	require.NoError(t, err)
}

type deliveryClient struct {
	baseURL    string
	httpClient *http.Client
}

func newDeliveryClient(config pactconsumer.MockServerConfig) *deliveryClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &deliveryClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *deliveryClient) Confirm(ctx context.Context, deliveryOrderID, otp string) (*confirmResponse, error) {
	body, err := json.Marshal(map[string]string{"otpCode": otp})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/delivery/orders/%s/confirm-otp", c.baseURL, deliveryOrderID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}
	var payload confirmResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *deliveryClient) Get(ctx context.Context, deliveryOrderID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/delivery/orders/"+deliveryOrderID, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return nil
}

func decodeAPIError(res *http.Response) error {
	apiErr := apiError{status: res.StatusCode}
	_ = json.NewDecoder(res.Body).Decode(&apiErr)
	return apiErr
}
