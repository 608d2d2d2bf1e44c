package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/ventasve/ventasve-api/internal/domains/orders/application/types"
)

type normalizedPlaceOrderInput struct {
	BusinessID        string `json:"businessId"`
	CustomerID        string `json:"customerId"`
	TotalCents        int64  `json:"totalCents"`
	PaymentMethod     string `json:"paymentMethod"`
	ShippingCostCents *int64 `json:"shippingCostCents"`
	DeliveryAddress   string `json:"deliveryAddress"`
}

// FingerprintPlaceOrder hashes the checkout payload, excluding the idempotency key.
func FingerprintPlaceOrder(input types.PlaceOrderInput) (string, error) {
	payload, err := json.Marshal(normalizedPlaceOrderInput{
		BusinessID:        strings.TrimSpace(input.BusinessID),
		CustomerID:        strings.TrimSpace(input.CustomerID),
		TotalCents:        input.TotalCents,
		PaymentMethod:     strings.ToUpper(strings.TrimSpace(input.PaymentMethod)),
		ShippingCostCents: input.ShippingCostCents,
		DeliveryAddress:   strings.TrimSpace(input.DeliveryAddress),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
