package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersdomain "github.com/ventasve/ventasve-api/internal/domains/orders/domain"
)

func TestNewDeliveryOrder_DerivesFeeAndAddresses(t *testing.T) {
	shipping := int64(300)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d, err := NewDeliveryOrder(NewDeliveryOrderParams{
		ID:                "d-1",
		OrderID:           "o-1",
		DeliveryPersonID:  "p-1",
		BusinessID:        "b-1",
		OTPCode:           "123456",
		ShippingCostCents: &shipping,
		CreatedAt:         now,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusAssigned, d.Status)
	assert.Equal(t, "3.00", d.DeliveryFee.StringFixed(2))
	assert.Equal(t, DefaultPickupAddress, d.PickupAddress)
	assert.Equal(t, DefaultDeliveryAddress, d.DeliveryAddress)
	assert.Nil(t, d.OTPExpiresAt)
	assert.Nil(t, d.DeliveredAt)
}

func TestNewDeliveryOrder_UsesProvidedAddressesAndTTL(t *testing.T) {
	now := time.Now()
	d, err := NewDeliveryOrder(NewDeliveryOrderParams{
		OrderID:          "o-1",
		DeliveryPersonID: "p-1",
		OTPCode:          "654321",
		StoreAddress:     "Av. Libertador, Caracas",
		OrderAddress:     "Calle 5, Maracaibo",
		OTPTTL:           time.Hour,
		CreatedAt:        now,
	})
	require.NoError(t, err)
	assert.Equal(t, "Av. Libertador, Caracas", d.PickupAddress)
	assert.Equal(t, "Calle 5, Maracaibo", d.DeliveryAddress)
	assert.True(t, d.DeliveryFee.IsZero())
	require.NotNil(t, d.OTPExpiresAt)
	assert.False(t, d.OTPExpired(now.Add(59*time.Minute)))
	assert.True(t, d.OTPExpired(now.Add(time.Hour)))
}

func TestNewDeliveryOrder_RejectsBadInput(t *testing.T) {
	_, err := NewDeliveryOrder(NewDeliveryOrderParams{DeliveryPersonID: "p", OTPCode: "123456"})
	assert.ErrorIs(t, err, ErrEmptyOrderID)
	_, err = NewDeliveryOrder(NewDeliveryOrderParams{OrderID: "o", OTPCode: "123456"})
	assert.ErrorIs(t, err, ErrEmptyPersonID)
	_, err = NewDeliveryOrder(NewDeliveryOrderParams{OrderID: "o", DeliveryPersonID: "p", OTPCode: "12"})
	assert.ErrorIs(t, err, ErrInvalidOTPFormat)
}

func TestFeeFromShippingCents(t *testing.T) {
	c := int64(1999)
	assert.Equal(t, "19.99", FeeFromShippingCents(&c).StringFixed(2))
	assert.True(t, FeeFromShippingCents(nil).IsZero())
}

func TestCodeRoundTrip(t *testing.T) {
	wrapped := fmt.Errorf("assign: %w", ErrDuplicateAssignment)
	assert.Equal(t, CodeDuplicateAssignment, Code(wrapped))
	assert.Equal(t, CodeOTPInvalid, Code(ErrOTPInvalid))
	assert.Equal(t, "DELIVERY_OTP_INVALID", CodeOTPInvalid)

	transition := &ordersdomain.InvalidTransitionError{From: ordersdomain.StatusShipped, To: ordersdomain.StatusShipped}
	assert.Equal(t, CodeInvalidTransition, Code(transition))

	assert.True(t, errors.Is(ErrorForCode(CodeAlreadyDelivered), ErrAlreadyDelivered))
	assert.Nil(t, ErrorForCode("NOPE"))
	assert.Empty(t, Code(errors.New("other")))
}

func TestNewDeliveryPerson(t *testing.T) {
	p, err := NewDeliveryPerson("p-1", "b-1", "José", "+58 412 0000000", time.Now())
	require.NoError(t, err)
	assert.True(t, p.IsAvailable)
	assert.Zero(t, p.CompletedOrders)

	_, err = NewDeliveryPerson("p-2", "", "x", "", time.Now())
	assert.ErrorIs(t, err, ErrEmptyBusinessID)
	_, err = NewDeliveryPerson("p-3", "b", " ", "", time.Now())
	assert.ErrorIs(t, err, ErrEmptyName)
}
