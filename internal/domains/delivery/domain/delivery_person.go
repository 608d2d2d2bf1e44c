package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyBusinessID = errors.New("business id is required")
	ErrEmptyName       = errors.New("delivery person name is required")
)

// DeliveryPerson is a driver scoped to one business. The counters never decrease.
type DeliveryPerson struct {
	ID              string
	BusinessID      string
	Name            string
	Phone           string
	IsAvailable     bool
	CompletedOrders int
	TotalDeliveries int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewDeliveryPerson onboards an available driver with zeroed counters.
func NewDeliveryPerson(id, businessID, name, phone string, now time.Time) (*DeliveryPerson, error) {
	p := &DeliveryPerson{
		ID:          id,
		BusinessID:  strings.TrimSpace(businessID),
		Name:        strings.TrimSpace(name),
		Phone:       strings.TrimSpace(phone),
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.BusinessID == "" {
		return nil, ErrEmptyBusinessID
	}
	if p.Name == "" {
		return nil, ErrEmptyName
	}
	return p, nil
}
