package application

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	ordersapp "github.com/ventasve/ventasve-api/internal/domains/orders/application"
	orderports "github.com/ventasve/ventasve-api/internal/domains/orders/ports"
	"github.com/ventasve/ventasve-api/internal/platform/notify"
	"github.com/ventasve/ventasve-api/internal/shared/transaction"
)

// Dependencies are the collaborators shared by the delivery services. Tx must cover all
// three repositories.
type Dependencies struct {
	Tx         transaction.Manager
	Orders     orderports.Repository
	Deliveries ports.DeliveryOrderRepository
	Persons    ports.DeliveryPersonRepository
	Businesses ports.BusinessDirectory
	Publisher  notify.Publisher
	Logger     *slog.Logger
	Clock      func() time.Time
	OTP        domain.OTPGenerator
	NewID      func() string
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.OTP == nil {
		d.OTP = domain.GenerateOTP
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.Tx == nil {
		d.Tx = transaction.Passthrough
	}
	return d
}

func (d Dependencies) now() time.Time {
	return d.Clock().UTC()
}

func (d Dependencies) lifecycle() *ordersapp.Lifecycle {
	return ordersapp.NewLifecycle(d.Orders, d.Clock)
}

// Policy holds the business rules that vary per deployment.
type Policy struct {
	// StrictAvailability rejects assignment of unavailable drivers instead of logging a warning.
	StrictAvailability bool
	// RequirePreparing only accepts orders already in PREPARING for assignment.
	RequirePreparing bool
	// MaxOTPAttempts locks a delivery order after this many wrong codes. Zero disables the limit
	// and leaves the delivery order untouched on mismatch.
	MaxOTPAttempts int
	// OTPTTL expires codes this long after assignment. Zero disables expiry.
	OTPTTL time.Duration
}
