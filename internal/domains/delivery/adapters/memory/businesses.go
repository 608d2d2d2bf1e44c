package memory

import (
	"context"
	"sync"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
)

var _ ports.BusinessDirectory = (*BusinessDirectory)(nil)

// BusinessDirectory is a static map of business pickup addresses.
type BusinessDirectory struct {
	mu        sync.RWMutex
	addresses map[string]string
}

func NewBusinessDirectory() *BusinessDirectory {
	return &BusinessDirectory{addresses: map[string]string{}}
}

// SetStoreAddress records the pickup address for a business.
func (d *BusinessDirectory) SetStoreAddress(businessID, address string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addresses[businessID] = address
}

func (d *BusinessDirectory) StoreAddress(_ context.Context, businessID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.addresses[businessID], nil
}
