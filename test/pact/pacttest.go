//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "ventasve-api"
	ConsumerName = "delivery-app"

	StateAwaitingConfirmation = "delivery order 7f1d awaits otp confirmation"
	StateNoDeliveryOrder      = "no delivery order with id 0b6e"
)

// Fixed identifiers shared by the consumer expectations and the provider seed.
const (
	BusinessID          = "biz-pact"
	OrderID             = "3f0c8a8e-5b7a-4c1e-9a51-1b2c3d4e5f60"
	DeliveryPersonID    = "a6e2f4d0-8c1b-4f3a-b7d9-2e4f6a8b0c12"
	DeliveryOrderID     = "7f1d9c2a-3b4e-4d5f-8a6b-7c8d9e0f1a2b"
	MissingDeliveryID   = "0b6e5d4c-3b2a-4190-8f7e-6d5c4b3a2910"
	OTPCode             = "604219"
	WrongOTPCode        = "111111"
	ExampleAddress      = "Av. Bolivar 12, Maracaibo"
	ExampleStoreAddress = "Calle 72, Maracaibo"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the delivery app consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
