package internal

import (
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.Device.VendorID != 0x2E8A || cfg.Device.ProductID != 0xFFEE {
		t.Errorf("unexpected default device ids: %04x:%04x", cfg.Device.VendorID, cfg.Device.ProductID)
	}
}

func TestLayersConfig_EmptyPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Layers.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty layers path should fail validation")
	}
}

func TestDeviceConfig_ZeroIDs(t *testing.T) {
	cfg := DeviceConfig{VendorID: 0, ProductID: 0xFFEE, QueueSize: 6, RetryIntervalMs: 1000}
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero vendor id should fail validation")
	}
}

func TestDeviceConfig_QueueSizeBounds(t *testing.T) {
	cfg := DeviceConfig{VendorID: 0x2E8A, ProductID: 0xFFEE, QueueSize: 0, RetryIntervalMs: 1000}
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero queue size should fail validation")
	}
}

func TestInputConfig_EmptyDeviceName(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Input.DeviceName = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty input device name should fail validation")
	}
}
