package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/sstallion/go-hid"

	"github.com/starford/macropadd/internal/apperr"
)

// Usage pairs identifying the keypad's two HID interfaces.
const (
	displayUsagePage = 0x14 // auxiliary display
	displayUsage     = 0x02
	encoderUsagePage = 0x01 // generic desktop
	encoderUsage     = 0x08 // multi-axis controller
)

const readBufSize = 64

// HIDTransport locates the keypad by vendor/product ID plus the usage pairs
// of its display and encoder endpoints, and opens both.
type HIDTransport struct {
	VendorID  uint16
	ProductID uint16
}

func (t *HIDTransport) Open() (Device, error) {
	var displayPath, encoderPath string
	err := hid.Enumerate(t.VendorID, t.ProductID, func(info *hid.DeviceInfo) error {
		switch {
		case info.UsagePage == displayUsagePage && info.Usage == displayUsage:
			displayPath = info.Path
		case info.UsagePage == encoderUsagePage && info.Usage == encoderUsage:
			encoderPath = info.Path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	if displayPath == "" || encoderPath == "" {
		return nil, apperr.ErrDeviceNotFound
	}

	display, err := hid.OpenPath(displayPath)
	if err != nil {
		return nil, fmt.Errorf("open display endpoint: %w", err)
	}
	encoder, err := hid.OpenPath(encoderPath)
	if err != nil {
		display.Close()
		return nil, fmt.Errorf("open encoder endpoint: %w", err)
	}

	return &hidDevice{display: display, encoder: encoder}, nil
}

type hidDevice struct {
	display *hid.Device
	encoder *hid.Device
}

func (d *hidDevice) Write(msg []byte) error {
	if _, err := d.display.Write(msg); err != nil {
		return fmt.Errorf("hid write: %w", err)
	}
	return nil
}

func (d *hidDevice) Read(timeout time.Duration) ([]byte, error) {
	buf := make([]byte, readBufSize)
	n, err := d.encoder.ReadWithTimeout(buf, timeout)
	if err != nil {
		return nil, fmt.Errorf("hid read: %w", err)
	}
	return buf[:n], nil
}

func (d *hidDevice) Close() error {
	return errors.Join(d.display.Close(), d.encoder.Close())
}
