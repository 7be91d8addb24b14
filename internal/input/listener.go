// Package input reads the keypad's F13..F24 presses from its keyboard
// interface via evdev.
package input

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/holoplot/go-evdev"

	"github.com/starford/macropadd/internal/apperr"
)

// KeyHandler receives physical key presses; the router implements it.
type KeyHandler interface {
	HandleKey(key string)
}

// keyCodes maps the evdev codes the pad emits to their logical key names.
var keyCodes = map[evdev.EvCode]string{
	evdev.KEY_F13: "F13",
	evdev.KEY_F14: "F14",
	evdev.KEY_F15: "F15",
	evdev.KEY_F16: "F16",
	evdev.KEY_F17: "F17",
	evdev.KEY_F18: "F18",
	evdev.KEY_F19: "F19",
	evdev.KEY_F20: "F20",
	evdev.KEY_F21: "F21",
	evdev.KEY_F22: "F22",
	evdev.KEY_F23: "F23",
	evdev.KEY_F24: "F24",
}

const retryInterval = time.Second

// Listener reads key events from the pad's keyboard interface. The device
// is located by its reported name, since the /dev/input path changes across
// replugs; absence is retried like the HID bridge does.
type Listener struct {
	deviceName string
	grab       bool
	handler    KeyHandler
	logger     *slog.Logger
}

func NewListener(deviceName string, grab bool, handler KeyHandler, logger *slog.Logger) *Listener {
	return &Listener{deviceName: deviceName, grab: grab, handler: handler, logger: logger}
}

// Run dispatches key presses until ctx is cancelled. Device loss is never
// fatal; the listener waits for the pad to come back.
func (l *Listener) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		dev, err := l.open()
		if err != nil {
			l.logger.Debug("input: device not available", slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryInterval):
			}
			continue
		}

		l.logger.Info("input: listening", slog.String("device", l.deviceName))
		err = l.read(ctx, dev)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.logger.Warn("input: device lost", slog.String("error", err.Error()))
	}
}

func (l *Listener) open() (*evdev.InputDevice, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	for _, p := range paths {
		if p.Name != l.deviceName {
			continue
		}
		dev, err := evdev.Open(p.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", p.Path, err)
		}
		if l.grab {
			// Grabbing keeps the F-keys from reaching other applications,
			// mirroring suppressed global hotkeys.
			if err := dev.Grab(); err != nil {
				dev.Close()
				return nil, fmt.Errorf("grab %s: %w", p.Path, err)
			}
		}
		return dev, nil
	}
	return nil, apperr.ErrDeviceNotFound
}

func (l *Listener) read(ctx context.Context, dev *evdev.InputDevice) error {
	// Closing the device is the only way to unblock ReadOne.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			dev.Close()
		case <-done:
			dev.Close()
		}
	}()

	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read input event: %w", err)
		}

		key, ok := keyName(ev)
		if !ok {
			continue
		}
		l.logger.Debug("input: key pressed", slog.String("key", key))
		l.handler.HandleKey(key)
	}
}

// keyName filters for initial presses of the pad's keys: releases and
// autorepeats are dropped.
func keyName(ev *evdev.InputEvent) (string, bool) {
	if ev.Type != evdev.EV_KEY || ev.Value != 1 {
		return "", false
	}
	name, ok := keyCodes[ev.Code]
	return name, ok
}
