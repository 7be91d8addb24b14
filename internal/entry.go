// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sstallion/go-hid"
	"golang.org/x/sync/errgroup"

	"github.com/starford/macropadd/internal/device"
	"github.com/starford/macropadd/internal/focus"
	"github.com/starford/macropadd/internal/inject"
	"github.com/starford/macropadd/internal/input"
	"github.com/starford/macropadd/internal/layer"
	"github.com/starford/macropadd/internal/router"
	"github.com/starford/macropadd/internal/watcher"
)

// effects binds the action leaves to their executors: keystrokes go to the
// virtual keyboard, window activation to the compositor.
type effects struct {
	kb       *inject.Keyboard
	activate func(path string) error
}

func (fx *effects) SendHotkey(combo string) error     { return fx.kb.SendHotkey(combo) }
func (fx *effects) TypeText(text string) error        { return fx.kb.TypeText(text) }
func (fx *effects) ActivateProgram(path string) error { return fx.activate(path) }

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("layers_path", cfg.Layers.Path),
		slog.String("device", fmt.Sprintf("%04x:%04x", cfg.Device.VendorID, cfg.Device.ProductID)),
		slog.Bool("focus_enabled", cfg.Focus.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize the HID library.
	if err := hid.Init(); err != nil {
		return fmt.Errorf("init hid: %w", err)
	}
	defer hid.Exit()

	// Virtual keyboard for hotkey and typing effects.
	kb, err := inject.NewKeyboard(cfg.App.UinputPath, logger)
	if err != nil {
		return fmt.Errorf("init virtual keyboard: %w", err)
	}
	defer kb.Close()

	fx := &effects{kb: kb, activate: focus.Launch}
	ctl := &focus.Ctl{}
	if cfg.Focus.Enabled {
		fx.activate = focus.NewActivator(ctl, logger).Activate
	}

	// Device bridge with the display update queue.
	bridge := device.NewBridge(
		&device.HIDTransport{VendorID: cfg.Device.VendorID, ProductID: cfg.Device.ProductID},
		logger,
		device.WithQueueSize(cfg.Device.QueueSize),
		device.WithRetryInterval(time.Duration(cfg.Device.RetryIntervalMs)*time.Millisecond),
	)

	r := router.New(fx, bridge, logger)
	bridge.SetHandler(r)

	// Load the initial layer table. A broken or missing file is not fatal:
	// the watcher installs it once a valid version appears.
	if table, loadErr := watcher.Load(cfg.Layers.Path, logger); loadErr != nil {
		logger.Warn("initial layer load failed, starting with defaults",
			slog.String("path", cfg.Layers.Path),
			slog.String("error", loadErr.Error()))
	} else {
		r.Reload(table)
	}

	logger.Info("Daemon starting...")

	g, gCtx := errgroup.WithContext(ctx)

	// Device connection worker.
	g.Go(func() error {
		return bridge.Run(gCtx)
	})

	// Layer file watcher.
	g.Go(func() error {
		return watcher.Watch(gCtx, cfg.Layers.Path, logger, func(table *layer.Table) {
			r.Reload(table)
		})
	})

	// Pad key listener.
	g.Go(func() error {
		return input.NewListener(cfg.Input.DeviceName, cfg.Input.Grab, r, logger).Run(gCtx)
	})

	// Foreground window tracker. Losing the compositor socket degrades to
	// base-layer operation instead of stopping the daemon.
	if cfg.Focus.Enabled {
		g.Go(func() error {
			l := focus.NewListener(ctl, logger, r.FocusChanged)
			if err := l.Run(gCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("focus tracking stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}
		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Daemon stopped successfully")
	return nil
}
