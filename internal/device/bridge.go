// Package device mediates all binary I/O with the physical keypad.
package device

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/macropadd/internal/apperr"
)

// Device is an open connection to the keypad: a writable display endpoint
// and a readable encoder endpoint. Read returns an empty slice on timeout.
type Device interface {
	Write(msg []byte) error
	Read(timeout time.Duration) ([]byte, error)
	Close() error
}

// Transport locates and opens the keypad.
type Transport interface {
	Open() (Device, error)
}

// InputHandler receives decoded encoder events. The router implements it.
type InputHandler interface {
	HandleEncoderRotation(counter uint8)
	HandleEncoderButton(pressed bool)
}

const (
	defaultQueueSize      = 6
	defaultEnqueueTimeout = 50 * time.Millisecond
	defaultRetryInterval  = time.Second
	defaultReadTimeout    = 50 * time.Millisecond
)

// Bridge owns the bounded outbound queue and the background worker that
// keeps a best-effort connection to exactly one keypad, reconnecting
// indefinitely while the device is unplugged.
type Bridge struct {
	transport Transport
	handler   InputHandler
	logger    *slog.Logger

	sendq          chan []byte
	enqueueTimeout time.Duration
	retryInterval  time.Duration
	readTimeout    time.Duration
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithQueueSize sets the outbound queue capacity.
func WithQueueSize(n int) Option {
	return func(b *Bridge) {
		if n > 0 {
			b.sendq = make(chan []byte, n)
		}
	}
}

// WithEnqueueTimeout sets how long a producer waits before dropping.
func WithEnqueueTimeout(d time.Duration) Option {
	return func(b *Bridge) { b.enqueueTimeout = d }
}

// WithRetryInterval sets the pause between discovery attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(b *Bridge) { b.retryInterval = d }
}

// WithReadTimeout sets the bounded wait of each inbound read.
func WithReadTimeout(d time.Duration) Option {
	return func(b *Bridge) { b.readTimeout = d }
}

func NewBridge(transport Transport, logger *slog.Logger, opts ...Option) *Bridge {
	b := &Bridge{
		transport:      transport,
		logger:         logger,
		sendq:          make(chan []byte, defaultQueueSize),
		enqueueTimeout: defaultEnqueueTimeout,
		retryInterval:  defaultRetryInterval,
		readTimeout:    defaultReadTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetHandler wires the consumer of decoded encoder events. The router and
// the bridge reference each other (events up, profile updates down), so the
// handler is attached after construction. Must be set before Run.
func (b *Bridge) SetHandler(h InputHandler) {
	b.handler = h
}

// SendProfileName queues a profile-name record for the display.
func (b *Bridge) SendProfileName(name string) {
	b.enqueue(encodeProfileName(name))
}

// SendKeyLabels queues a key-label record for the display.
func (b *Bridge) SendKeyLabels(labels []string) {
	b.enqueue(encodeKeyLabels(labels))
}

// enqueue drops the message when the queue stays full past the timeout.
// Staleness is acceptable; backpressure on the caller is not.
func (b *Bridge) enqueue(msg []byte) {
	select {
	case b.sendq <- msg:
	case <-time.After(b.enqueueTimeout):
		b.logger.Debug("device: outbound queue full, dropping message",
			slog.Int("type", int(msg[0])))
	}
}

// Run drives the connection state machine: discover, session, rediscover.
// It returns only when ctx is cancelled; device loss is never fatal.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		dev, err := b.transport.Open()
		if err != nil {
			b.logger.Debug("device: not available", slog.String("error", err.Error()))
			if !sleepCtx(ctx, b.retryInterval) {
				return ctx.Err()
			}
			continue
		}

		b.logger.Info("device: connected")
		err = b.session(ctx, dev)
		if closeErr := dev.Close(); closeErr != nil {
			b.logger.Debug("device: close failed", slog.String("error", closeErr.Error()))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warn("device: disconnected", slog.String("error", err.Error()))
		if !sleepCtx(ctx, b.retryInterval) {
			return ctx.Err()
		}
	}
}

// session alternates between draining at most one outbound message and a
// bounded-wait read until an I/O fault or cancellation.
func (b *Bridge) session(ctx context.Context, dev Device) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-b.sendq:
			if err := dev.Write(msg); err != nil {
				return fmt.Errorf("%w: write: %v", apperr.ErrDisconnected, err)
			}
			b.logger.Debug("device: sent message", slog.Int("bytes", len(msg)))
		default:
		}

		data, err := dev.Read(b.readTimeout)
		if err != nil {
			return fmt.Errorf("%w: read: %v", apperr.ErrDisconnected, err)
		}
		if len(data) == 0 {
			continue
		}

		rotation, pressed, ok := parseEncoderReport(data)
		if !ok {
			b.logger.Debug("device: discarding unexpected report", slog.Int("bytes", len(data)))
			continue
		}
		if b.handler != nil {
			b.handler.HandleEncoderRotation(rotation)
			b.handler.HandleEncoderButton(pressed)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
