// Package router owns the active layer stack and resolves device input to
// bound actions.
package router

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/starford/macropadd/internal/action"
	"github.com/starford/macropadd/internal/layer"
)

// Display receives profile updates for the device's screen. Updates are
// best-effort; the device bridge implements this with a drop-on-full queue.
type Display interface {
	SendProfileName(name string)
	SendKeyLabels(labels []string)
}

// Router keeps the active layer stack: [default, base?, application?],
// bottom to top. The synthetic default layer is permanent; at most one
// application layer is present and it is always topmost.
//
// All stack mutation happens under one mutex. Dispatch iterates a snapshot
// copy, so a reload during dispatch is linearizable at snapshot granularity.
type Router struct {
	fx      action.Effects
	display Display
	logger  *slog.Logger

	mu         sync.Mutex
	table      *layer.Table
	stack      []*layer.Layer
	lastRot    uint8
	rotSeeded  bool
	btnPressed bool
}

func New(fx action.Effects, display Display, logger *slog.Logger) *Router {
	return &Router{
		fx:      fx,
		display: display,
		logger:  logger,
		stack:   []*layer.Layer{layer.NewDefault()},
	}
}

// Reload installs a new layer table and collapses the stack back to
// [default, base?]. Any application layer is dropped; the next focus event
// reinstates it from the new table.
func (r *Router) Reload(table *layer.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.table = table
	r.rebuildBaseLocked()
	r.logger.Info("router: layer table installed", slog.Int("layers", table.Len()))
	r.pushProfileLocked()
}

// FocusChanged strips the stack to [default, base?] and pushes the first
// table layer (in definition order) scoped to the focused process, if any.
func (r *Router) FocusChanged(processPath string) {
	proc := filepath.Base(processPath)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rebuildBaseLocked()
	var app *layer.Layer
	if r.table != nil {
		app = r.table.ForApplication(proc)
	}
	if app != nil {
		r.stack = append(r.stack, app)
		r.logger.Debug("router: application layer active",
			slog.String("process", proc),
			slog.String("layer", app.Name))
	} else {
		r.logger.Debug("router: no layer for process", slog.String("process", proc))
	}
	r.pushProfileLocked()
}

// rebuildBaseLocked resets the stack to the permanent default layer plus the
// table's base layer when it has one.
func (r *Router) rebuildBaseLocked() {
	r.stack = r.stack[:1]
	if r.table != nil {
		if base := r.table.Base(); base != nil {
			r.stack = append(r.stack, base)
		}
	}
}

// ActiveLayers returns the names of the active stack, bottom to top.
func (r *Router) ActiveLayers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.stack))
	for i, l := range r.stack {
		names[i] = l.Name
	}
	return names
}

// HandleKey dispatches a physical key press to the topmost layer binding it.
func (r *Router) HandleKey(key string) {
	for _, l := range r.snapshotTopDown() {
		if a := l.ActionFor(key); a != nil {
			r.runAction(a)
			return
		}
	}
	r.logger.Warn("router: unhandled key event", slog.String("key", key))
}

// HandleEncoderRotation converts the device's absolute 8-bit counter into a
// signed step count (wraparound int8 delta) and dispatches one increment or
// decrement per step. The first report only seeds the baseline.
func (r *Router) HandleEncoderRotation(counter uint8) {
	r.mu.Lock()
	if !r.rotSeeded {
		r.rotSeeded = true
		r.lastRot = counter
		r.mu.Unlock()
		return
	}
	delta := int8(counter - r.lastRot)
	r.lastRot = counter
	r.mu.Unlock()

	steps := int(delta)
	inc := steps > 0
	if steps < 0 {
		steps = -steps
	}
	for i := 0; i < steps; i++ {
		r.handleEncoderStep(inc)
	}
}

// HandleEncoderButton fires the bound action on the not-pressed to pressed
// transition only; sustained press and release do nothing.
func (r *Router) HandleEncoderButton(pressed bool) {
	r.mu.Lock()
	fire := pressed && !r.btnPressed
	r.btnPressed = pressed
	r.mu.Unlock()
	if !fire {
		return
	}

	for _, l := range r.snapshotTopDown() {
		if l.EncoderBtn != nil {
			r.runAction(l.EncoderBtn)
			return
		}
	}
	r.logger.Warn("router: unhandled encoder button event")
}

func (r *Router) handleEncoderStep(inc bool) {
	for _, l := range r.snapshotTopDown() {
		a := l.EncoderDec
		if inc {
			a = l.EncoderInc
		}
		if a != nil {
			r.runAction(a)
			return
		}
	}
	r.logger.Warn("router: unhandled encoder event", slog.Bool("increment", inc))
}

// snapshotTopDown returns a copy of the active stack, topmost layer first.
func (r *Router) snapshotTopDown() []*layer.Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := make([]*layer.Layer, len(r.stack))
	for i, l := range r.stack {
		s[len(r.stack)-1-i] = l
	}
	return s
}

func (r *Router) runAction(a *action.Action) {
	if err := a.Run(r.fx); err != nil {
		r.logger.Warn("router: action failed",
			slog.String("action", a.String()),
			slog.String("error", err.Error()))
		return
	}
	r.logger.Debug("router: ran action", slog.String("action", a.String()))
}

// pushProfileLocked sends the topmost layer's name and the merged key labels
// to the display.
func (r *Router) pushProfileLocked() {
	if r.display == nil || len(r.stack) == 0 {
		return
	}
	top := r.stack[len(r.stack)-1]
	r.display.SendProfileName(top.Name)
	r.display.SendKeyLabels(mergeLabels(r.stack))
}

// mergeLabels overlays per-key labels bottom to top. A layer that binds a
// key contributes its action's display name even when that name is empty;
// unbound keys leave the lower label in place.
func mergeLabels(stack []*layer.Layer) []string {
	labels := make([]string, layer.NumKeys)
	for i, key := range layer.KeyNames {
		for _, l := range stack {
			if a := l.ActionFor(key); a != nil {
				labels[i] = a.Name
			}
		}
	}
	return labels
}
