// Package inject emits synthetic keystrokes through a uinput virtual
// keyboard. It backs the hotkey and typing effects.
package inject

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bendahl/uinput"

	"github.com/starford/macropadd/internal/apperr"
)

// keyPresser is the part of uinput.Keyboard the injector uses.
type keyPresser interface {
	KeyDown(key int) error
	KeyUp(key int) error
	KeyPress(key int) error
}

// Keyboard types text and presses hotkey combinations on a virtual device.
type Keyboard struct {
	kb     keyPresser
	close  func() error
	logger *slog.Logger
}

// NewKeyboard creates the virtual device. Requires write access to the
// uinput character device, usually /dev/uinput.
func NewKeyboard(uinputPath string, logger *slog.Logger) (*Keyboard, error) {
	kb, err := uinput.CreateKeyboard(uinputPath, []byte("macropadd"))
	if err != nil {
		return nil, fmt.Errorf("create virtual keyboard: %w", err)
	}
	return &Keyboard{kb: kb, close: kb.Close, logger: logger}, nil
}

func (k *Keyboard) Close() error {
	if k.close == nil {
		return nil
	}
	return k.close()
}

// SendHotkey presses a combo like "ctrl+shift+t": modifiers are held in
// written order, the final key is tapped, then the modifiers are released
// in reverse. Held modifiers are released even when a press fails.
func (k *Keyboard) SendHotkey(combo string) error {
	mods, key, err := parseCombo(combo)
	if err != nil {
		return err
	}

	var held []int
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			if upErr := k.kb.KeyUp(held[i]); upErr != nil {
				k.logger.Warn("inject: release modifier failed", slog.String("error", upErr.Error()))
			}
		}
	}()

	for _, mod := range mods {
		if err := k.kb.KeyDown(mod); err != nil {
			return fmt.Errorf("press modifier: %w", err)
		}
		held = append(held, mod)
	}
	if err := k.kb.KeyPress(key); err != nil {
		return fmt.Errorf("press key: %w", err)
	}
	return nil
}

// TypeText emits each character of text as its own key stroke. Characters
// without a US-layout mapping are skipped with a warning.
func (k *Keyboard) TypeText(text string) error {
	for _, r := range text {
		rk, ok := runeKeys[r]
		if !ok {
			k.logger.Warn("inject: no key mapping for character", slog.String("char", string(r)))
			continue
		}
		if err := k.typeRune(rk); err != nil {
			return err
		}
	}
	return nil
}

func (k *Keyboard) typeRune(rk runeKey) error {
	if rk.shift {
		if err := k.kb.KeyDown(uinput.KeyLeftshift); err != nil {
			return fmt.Errorf("press shift: %w", err)
		}
		defer func() {
			if err := k.kb.KeyUp(uinput.KeyLeftshift); err != nil {
				k.logger.Warn("inject: release shift failed", slog.String("error", err.Error()))
			}
		}()
	}
	if err := k.kb.KeyPress(rk.code); err != nil {
		return fmt.Errorf("press key: %w", err)
	}
	return nil
}

// parseCombo splits "ctrl+shift+t" into modifier codes and the final key
// code. Every part but the last must be a modifier.
func parseCombo(combo string) (mods []int, key int, err error) {
	parts := strings.Split(combo, "+")
	for i, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if i < len(parts)-1 {
			mod, ok := modifierCodes[part]
			if !ok {
				return nil, 0, fmt.Errorf("%w: unknown modifier %q in %q", apperr.ErrParse, part, combo)
			}
			mods = append(mods, mod)
			continue
		}
		code, ok := keyCodes[part]
		if !ok {
			code, ok = modifierCodes[part]
		}
		if !ok {
			return nil, 0, fmt.Errorf("%w: unknown key %q in %q", apperr.ErrParse, part, combo)
		}
		key = code
	}
	return mods, key, nil
}
