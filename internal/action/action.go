// Package action implements the macro instruction tree bound to keypad inputs.
package action

import (
	"fmt"
	"time"

	"github.com/starford/macropadd/internal/apperr"
)

// Effects is the set of side effects an action can produce. Implementations
// live at the process boundary (keystroke injection, window activation).
type Effects interface {
	SendHotkey(combo string) error
	TypeText(text string) error
	ActivateProgram(path string) error
}

// Kind discriminates the action variants. The set is closed: recognition
// order in Parse depends on it being exhaustively known.
type Kind int

const (
	KindHotkey Kind = iota
	KindType
	KindActivate
	KindSequence
	KindRepeat
)

// Action is a node in an immutable instruction tree. Exactly the fields for
// its Kind are populated; parents exclusively own their children.
type Action struct {
	Kind Kind
	Name string // display label for the device, may be empty

	Hotkey  string        // KindHotkey
	Text    string        // KindType
	Program string        // KindActivate
	Steps   []*Action     // KindSequence
	Inner   *Action       // KindRepeat
	Count   int           // KindRepeat
	Delay   time.Duration // KindSequence, KindRepeat: pause before each step/run
}

// Delay applied before each step/run when the record does not set delayMs.
const defaultStepDelay = 20 * time.Millisecond

// Run executes the action synchronously, blocking until every step has
// completed. Sequence and Repeat sleep their delay before each child run,
// including the first.
func (a *Action) Run(fx Effects) error {
	switch a.Kind {
	case KindHotkey:
		return fx.SendHotkey(a.Hotkey)
	case KindType:
		return fx.TypeText(a.Text)
	case KindActivate:
		return fx.ActivateProgram(a.Program)
	case KindSequence:
		for _, step := range a.Steps {
			time.Sleep(a.Delay)
			if err := step.Run(fx); err != nil {
				return err
			}
		}
		return nil
	case KindRepeat:
		for i := 0; i < a.Count; i++ {
			time.Sleep(a.Delay)
			if err := a.Inner.Run(fx); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown action kind %d", a.Kind)
}

func (a *Action) String() string {
	switch a.Kind {
	case KindHotkey:
		return fmt.Sprintf("Hotkey(%s)", a.Hotkey)
	case KindType:
		return fmt.Sprintf("Type(%s)", a.Text)
	case KindActivate:
		return fmt.Sprintf("Activate(%s)", a.Program)
	case KindSequence:
		return fmt.Sprintf("Sequence(%d steps)", len(a.Steps))
	case KindRepeat:
		return fmt.Sprintf("Repeat(%d, %s)", a.Count, a.Inner)
	}
	return fmt.Sprintf("Unknown(%d)", a.Kind)
}

// Parse decodes a structured record (a decoded YAML mapping) into an Action.
// Recognition order is fixed and significant: hotkey, type, activateWindow,
// sequence, repeat. The first structurally matching shape wins.
func Parse(raw any) (*Action, error) {
	rec, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: action must be a mapping, got %T", apperr.ErrParse, raw)
	}

	name, _ := rec["name"].(string)

	if v, ok := rec["hotkey"]; ok {
		combo, ok := v.(string)
		if !ok || combo == "" {
			return nil, fmt.Errorf("%w: hotkey must be a non-empty string", apperr.ErrParse)
		}
		return &Action{Kind: KindHotkey, Name: name, Hotkey: combo}, nil
	}

	if v, ok := rec["type"]; ok {
		text, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: type must be a string", apperr.ErrParse)
		}
		return &Action{Kind: KindType, Name: name, Text: text}, nil
	}

	if v, ok := rec["activateWindow"]; ok {
		path, ok := v.(string)
		if !ok || path == "" {
			return nil, fmt.Errorf("%w: activateWindow must be a non-empty path", apperr.ErrParse)
		}
		return &Action{Kind: KindActivate, Name: name, Program: path}, nil
	}

	if v, ok := rec["sequence"]; ok {
		return parseSequence(v, name)
	}

	if v, ok := rec["repeat"]; ok {
		return parseRepeat(v, name)
	}

	return nil, fmt.Errorf("%w: unrecognized action record", apperr.ErrParse)
}

func parseSequence(v any, name string) (*Action, error) {
	rec, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: sequence must be a mapping", apperr.ErrParse)
	}

	rawSteps, ok := rec["steps"].([]any)
	if !ok || len(rawSteps) == 0 {
		return nil, fmt.Errorf("%w: sequence needs a non-empty steps list", apperr.ErrParse)
	}

	steps := make([]*Action, 0, len(rawSteps))
	for i, rawStep := range rawSteps {
		step, err := Parse(rawStep)
		if err != nil {
			return nil, fmt.Errorf("sequence step %d: %w", i, err)
		}
		steps = append(steps, step)
	}

	delay, err := delayField(rec)
	if err != nil {
		return nil, err
	}

	return &Action{Kind: KindSequence, Name: name, Steps: steps, Delay: delay}, nil
}

func parseRepeat(v any, name string) (*Action, error) {
	rec, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: repeat must be a mapping", apperr.ErrParse)
	}

	rawInner, ok := rec["action"]
	if !ok {
		return nil, fmt.Errorf("%w: repeat needs an action", apperr.ErrParse)
	}
	inner, err := Parse(rawInner)
	if err != nil {
		return nil, fmt.Errorf("repeat action: %w", err)
	}

	// count 0 is accepted and runs nothing.
	count, err := intField(rec, "count", 0)
	if err != nil {
		return nil, err
	}
	delay, err := delayField(rec)
	if err != nil {
		return nil, err
	}

	return &Action{Kind: KindRepeat, Name: name, Inner: inner, Count: count, Delay: delay}, nil
}

func delayField(rec map[string]any) (time.Duration, error) {
	ms, err := intField(rec, "delayMs", int(defaultStepDelay/time.Millisecond))
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func intField(rec map[string]any, key string, def int) (int, error) {
	v, ok := rec[key]
	if !ok {
		return def, nil
	}
	n, ok := v.(int)
	if !ok || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", apperr.ErrParse, key)
	}
	return n, nil
}
