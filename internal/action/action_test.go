package action

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/macropadd/internal/apperr"
)

// recorder captures effect invocations in order.
type recorder struct {
	calls []string
}

func (r *recorder) SendHotkey(combo string) error {
	r.calls = append(r.calls, "hotkey:"+combo)
	return nil
}

func (r *recorder) TypeText(text string) error {
	r.calls = append(r.calls, "type:"+text)
	return nil
}

func (r *recorder) ActivateProgram(path string) error {
	r.calls = append(r.calls, "activate:"+path)
	return nil
}

func TestParse_Hotkey(t *testing.T) {
	a, err := Parse(map[string]any{"hotkey": "ctrl+shift+t", "name": "Reopen"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Kind != KindHotkey || a.Hotkey != "ctrl+shift+t" || a.Name != "Reopen" {
		t.Errorf("parsed = %+v", a)
	}
}

func TestParse_Type(t *testing.T) {
	a, err := Parse(map[string]any{"type": "hello world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Kind != KindType || a.Text != "hello world" || a.Name != "" {
		t.Errorf("parsed = %+v", a)
	}
}

func TestParse_ActivateWindow(t *testing.T) {
	a, err := Parse(map[string]any{"activateWindow": "/usr/bin/firefox", "name": "FF"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Kind != KindActivate || a.Program != "/usr/bin/firefox" {
		t.Errorf("parsed = %+v", a)
	}
}

func TestParse_Sequence(t *testing.T) {
	a, err := Parse(map[string]any{
		"name": "Combo",
		"sequence": map[string]any{
			"delayMs": 5,
			"steps": []any{
				map[string]any{"hotkey": "ctrl+c"},
				map[string]any{"type": "pasted"},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Kind != KindSequence || len(a.Steps) != 2 || a.Delay != 5*time.Millisecond {
		t.Fatalf("parsed = %+v", a)
	}
	if a.Steps[0].Kind != KindHotkey || a.Steps[1].Kind != KindType {
		t.Errorf("steps = %v, %v", a.Steps[0], a.Steps[1])
	}
}

func TestParse_Repeat(t *testing.T) {
	a, err := Parse(map[string]any{
		"repeat": map[string]any{
			"action":  map[string]any{"hotkey": "down"},
			"count":   10,
			"delayMs": 0,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Kind != KindRepeat || a.Count != 10 || a.Delay != 0 {
		t.Fatalf("parsed = %+v", a)
	}
	if a.Inner == nil || a.Inner.Hotkey != "down" {
		t.Errorf("inner = %v", a.Inner)
	}
}

func TestParse_RepeatDefaults(t *testing.T) {
	a, err := Parse(map[string]any{
		"repeat": map[string]any{"action": map[string]any{"hotkey": "down"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Count != 0 {
		t.Errorf("count = %d, want 0", a.Count)
	}
	if a.Delay != defaultStepDelay {
		t.Errorf("delay = %v, want %v", a.Delay, defaultStepDelay)
	}
}

func TestParse_RecognitionOrder(t *testing.T) {
	// A record carrying both hotkey and type fields must parse as hotkey.
	a, err := Parse(map[string]any{"hotkey": "f5", "type": "never"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Kind != KindHotkey {
		t.Errorf("kind = %v, want KindHotkey", a.Kind)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		raw  any
	}{
		{"not a mapping", "hotkey"},
		{"empty record", map[string]any{}},
		{"empty hotkey", map[string]any{"hotkey": ""}},
		{"empty sequence steps", map[string]any{"sequence": map[string]any{"steps": []any{}}}},
		{"bad step", map[string]any{"sequence": map[string]any{"steps": []any{map[string]any{"nope": 1}}}}},
		{"repeat without action", map[string]any{"repeat": map[string]any{"count": 3}}},
		{"negative count", map[string]any{"repeat": map[string]any{"action": map[string]any{"hotkey": "a"}, "count": -1}}},
		{"bad inner repeat", map[string]any{"repeat": map[string]any{"action": "x"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.raw)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, apperr.ErrParse) {
				t.Errorf("error %v is not ErrParse", err)
			}
		})
	}
}

func TestRun_Leaves(t *testing.T) {
	fx := &recorder{}
	actions := []*Action{
		{Kind: KindHotkey, Hotkey: "ctrl+c"},
		{Kind: KindType, Text: "hi"},
		{Kind: KindActivate, Program: "/bin/true"},
	}
	for _, a := range actions {
		if err := a.Run(fx); err != nil {
			t.Fatalf("run %v: %v", a, err)
		}
	}
	want := []string{"hotkey:ctrl+c", "type:hi", "activate:/bin/true"}
	if len(fx.calls) != len(want) {
		t.Fatalf("calls = %v", fx.calls)
	}
	for i := range want {
		if fx.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, fx.calls[i], want[i])
		}
	}
}

func TestRun_SequenceOrder(t *testing.T) {
	fx := &recorder{}
	seq := &Action{Kind: KindSequence, Steps: []*Action{
		{Kind: KindType, Text: "a"},
		{Kind: KindType, Text: "b"},
		{Kind: KindType, Text: "c"},
	}}
	if err := seq.Run(fx); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"type:a", "type:b", "type:c"}
	for i := range want {
		if fx.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, fx.calls[i], want[i])
		}
	}
}

func TestRun_RepeatZeroNeverRuns(t *testing.T) {
	fx := &recorder{}
	rep := &Action{Kind: KindRepeat, Count: 0, Inner: &Action{Kind: KindType, Text: "x"}}
	if err := rep.Run(fx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(fx.calls) != 0 {
		t.Errorf("inner ran %d times, want 0", len(fx.calls))
	}
}

func TestRun_RepeatCount(t *testing.T) {
	fx := &recorder{}
	rep := &Action{Kind: KindRepeat, Count: 3, Inner: &Action{Kind: KindHotkey, Hotkey: "down"}}
	if err := rep.Run(fx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(fx.calls) != 3 {
		t.Errorf("inner ran %d times, want 3", len(fx.calls))
	}
}

type failingEffects struct{ recorder }

func (f *failingEffects) TypeText(string) error { return errors.New("boom") }

func TestRun_SequenceStopsOnError(t *testing.T) {
	fx := &failingEffects{}
	seq := &Action{Kind: KindSequence, Steps: []*Action{
		{Kind: KindType, Text: "a"},
		{Kind: KindHotkey, Hotkey: "never"},
	}}
	if err := seq.Run(fx); err == nil {
		t.Fatal("expected error")
	}
	if len(fx.calls) != 0 {
		t.Errorf("later steps ran: %v", fx.calls)
	}
}
