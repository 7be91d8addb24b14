package input

import (
	"testing"

	"github.com/holoplot/go-evdev"
)

func TestKeyName(t *testing.T) {
	cases := []struct {
		name string
		ev   evdev.InputEvent
		want string
		ok   bool
	}{
		{"press F13", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_F13, Value: 1}, "F13", true},
		{"press F24", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_F24, Value: 1}, "F24", true},
		{"release", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_F13, Value: 0}, "", false},
		{"autorepeat", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_F13, Value: 2}, "", false},
		{"other key", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: 1}, "", false},
		{"non-key event", evdev.InputEvent{Type: evdev.EV_SYN, Code: 0, Value: 1}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := keyName(&tc.ev)
			if got != tc.want || ok != tc.ok {
				t.Errorf("keyName = (%q, %v), want (%q, %v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestKeyCodes_CoverAllPadKeys(t *testing.T) {
	if len(keyCodes) != 12 {
		t.Errorf("keyCodes has %d entries, want 12", len(keyCodes))
	}
}
