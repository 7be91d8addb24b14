package device

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/starford/macropadd/internal/layer"
)

func TestEncodeProfileName_Padded(t *testing.T) {
	got := encodeProfileName("Work")
	want := []byte{msgProfileName, 'W', 'o', 'r', 'k', 0, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("encoded = %v, want %v", got, want)
	}
}

func TestEncodeProfileName_Truncated(t *testing.T) {
	got := encodeProfileName("VeryLongProfile")
	if len(got) != 1+profileNameLen {
		t.Fatalf("len = %d, want %d", len(got), 1+profileNameLen)
	}
	if string(got[1:]) != "VeryLong" {
		t.Errorf("name field = %q, want %q", got[1:], "VeryLong")
	}
}

func TestEncodeProfileName_DropsNonASCII(t *testing.T) {
	got := encodeProfileName("abécd")
	if string(got[1:6]) != "abcd\x00" {
		t.Errorf("name field = %q", got[1:])
	}
}

func TestEncodeKeyLabels_RowPermutation(t *testing.T) {
	labels := make([]string, layer.NumKeys)
	for i := range labels {
		labels[i] = fmt.Sprintf("L%02d", i)
	}

	got := encodeKeyLabels(labels)
	if len(got) != 1+layer.NumKeys*labelLen {
		t.Fatalf("len = %d, want %d", len(got), 1+layer.NumKeys*labelLen)
	}
	if got[0] != msgKeyLabels {
		t.Fatalf("type byte = %#x", got[0])
	}
	// The top row on the display is the last logical row: wire position 0
	// carries logical key 8.
	for wirePos, logical := range wireOrder {
		field := got[1+wirePos*labelLen : 1+(wirePos+1)*labelLen]
		want := fmt.Sprintf("L%02d ", logical)
		if string(field) != want {
			t.Errorf("wire field %d = %q, want %q", wirePos, field, want)
		}
	}
}

func TestEncodeKeyLabels_PadAndTruncate(t *testing.T) {
	labels := make([]string, layer.NumKeys)
	labels[0] = "VeryLongLabel"
	labels[1] = "ab"

	got := encodeKeyLabels(labels)
	// Logical key 0 sits at wire position 8.
	field := func(wirePos int) string {
		return string(got[1+wirePos*labelLen : 1+(wirePos+1)*labelLen])
	}
	if field(8) != "Very" {
		t.Errorf("long label field = %q, want %q", field(8), "Very")
	}
	if field(9) != "ab  " {
		t.Errorf("short label field = %q, want %q", field(9), "ab  ")
	}
	if field(0) != "    " {
		t.Errorf("empty label field = %q, want spaces", field(0))
	}
}

func TestParseEncoderReport(t *testing.T) {
	cases := []struct {
		name     string
		data     []byte
		ok       bool
		rotation uint8
		pressed  bool
	}{
		{"valid pressed", []byte{0x02, 0x2a, 0x01}, true, 42, true},
		{"valid released", []byte{0x02, 0x00, 0x00}, true, 0, false},
		{"wrong tag", []byte{0x03, 0x01, 0x00}, false, 0, false},
		{"too short", []byte{0x02, 0x01}, false, 0, false},
		{"too long", []byte{0x02, 0x01, 0x00, 0x00}, false, 0, false},
		{"empty", nil, false, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rotation, pressed, ok := parseEncoderReport(tc.data)
			if ok != tc.ok || rotation != tc.rotation || pressed != tc.pressed {
				t.Errorf("parse(%v) = (%d, %v, %v), want (%d, %v, %v)",
					tc.data, rotation, pressed, ok, tc.rotation, tc.pressed, tc.ok)
			}
		})
	}
}
