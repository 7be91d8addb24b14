package device

import "github.com/starford/macropadd/internal/layer"

// Outbound record type bytes and the inbound encoder report tag.
const (
	msgProfileName = 0x03
	msgKeyLabels   = 0x04
	reportEncoder  = 0x02
)

const (
	profileNameLen = 8
	labelLen       = 4
)

// wireOrder maps wire label positions to logical key indices. The display
// renders its three rows top to bottom while the logical order counts from
// the bottom row, so the rows are swapped as a fixed permutation.
var wireOrder = [layer.NumKeys]int{8, 9, 10, 11, 4, 5, 6, 7, 0, 1, 2, 3}

// encodeProfileName builds the 0x03 record: one type byte plus the name as
// fixed-width ASCII, truncated or NUL-padded to 8 bytes.
func encodeProfileName(name string) []byte {
	buf := make([]byte, 1+profileNameLen)
	buf[0] = msgProfileName
	copy(buf[1:], toASCII(name))
	return buf
}

// encodeKeyLabels builds the 0x04 record: twelve 4-character fields in wire
// order, each label truncated or space-padded.
func encodeKeyLabels(labels []string) []byte {
	buf := make([]byte, 0, 1+layer.NumKeys*labelLen)
	buf = append(buf, msgKeyLabels)
	for _, idx := range wireOrder {
		var label string
		if idx < len(labels) {
			label = labels[idx]
		}
		field := [labelLen]byte{' ', ' ', ' ', ' '}
		copy(field[:], toASCII(label))
		buf = append(buf, field[:]...)
	}
	return buf
}

// toASCII drops non-ASCII runes; the display renders plain ASCII only.
func toASCII(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 128 {
			out = append(out, byte(r))
		}
	}
	return out
}

// parseEncoderReport decodes an inbound report. A valid encoder report is
// exactly [0x02, rotation counter, button state]; anything else is rejected.
func parseEncoderReport(data []byte) (rotation uint8, pressed bool, ok bool) {
	if len(data) != 3 || data[0] != reportEncoder {
		return 0, false, false
	}
	return data[1], data[2] != 0, true
}
