package layer

// The keypad presents its 12 keys to the host as F13..F24. Logical index 0
// (F13) is the bottom-left key; the device bridge owns the wire reordering.
var KeyNames = []string{
	"F13", "F14", "F15", "F16",
	"F17", "F18", "F19", "F20",
	"F21", "F22", "F23", "F24",
}

// NumKeys is the number of physical keys on the pad.
const NumKeys = 12

// Special binding fields recognized in a layer record next to the key names.
const (
	FieldEncoderInc = "encoderInc"
	FieldEncoderDec = "encoderDec"
	FieldEncoderBtn = "encoderBtn"
)

var keySet = func() map[string]struct{} {
	s := make(map[string]struct{}, NumKeys)
	for _, k := range KeyNames {
		s[k] = struct{}{}
	}
	return s
}()

// IsKeyName reports whether name identifies one of the physical keys.
func IsKeyName(name string) bool {
	_, ok := keySet[name]
	return ok
}
