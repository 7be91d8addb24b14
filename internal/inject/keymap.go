package inject

import "github.com/bendahl/uinput"

// keyCodes maps hotkey tokens to uinput key codes. Tokens are the
// lowercased parts of a combo string like "ctrl+shift+t".
var keyCodes = map[string]int{
	"a": uinput.KeyA, "b": uinput.KeyB, "c": uinput.KeyC, "d": uinput.KeyD,
	"e": uinput.KeyE, "f": uinput.KeyF, "g": uinput.KeyG, "h": uinput.KeyH,
	"i": uinput.KeyI, "j": uinput.KeyJ, "k": uinput.KeyK, "l": uinput.KeyL,
	"m": uinput.KeyM, "n": uinput.KeyN, "o": uinput.KeyO, "p": uinput.KeyP,
	"q": uinput.KeyQ, "r": uinput.KeyR, "s": uinput.KeyS, "t": uinput.KeyT,
	"u": uinput.KeyU, "v": uinput.KeyV, "w": uinput.KeyW, "x": uinput.KeyX,
	"y": uinput.KeyY, "z": uinput.KeyZ,

	"0": uinput.Key0, "1": uinput.Key1, "2": uinput.Key2, "3": uinput.Key3,
	"4": uinput.Key4, "5": uinput.Key5, "6": uinput.Key6, "7": uinput.Key7,
	"8": uinput.Key8, "9": uinput.Key9,

	"f1": uinput.KeyF1, "f2": uinput.KeyF2, "f3": uinput.KeyF3,
	"f4": uinput.KeyF4, "f5": uinput.KeyF5, "f6": uinput.KeyF6,
	"f7": uinput.KeyF7, "f8": uinput.KeyF8, "f9": uinput.KeyF9,
	"f10": uinput.KeyF10, "f11": uinput.KeyF11, "f12": uinput.KeyF12,
	"f13": uinput.KeyF13, "f14": uinput.KeyF14, "f15": uinput.KeyF15,
	"f16": uinput.KeyF16, "f17": uinput.KeyF17, "f18": uinput.KeyF18,
	"f19": uinput.KeyF19, "f20": uinput.KeyF20, "f21": uinput.KeyF21,
	"f22": uinput.KeyF22, "f23": uinput.KeyF23, "f24": uinput.KeyF24,

	"enter":      uinput.KeyEnter,
	"esc":        uinput.KeyEsc,
	"escape":     uinput.KeyEsc,
	"tab":        uinput.KeyTab,
	"space":      uinput.KeySpace,
	"backspace":  uinput.KeyBackspace,
	"delete":     uinput.KeyDelete,
	"insert":     uinput.KeyInsert,
	"home":       uinput.KeyHome,
	"end":        uinput.KeyEnd,
	"pageup":     uinput.KeyPageup,
	"pagedown":   uinput.KeyPagedown,
	"up":         uinput.KeyUp,
	"down":       uinput.KeyDown,
	"left":       uinput.KeyLeft,
	"right":      uinput.KeyRight,
	"minus":      uinput.KeyMinus,
	"equal":      uinput.KeyEqual,
	"comma":      uinput.KeyComma,
	"dot":        uinput.KeyDot,
	"slash":      uinput.KeySlash,
	"semicolon":  uinput.KeySemicolon,
	"apostrophe": uinput.KeyApostrophe,
	"grave":      uinput.KeyGrave,
	"backslash":  uinput.KeyBackslash,
	"leftbrace":  uinput.KeyLeftbrace,
	"rightbrace": uinput.KeyRightbrace,
	"capslock":   uinput.KeyCapslock,
	"numlock":    uinput.KeyNumlock,
	"print":      uinput.KeySysrq,
	"pause":      uinput.KeyPause,
	"menu":       uinput.KeyMenu,
}

// modifierCodes holds the tokens that may precede the final key of a combo.
var modifierCodes = map[string]int{
	"ctrl":  uinput.KeyLeftctrl,
	"shift": uinput.KeyLeftshift,
	"alt":   uinput.KeyLeftalt,
	"meta":  uinput.KeyLeftmeta,
	"super": uinput.KeyLeftmeta,
	"win":   uinput.KeyLeftmeta,
}

// runeKey is a key stroke producing one character on a US layout.
type runeKey struct {
	code  int
	shift bool
}

var runeKeys = map[rune]runeKey{
	' ':  {uinput.KeySpace, false},
	'\n': {uinput.KeyEnter, false},
	'\t': {uinput.KeyTab, false},

	'-':  {uinput.KeyMinus, false},
	'_':  {uinput.KeyMinus, true},
	'=':  {uinput.KeyEqual, false},
	'+':  {uinput.KeyEqual, true},
	'[':  {uinput.KeyLeftbrace, false},
	'{':  {uinput.KeyLeftbrace, true},
	']':  {uinput.KeyRightbrace, false},
	'}':  {uinput.KeyRightbrace, true},
	'\\': {uinput.KeyBackslash, false},
	'|':  {uinput.KeyBackslash, true},
	';':  {uinput.KeySemicolon, false},
	':':  {uinput.KeySemicolon, true},
	'\'': {uinput.KeyApostrophe, false},
	'"':  {uinput.KeyApostrophe, true},
	'`':  {uinput.KeyGrave, false},
	'~':  {uinput.KeyGrave, true},
	',':  {uinput.KeyComma, false},
	'<':  {uinput.KeyComma, true},
	'.':  {uinput.KeyDot, false},
	'>':  {uinput.KeyDot, true},
	'/':  {uinput.KeySlash, false},
	'?':  {uinput.KeySlash, true},

	'!': {uinput.Key1, true},
	'@': {uinput.Key2, true},
	'#': {uinput.Key3, true},
	'$': {uinput.Key4, true},
	'%': {uinput.Key5, true},
	'^': {uinput.Key6, true},
	'&': {uinput.Key7, true},
	'*': {uinput.Key8, true},
	'(': {uinput.Key9, true},
	')': {uinput.Key0, true},
}

func init() {
	for r := 'a'; r <= 'z'; r++ {
		code := keyCodes[string(r)]
		runeKeys[r] = runeKey{code, false}
		runeKeys[r-'a'+'A'] = runeKey{code, true}
	}
	for r := '0'; r <= '9'; r++ {
		runeKeys[r] = runeKey{keyCodes[string(r)], false}
	}
}
