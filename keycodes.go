package lollipop

import "fmt"

// KeyCode is a stable integer identifier for a physical key, as assigned by the
// Linux kernel's input event code space (linux/input-event-codes.h). The core
// treats it as opaque: it never interprets a code's value except to compare it
// for equality against configured modifiers and ESC.
type KeyCode uint16

// PressValue is the value field of a key event: 0 = release, 1 = press,
// 2 = autorepeat. Only press (1) drives modifier-state transitions; the other
// two values are passed through faithfully by TransformEngine for ordinary
// keys, while a configured modifier's event is replaced by its latch state.
type PressValue int32

const (
	Release   PressValue = 0
	Press     PressValue = 1
	Autorepeat PressValue = 2
)

// Subset of linux/input-event-codes.h this daemon knows how to name, advertise
// on the virtual device, and accept as configured modifiers.
const (
	KeyEsc        KeyCode = 1
	Key1          KeyCode = 2
	Key2          KeyCode = 3
	Key3          KeyCode = 4
	Key4          KeyCode = 5
	Key5          KeyCode = 6
	Key6          KeyCode = 7
	Key7          KeyCode = 8
	Key8          KeyCode = 9
	Key9          KeyCode = 10
	Key0          KeyCode = 11
	KeyMinus      KeyCode = 12
	KeyEqual      KeyCode = 13
	KeyBackspace  KeyCode = 14
	KeyTab        KeyCode = 15
	KeyQ          KeyCode = 16
	KeyW          KeyCode = 17
	KeyE          KeyCode = 18
	KeyR          KeyCode = 19
	KeyT          KeyCode = 20
	KeyY          KeyCode = 21
	KeyU          KeyCode = 22
	KeyI          KeyCode = 23
	KeyO          KeyCode = 24
	KeyP          KeyCode = 25
	KeyLeftBrace  KeyCode = 26
	KeyRightBrace KeyCode = 27
	KeyEnter      KeyCode = 28
	KeyLeftCtrl   KeyCode = 29
	KeyA          KeyCode = 30
	KeyS          KeyCode = 31
	KeyD          KeyCode = 32
	KeyF          KeyCode = 33
	KeyG          KeyCode = 34
	KeyH          KeyCode = 35
	KeyJ          KeyCode = 36
	KeyK          KeyCode = 37
	KeyL          KeyCode = 38
	KeySemicolon  KeyCode = 39
	KeyApostrophe KeyCode = 40
	KeyGrave      KeyCode = 41
	KeyLeftShift  KeyCode = 42
	KeyBackslash  KeyCode = 43
	KeyZ          KeyCode = 44
	KeyX          KeyCode = 45
	KeyC          KeyCode = 46
	KeyV          KeyCode = 47
	KeyB          KeyCode = 48
	KeyN          KeyCode = 49
	KeyM          KeyCode = 50
	KeyComma      KeyCode = 51
	KeyDot        KeyCode = 52
	KeySlash      KeyCode = 53
	KeyRightShift KeyCode = 54
	KeyKPAsterisk KeyCode = 55
	KeyLeftAlt    KeyCode = 56
	KeySpace      KeyCode = 57
	KeyCapsLock   KeyCode = 58
	KeyF1         KeyCode = 59
	KeyF2         KeyCode = 60
	KeyF3         KeyCode = 61
	KeyF4         KeyCode = 62
	KeyF5         KeyCode = 63
	KeyF6         KeyCode = 64
	KeyF7         KeyCode = 65
	KeyF8         KeyCode = 66
	KeyF9         KeyCode = 67
	KeyF10        KeyCode = 68
	KeyNumLock    KeyCode = 69
	KeyScrollLock KeyCode = 70
	KeyKP7        KeyCode = 71
	KeyKP8        KeyCode = 72
	KeyKP9        KeyCode = 73
	KeyKPMinus    KeyCode = 74
	KeyKP4        KeyCode = 75
	KeyKP5        KeyCode = 76
	KeyKP6        KeyCode = 77
	KeyKPPlus     KeyCode = 78
	KeyKP1        KeyCode = 79
	KeyKP2        KeyCode = 80
	KeyKP3        KeyCode = 81
	KeyKP0        KeyCode = 82
	KeyKPDot      KeyCode = 83
	KeyF11        KeyCode = 87
	KeyF12        KeyCode = 88
	KeyRightCtrl  KeyCode = 97
	KeyKPSlash    KeyCode = 98
	KeyRightAlt   KeyCode = 100
	KeyHome       KeyCode = 102
	KeyUp         KeyCode = 103
	KeyPageUp     KeyCode = 104
	KeyLeft       KeyCode = 105
	KeyRight      KeyCode = 106
	KeyEnd        KeyCode = 107
	KeyDown       KeyCode = 108
	KeyPageDown   KeyCode = 109
	KeyInsert     KeyCode = 110
	KeyDelete     KeyCode = 111
	KeyLeftMeta   KeyCode = 125
	KeyRightMeta  KeyCode = 126
	KeyCompose    KeyCode = 127
	KeyFn         KeyCode = 0x1d0
)

// AllKeys is the universe of key codes advertised on the virtual device, so it
// can relay any event the physical keyboard produces. Mirrors the "know about
// every practical key" breadth of the original source's key_codes table, rather
// than a hand-picked minimal set.
var AllKeys = []KeyCode{
	KeyEsc, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9, Key0,
	KeyMinus, KeyEqual, KeyBackspace, KeyTab,
	KeyQ, KeyW, KeyE, KeyR, KeyT, KeyY, KeyU, KeyI, KeyO, KeyP,
	KeyLeftBrace, KeyRightBrace, KeyEnter, KeyLeftCtrl,
	KeyA, KeyS, KeyD, KeyF, KeyG, KeyH, KeyJ, KeyK, KeyL,
	KeySemicolon, KeyApostrophe, KeyGrave, KeyLeftShift, KeyBackslash,
	KeyZ, KeyX, KeyC, KeyV, KeyB, KeyN, KeyM, KeyComma, KeyDot, KeySlash,
	KeyRightShift, KeyKPAsterisk, KeyLeftAlt, KeySpace, KeyCapsLock,
	KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6, KeyF7, KeyF8, KeyF9, KeyF10,
	KeyNumLock, KeyScrollLock,
	KeyKP7, KeyKP8, KeyKP9, KeyKPMinus, KeyKP4, KeyKP5, KeyKP6, KeyKPPlus,
	KeyKP1, KeyKP2, KeyKP3, KeyKP0, KeyKPDot,
	KeyF11, KeyF12, KeyRightCtrl, KeyKPSlash, KeyRightAlt,
	KeyHome, KeyUp, KeyPageUp, KeyLeft, KeyRight, KeyEnd, KeyDown, KeyPageDown,
	KeyInsert, KeyDelete, KeyLeftMeta, KeyRightMeta, KeyCompose, KeyFn,
}

// Touchpad/mouse-family codes used by TouchpadTracker (§6 Input Transport
// distinguishes key/abs/button events by kind; these are the button codes).
const (
	BtnLeft  KeyCode = 0x110
	BtnRight KeyCode = 0x111
	BtnTouch KeyCode = 0x14a
)

// Absolute axis identifiers used by TouchpadTracker's motion classification.
type AbsAxis uint16

const (
	AbsX AbsAxis = 0
	AbsY AbsAxis = 1
)

// modifierNames maps the recognized config modifier names (spec §6) to codes.
var modifierNames = map[string]KeyCode{
	"leftshift":  KeyLeftShift,
	"rightshift": KeyRightShift,
	"leftctrl":   KeyLeftCtrl,
	"rightctrl":  KeyRightCtrl,
	"leftalt":    KeyLeftAlt,
	"rightalt":   KeyRightAlt,
	"compose":    KeyCompose,
	"leftmeta":   KeyLeftMeta,
	"fn":         KeyFn,
	"capslock":   KeyCapsLock,
	"rightmeta":  KeyRightMeta,
}

// ModifierKeyCode resolves a configured modifier name to its KeyCode.
func ModifierKeyCode(name string) (KeyCode, bool) {
	k, ok := modifierNames[name]
	return k, ok
}

var keyCodeNames map[KeyCode]string

func init() {
	keyCodeNames = make(map[KeyCode]string, len(modifierNames))
	for name, code := range modifierNames {
		keyCodeNames[code] = name
	}
}

// String renders a KeyCode as its config name when it is a recognized
// modifier, or its raw numeric value otherwise. Used only for
// human-readable logging and the monitor/sim tools; never consulted by
// transformation logic.
func (k KeyCode) String() string {
	if name, ok := keyCodeNames[k]; ok {
		return name
	}
	return fmt.Sprintf("0x%03x", uint16(k))
}
