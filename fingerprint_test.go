package lollipop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_StableForSameIdentity(t *testing.T) {
	id := DeviceID{Bus: 3, Vendor: 0x046d, Product: 0xc52b, Version: 0x0111}
	a := Fingerprint(id, "Logitech USB Receiver")
	b := Fingerprint(id, "Logitech USB Receiver")
	assert.Equal(t, a, b)
	assert.Len(t, a, 8)
}

func TestFingerprint_DiffersByName(t *testing.T) {
	id := DeviceID{Bus: 3, Vendor: 1, Product: 2, Version: 3}
	a := Fingerprint(id, "keyboard")
	b := Fingerprint(id, "keyboard (alt config)")
	assert.NotEqual(t, a, b)
}

func TestFingerprint_DiffersByIdentity(t *testing.T) {
	a := Fingerprint(DeviceID{Bus: 3, Vendor: 1, Product: 2, Version: 3}, "keyboard")
	b := Fingerprint(DeviceID{Bus: 3, Vendor: 1, Product: 2, Version: 4}, "keyboard")
	assert.NotEqual(t, a, b)
}

func TestContainsFold_CaseInsensitive(t *testing.T) {
	assert.True(t, containsFold("SynPS/2 Synaptics TouchPad", "touchpad"))
	assert.True(t, containsFold("Elan Touchpad", "TOUCHPAD"))
	assert.False(t, containsFold("AT Translated Set 2 keyboard", "touchpad"))
}
