package lollipop

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/cases"
)

// Fingerprint computes a short, stable identifier for a device from its
// kernel bus/vendor/product/version identity and name, so log lines can
// correlate the same physical device across daemon restarts even when its
// kernel device path changes. Not security-sensitive; blake2b-256 is
// used purely for its speed and good avalanche behavior, truncated to the
// first 4 bytes (8 hex characters).
func Fingerprint(id DeviceID, name string) string {
	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[0:2], id.Bus)
	binary.LittleEndian.PutUint16(buf[2:4], id.Vendor)
	binary.LittleEndian.PutUint16(buf[4:6], id.Product)
	binary.LittleEndian.PutUint16(buf[6:8], id.Version)

	h, _ := blake2b.New256(nil)
	h.Write(buf[:])
	h.Write([]byte(name))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:4])
}

var foldCaser = cases.Fold()

// containsFold reports whether name contains substr, using Unicode case
// folding (not byte-wise strings.ToLower) for locale-independent matching.
// Used for the touchpad autodetect substring match (spec §6), which the
// spec defines as case-insensitive; the keyboard match is case-sensitive
// and uses strings.Contains directly.
func containsFold(name, substr string) bool {
	return strings.Contains(foldCaser.String(name), foldCaser.String(substr))
}
