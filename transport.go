package lollipop

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// EventKind distinguishes the three families of events the Input Transport
// must be able to tell apart (spec §6): physical keys/buttons, absolute axis
// motion, and the synchronization marker the kernel interleaves between them.
type EventKind int

const (
	EventKindKey EventKind = iota
	EventKindAbs
	EventKindSync
)

// TransportEvent is one (code, value, timestamp) triple read from a device,
// tagged with which family it belongs to.
type TransportEvent struct {
	Kind  EventKind
	Code  uint16
	Value int32
	Time  time.Time
}

// DeviceID is a device's bus/vendor/product/version identity, as reported by
// EVIOCGID.
type DeviceID struct {
	Bus     uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// DeviceInfo is the minimum device metadata the autodetection contract (§6)
// needs.
type DeviceInfo interface {
	Name() string
	ID() DeviceID
}

// DeviceEntry pairs an enumerated device's path with its metadata.
type DeviceEntry struct {
	Path string
	Info DeviceInfo
}

// Handle is an open device: either a grabbed/ungrabbed physical input device
// or the synthetic uinput device created by CreateVirtual.
type Handle struct {
	file *os.File
	name string
	id   DeviceID
}

func (h *Handle) Name() string   { return h.name }
func (h *Handle) ID() DeviceID   { return h.id }
func (h *Handle) Fd() int        { return int(h.file.Fd()) }
func (h *Handle) Close() error   { return h.file.Close() }

// LedEvent is a single LED state update.
type LedEvent struct {
	Code  uint16
	Value int32
}

// Linux LED event codes (linux/input-event-codes.h).
const LedCapsLock uint16 = 0x01

// Linux input event types (linux/input.h).
const (
	evSyn uint16 = 0x00
	evKey uint16 = 0x01
	evAbs uint16 = 0x03
	evLed uint16 = 0x11
)

const synReport uint16 = 0

// inputEvent mirrors struct input_event from linux/input.h for the native
// word size used by this kernel's ABI (64-bit time fields on modern amd64/
// arm64 kernels using the post-y2038 struct layout): 24 bytes, no padding.
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

const sizeofInputEvent = int(unsafe.Sizeof(inputEvent{}))

// Transport is the abstract Input Transport described in spec §6. It is the
// only thing in this codebase that talks to the kernel; everything upstream
// of it (TransformEngine, ModifierTable, TouchpadTracker) is pure state
// machinery over TransportEvent/KeyEvent values.
type Transport interface {
	Enumerate() ([]DeviceEntry, error)
	Open(path string) (*Handle, error)
	SetNonblocking(h *Handle) error
	Grab(h *Handle) error
	Events(h *Handle, buf []TransportEvent) (int, error)
	CreateVirtual(name string, keys []KeyCode) (*Handle, error)
	Emit(h *Handle, events []KeyEvent) error
	SendLEDs(h *Handle, leds []LedEvent) error
}

// EvdevTransport implements Transport directly against /dev/input via evdev
// ioctls and the uinput virtual-device API. Grounded on the pure-Go evdev
// client vendored in the retrieval corpus (viamrobotics' evdev.go): same
// ioctl-grab, packed-struct-read shape, narrowed to exactly what a keyboard
// daemon needs.
type EvdevTransport struct {
	devDir string // normally /dev/input
}

// NewEvdevTransport builds a transport scanning /dev/input for enumeration.
func NewEvdevTransport() *EvdevTransport {
	return &EvdevTransport{devDir: "/dev/input"}
}

func (t *EvdevTransport) Enumerate() ([]DeviceEntry, error) {
	entries, err := os.ReadDir(t.devDir)
	if err != nil {
		return nil, err
	}
	var out []DeviceEntry
	for _, ent := range entries {
		if !strings.HasPrefix(ent.Name(), "event") {
			continue
		}
		path := t.devDir + "/" + ent.Name()
		h, err := t.Open(path)
		if err != nil {
			continue
		}
		out = append(out, DeviceEntry{Path: path, Info: h})
	}
	return out, nil
}

func (t *EvdevTransport) Open(path string) (*Handle, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	h := &Handle{file: f}
	h.name, _ = ioctlString(h.Fd(), evGetName, 256)
	var id DeviceID
	_ = ioctl(h.Fd(), evGetID, unsafe.Pointer(&id))
	h.id = id
	return h, nil
}

func (t *EvdevTransport) SetNonblocking(h *Handle) error {
	return unix.SetNonblock(h.Fd(), true)
}

func (t *EvdevTransport) Grab(h *Handle) error {
	return ioctl(h.Fd(), evGrab, unsafe.Pointer(uintptr(1)))
}

// Events reads as many whole input_event records as are currently available
// and stores the key, absolute-axis and sync ones in buf, returning how many
// were stored; records of any other type are skipped. Non-blocking: callers multiplex readiness
// via unix.Poll (see EventLoop) before calling this.
func (t *EvdevTransport) Events(h *Handle, buf []TransportEvent) (int, error) {
	raw := make([]byte, sizeofInputEvent*len(buf))
	n, err := unix.Read(h.Fd(), raw)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, nil
		}
		return 0, &Error{Kind: TransportIOError, Cause: err}
	}
	records := n / sizeofInputEvent
	count := 0
	for i := 0; i < records; i++ {
		ev := (*inputEvent)(unsafe.Pointer(&raw[i*sizeofInputEvent]))
		kind := EventKindKey
		switch ev.Type {
		case evKey:
			kind = EventKindKey
		case evAbs:
			kind = EventKindAbs
		case evSyn:
			kind = EventKindSync
		default:
			continue
		}
		buf[count] = TransportEvent{
			Kind:  kind,
			Code:  ev.Code,
			Value: ev.Value,
			Time:  time.Unix(ev.Sec, ev.Usec*1000),
		}
		count++
	}
	return count, nil
}

// CreateVirtual brings up a uinput virtual device exporting every code in
// keys, per spec §6/§4.5(e).
func (t *EvdevTransport) CreateVirtual(name string, keys []KeyCode) (*Handle, error) {
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY|os.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}
	fd := int(f.Fd())

	if err := ioctl(fd, uiSetEvbit, unsafe.Pointer(uintptr(evKey))); err != nil {
		f.Close()
		return nil, err
	}
	for _, k := range keys {
		if err := ioctl(fd, uiSetKeybit, unsafe.Pointer(uintptr(k))); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := ioctl(fd, uiSetEvbit, unsafe.Pointer(uintptr(evLed))); err != nil {
		f.Close()
		return nil, err
	}
	if err := ioctl(fd, uiSetLedbit, unsafe.Pointer(uintptr(LedCapsLock))); err != nil {
		f.Close()
		return nil, err
	}

	var setup uinputSetup
	copy(setup.Name[:], name)
	setup.ID.BusType = 0x03 // BUS_USB
	setup.ID.Vendor = 0x1234
	setup.ID.Product = 0x5678
	if err := ioctl(fd, uiDevSetup, unsafe.Pointer(&setup)); err != nil {
		f.Close()
		return nil, err
	}
	if err := ioctl(fd, uiDevCreate, nil); err != nil {
		f.Close()
		return nil, err
	}

	return &Handle{file: f, name: name}, nil
}

func (t *EvdevTransport) Emit(h *Handle, events []KeyEvent) error {
	if len(events) == 0 {
		return nil
	}
	raw := make([]byte, 0, sizeofInputEvent*(len(events)+1))
	now := time.Now()
	for _, e := range events {
		raw = append(raw, encodeInputEvent(evKey, uint16(e.Code), int32(e.Pressed), now)...)
	}
	raw = append(raw, encodeInputEvent(evSyn, synReport, 0, now)...)
	_, err := unix.Write(h.Fd(), raw)
	if err != nil {
		return &Error{Kind: TransportIOError, Cause: err}
	}
	return nil
}

func (t *EvdevTransport) SendLEDs(h *Handle, leds []LedEvent) error {
	now := time.Now()
	raw := make([]byte, 0, sizeofInputEvent*(len(leds)+1))
	for _, l := range leds {
		raw = append(raw, encodeInputEvent(evLed, l.Code, l.Value, now)...)
	}
	raw = append(raw, encodeInputEvent(evSyn, synReport, 0, now)...)
	_, err := unix.Write(h.Fd(), raw)
	if err != nil {
		return &Error{Kind: TransportIOError, Cause: err}
	}
	return nil
}

func encodeInputEvent(typ, code uint16, value int32, t time.Time) []byte {
	ev := inputEvent{
		Sec:   t.Unix(),
		Usec:  int64(t.Nanosecond() / 1000),
		Type:  typ,
		Code:  code,
		Value: value,
	}
	buf := make([]byte, sizeofInputEvent)
	copy(buf, (*(*[1 << 16]byte)(unsafe.Pointer(&ev)))[:sizeofInputEvent])
	return buf
}

// --- ioctl plumbing -------------------------------------------------------
//
// golang.org/x/sys/unix exposes the generic ioctl syscall but not the
// evdev/uinput request codes themselves (those live in Linux's
// input.h/uinput.h, outside the generic POSIX surface x/sys targets); like
// the vendored evdev client this is grounded on, the magic numbers are
// computed locally with the same _IOC macros the kernel headers use.

const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2

	iocNrShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
)

func ioc(dir, typ, nr uint32, size uintptr) uint32 {
	return dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNrShift | uint32(size)<<iocSizeShift
}

func iow(typ, nr byte, size uintptr) uint32 { return ioc(iocWrite, uint32(typ), uint32(nr), size) }
func ior(typ, nr byte, size uintptr) uint32 { return ioc(iocRead, uint32(typ), uint32(nr), size) }

var (
	evGrab     = iow('E', 0x90, unsafe.Sizeof(int32(0)))
	evGetID    = ior('E', 0x02, unsafe.Sizeof(DeviceID{}))
	evGetName  = ior('E', 0x06, 256)
	uiSetEvbit = iow('U', 100, unsafe.Sizeof(int32(0)))
	uiSetKeybit = iow('U', 101, unsafe.Sizeof(int32(0)))
	uiSetLedbit = iow('U', 103, unsafe.Sizeof(int32(0)))
	uiDevSetup  = iow('U', 3, unsafe.Sizeof(uinputSetup{}))
	uiDevCreate = ioc(iocNone, 'U', 1, 0)
)

type uinputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputSetup struct {
	ID           uinputID
	Name         [80]byte
	FFEffectsMax uint32
}

func ioctl(fd int, req uint32, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func ioctlString(fd int, req uint32, max int) (string, error) {
	buf := make([]byte, max)
	if err := ioctl(fd, req, unsafe.Pointer(&buf[0])); err != nil {
		return "", err
	}
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n]), nil
}

// autodetectKeyboard returns the first enumerated device whose name contains
// "keyboard" (case-sensitive, per spec §6).
func autodetectKeyboard(entries []DeviceEntry) (DeviceEntry, error) {
	for _, e := range entries {
		if strings.Contains(e.Info.Name(), "keyboard") {
			return e, nil
		}
	}
	return DeviceEntry{}, errNoSuchDevice
}

// autodetectTouchpad returns the first enumerated device whose name
// contains "touchpad", case-insensitively via Unicode case folding.
func autodetectTouchpad(entries []DeviceEntry) (DeviceEntry, error) {
	for _, e := range entries {
		if containsFold(e.Info.Name(), "touchpad") {
			return e, nil
		}
	}
	return DeviceEntry{}, errNoSuchDevice
}

var errNoSuchDevice = fmt.Errorf("lollipop: no matching device")
