package lollipop

import (
	"time"

	"github.com/yanzay/log"
	"golang.org/x/sys/unix"
)

// EventLoop is the single-threaded driver described in spec §4.5: it owns
// the physical keyboard handle, the optional touchpad handle, the virtual
// device, and the optional debug sink, and multiplexes all of them with a
// single poll loop rather than one goroutine per source. Grounded on the
// channel-pumped reader this repo's teacher used for its own input loop,
// adapted from goroutine+channel fan-in to unix.Poll fan-in since the
// sources here are raw file descriptors, not another goroutine's channel.
type EventLoop struct {
	transport Transport
	engine    *TransformEngine

	keyboard *Handle
	touchpad *Handle
	virtual  *Handle
	sink     *DebugSink

	keyboardFingerprint string
	touchpadFingerprint string
}

// EventLoopOptions bundles everything NewEventLoop needs beyond the config
// already folded into cfg.
type EventLoopOptions struct {
	Transport      Transport
	Config         *Config
	KeyboardPath   string
	TouchpadPath   string
	DebugSocket    string
}

// NewEventLoop implements the startup order from spec §4.5(a-g): resolve
// devices, open and grab the keyboard, optionally open the touchpad
// (non-fatal if unavailable), build the virtual device, and start the
// optional debug sink last since it is purely observational.
func NewEventLoop(opts EventLoopOptions) (*EventLoop, error) {
	t := opts.Transport
	cfg := opts.Config

	kbPath := opts.KeyboardPath
	if kbPath == "" {
		entries, err := t.Enumerate()
		if err != nil {
			return nil, &Error{Kind: NoKeyboardDevice, Cause: err}
		}
		entry, err := autodetectKeyboard(entries)
		if err != nil {
			return nil, &Error{Kind: NoKeyboardDevice, Cause: err}
		}
		kbPath = entry.Path
	}

	kb, err := t.Open(kbPath)
	if err != nil {
		return nil, &Error{Kind: OpenDeviceHandle, Path: kbPath, Cause: err}
	}
	if err := t.SetNonblocking(kb); err != nil {
		kb.Close()
		return nil, &Error{Kind: OpenDeviceHandle, Path: kbPath, Cause: err}
	}
	grabKeyboard(t, kb, kbPath)
	log.Infof("grabbed keyboard device %s (%s)", kbPath, Fingerprint(kb.ID(), kb.Name()))

	var tp *Handle
	if cfg.TouchpadEnabled {
		tpPath := opts.TouchpadPath
		if tpPath == "" {
			entries, err := t.Enumerate()
			if err == nil {
				if entry, err := autodetectTouchpad(entries); err == nil {
					tpPath = entry.Path
				}
			}
		}
		if tpPath != "" {
			h, err := t.Open(tpPath)
			if err != nil {
				log.Warningf("touchpad coupling enabled but device %q could not be opened: %v", tpPath, err)
			} else {
				if err := t.SetNonblocking(h); err != nil {
					log.Warningf("touchpad device %q could not be set non-blocking: %v", tpPath, err)
					h.Close()
				} else {
					tp = h
					log.Infof("tracking touchpad device %s (%s)", tpPath, Fingerprint(h.ID(), h.Name()))
				}
			}
		} else {
			log.Warningf("touchpad coupling enabled but no touchpad device found")
		}
	}

	virt, err := t.CreateVirtual("lollipop virtual keyboard", AllKeys)
	if err != nil {
		kb.Close()
		if tp != nil {
			tp.Close()
		}
		return nil, &Error{Kind: OpenDeviceHandle, Path: "/dev/uinput", Cause: err}
	}

	var sink *DebugSink
	if opts.DebugSocket != "" {
		sink, err = NewDebugSink(opts.DebugSocket)
		if err != nil {
			log.Warningf("debug socket %q could not be opened: %v", opts.DebugSocket, err)
			sink = nil
		}
	}

	el := &EventLoop{
		transport: t,
		engine:    NewTransformEngine(cfg),
		keyboard:  kb,
		touchpad:  tp,
		virtual:   virt,
		sink:      sink,
	}
	el.keyboardFingerprint = Fingerprint(kb.ID(), kb.Name())
	if tp != nil {
		el.touchpadFingerprint = Fingerprint(tp.ID(), tp.Name())
	}
	return el, nil
}

// grabKeyboard retries the exclusive grab indefinitely, per spec §4.5(d)/§7:
// the physical keyboard may be transiently held by another process (e.g. a
// display manager still starting up), so initial grab failure is not fatal.
func grabKeyboard(t Transport, kb *Handle, path string) {
	const backoff = 100 * time.Millisecond
	attempt := 0
	for {
		if err := t.Grab(kb); err == nil {
			return
		} else if attempt == 0 {
			log.Warningf("failed to grab keyboard device %s, retrying: %v", path, err)
		}
		attempt++
		time.Sleep(backoff)
	}
}

// Close releases every handle the loop owns, in reverse acquisition order.
func (el *EventLoop) Close() {
	if el.sink != nil {
		el.sink.Close()
	}
	if el.virtual != nil {
		el.virtual.Close()
	}
	if el.touchpad != nil {
		el.touchpad.Close()
	}
	if el.keyboard != nil {
		el.keyboard.Close()
	}
}

// Run drives the poll loop until done is closed or an unrecoverable
// transport error occurs, implementing the pseudocode from spec §4.5:
// block on whichever fds are ready or the next debounce deadline, feed
// the engine, and flush whatever it produces to the virtual device.
func (el *EventLoop) Run(done <-chan struct{}) error {
	const maxBatch = 64
	keyBuf := make([]TransportEvent, maxBatch)
	tpBuf := make([]TransportEvent, maxBatch)

	for {
		select {
		case <-done:
			return nil
		default:
		}

		fds := []unix.PollFd{{Fd: int32(el.keyboard.Fd()), Events: unix.POLLIN}}
		tpIdx := -1
		if el.touchpad != nil {
			tpIdx = len(fds)
			fds = append(fds, unix.PollFd{Fd: int32(el.touchpad.Fd()), Events: unix.POLLIN})
		}

		timeout := -1
		if el.engine.HasPendingDeferred() {
			d := time.Until(el.engine.NextDeferredDeadline())
			if d < 0 {
				d = 0
			}
			timeout = int(d.Milliseconds())
		}

		n, err := unix.Poll(fds, timeout)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return &Error{Kind: TransportIOError, Cause: err}
		}

		now := time.Now()
		var out []KeyEvent

		if n > 0 && fds[0].Revents&unix.POLLIN != 0 {
			count, err := el.transport.Events(el.keyboard, keyBuf)
			if err != nil {
				log.Warningf("keyboard read error: %v", err)
			}
			out = append(out, el.consumeKeyEvents(keyBuf[:count])...)
		}
		if tpIdx >= 0 && n > 0 && fds[tpIdx].Revents&unix.POLLIN != 0 {
			count, err := el.transport.Events(el.touchpad, tpBuf)
			if err != nil {
				log.Warningf("touchpad read error: %v", err)
			}
			el.consumeTouchpadEvents(tpBuf[:count])
		}

		out = append(out, el.engine.PollDeferred(now)...)

		if len(out) > 0 {
			if err := el.transport.Emit(el.virtual, out); err != nil {
				log.Warningf("failed to emit synthetic events: %v", err)
			}
			el.transport.SendLEDs(el.keyboard, []LedEvent{{Code: LedCapsLock, Value: el.engine.LedState()}})
		}

		if el.sink != nil {
			el.sink.Broadcast(el.engine.Snapshot())
		}
	}
}

// consumeKeyEvents drives the engine with each event's own source timestamp
// (not the wall-clock time the batch was polled at), since the latch->lock
// window and the backwards-clock edge case are both defined in terms of the
// timestamp the kernel attached to the key press itself (spec §3/§4.1).
func (el *EventLoop) consumeKeyEvents(events []TransportEvent) []KeyEvent {
	var out []KeyEvent
	for _, ev := range events {
		if ev.Kind != EventKindKey {
			continue
		}
		out = append(out, el.engine.OnKeyEvent(KeyCode(ev.Code), PressValue(ev.Value), ev.Time)...)
	}
	return out
}

func (el *EventLoop) consumeTouchpadEvents(events []TransportEvent) {
	for _, ev := range events {
		switch ev.Kind {
		case EventKindKey:
			if KeyCode(ev.Code) == BtnLeft || KeyCode(ev.Code) == BtnRight || KeyCode(ev.Code) == BtnTouch {
				el.engine.OnTouchpadButton(PressValue(ev.Value), ev.Time)
			}
		case EventKindAbs:
			el.engine.OnTouchpadMotion(AbsAxis(ev.Code), ev.Value)
		}
	}
}
