package lollipop

import (
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Snapshot is the observational view of engine state broadcast over the
// debug socket (spec §9, "Open Questions" — debug tooling never feeds back
// into transformation decisions).
type Snapshot struct {
	Modifiers []ModifierSnapshot `yaml:"modifiers"`
	LedState  int32              `yaml:"led_state"`
	Dragging  bool               `yaml:"dragging"`
	Pending   bool               `yaml:"pending"`
}

// DebugSink is a best-effort Unix-domain socket broadcaster: each connected
// reader receives a YAML document per snapshot, and a reader that can't keep
// up is dropped rather than allowed to block the event loop.
type DebugSink struct {
	listener net.Listener
	conns    map[net.Conn]struct{}
	incoming chan net.Conn
	closed   chan struct{}
}

// NewDebugSink listens on a Unix-domain socket at path. The socket is
// removed first if a stale one is left over from a prior run.
func NewDebugSink(path string) (*DebugSink, error) {
	_ = os.Remove(path)
	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	s := &DebugSink{
		listener: l,
		conns:    make(map[net.Conn]struct{}),
		incoming: make(chan net.Conn, 8),
		closed:   make(chan struct{}),
	}
	go s.acceptLoop()
	return s, nil
}

func (s *DebugSink) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		select {
		case s.incoming <- conn:
		case <-s.closed:
			conn.Close()
			return
		}
	}
}

// drainIncoming folds newly-accepted connections into the live set. Called
// from the single EventLoop goroutine, so conns needs no locking.
func (s *DebugSink) drainIncoming() {
	for {
		select {
		case conn := <-s.incoming:
			s.conns[conn] = struct{}{}
		default:
			return
		}
	}
}

// Broadcast encodes snap as YAML and writes it to every connected reader,
// with a short write deadline; a reader that can't absorb a snapshot within
// that window is dropped.
func (s *DebugSink) Broadcast(snap Snapshot) error {
	s.drainIncoming()
	if len(s.conns) == 0 {
		return nil
	}
	doc, err := yaml.Marshal(snap)
	if err != nil {
		return err
	}
	doc = append(doc, []byte("---\n")...)

	for conn := range s.conns {
		conn.SetWriteDeadline(time.Now().Add(50 * time.Millisecond))
		if _, err := conn.Write(doc); err != nil {
			conn.Close()
			delete(s.conns, conn)
		}
	}
	return nil
}

// Close shuts down the listener and every connected reader.
func (s *DebugSink) Close() error {
	close(s.closed)
	err := s.listener.Close()
	for conn := range s.conns {
		conn.Close()
	}
	return err
}
