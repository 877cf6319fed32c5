package lollipop

import (
	"bufio"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDebugSink_BroadcastsSnapshotToConnectedReader(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "lollipop.sock")

	sink, err := NewDebugSink(socket)
	require.NoError(t, err)
	defer sink.Close()

	conn, err := net.Dial("unix", socket)
	require.NoError(t, err)
	defer conn.Close()

	// give the accept loop a moment to fold the new connection in
	time.Sleep(20 * time.Millisecond)

	snap := Snapshot{
		Modifiers: []ModifierSnapshot{{Code: KeyLeftShift, State: "Latched"}},
		LedState:  1,
	}
	require.NoError(t, sink.Broadcast(snap))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	dec := yaml.NewDecoder(bufio.NewReader(conn))
	var got Snapshot
	require.NoError(t, dec.Decode(&got))
	require.Equal(t, snap.Modifiers, got.Modifiers)
	require.Equal(t, snap.LedState, got.LedState)
}

func TestDebugSink_BroadcastWithNoReadersIsANoOp(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "lollipop.sock")
	sink, err := NewDebugSink(socket)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Broadcast(Snapshot{}))
}
