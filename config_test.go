package lollipop

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(strings.NewReader(""), "<test>")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Modifiers, cfg.Modifiers)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeout)
	assert.True(t, cfg.ClearAllWithEscape)
	assert.False(t, cfg.TouchpadEnabled)
}

func TestParseConfig_GlobalSection(t *testing.T) {
	src := `device=/dev/input/event3
modifiers=leftshift,leftctrl
timeout=750
clear_all_with_escape=no
`
	cfg, err := parseConfig(strings.NewReader(src), "<test>")
	require.NoError(t, err)
	assert.Equal(t, "/dev/input/event3", cfg.KeyboardDevice)
	assert.Equal(t, []KeyCode{KeyLeftShift, KeyLeftCtrl}, cfg.Modifiers)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.False(t, cfg.ClearAllWithEscape)
}

func TestParseConfig_TouchpadSection(t *testing.T) {
	src := `[touchpad]
enabled=yes
timeout=150
fuzz=50
`
	cfg, err := parseConfig(strings.NewReader(src), "<test>")
	require.NoError(t, err)
	assert.True(t, cfg.TouchpadEnabled)
	assert.Equal(t, 150*time.Millisecond, cfg.TouchpadDebounce)
	assert.Equal(t, 50, cfg.TouchpadFuzz)
}

func TestParseConfig_BlankLinePairReentersGlobalSection(t *testing.T) {
	src := `[touchpad]
enabled=yes


clear_all_with_escape=no
`
	cfg, err := parseConfig(strings.NewReader(src), "<test>")
	require.NoError(t, err)
	assert.True(t, cfg.TouchpadEnabled)
	assert.False(t, cfg.ClearAllWithEscape)
}

func TestParseConfig_InvalidModifier(t *testing.T) {
	_, err := parseConfig(strings.NewReader("modifiers=leftshift,nonsense\n"), "<test>")
	require.Error(t, err)
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, InvalidModifier, lerr.Kind)
}

func TestParseConfig_InvalidLineWithoutEquals(t *testing.T) {
	_, err := parseConfig(strings.NewReader("this is not a key value line\n"), "<test>")
	require.Error(t, err)
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, InvalidConfigLine, lerr.Kind)
}

func TestParseConfig_InvalidTimeout(t *testing.T) {
	_, err := parseConfig(strings.NewReader("timeout=soon\n"), "<test>")
	require.Error(t, err)
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, InvalidTimeout, lerr.Kind)
}

func TestParseBool(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"yes", true}, {"true", true}, {"TRUE", true},
		{"no", false}, {"false", false},
	} {
		got, err := parseBool(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
	_, err := parseBool("maybe")
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LOLLIPOP_DEVICE", "/dev/input/event9")
	t.Setenv("LOLLIPOP_DEBUG_SOCKET", "/tmp/lollipop.sock")

	cfg := DefaultConfig()
	ApplyEnvOverrides(cfg)

	assert.Equal(t, "/dev/input/event9", cfg.KeyboardDevice)
	assert.Equal(t, "/tmp/lollipop.sock", cfg.DebugSocket)
}

func TestResolveConfigPath_ArgvWinsOverEnv(t *testing.T) {
	t.Setenv("LOLLIPOP_CONFIG", "/etc/lollipop/env.conf")
	assert.Equal(t, "/etc/from-flag.conf", ResolveConfigPath("/etc/from-flag.conf"))
	assert.Equal(t, "/etc/lollipop/env.conf", ResolveConfigPath(""))
}
