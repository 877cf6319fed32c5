package lollipop

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the populated record driving an engine/event-loop instance
// (spec §3). Parsing and CLI handling are external concerns; this type and
// its defaults/parser are the minimal populator spec §6 describes.
type Config struct {
	Modifiers          []KeyCode
	Timeout            time.Duration
	ClearAllWithEscape bool
	TouchpadEnabled    bool
	TouchpadDebounce   time.Duration
	TouchpadFuzz       int
	KeyboardDevice     string // empty = autodetect
	TouchpadDevice     string // empty = autodetect
	DebugSocket        string // empty = disabled
}

// DefaultConfig returns the spec §3 defaults.
func DefaultConfig() *Config {
	return &Config{
		Modifiers:          []KeyCode{KeyLeftShift, KeyLeftMeta, KeyLeftCtrl, KeyLeftAlt},
		Timeout:            500 * time.Millisecond,
		ClearAllWithEscape: true,
		TouchpadEnabled:    false,
		TouchpadDebounce:   200 * time.Millisecond,
		TouchpadFuzz:       300,
	}
}

// section tracks which half of the config grammar a line belongs to.
type section int

const (
	sectionGlobal section = iota
	sectionTouchpad
)

// ParseConfig reads the line-oriented key=value format from spec §6: a
// global section (implicit at file start, re-entered after two consecutive
// blank lines) and a `[touchpad]` section. Grounded on original_source's
// parse_config, extended for the touchpad section and boolean keys.
func ParseConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: FailedReadingConfig, Path: path, Cause: err}
	}
	defer f.Close()
	return parseConfig(f, path)
}

func parseConfig(r io.Reader, path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Modifiers = nil // explicit `modifiers=` line replaces the default list

	sec := sectionGlobal
	blankRun := 0
	sawModifiers := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			blankRun++
			if blankRun >= 2 {
				sec = sectionGlobal
			}
			continue
		}
		blankRun = 0

		if trimmed == "[touchpad]" {
			sec = sectionTouchpad
			continue
		}

		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			return nil, &Error{Kind: InvalidConfigLine, Line: line}
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		var err error
		switch sec {
		case sectionGlobal:
			err = applyGlobalKey(cfg, key, value, &sawModifiers)
		case sectionTouchpad:
			err = applyTouchpadKey(cfg, key, value)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &Error{Kind: FailedReadingConfig, Path: path, Cause: err}
	}

	if !sawModifiers {
		cfg.Modifiers = DefaultConfig().Modifiers
	}
	return cfg, nil
}

func applyGlobalKey(cfg *Config, key, value string, sawModifiers *bool) error {
	switch key {
	case "device":
		if value != "autodetect" {
			cfg.KeyboardDevice = value
		}
	case "modifiers":
		*sawModifiers = true
		for _, name := range strings.Split(value, ",") {
			name = strings.TrimSpace(name)
			code, ok := ModifierKeyCode(name)
			if !ok {
				return &Error{Kind: InvalidModifier, Name: name}
			}
			cfg.Modifiers = append(cfg.Modifiers, code)
		}
	case "timeout":
		ms, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return &Error{Kind: InvalidTimeout, Raw: value}
		}
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	case "clear_all_with_escape":
		b, err := parseBool(value)
		if err != nil {
			return &Error{Kind: InvalidConfigLine, Line: "clear_all_with_escape=" + value}
		}
		cfg.ClearAllWithEscape = b
	default:
		return &Error{Kind: InvalidConfigLine, Line: key + "=" + value}
	}
	return nil
}

func applyTouchpadKey(cfg *Config, key, value string) error {
	switch key {
	case "enabled":
		b, err := parseBool(value)
		if err != nil {
			return &Error{Kind: InvalidConfigLine, Line: "enabled=" + value}
		}
		cfg.TouchpadEnabled = b
	case "timeout":
		ms, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return &Error{Kind: InvalidTimeout, Raw: value}
		}
		cfg.TouchpadDebounce = time.Duration(ms) * time.Millisecond
	case "fuzz":
		fuzz, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return &Error{Kind: InvalidFuzz, Raw: value}
		}
		cfg.TouchpadFuzz = int(fuzz)
	default:
		return &Error{Kind: InvalidConfigLine, Line: key + "=" + value}
	}
	return nil
}

// LoadDotEnv best-effort loads a `.env` file from the working directory into
// the process environment, ahead of flag/argv parsing. A missing `.env` is
// not an error; only a present-but-unreadable one is surfaced.
func LoadDotEnv() error {
	err := godotenv.Load()
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// ResolveConfigPath applies the LOLLIPOP_CONFIG environment override on top
// of an explicit CLI argument; the CLI argument wins if both are set.
func ResolveConfigPath(argv string) string {
	if argv != "" {
		return argv
	}
	return os.Getenv("LOLLIPOP_CONFIG")
}

// ApplyEnvOverrides layers LOLLIPOP_DEVICE/LOLLIPOP_TOUCHPAD_DEVICE/
// LOLLIPOP_DEBUG_SOCKET environment variables on top of a loaded Config,
// so a systemd unit or shell profile can override individual fields without
// editing the on-disk config file.
func ApplyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("LOLLIPOP_DEVICE"); ok {
		cfg.KeyboardDevice = v
	}
	if v, ok := os.LookupEnv("LOLLIPOP_TOUCHPAD_DEVICE"); ok {
		cfg.TouchpadDevice = v
	}
	if v, ok := os.LookupEnv("LOLLIPOP_DEBUG_SOCKET"); ok {
		cfg.DebugSocket = v
	}
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "yes", "true":
		return true, nil
	case "no", "false":
		return false, nil
	default:
		return false, strconv.ErrSyntax
	}
}
