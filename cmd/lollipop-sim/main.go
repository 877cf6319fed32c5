// Command lollipop-sim is a hardware-free harness for exercising
// TransformEngine from a terminal: numbers 1-4 stand in for the four
// default modifier keys, space stands in for an ordinary keypress, esc
// clears all latches, and q quits. Useful for walking through the spec's
// example scenarios without real input devices or root.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/kbdlatch/lollipop"
)

// simKeys maps the harness's single-byte controls to the default modifier
// set plus one ordinary key, so a scenario from the spec can be typed
// directly at the terminal.
var simKeys = map[byte]lollipop.KeyCode{
	'1': lollipop.KeyLeftShift,
	'2': lollipop.KeyLeftMeta,
	'3': lollipop.KeyLeftCtrl,
	'4': lollipop.KeyLeftAlt,
	' ': lollipop.KeyA,
}

func main() {
	cfg := lollipop.DefaultConfig()
	engine := lollipop.NewTransformEngine(cfg)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lollipop-sim: failed to enter raw mode: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(fd, oldState)

	fmt.Print("\r\nlollipop-sim: 1-4 = modifiers, space = key, esc = clear-all, q = quit\r\n\r\n")
	printGrid(cfg)

	reader := make(chan byte)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				close(reader)
				return
			}
			reader <- buf[0]
		}
	}()

	for b := range reader {
		if b == 'q' {
			break
		}
		if b == 0x1b {
			events := engine.OnKeyEvent(lollipop.KeyEsc, lollipop.Press, time.Now())
			report(events)
			continue
		}
		code, ok := simKeys[b]
		if !ok {
			continue
		}
		events := engine.OnKeyEvent(code, lollipop.Press, time.Now())
		report(events)
	}

	fmt.Print("\r\nbye\r\n")
}

func printGrid(cfg *lollipop.Config) {
	header := "modifier"
	fmt.Printf("\r%s%s state\r\n", header, pad(header, 14))
	fmt.Print("\r------------------------\r\n")
	for _, k := range cfg.Modifiers {
		name := fmt.Sprintf("%v", k)
		fmt.Printf("\r%s%s none\r\n", name, pad(name, 14))
	}
}

// pad right-pads s with spaces to width columns, measuring display width
// with go-runewidth rather than byte length so the grid still lines up if a
// modifier name ever contains a wide or combining rune.
func pad(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return " "
	}
	out := make([]byte, width-w)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}

func report(events []lollipop.KeyEvent) {
	if len(events) == 0 {
		return
	}
	fmt.Print("\r\n  -> ")
	for i, e := range events {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Printf("%v:%v", e.Code, e.Pressed)
	}
	fmt.Print("\r\n")
}
