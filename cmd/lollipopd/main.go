// Command lollipopd is the production daemon: it loads configuration, grabs
// the keyboard, optionally opens a touchpad (without grabbing it), brings up
// the virtual device, and
// relays transformed events until signaled to stop.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanzay/log"

	"github.com/kbdlatch/lollipop"
)

func main() {
	configPath := flag.String("config", "", "path to config file (overrides LOLLIPOP_CONFIG)")

	if err := lollipop.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	flag.Parse()

	resolved := lollipop.ResolveConfigPath(*configPath)
	var cfg *lollipop.Config
	if resolved == "" {
		cfg = lollipop.DefaultConfig()
	} else {
		var err error
		cfg, err = lollipop.ParseConfig(resolved)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}
	lollipop.ApplyEnvOverrides(cfg)

	loop, err := lollipop.NewEventLoop(lollipop.EventLoopOptions{
		Transport:    lollipop.NewEvdevTransport(),
		Config:       cfg,
		KeyboardPath: cfg.KeyboardDevice,
		TouchpadPath: cfg.TouchpadDevice,
		DebugSocket:  cfg.DebugSocket,
	})
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer loop.Close()

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sig
		log.Infof("received %v, shutting down", s)
		close(done)
	}()

	log.Infof("lollipopd running")
	if err := loop.Run(done); err != nil {
		log.Fatalf("event loop exited: %v", err)
	}
}
