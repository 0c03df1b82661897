package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
)

var doDebug bool

func main() {
	seed := flag.Int64("seed", 1, "seed for the synthetic match")
	turns := flag.Int("turns", 2000, "length of the synthetic match in turns")
	flag.BoolVar(&doDebug, "debug", false, "verbose/debug logging")
	flag.Parse()

	loadSettings()
	setupLogging(doDebug)
	applySettings()

	if !settingsLoaded {
		logDebug("no settings file, using defaults")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logError("panic: %v", r)
			panic(r)
		}
	}()

	ebiten.SetWindowSize(gs.WindowWidth, gs.WindowHeight)

	eng := newSimEngine(*seed, *turns)
	startMatch(eng)

	if err := runGame(ctx); err != nil {
		logError("run: %v", err)
		os.Exit(1)
	}
	saveSettings()
}
