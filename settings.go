package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

const SETTINGS_VERSION = 1

const settingsFile = "settings.json"

type settings struct {
	Version int

	WindowWidth  int
	WindowHeight int

	// Playback rates in turns per second. RewindSpeed is a magnitude.
	DefaultSpeed float64
	FastSpeed    float64
	RewindSpeed  float64

	// DriftStallTurns and RewindStopTurn are both 10 in the classic
	// client. They guard different boundaries (engine starvation vs the
	// start of the match), so they stay independently tunable.
	DriftStallTurns float64
	RewindStopTurn  int

	ComputeBudgetMs int

	MotionSmoothing bool
	ShowFPS         bool
	Vsync           bool

	SkipSeconds float64
}

var gsdef = settings{
	Version: SETTINGS_VERSION,

	WindowWidth:  1280,
	WindowHeight: 800,

	DefaultSpeed: 10,
	FastSpeed:    300,
	RewindSpeed:  100,

	DriftStallTurns: 10,
	RewindStopTurn:  10,

	ComputeBudgetMs: 5,

	MotionSmoothing: true,
	ShowFPS:         true,
	Vsync:           true,

	SkipSeconds: 5,
}

var gs settings = gsdef

// settingsLoaded reports whether settings were successfully read from disk.
var settingsLoaded bool

func loadSettings() bool {
	path := filepath.Join(dataDirPath, settingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		gs = gsdef
		settingsLoaded = false
		return false
	}

	tmp := gsdef
	if err := json.Unmarshal(data, &tmp); err != nil {
		gs = gsdef
		settingsLoaded = false
		return false
	}
	if tmp.Version != SETTINGS_VERSION {
		logWarn("settings version %d != %d, using defaults", tmp.Version, SETTINGS_VERSION)
		gs = gsdef
		settingsLoaded = false
		return false
	}
	gs = tmp
	clampSettings()
	settingsLoaded = true
	return true
}

// clampSettings pulls out-of-range values back to the defaults rather than
// letting a hand-edited file wedge the loop.
func clampSettings() {
	if gs.DefaultSpeed <= 0 {
		gs.DefaultSpeed = gsdef.DefaultSpeed
	}
	if gs.FastSpeed <= gs.DefaultSpeed {
		gs.FastSpeed = gsdef.FastSpeed
	}
	if gs.RewindSpeed <= 0 {
		gs.RewindSpeed = gsdef.RewindSpeed
	}
	if gs.DriftStallTurns < 1 {
		gs.DriftStallTurns = gsdef.DriftStallTurns
	}
	if gs.RewindStopTurn < 0 {
		gs.RewindStopTurn = gsdef.RewindStopTurn
	}
	if gs.ComputeBudgetMs < 1 || gs.ComputeBudgetMs > 100 {
		gs.ComputeBudgetMs = gsdef.ComputeBudgetMs
	}
	if gs.SkipSeconds <= 0 {
		gs.SkipSeconds = gsdef.SkipSeconds
	}
	if gs.WindowWidth < 512 {
		gs.WindowWidth = gsdef.WindowWidth
	}
	if gs.WindowHeight < 384 {
		gs.WindowHeight = gsdef.WindowHeight
	}
}

func applySettings() {
	ebiten.SetVsyncEnabled(gs.Vsync)
}

func saveSettings() {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		logError("save settings: %v", err)
		return
	}
	path := filepath.Join(dataDirPath, settingsFile)
	if err := os.WriteFile(path+".tmp", data, 0644); err != nil {
		logError("save settings: %v", err)
		return
	}
	os.Rename(path+".tmp", path)
}
