package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	prefab := flag.String("prefab", "", "prefab in prefabs/ to show (basename, .yaml optional); empty shows all")
	seed := flag.Uint64("seed", 0, "random seed; 0 seeds from the clock")
	debug := flag.Bool("debug", false, "enable debug mode")
	watch := flag.Bool("watch", false, "reload prefabs and scripts from prefabs/ when they change")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("particles")

	logger := log.New(os.Stderr, "", log.LstdFlags)
	game, err := NewGame(Options{
		Prefab: *prefab,
		Seed:   *seed,
		Debug:  *debug,
		Watch:  *watch,
		Logger: logger,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
