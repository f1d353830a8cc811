package main

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/particles/ecs"
	"github.com/milk9111/particles/ecs/component"
	"github.com/milk9111/particles/ecs/entity"
	"github.com/milk9111/particles/ecs/system"
	"github.com/milk9111/particles/particles"
	"github.com/milk9111/particles/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	tick = 1.0 / 60

	// clickPrefab is spawned at the cursor on left click.
	clickPrefab = "firework.yaml"
)

// spawnOnly prefabs are not built at startup.
var spawnOnly = map[string]bool{
	clickPrefab:      true,
	"spark_pop.yaml": true,
}

var background = color.NRGBA{R: 0x12, G: 0x12, B: 0x18, A: 0xff}

type Options struct {
	Prefab string
	Seed   uint64
	Debug  bool
	Watch  bool
	Logger *log.Logger
}

type Game struct {
	frames int
	debug  bool
	paused bool

	world     *ecs.World
	scheduler *ecs.Scheduler
	renderer  *system.RenderSystem
	events    *system.EventLogSystem
	env       *entity.Env
	watcher   *prefabs.Watcher
	logger    *log.Logger

	prefabs  []string
	selected int

	pauseUI *PauseUI
	face    ebtext.Face
}

func NewGame(opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	names, err := prefabs.List()
	if err != nil {
		return nil, err
	}

	clock := system.NewClock()
	env := &entity.Env{
		Random: particles.NewRandom(opts.Seed),
		Logger: logger,
		Clock:  clock,
	}

	g := &Game{
		debug:    opts.Debug,
		world:    ecs.NewWorld(),
		renderer: system.NewRenderSystem(),
		events:   system.NewEventLogSystem(logger, opts.Debug),
		env:      env,
		logger:   logger,
		prefabs:  names,
		face:     ebtext.NewGoXFace(basicfont.Face7x13),
	}
	g.pauseUI = NewPauseUI(g)

	var reload ecs.System
	if opts.Watch {
		w, err := prefabs.NewWatcher("prefabs")
		if err != nil {
			logger.Printf("watch prefabs: %v", err)
		} else {
			g.watcher = w
			reload = system.NewHotReloadSystem(w, g.rebuild, logger)
		}
	}

	g.scheduler = ecs.NewScheduler(
		clock,
		system.NewFollowCursorSystem(),
		system.NewOrbitSystem(),
		reload,
		system.NewParticleEmitterSystem(),
		system.NewTimedEmitterSystem(),
		g.events,
	)

	initial := opts.Prefab
	if initial != "" {
		if _, err := entity.BuildEntity(g.world, initial, env); err != nil {
			return nil, err
		}
		g.selectPrefab(prefabs.Name(initial))
		return g, nil
	}

	for _, name := range names {
		if spawnOnly[name] {
			continue
		}
		if _, err := entity.BuildEntity(g.world, name, env); err != nil {
			logger.Printf("build %s: %v", name, err)
		}
	}
	g.selectPrefab(clickPrefab)
	return g, nil
}

// rebuild is the hot reload hook.
func (g *Game) rebuild(w *ecs.World, prefab string, at *particles.Vector) (ecs.Entity, error) {
	if at != nil {
		return entity.BuildEntityAt(w, prefab, g.env, at.X, at.Y)
	}
	return entity.BuildEntity(w, prefab, g.env)
}

func (g *Game) selectPrefab(name string) {
	for i, n := range g.prefabs {
		if n == name {
			g.selected = i
			return
		}
	}
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) Update() error {
	g.frames++

	if err := g.handleInput(); err != nil {
		return err
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.scheduler.Update(g.world, tick)
	return nil
}

func (g *Game) handleInput() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) && len(g.prefabs) > 0 {
		g.selected = (g.selected + 1) % len(g.prefabs)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.toggleEmission()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.clearParticles()
	}

	// clicks belong to the pause panel while paused
	if g.paused {
		return nil
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.spawnAtCursor(clickPrefab)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) && len(g.prefabs) > 0 {
		g.spawnAtCursor(g.prefabs[g.selected])
	}
	return nil
}

func (g *Game) spawnAtCursor(prefab string) {
	x, y := ebiten.CursorPosition()
	if _, err := entity.BuildEntityAt(g.world, prefab, g.env, float64(x), float64(y)); err != nil {
		g.logger.Printf("spawn %s: %v", prefab, err)
	}
}

func (g *Game) clearParticles() {
	ecs.ForEach(g.world, component.ParticleEmitterComponent.Kind(), func(_ ecs.Entity, em *component.ParticleEmitter) {
		em.Clear()
	})
}

// toggleEmission stops every emitter if any is running, otherwise starts
// them all without a start burst.
func (g *Game) toggleEmission() {
	running := false
	ecs.ForEach(g.world, component.ParticleEmitterComponent.Kind(), func(_ ecs.Entity, em *component.ParticleEmitter) {
		if em.System != nil && em.System.Emitting() {
			running = true
		}
	})
	ecs.ForEach(g.world, component.ParticleEmitterComponent.Kind(), func(_ ecs.Entity, em *component.ParticleEmitter) {
		if em.System == nil {
			return
		}
		if running {
			em.System.StopEmitting()
		} else {
			em.System.StartEmitting(false)
		}
	})
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.renderer.Draw(g.world, screen)
	g.drawHUD(screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}

	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    TPS: %.2f", g.frames, ebiten.ActualFPS(), ebiten.ActualTPS()), 8, baseHeight-20)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	var total particles.Stats
	alive, pooled, emitters := 0, 0, 0
	ecs.ForEach(g.world, component.ParticleEmitterComponent.Kind(), func(_ ecs.Entity, em *component.ParticleEmitter) {
		if em.System == nil {
			return
		}
		emitters++
		alive += em.System.Count()
		pooled += em.System.PoolSize()
		s := em.System.Stats()
		total.Spawned += s.Spawned
		total.Destroyed += s.Destroyed
		total.Reused += s.Reused
		total.Skipped += s.Skipped
	})

	selected := ""
	if len(g.prefabs) > 0 {
		selected = g.prefabs[g.selected]
	}

	lines := []string{
		fmt.Sprintf("emitters: %d  particles: %d  pooled: %d", emitters, alive, pooled),
		fmt.Sprintf("spawned: %d  destroyed: %d  reused: %d  skipped: %d", total.Spawned, total.Destroyed, total.Reused, total.Skipped),
		fmt.Sprintf("expired: %d  reloaded: %d", g.events.Counts[ecs.EmitterExpired], g.events.Counts[ecs.EmitterReloaded]),
		fmt.Sprintf("[tab] prefab: %s  [rmb] spawn  [lmb] firework", selected),
		"[space] start/stop  [c] clear  [p] pause  [f1] debug",
	}
	if g.paused {
		lines = append(lines, "PAUSED")
	}

	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.LineSpacing = 16
	op.ColorScale.ScaleWithColor(color.White)
	ebtext.Draw(screen, strings.Join(lines, "\n"), g.face, op)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
