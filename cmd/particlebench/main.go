package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/milk9111/particles/particles"
	"github.com/milk9111/particles/prefabs"
)

// countingHandle is a particle that only records what happened to it.
type countingHandle struct {
	bench *bench
}

func (h *countingHandle) SetPosition(particles.Vector) {}
func (h *countingHandle) SetColor(color.Color)         {}
func (h *countingHandle) SetVisible(bool)              {}
func (h *countingHandle) SetTexture(particles.Texture) {}
func (h *countingHandle) OnSpawn()                     { h.bench.spawns++ }
func (h *countingHandle) OnUpdate(float64, float64)    { h.bench.updates++ }
func (h *countingHandle) OnDestroy()                   {}
func (h *countingHandle) Destroy()                     { h.bench.freed++ }

type bench struct {
	made    int
	spawns  int
	updates int
	freed   int
	peak    int
}

func (b *bench) Instantiate(string) (any, error) {
	b.made++
	return &countingHandle{bench: b}, nil
}

func main() {
	prefab := flag.String("prefab", "fountain", "prefab in prefabs/ to run (basename, .yaml optional)")
	ticks := flag.Int("ticks", 600, "number of simulation steps")
	dt := flag.Float64("dt", 1.0/60, "seconds per step")
	seed := flag.Uint64("seed", 1, "random seed")
	speed := flag.Float64("speed", 0, "anchor speed in units per second along x, to exercise distance emission")
	flag.Parse()

	logger := log.New(os.Stderr, "particlebench: ", 0)

	cfg, err := loadConfig(*prefab)
	if err != nil {
		logger.Fatal(err)
	}
	if cfg.VelocityMode == particles.VelocityCustom {
		logger.Printf("%s: scripted velocities are not evaluated here; particles start at rest", *prefab)
	}

	b := &bench{}
	sim := particles.New(cfg, particles.Env{
		Factory: b,
		Random:  particles.NewRandom(*seed),
		Logger:  logger,
	})

	start := time.Now()
	anchor := particles.Vector{}
	for i := 0; i < *ticks; i++ {
		anchor.X += *speed * *dt
		sim.SetPosition(anchor)
		sim.Advance(*dt)
		b.peak = max(b.peak, sim.Count())
	}
	elapsed := time.Since(start)

	stats := sim.Stats()
	alive := sim.Count()
	sim.Release()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "prefab\t%s\n", cfg.Name)
	fmt.Fprintf(tw, "ticks\t%d (%.2fs simulated)\n", *ticks, float64(*ticks)*(*dt))
	fmt.Fprintf(tw, "wall time\t%s (%s/tick)\n", elapsed, elapsed/time.Duration(max(*ticks, 1)))
	fmt.Fprintf(tw, "spawned\t%d\n", stats.Spawned)
	fmt.Fprintf(tw, "destroyed\t%d\n", stats.Destroyed)
	fmt.Fprintf(tw, "reused\t%d\n", stats.Reused)
	fmt.Fprintf(tw, "skipped\t%d\n", stats.Skipped)
	fmt.Fprintf(tw, "alive at end\t%d\n", alive)
	fmt.Fprintf(tw, "peak alive\t%d\n", b.peak)
	fmt.Fprintf(tw, "handles created\t%d\n", b.made)
	fmt.Fprintf(tw, "handle updates\t%d\n", b.updates)
	fmt.Fprintf(tw, "handles freed\t%d\n", b.freed)
	if err := tw.Flush(); err != nil {
		logger.Fatal(err)
	}
}

func loadConfig(prefab string) (particles.Config, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefab)
	if err != nil {
		return particles.Config{}, err
	}
	raw, ok := spec.Components["particle_emitter"]
	if !ok {
		return particles.Config{}, fmt.Errorf("prefab %s has no particle_emitter", prefab)
	}
	emitter, err := prefabs.DecodeComponentSpec[prefabs.ParticleEmitterComponentSpec](raw)
	if err != nil {
		return particles.Config{}, fmt.Errorf("prefab %s: %w", prefab, err)
	}
	name := spec.Name
	if name == "" {
		name = prefabs.Name(prefab)
	}
	return emitter.ToConfig(name)
}
