package entity

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/particles/ecs"
	"github.com/milk9111/particles/ecs/component"
	"github.com/milk9111/particles/ecs/render"
	"github.com/milk9111/particles/ecs/system"
	"github.com/milk9111/particles/particles"
	"github.com/milk9111/particles/prefabs"
)

// Env holds what emitter components need beyond their YAML.
type Env struct {
	Random particles.Random
	Logger *log.Logger
	// Clock feeds the time seen by velocity scripts.
	Clock *system.Clock
	// LoadImage resolves texture names; nil uses render.LoadImage.
	LoadImage func(string) (*ebiten.Image, error)
}

type buildContext struct {
	PrefabPath string
	Name       string
	Env        *Env
	// At overrides the prefab transform position when set.
	At *particles.Vector
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"transform":        addTransform,
	"render_layer":     addRenderLayer,
	"follow_cursor":    addFollowCursor,
	"orbit":            addOrbit,
	"timed_emitter":    addTimedEmitter,
	"particle_emitter": addParticleEmitter,
}

// particle_emitter goes last so the transform and movers exist when the
// anchor is placed.
var componentBuildOrder = []string{
	"transform",
	"render_layer",
	"follow_cursor",
	"orbit",
	"timed_emitter",
	"particle_emitter",
}

func BuildEntity(w *ecs.World, prefabPath string, env *Env) (ecs.Entity, error) {
	return buildEntity(w, prefabPath, env, nil)
}

// BuildEntityAt builds the prefab with its transform placed at (x, y), before
// any start burst fires.
func BuildEntityAt(w *ecs.World, prefabPath string, env *Env, x, y float64) (ecs.Entity, error) {
	return buildEntity(w, prefabPath, env, &particles.Vector{X: x, Y: y})
}

func buildEntity(w *ecs.World, prefabPath string, env *Env, at *particles.Vector) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if env == nil {
		env = &Env{}
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	name := spec.Name
	if name == "" {
		name = prefabs.Name(prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Name: name, Env: env, At: at}
	if _, ok := spec.Components["transform"]; !ok && at != nil {
		spec.Components["transform"] = map[string]any{}
	}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			destroyPartial(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		destroyPartial(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, names[0])
	}

	return e, nil
}

// destroyPartial drops a half-built entity, releasing any simulator it got.
func destroyPartial(w *ecs.World, e ecs.Entity) {
	if em, ok := ecs.Get(w, e, component.ParticleEmitterComponent.Kind()); ok {
		em.Release()
	}
	ecs.DestroyEntity(w, e)
}

// SetEntityTransform moves e, creating its Transform if needed. A placed
// emitter is re-warped so the move does not count as travelled distance.
func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), t); err != nil {
		return err
	}
	if em, ok := ecs.Get(w, e, component.ParticleEmitterComponent.Kind()); ok && em != nil && em.System != nil {
		em.System.Warp(particles.Vector{X: x, Y: y})
		em.Placed = true
	}
	return nil
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if ctx.At != nil {
		spec.X, spec.Y = ctx.At.X, ctx.At.Y
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RenderLayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render_layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

func addFollowCursor(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.FollowCursorComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode follow_cursor spec: %w", err)
	}
	return ecs.Add(w, e, component.FollowCursorComponent.Kind(), &component.FollowCursor{
		OffsetX: spec.OffsetX,
		OffsetY: spec.OffsetY,
	})
}

func addOrbit(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.OrbitComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode orbit spec: %w", err)
	}
	if spec.Radius < 0 {
		return fmt.Errorf("orbit radius must not be negative, got %v", spec.Radius)
	}
	if err := ecs.Add(w, e, component.OrbitComponent.Kind(), &component.Orbit{
		CenterX: spec.CenterX,
		CenterY: spec.CenterY,
		Radius:  spec.Radius,
		Speed:   spec.Speed,
		Angle:   spec.Angle,
	}); err != nil {
		return err
	}
	// start on the circle so the first orbit step is not a long jump
	return SetEntityTransform(w, e,
		spec.CenterX+math.Cos(spec.Angle)*spec.Radius,
		spec.CenterY+math.Sin(spec.Angle)*spec.Radius)
}

func addTimedEmitter(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TimedEmitterComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode timed_emitter spec: %w", err)
	}
	if spec.EmitDuration < 0 || spec.DestroyAfter < 0 {
		return fmt.Errorf("timed_emitter durations must not be negative")
	}
	return ecs.Add(w, e, component.TimedEmitterComponent.Kind(), &component.TimedEmitter{
		EmitDuration: spec.EmitDuration,
		DestroyAfter: spec.DestroyAfter,
	})
}

func addParticleEmitter(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ParticleEmitterComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode particle_emitter spec: %w", err)
	}
	cfg, err := spec.ToConfig(ctx.Name)
	if err != nil {
		return err
	}

	env := ctx.Env
	rng := env.Random
	if rng == nil {
		rng = particles.NewRandom(uint64(e))
	}
	logger := env.Logger
	if logger == nil {
		logger = log.Default()
	}

	sprites := render.NewSpriteSetWithLoader(spec.SpriteScale, spec.Shrink, env.LoadImage)
	if spec.Offspring != "" {
		sprites.Offspring = offspringHook(w, spec.Offspring, ctx, logger)
	}

	if spec.FallbackTexture != "" {
		load := env.LoadImage
		if load == nil {
			load = render.LoadImage
		}
		img, err := load(spec.FallbackTexture)
		if err != nil {
			return fmt.Errorf("fallback texture %q: %w", spec.FallbackTexture, err)
		}
		cfg.FallbackTexture = img
	}

	if spec.VelocityScript != "" {
		fn, err := system.CompileVelocityScript(spec.VelocityScript, rng, env.Clock, logger)
		if err != nil {
			return err
		}
		cfg.CustomVelocity = fn
	} else if cfg.VelocityMode == particles.VelocityCustom {
		logger.Printf("build entity: %q: custom velocity mode without velocity_script", ctx.PrefabPath)
	}

	// start only after the anchor sits on the transform, so a start burst
	// spawns in the right place
	runOnStart := cfg.RunOnStart
	cfg.RunOnStart = false
	sim := particles.New(cfg, particles.Env{Factory: sprites, Random: rng, Logger: logger})

	em := &component.ParticleEmitter{
		Prefab:  ctx.PrefabPath,
		Script:  spec.VelocityScript,
		System:  sim,
		Sprites: sprites,
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok && t != nil {
		sim.Warp(particles.Vector{X: t.X, Y: t.Y})
		em.Placed = true
	}
	if runOnStart {
		sim.StartEmitting(cfg.BurstOnStart)
	}

	return ecs.Add(w, e, component.ParticleEmitterComponent.Kind(), em)
}

// offspringHook builds the offspring prefab wherever a particle expires. A
// prefab that does not load, or names the emitter itself, is reported and
// spawns nothing.
func offspringHook(w *ecs.World, offspring string, ctx *buildContext, logger *log.Logger) func(x, y float64) {
	if prefabs.Name(offspring) == prefabs.Name(ctx.PrefabPath) {
		logger.Printf("build entity: %q: [error] offspring %q is the emitter itself", ctx.PrefabPath, offspring)
		return nil
	}
	if _, err := prefabs.LoadEntityBuildSpec(offspring); err != nil {
		logger.Printf("build entity: %q: [error] invalid offspring prefab %q: %v", ctx.PrefabPath, offspring, err)
		return nil
	}

	env := ctx.Env
	reported := false
	return func(x, y float64) {
		_, err := buildEntity(w, offspring, env, &particles.Vector{X: x, Y: y})
		if err != nil && !reported {
			reported = true
			logger.Printf("build entity: %q: offspring %q: %v", ctx.PrefabPath, offspring, err)
		}
	}
}
