package system

import (
	"bytes"
	"errors"
	"image/color"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/milk9111/particles/ecs"
	"github.com/milk9111/particles/ecs/component"
	"github.com/milk9111/particles/ecs/render"
	"github.com/milk9111/particles/particles"
	"github.com/milk9111/particles/prefabs"
)

type stubHandle struct {
	pos       particles.Vector
	visible   bool
	destroyed bool
}

func (h *stubHandle) SetPosition(v particles.Vector) { h.pos = v }
func (h *stubHandle) SetColor(color.Color)           {}
func (h *stubHandle) SetVisible(v bool)              { h.visible = v }
func (h *stubHandle) SetTexture(particles.Texture)   {}
func (h *stubHandle) OnSpawn()                       {}
func (h *stubHandle) OnUpdate(float64, float64)      {}
func (h *stubHandle) OnDestroy()                     {}
func (h *stubHandle) Destroy()                       { h.destroyed = true }

type stubRandom struct{ f float64 }

func (r stubRandom) Float01() float64                                { return r.f }
func (r stubRandom) InsideCircle(float64) particles.Vector           { return particles.Vector{} }
func (r stubRandom) InsideExtents(particles.Vector) particles.Vector { return particles.Vector{} }
func (r stubRandom) Unit() particles.Vector                          { return particles.Vector{X: 1} }

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func quietLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

// newEmitterEntity creates an entity with a transform and a simulator that
// emits one particle per unit travelled.
func newEmitterEntity(w *ecs.World, x, y float64) (ecs.Entity, *component.ParticleEmitter, *[]*stubHandle) {
	made := &[]*stubHandle{}
	cfg := particles.DefaultConfig()
	cfg.Prefab = "dot"
	cfg.EmitOverTime = false
	cfg.EmitOverDistance = true
	cfg.DistancePerParticle = 1
	cfg.Lifetime = particles.Range{Min: 10, Max: 10}
	logger, _ := quietLogger()
	sim := particles.New(cfg, particles.Env{
		Factory: particles.FactoryFunc(func(string) (any, error) {
			h := &stubHandle{}
			*made = append(*made, h)
			return h, nil
		}),
		Random: stubRandom{f: 0.5},
		Logger: logger,
	})

	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	em := &component.ParticleEmitter{Prefab: "trail.yaml", System: sim}
	_ = ecs.Add(w, e, component.ParticleEmitterComponent.Kind(), em)
	return e, em, made
}

func TestClockAccumulates(t *testing.T) {
	c := NewClock()
	for i := 0; i < 4; i++ {
		c.Update(nil, 0.25)
	}
	if !approx(c.Now(), 1) || c.Frames != 4 {
		t.Fatalf("expected 1s over 4 frames, got %v over %d", c.Now(), c.Frames)
	}
	var nilClock *Clock
	if nilClock.Now() != 0 {
		t.Fatalf("nil clock should read zero")
	}
}

func TestVelocityScript(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		want    particles.Vector
		wantErr string
	}{
		{"floats", `velocity := func(e) { return [1.5, -2.5] }`, particles.Vector{X: 1.5, Y: -2.5}, ""},
		{"ints", `velocity := func(e) { return [3, 4] }`, particles.Vector{X: 3, Y: 4}, ""},
		{"map", `velocity := func(e) { return {x: 1, y: 2} }`, particles.Vector{X: 1, Y: 2}, ""},
		{"engine", `velocity := func(e) { return [e.time, e.rand()] }`, particles.Vector{X: 2, Y: 0.25}, ""},
		{"math import", `math := import("math")
velocity := func(e) { return [math.cos(0), math.sin(0)] }`, particles.Vector{X: 1, Y: 0}, ""},
		{"wrong shape", `velocity := func(e) { return 7 }`, particles.Vector{}, "must return"},
		{"wrong length", `velocity := func(e) { return [1, 2, 3] }`, particles.Vector{}, "2 values"},
		{"missing function", `speed := 3`, particles.Vector{}, "velocity script"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clock := &Clock{Elapsed: 2}
			logger, _ := quietLogger()
			fn, err := compileVelocitySource(c.name, []byte(c.src), stubRandom{f: 0.25}, clock, logger)
			if c.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), c.wantErr) {
					t.Fatalf("expected error containing %q, got %v", c.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			got := fn()
			if !approx(got.X, c.want.X) || !approx(got.Y, c.want.Y) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestVelocityScriptSeesClock(t *testing.T) {
	clock := NewClock()
	logger, _ := quietLogger()
	fn, err := compileVelocitySource("clock", []byte(`velocity := func(e) { return [e.time, 0] }`), stubRandom{}, clock, logger)
	if err != nil {
		t.Fatal(err)
	}
	clock.Update(nil, 1.5)
	if got := fn(); !approx(got.X, 1.5) {
		t.Fatalf("expected time 1.5, got %v", got.X)
	}
}

func TestVelocityScriptRuntimeErrorLogsOnce(t *testing.T) {
	clock := NewClock()
	logger, buf := quietLogger()
	src := `velocity := func(e) { if e.time > 1 { return [1, 2] + "x" }; return [0, 0] }`
	fn, err := compileVelocitySource("broken", []byte(src), stubRandom{}, clock, logger)
	if err != nil {
		t.Fatal(err)
	}
	clock.Update(nil, 2)
	for i := 0; i < 3; i++ {
		if got := fn(); got != (particles.Vector{}) {
			t.Fatalf("expected zero vector on error, got %v", got)
		}
	}
	if n := strings.Count(buf.String(), "velocity script broken"); n != 1 {
		t.Fatalf("expected one logged error, got %d: %q", n, buf.String())
	}
}

func TestCompileEmbeddedSpiral(t *testing.T) {
	logger, _ := quietLogger()
	fn, err := CompileVelocityScript("spiral.tengo", stubRandom{f: 0}, NewClock(), logger)
	if err != nil {
		t.Fatal(err)
	}
	if v := fn(); math.Hypot(v.X, v.Y) == 0 {
		t.Fatalf("expected a non-zero spiral velocity")
	}
	if _, err := CompileVelocityScript("", nil, nil, logger); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := CompileVelocityScript("missing.tengo", nil, nil, logger); err == nil {
		t.Fatalf("expected error for missing script")
	}
}

func TestParticleEmitterSystemWarpsThenTracks(t *testing.T) {
	w := ecs.NewWorld()
	e, em, made := newEmitterEntity(w, 100, 0)
	s := NewParticleEmitterSystem()

	s.Update(w, 0.1)
	if !em.Placed {
		t.Fatalf("expected the emitter to be placed")
	}
	if em.System.Count() != 0 {
		t.Fatalf("placement must not count as travel, got %d particles", em.System.Count())
	}

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	tr.X = 105
	s.Update(w, 0.1)
	if em.System.Count() != 5 {
		t.Fatalf("expected 5 particles after 5 units, got %d", em.System.Count())
	}
	for _, h := range *made {
		if h.pos.X != 105 || h.pos.Y != 0 {
			t.Fatalf("expected spawn at the anchor, got %v", h.pos)
		}
	}
}

func TestTimedEmitterSystem(t *testing.T) {
	w := ecs.NewWorld()
	e, em, made := newEmitterEntity(w, 0, 0)
	em.System.StartEmitting(false)
	_ = ecs.Add(w, e, component.TimedEmitterComponent.Kind(), &component.TimedEmitter{EmitDuration: 1, DestroyAfter: 2})
	s := NewTimedEmitterSystem()

	s.Update(w, 0.5)
	if !em.System.Emitting() || len(w.Events().Peek()) != 0 {
		t.Fatalf("expected emitter still running with no events")
	}

	s.Update(w, 0.5)
	if em.System.Emitting() {
		t.Fatalf("expected emission to stop after 1s")
	}
	events := w.Events().Drain()
	if len(events) != 1 || events[0].Type != string(ecs.EmitterStopped) {
		t.Fatalf("expected one stopped event, got %+v", events)
	}

	// one particle alive so release has something to destroy
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	tr.X = 1
	em.System.StartEmitting(false)
	em.System.SetPosition(particles.Vector{X: 1})
	em.System.Advance(0)

	s.Update(w, 1)
	if ecs.IsAlive(w, e) {
		t.Fatalf("expected entity destroyed after 2s")
	}
	if em.System.Count() != 0 {
		t.Fatalf("expected particles released, got %d", em.System.Count())
	}
	for _, h := range *made {
		if !h.destroyed {
			t.Fatalf("expected every handle destroyed")
		}
	}
	events = w.Events().Drain()
	if len(events) != 1 || events[0].Data.(ecs.EmitterEvent).Kind != ecs.EmitterExpired {
		t.Fatalf("expected one expired event, got %+v", events)
	}
}

func TestTimedEmitterZeroDurationsDisabled(t *testing.T) {
	w := ecs.NewWorld()
	e, em, _ := newEmitterEntity(w, 0, 0)
	em.System.StartEmitting(false)
	_ = ecs.Add(w, e, component.TimedEmitterComponent.Kind(), &component.TimedEmitter{})

	NewTimedEmitterSystem().Update(w, 100)
	if !ecs.IsAlive(w, e) || !em.System.Emitting() {
		t.Fatalf("zero durations should never stop or destroy")
	}
}

func TestOrbitSystem(t *testing.T) {
	cases := []struct {
		name         string
		orbit        component.Orbit
		dt           float64
		wantX, wantY float64
	}{
		{"start", component.Orbit{CenterX: 10, CenterY: 10, Radius: 5, Speed: 0}, 1, 15, 10},
		{"quarter turn", component.Orbit{Radius: 2, Speed: math.Pi / 2}, 1, 0, 2},
		{"half turn backwards", component.Orbit{Radius: 1, Speed: -math.Pi}, 1, -1, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := ecs.CreateEntity(w)
			o := c.orbit
			_ = ecs.Add(w, e, component.OrbitComponent.Kind(), &o)
			_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{})

			NewOrbitSystem().Update(w, c.dt)

			tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
			if math.Abs(tr.X-c.wantX) > 1e-6 || math.Abs(tr.Y-c.wantY) > 1e-6 {
				t.Fatalf("expected (%v,%v), got (%v,%v)", c.wantX, c.wantY, tr.X, tr.Y)
			}
		})
	}
}

func TestFollowCursorSystem(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.FollowCursorComponent.Kind(), &component.FollowCursor{OffsetX: 2, OffsetY: -3})
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{})
	still := ecs.CreateEntity(w)
	_ = ecs.Add(w, still, component.TransformComponent.Kind(), &component.Transform{X: 7, Y: 7})

	s := &FollowCursorSystem{cursor: func() (int, int) { return 40, 50 }}
	s.Update(w, 0.016)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.X != 42 || tr.Y != 47 {
		t.Fatalf("expected (42,47), got (%v,%v)", tr.X, tr.Y)
	}
	other, _ := ecs.Get(w, still, component.TransformComponent.Kind())
	if other.X != 7 || other.Y != 7 {
		t.Fatalf("entity without FollowCursor should not move")
	}
}

type stubSource struct {
	changes []prefabs.Change
}

func (s *stubSource) Poll() []prefabs.Change {
	out := s.changes
	s.changes = nil
	return out
}

func TestHotReloadSystem(t *testing.T) {
	cases := []struct {
		name     string
		script   string
		change   prefabs.Change
		reloaded bool
	}{
		{"prefab edit", "", prefabs.Change{Path: "/work/prefabs/trail.yaml", Name: "trail.yaml"}, true},
		{"other prefab", "", prefabs.Change{Path: "/work/prefabs/smoke.yaml", Name: "smoke.yaml"}, false},
		{"script edit", "spiral.tengo", prefabs.Change{Path: "/work/prefabs/scripts/spiral.tengo", Name: "scripts/spiral.tengo", Script: true}, true},
		{"script unused", "", prefabs.Change{Path: "/work/prefabs/scripts/spiral.tengo", Name: "scripts/spiral.tengo", Script: true}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			old, em, made := newEmitterEntity(w, 3, 4)
			em.Script = c.script
			em.System.StartEmitting(false)
			em.System.SetPosition(particles.Vector{X: 5, Y: 4})
			em.System.Advance(0)

			var rebuilt []string
			rebuild := func(w *ecs.World, prefab string, _ *particles.Vector) (ecs.Entity, error) {
				rebuilt = append(rebuilt, prefab)
				e := ecs.CreateEntity(w)
				_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{})
				return e, nil
			}
			logger, _ := quietLogger()
			s := NewHotReloadSystem(&stubSource{changes: []prefabs.Change{c.change}}, rebuild, logger)
			s.Update(w, 0)

			if !c.reloaded {
				if len(rebuilt) != 0 || !ecs.IsAlive(w, old) {
					t.Fatalf("expected no reload")
				}
				return
			}
			if len(rebuilt) != 1 || rebuilt[0] != "trail.yaml" {
				t.Fatalf("expected one rebuild of trail.yaml, got %v", rebuilt)
			}
			if ecs.IsAlive(w, old) {
				t.Fatalf("expected the old entity destroyed")
			}
			for _, h := range *made {
				if !h.destroyed {
					t.Fatalf("expected old particles released")
				}
			}
			events := w.Events().Peek()
			if len(events) != 1 || events[0].Type != string(ecs.EmitterReloaded) {
				t.Fatalf("expected one reloaded event, got %+v", events)
			}
			next := events[0].Data.(ecs.EmitterEvent).Entity
			tr, _ := ecs.Get(w, next, component.TransformComponent.Kind())
			if tr.X != 3 || tr.Y != 4 {
				t.Fatalf("expected transform carried over, got (%v,%v)", tr.X, tr.Y)
			}
		})
	}
}

func TestHotReloadMovesRebuiltEmitterWithoutTravel(t *testing.T) {
	w := ecs.NewWorld()
	old, _, _ := newEmitterEntity(w, 3, 4)
	_ = ecs.Add(w, old, component.OrbitComponent.Kind(), &component.Orbit{Radius: 5, Angle: 2})
	emitters := NewParticleEmitterSystem()
	emitters.Update(w, 1.0/60)

	var gotAt *particles.Vector
	var rebuiltEmitter *component.ParticleEmitter
	// builds like a prefab that sits far from the old emitter
	rebuild := func(w *ecs.World, _ string, at *particles.Vector) (ecs.Entity, error) {
		gotAt = at
		e, em, _ := newEmitterEntity(w, 500, 0)
		_ = ecs.Add(w, e, component.OrbitComponent.Kind(), &component.Orbit{Radius: 5})
		em.System.Warp(particles.Vector{X: 500})
		em.Placed = true
		rebuiltEmitter = em
		return e, nil
	}
	logger, _ := quietLogger()
	NewHotReloadSystem(&stubSource{changes: []prefabs.Change{{Name: "trail.yaml"}}}, rebuild, logger).Update(w, 0)

	if gotAt == nil || gotAt.X != 3 || gotAt.Y != 4 {
		t.Fatalf("expected the old position passed to rebuild, got %v", gotAt)
	}
	next := w.Events().Peek()[0].Data.(ecs.EmitterEvent).Entity
	o, _ := ecs.Get(w, next, component.OrbitComponent.Kind())
	if o.Angle != 2 {
		t.Fatalf("expected orbit angle carried over, got %v", o.Angle)
	}

	emitters.Update(w, 1.0/60)
	if n := rebuiltEmitter.System.Count(); n != 0 {
		t.Fatalf("expected no particles from the reload move, got %d", n)
	}
	if pos := rebuiltEmitter.System.Position(); pos.X != 3 || pos.Y != 4 {
		t.Fatalf("expected anchor at (3,4), got %v", pos)
	}
}

func TestHotReloadKeepsEmitterOnError(t *testing.T) {
	w := ecs.NewWorld()
	old, _, _ := newEmitterEntity(w, 0, 0)
	logger, buf := quietLogger()
	rebuild := func(*ecs.World, string, *particles.Vector) (ecs.Entity, error) {
		return 0, errors.New("bad yaml")
	}
	s := NewHotReloadSystem(&stubSource{changes: []prefabs.Change{{Name: "trail.yaml"}}}, rebuild, logger)
	s.Update(w, 0)

	if !ecs.IsAlive(w, old) {
		t.Fatalf("expected the old emitter to survive a failed reload")
	}
	if !strings.Contains(buf.String(), "bad yaml") {
		t.Fatalf("expected the failure logged, got %q", buf.String())
	}
}

func TestEventLogSystemCounts(t *testing.T) {
	w := ecs.NewWorld()
	logger, buf := quietLogger()
	s := NewEventLogSystem(logger, true)

	e := ecs.CreateEntity(w)
	w.Events().PushEmitter(ecs.EmitterEvent{Entity: e, Kind: ecs.EmitterStopped, Prefab: "firework.yaml"})
	w.Events().PushEmitter(ecs.EmitterEvent{Entity: e, Kind: ecs.EmitterExpired, Prefab: "firework.yaml"})
	w.Events().Push(ecs.Event{Type: "other"})

	ecs.NewScheduler(s).Update(w, 0)

	if s.Counts[ecs.EmitterStopped] != 1 || s.Counts[ecs.EmitterExpired] != 1 {
		t.Fatalf("unexpected counts %v", s.Counts)
	}
	if len(w.Events().Peek()) != 0 {
		t.Fatalf("expected the scheduler to flush events")
	}
	if !strings.Contains(buf.String(), "emitter_expired") {
		t.Fatalf("expected debug log, got %q", buf.String())
	}
}

func TestDrawOrder(t *testing.T) {
	w := ecs.NewWorld()
	layers := []int{3, 0, 2}
	for _, l := range layers {
		e := ecs.CreateEntity(w)
		_ = ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: l})
		_ = ecs.Add(w, e, component.ParticleEmitterComponent.Kind(), &component.ParticleEmitter{Sprites: render.NewSpriteSet(1, false)})
	}
	// no sprites, not drawn
	bare := ecs.CreateEntity(w)
	_ = ecs.Add(w, bare, component.ParticleEmitterComponent.Kind(), &component.ParticleEmitter{})

	items := drawOrder(w)
	if len(items) != 3 {
		t.Fatalf("expected 3 drawable emitters, got %d", len(items))
	}
	for i, want := range []int{0, 2, 3} {
		if items[i].layer != want {
			t.Fatalf("expected layer %d at %d, got %d", want, i, items[i].layer)
		}
	}
}
