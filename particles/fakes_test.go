package particles

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
)

type fakeHandle struct {
	id        int
	pos       Vector
	col       color.Color
	visible   bool
	texture   Texture
	spawns    int
	updates   int
	destroys  int
	released  bool
	lastAge   float64
	lastMax   float64
	calls     []string
	recording bool
}

func (h *fakeHandle) record(name string) {
	if h.recording {
		h.calls = append(h.calls, name)
	}
}

func (h *fakeHandle) SetPosition(p Vector)   { h.pos = p; h.record("position") }
func (h *fakeHandle) SetColor(c color.Color) { h.col = c; h.record("color") }
func (h *fakeHandle) SetVisible(v bool)      { h.visible = v; h.record(fmt.Sprintf("visible=%v", v)) }
func (h *fakeHandle) SetTexture(t Texture)   { h.texture = t; h.record("texture") }
func (h *fakeHandle) OnSpawn()               { h.spawns++; h.record("spawn") }
func (h *fakeHandle) OnUpdate(elapsed, max float64) {
	h.updates++
	h.lastAge, h.lastMax = elapsed, max
	h.record("update")
}
func (h *fakeHandle) OnDestroy() { h.destroys++; h.record("destroy") }
func (h *fakeHandle) Destroy()   { h.released = true; h.record("release") }

type fakeFactory struct {
	made   []*fakeHandle
	record bool
}

func (f *fakeFactory) Instantiate(prefab string) (any, error) {
	h := &fakeHandle{id: len(f.made) + 1, recording: f.record}
	f.made = append(f.made, h)
	return h, nil
}

// fixedRandom returns the same sample every time.
type fixedRandom struct {
	f      float64
	circle Vector
	rect   Vector
	unit   Vector
}

func (r fixedRandom) Float01() float64            { return r.f }
func (r fixedRandom) InsideCircle(float64) Vector { return r.circle }
func (r fixedRandom) InsideExtents(Vector) Vector { return r.rect }
func (r fixedRandom) Unit() Vector                { return r.unit }

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Prefab = "dot"
	cfg.EmitOverTime = false
	cfg.RunOnStart = false
	return cfg
}

func newTestSystem(cfg Config) (*System, *fakeFactory, *bytes.Buffer) {
	var buf bytes.Buffer
	f := &fakeFactory{}
	s := New(cfg, Env{
		Factory: f,
		Random:  fixedRandom{f: 0.5, unit: Vector{X: 1}},
		Logger:  log.New(&buf, "", 0),
	})
	return s, f, &buf
}

func newTestLogger() *log.Logger {
	return log.New(&bytes.Buffer{}, "", 0)
}

func logBuffer(l *log.Logger) *bytes.Buffer {
	return l.Writer().(*bytes.Buffer)
}
