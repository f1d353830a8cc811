package main

import (
	"bytes"
	"log"
	"testing"

	"github.com/milk9111/particles/particles"
)

func TestLoadConfig(t *testing.T) {
	cases := []struct {
		prefab  string
		name    string
		wantErr bool
	}{
		{"fountain", "fountain", false},
		{"smoke.yaml", "smoke", false},
		{"missing", "", true},
	}

	for _, c := range cases {
		t.Run(c.prefab, func(t *testing.T) {
			cfg, err := loadConfig(c.prefab)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Name != c.name {
				t.Fatalf("expected name %q, got %q", c.name, cfg.Name)
			}
		})
	}
}

func TestBenchCountsHandles(t *testing.T) {
	cfg := particles.DefaultConfig()
	cfg.Prefab = "dot"
	cfg.ParticlesPerSecond = 10
	cfg.Lifetime = particles.Range{Min: 0.5, Max: 0.5}

	b := &bench{}
	var buf bytes.Buffer
	sim := particles.New(cfg, particles.Env{Factory: b, Random: particles.NewRandom(1), Logger: log.New(&buf, "", 0)})
	for i := 0; i < 20; i++ {
		sim.Advance(0.1)
	}
	stats := sim.Stats()
	if b.spawns != int(stats.Spawned) {
		t.Fatalf("expected %d spawns, handles saw %d", stats.Spawned, b.spawns)
	}
	if b.made >= b.spawns {
		t.Fatalf("expected pooling to reuse handles, made %d for %d spawns", b.made, b.spawns)
	}
	sim.Release()
	if b.freed != b.made {
		t.Fatalf("expected every handle freed, %d of %d", b.freed, b.made)
	}
}
