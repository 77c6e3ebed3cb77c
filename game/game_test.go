package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scroggo/frogjump/config"
)

func writeLevels(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "levels.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGameRunsEmbeddedLevels(t *testing.T) {
	config.MustInit("")
	g, err := New(Options{Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Close()

	if _, _, ok := g.PlayerState(); !ok {
		t.Fatal("no player spawned")
	}

	for i := 0; i < 120; i++ {
		g.Update()
	}
	if g.Tick() != 120 {
		t.Errorf("tick = %d, want 120", g.Tick())
	}
	// With no jump input the frog just sits on the pond floor.
	pos, pl, ok := g.PlayerState()
	if !ok {
		t.Fatal("player disappeared")
	}
	if !pl.OnSurface {
		t.Errorf("player at %v never landed", pos)
	}
}

func TestGameWinsWhenPreyGone(t *testing.T) {
	config.MustInit("")
	// The dragonfly sits at the player's spawn, so it is caught on the first
	// tick; with no prey left and no next level the run completes.
	levels := `tile_size: 16
first: tiny
levels:
  - name: tiny
    legend: {"#": square}
    rows:
      - "...."
      - "...."
      - "####"
    player: {x: 32, y: 16}
    dragonflies:
      - pos: {x: 33, y: 17}
`
	g, err := New(Options{LevelsPath: writeLevels(t, levels), Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Close()

	g.Run(600)
	if !g.Done() {
		t.Fatal("run did not complete after the last prey was caught")
	}
	if g.Tick() > 10 {
		t.Errorf("run took %d ticks, want the first few", g.Tick())
	}
}

func TestGameAdvancesToNextLevel(t *testing.T) {
	config.MustInit("")
	levels := `tile_size: 16
first: one
levels:
  - name: one
    legend: {"#": square}
    rows:
      - "...."
      - "####"
    player: {x: 32, y: 8}
    dragonflies:
      - pos: {x: 33, y: 9}
    next: two
  - name: two
    legend: {"#": square}
    rows:
      - "........"
      - "########"
    player: {x: 64, y: 8}
    dragonflies:
      - pos: {x: 8, y: 8}
`
	g, err := New(Options{LevelsPath: writeLevels(t, levels), Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Close()

	g.Run(120)
	if g.Done() {
		t.Fatal("run ended, but level two's dragonfly is out of reach")
	}
	if g.progression.Current().Name != "two" {
		t.Errorf("current level = %q, want %q", g.progression.Current().Name, "two")
	}
	// The player respawned at level two's start.
	pos, _, ok := g.PlayerState()
	if !ok {
		t.Fatal("no player after the level change")
	}
	if pos.X < 48 {
		t.Errorf("player at x=%v, want near level two's start x=64", pos.X)
	}
}

func TestGameRespawnsEatenPlayer(t *testing.T) {
	config.MustInit("")
	// The alligator's eat radius covers the spawn; the frog is eaten and
	// respawns immediately. The far fly keeps the level from ending.
	levels := `tile_size: 16
first: trap
levels:
  - name: trap
    legend: {"#": square}
    rows:
      - "................"
      - "################"
    player: {x: 32, y: 8}
    flies:
      - pos: { x: 240, y: 4 }
    alligators:
      - pos: {x: 36, y: 8}
        focus_radius: 60
        eat_radius: 20
`
	g, err := New(Options{LevelsPath: writeLevels(t, levels), Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Close()

	g.Run(30)
	if g.Done() {
		t.Fatal("run should still be going")
	}
	if _, _, ok := g.PlayerState(); !ok {
		t.Fatal("player was not respawned after being eaten")
	}
}
