package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vecmath"
)

func TestCanvas_SetAndClear(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.SetColor(3, 3, "#ff0000")
	c.Set(-1, 0)
	c.Set(100, 100)

	if got := c.Grid[0][0]; got != '⠁' {
		t.Errorf("cell 0 = %q, want ⠁", got)
	}
	if got := c.Grid[0][1]; got != '⢀' {
		t.Errorf("cell 1 = %q, want ⢀", got)
	}
	if c.Colors[0][1] != "#ff0000" {
		t.Errorf("cell 1 color = %q", c.Colors[0][1])
	}
	if !strings.Contains(c.Render(), "⢀") {
		t.Error("Render lost the colored cell")
	}

	c.Clear()
	if c.String() != "⠀⠀\n" {
		t.Errorf("after Clear: %q", c.String())
	}
}

func TestCamera_FitAndProject(t *testing.T) {
	s, err := sim.New(physics.Kepler())
	if err != nil {
		t.Fatal(err)
	}
	snaps := s.Snapshots()

	cam := NewCamera(1)
	cam.Fit(snaps, 160, 96)

	x, y, in := cam.Project(snaps[0].Position, 160, 96)
	if !in || x != 80 || y != 48 {
		t.Errorf("sun at (%d, %d, %v), want canvas center", x, y, in)
	}
	x, y, in = cam.Project(snaps[1].Position, 160, 96)
	if !in || x <= 80 || y != 48 {
		t.Errorf("earth at (%d, %d, %v), want right of center", x, y, in)
	}

	_, _, in = cam.Project(vecmath.New(10*physics.AU, 0, 0), 160, 96)
	if in {
		t.Error("10 AU should be off a 1 AU view")
	}

	cam.CycleFollow(snaps)
	if cam.Follow != 0 {
		t.Errorf("Follow = %d, want 0", cam.Follow)
	}
	cam.Pan(1, 0)
	if cam.Follow != -1 {
		t.Error("Pan should release the followed body")
	}
}

func TestModel_TickAdvancesSimulation(t *testing.T) {
	s, err := sim.New(physics.Kepler(), sim.WithDt(3600))
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(s, physics.NewGravity(), "kepler", 60)

	next, cmd := m.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next frame")
	}
	m = next.(Model)
	if s.Steps() != 1 {
		t.Errorf("Steps = %d after one tick, want 1", s.Steps())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = next.(Model)
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if s.Steps() != 1 {
		t.Errorf("paused model stepped: Steps = %d", s.Steps())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	m = next.(Model)
	if s.IntegratorName() != "euler" {
		t.Errorf("integrator = %s, want euler after rk4", s.IntegratorName())
	}

	if !strings.Contains(m.View(), "Integrator") {
		t.Error("View should show the stats panel")
	}
}

func TestInteractive_MenuToSim(t *testing.T) {
	var m tea.Model = NewInteractiveApp()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a := m.(app)
	if a.state != stateConfig {
		t.Fatalf("state = %d, want config", a.state)
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	a = m.(app)
	if a.err != nil {
		t.Fatal(a.err)
	}
	if a.state != stateSim || cmd == nil {
		t.Errorf("state = %d, want sim with a tick scheduled", a.state)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(app).state != stateConfig {
		t.Error("esc should leave the live view")
	}
}

func TestHeading(t *testing.T) {
	tests := []struct {
		v    vecmath.Vec3
		want float64
	}{
		{vecmath.New(1, 0, 0), 0},
		{vecmath.New(0, 2, 0), 90},
		{vecmath.New(-3, 0, 5), 180},
		{vecmath.New(0, -1, 0), 270},
	}
	for _, tt := range tests {
		got, ok := heading(tt.v)
		if !ok || math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("heading(%v) = %v, %v; want %v", tt.v, got, ok, tt.want)
		}
	}
	if _, ok := heading(vecmath.New(0, 0, 7)); ok {
		t.Error("purely vertical velocity has no planar heading")
	}
}

func TestModel_VelocityArrows(t *testing.T) {
	s, err := sim.New(physics.Kepler(), sim.WithDt(3600))
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(s, physics.NewGravity(), "kepler", 60)

	lit := func(m Model) int {
		m.draw()
		n := 0
		for _, row := range m.canvas.Grid {
			for _, r := range row {
				n += bits(r - 0x2800)
			}
		}
		return n
	}
	m.showTrails = false
	before := lit(m)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	m = next.(Model)
	if !m.showArrows {
		t.Fatal("v should toggle arrows on")
	}
	if after := lit(m); after <= before {
		t.Errorf("arrows added no pixels: %d before, %d after", before, after)
	}
}

func TestModel_ClearTrails(t *testing.T) {
	s, err := sim.New(physics.Kepler(), sim.WithDt(3600))
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(s, physics.NewGravity(), "kepler", 60)
	m.advance()
	if len(m.snaps[1].Trajectory) == 0 {
		t.Fatal("expected a trail after advancing")
	}
	steps := s.Steps()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	for _, snap := range m.snaps {
		if len(snap.Trajectory) != 0 {
			t.Errorf("%s kept %d trail points", snap.Name, len(snap.Trajectory))
		}
	}
	if s.Steps() != steps {
		t.Errorf("clearing trails stepped the simulation: %d -> %d", steps, s.Steps())
	}
}

func bits(r rune) int {
	n := 0
	for ; r > 0; r >>= 1 {
		n += int(r & 1)
	}
	return n
}
