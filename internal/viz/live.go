package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vecmath"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(44)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
)

type TickMsg time.Time

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live orbit view. Each frame it asks the simulation for
// stepsPerFrame steps and draws the resulting snapshots. View state
// (camera, trails, pause) never reaches the physics.
type Model struct {
	sim           *sim.Simulation
	pot           metrics.Potential
	title         string
	fps           int
	stepsPerFrame int

	canvas     *Canvas
	camera     *Camera
	snaps      []dynamo.Snapshot
	running    bool
	showTrails bool
	showArrows bool
	showHelp   bool
	err        error

	initialEnergy float64
	driftHistory  []float64
}

// NewModel wraps s for display. fps sets the frame rate; the simulated
// time per frame is fps-independent only through the step size.
func NewModel(s *sim.Simulation, pot metrics.Potential, title string, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	m := Model{
		sim:           s,
		pot:           pot,
		title:         title,
		fps:           fps,
		stepsPerFrame: 1,
		canvas:        NewCanvas(width, height),
		camera:        NewCamera(1),
		running:       true,
		showTrails:    true,
		driftHistory:  make([]float64, 0, historyCapacity),
	}
	m.snaps = s.Snapshots()
	m.initialEnergy = metrics.TotalEnergy(m.snaps, pot)
	pw, ph := m.canvas.PixelSize()
	m.camera.Fit(m.snaps, pw, ph)
	return m
}

func (m Model) Init() tea.Cmd {
	return tick(m.fps)
}

// Err is the step failure that stopped the view, if any.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg.String())
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		m.camera.Track(m.snaps)
		return m, tick(m.fps)
	}
	return m, nil
}

func (m *Model) handleKey(key string) {
	pw, ph := m.canvas.PixelSize()
	switch key {
	case " ":
		m.running = !m.running
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "left", "h":
		m.camera.Pan(-float64(pw)/10, 0)
	case "right", "l":
		m.camera.Pan(float64(pw)/10, 0)
	case "up", "k":
		m.camera.Pan(0, -float64(ph)/10)
	case "down", "j":
		m.camera.Pan(0, float64(ph)/10)
	case "f":
		m.camera.CycleFollow(m.snaps)
	case "c":
		m.camera.Fit(m.snaps, pw, ph)
		m.camera.Follow = -1
	case "x":
		m.camera.Tilt += 0.1
	case "X":
		m.camera.Tilt -= 0.1
	case "z":
		m.camera.Spin += 0.1
	case "Z":
		m.camera.Spin -= 0.1
	case "]":
		m.stepsPerFrame = min(m.stepsPerFrame*2, 64)
	case "[":
		m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
	case "i":
		m.cycleIntegrator()
	case "t":
		m.showTrails = !m.showTrails
	case "v":
		m.showArrows = !m.showArrows
	case "r":
		m.sim.ClearTrails()
		m.snaps = m.sim.Snapshots()
	case "T":
		NextTheme()
	case "?":
		m.showHelp = !m.showHelp
	}
}

func (m *Model) cycleIntegrator() {
	kinds := integrators.Kinds()
	for i, k := range kinds {
		if string(k) == m.sim.IntegratorName() {
			m.sim.SetIntegrator(integrators.New(kinds[(i+1)%len(kinds)]))
			return
		}
	}
	m.sim.SetIntegrator(integrators.New(integrators.DefaultKind))
}

// advance runs the frame's steps. A failed step halts the view; the last
// good snapshots stay on screen.
func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame; i++ {
		if err := m.sim.Step(); err != nil {
			m.err = err
			m.running = false
			break
		}
	}
	m.snaps = m.sim.Snapshots()

	if m.initialEnergy != 0 {
		e := metrics.TotalEnergy(m.snaps, m.pot)
		drift := (e - m.initialEnergy) / m.initialEnergy
		if drift < 0 {
			drift = -drift
		}
		m.driftHistory = append(m.driftHistory, drift)
		if len(m.driftHistory) > historyCapacity {
			m.driftHistory = m.driftHistory[1:]
		}
	}
}

func bodyColor(c colorful.Color) colorful.Color {
	if c == (colorful.Color{}) {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}

// draw renders trails first and bodies on top, massive bodies last.
func (m *Model) draw() {
	m.canvas.Clear()
	pw, ph := m.canvas.PixelSize()

	if m.showTrails {
		for _, s := range m.snaps {
			if s.Mass == 0 || len(s.Trajectory) < 2 {
				continue
			}
			hex := CurrentTheme.TrailColor(bodyColor(s.Payload.Color))
			px, py, pin := m.camera.ProjectPoint(s.Trajectory[0], pw, ph)
			for _, pt := range s.Trajectory[1:] {
				x, y, in := m.camera.ProjectPoint(pt, pw, ph)
				if pin || in {
					m.canvas.DrawLine(px, py, x, y, hex)
				}
				px, py, pin = x, y, in
			}
		}
	}

	for pass := 0; pass < 2; pass++ {
		for _, s := range m.snaps {
			if (pass == 0) != (s.Mass == 0) {
				continue
			}
			x, y, in := m.camera.Project(s.Position, pw, ph)
			if !in {
				continue
			}
			hex := bodyColor(s.Payload.Color).Hex()
			if s.Mass == 0 {
				m.canvas.SetColor(x, y, hex)
				continue
			}
			m.canvas.Disc(x, y, int(s.Payload.Radius), hex)
			if m.showArrows {
				m.drawArrow(s, x, y, pw, ph, hex)
			}
		}
	}
}

const arrowLength = 8

// drawArrow draws a fixed-length velocity arrow from the body's pixel.
func (m *Model) drawArrow(s dynamo.Snapshot, x, y, pw, ph int, hex string) {
	dir, err := vecmath.UnitVector(s.Velocity)
	if err != nil {
		return
	}
	tip := s.Position.Add(dir.Mul(arrowLength * m.camera.Scale))
	tx, ty, _ := m.camera.Project(tip, pw, ph)
	m.canvas.DrawLine(x, y, tx, ty, hex)
}

// heading is the direction of travel in the x-y plane, in degrees
// counter-clockwise from +x.
func heading(v vecmath.Vec3) (float64, bool) {
	flat := vecmath.New(v[0], v[1], 0)
	deg, err := vecmath.Angle(flat, vecmath.New(1, 0, 0))
	if err != nil {
		return 0, false
	}
	if v[1] < 0 {
		deg = 360 - deg
	}
	return deg, true
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("HALTED")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

func formatDuration(seconds float64) string {
	const day = 86400.0
	const year = 365.25 * day
	switch {
	case seconds >= year:
		return fmt.Sprintf("%.2f yr", seconds/year)
	case seconds >= day:
		return fmt.Sprintf("%.1f d", seconds/day)
	default:
		return fmt.Sprintf("%.0f s", seconds)
	}
}

func (m Model) followName() string {
	if m.camera.Follow >= 0 && m.camera.Follow < len(m.snaps) {
		return m.snaps[m.camera.Follow].Name
	}
	return "free"
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render())

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(GradientText(strings.ToUpper(m.title),
		colorful.Color{R: 0, G: 1, B: 1}, colorful.Color{R: 1, G: 0, B: 1})) + "\n")
	s.WriteString(m.status() + "\n\n")

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", formatDuration(m.sim.Time()))
	row("Steps", fmt.Sprintf("%d", m.sim.Steps()))
	row("Δt", formatDuration(m.sim.Dt()))
	row("Integrator", m.sim.IntegratorName())
	row("Speed", fmt.Sprintf("%d step/frame", m.stepsPerFrame))
	row("Bodies", fmt.Sprintf("%d", len(m.snaps)))
	row("Follow", m.followName())
	if m.camera.Follow >= 0 && m.camera.Follow < len(m.snaps) {
		if deg, ok := heading(m.snaps[m.camera.Follow].Velocity); ok {
			row("Heading", fmt.Sprintf("%.1f°", deg))
		}
	}
	row("Scale", fmt.Sprintf("%.3g AU/px", m.camera.Scale/physics.AU))

	if n := len(m.driftHistory); n > 0 {
		row("ΔE/E", fmt.Sprintf("%.2e", m.driftHistory[n-1]))
		s.WriteString(SparklineChart(m.driftHistory, 36) + "\n")
	}
	if len(m.driftHistory) > 1 {
		chart := asciigraph.Plot(m.driftHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("energy drift"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + StatusFailed.Render(wrap(m.err.Error(), 40)) + "\n")
	}

	s.WriteString("\n" + Separator(36) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause  +/-:Zoom  ←↑↓→:Pan\nF:Follow  C:Center  I:Integrator\n[ ]:Speed T:Trails  ?:Help  Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  + / -    - Zoom in / out            ║
║  Arrows   - Pan (stops following)    ║
║  F        - Follow next body         ║
║  C        - Fit and center           ║
║  X / Z    - Tilt / spin the view     ║
║  [ / ]    - Fewer / more steps/frame ║
║  I        - Next integrator          ║
║  t / T    - Trails / theme           ║
║  V        - Velocity arrows          ║
║  R        - Clear trails             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

func wrap(s string, w int) string {
	var b strings.Builder
	line := 0
	for _, word := range strings.Fields(s) {
		if line > 0 && line+len(word)+1 > w {
			b.WriteByte('\n')
			line = 0
		} else if line > 0 {
			b.WriteByte(' ')
			line++
		}
		b.WriteString(word)
		line += len(word)
	}
	return b.String()
}
