package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// setting is one editable field of the config screen.
type setting struct {
	name   string
	value  func(*config.Config) string
	adjust func(c *config.Config, dir int)
}

var settings = []setting{
	{
		name:  "integrator",
		value: func(c *config.Config) string { return c.Integrator },
		adjust: func(c *config.Config, dir int) {
			kinds := integrators.Kinds()
			for i, k := range kinds {
				if string(k) == c.Integrator {
					c.Integrator = string(kinds[(i+dir+len(kinds))%len(kinds)])
					return
				}
			}
			c.Integrator = string(integrators.DefaultKind)
		},
	},
	{
		name:  "years/min",
		value: func(c *config.Config) string { return fmt.Sprintf("%.2f", c.Rate*60/physics.Year) },
		adjust: func(c *config.Config, dir int) {
			if dir > 0 {
				c.Rate *= 2
			} else {
				c.Rate /= 2
			}
		},
	},
	{
		name:  "tracers",
		value: func(c *config.Config) string { return fmt.Sprintf("%d", c.Tracers) },
		adjust: func(c *config.Config, dir int) {
			c.Tracers = max(0, c.Tracers+50*dir)
		},
	},
	{
		name:  "softening",
		value: func(c *config.Config) string { return fmt.Sprintf("%.2g m", c.Softening) },
		adjust: func(c *config.Config, dir int) {
			switch {
			case dir > 0 && c.Softening == 0:
				c.Softening = 1e7
			case dir > 0:
				c.Softening *= 10
			case c.Softening <= 1e7:
				c.Softening = 0
			default:
				c.Softening /= 10
			}
		},
	},
}

type app struct {
	state, cursor int
	scenarios     []string
	cfg           *config.Config
	settingCursor int
	err           error
	live          Model
	reg           *experiment.Registry
}

// NewInteractiveApp returns the scenario picker in its menu state.
func NewInteractiveApp() tea.Model {
	return &app{
		state:     stateMenu,
		scenarios: physics.ScenarioNames(),
		cfg:       config.DefaultConfig(),
		reg:       experiment.NewRegistry(),
	}
}

func (a app) Init() tea.Cmd { return nil }

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateSim {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.state = stateConfig
			return a, nil
		}
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch a.state {
	case stateMenu:
		return a.menuKey(key)
	case stateConfig:
		return a.configKey(key)
	}
	return a, nil
}

func (a app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.scenarios)-1 {
			a.cursor++
		}
	case "enter", " ":
		a.cfg.Scenario = a.scenarios[a.cursor]
		a.state, a.settingCursor, a.err = stateConfig, 0, nil
	}
	return a, nil
}

func (a app) configKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "q", "esc":
		a.state = stateMenu
	case "up", "k":
		if a.settingCursor > 0 {
			a.settingCursor--
		}
	case "down", "j":
		if a.settingCursor < len(settings)-1 {
			a.settingCursor++
		}
	case "left", "h":
		settings[a.settingCursor].adjust(a.cfg, -1)
	case "right", "l":
		settings[a.settingCursor].adjust(a.cfg, 1)
	case "s", "enter":
		cmd, err := a.start()
		a.err = err
		return a, cmd
	}
	return a, nil
}

func (a *app) start() (tea.Cmd, error) {
	exp, err := experiment.New(a.cfg, a.reg)
	if err != nil {
		return nil, err
	}
	a.live = NewModel(exp.Simulation(), a.cfg.ForceModel(), a.cfg.Scenario, a.cfg.FPS)
	a.state = stateSim
	return a.live.Init(), nil
}

func (a app) View() string {
	switch a.state {
	case stateMenu:
		return a.viewMenu()
	case stateConfig:
		return a.viewConfig()
	case stateSim:
		return a.live.View()
	}
	return ""
}

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuIdle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (a app) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("GRAVSIM") + "\n    " + menuSub.Render("newtonian n-body simulator") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range a.scenarios {
		sc, _ := physics.LookupScenario(name)
		desc := sc.Description
		if len(desc) > 48 {
			desc = desc[:45] + "..."
		}
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-10s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", name)), menuIdle.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (a app) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(a.cfg.Scenario)) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, st := range settings {
		val := fmt.Sprintf("%10s", st.value(a.cfg))
		if i == a.settingCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-12s", st.name)), menuDesc.Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuIdle.Render(fmt.Sprintf("  %-12s", st.name)), menuIdle.Render(val)))
		}
	}
	if a.err != nil {
		b.WriteString("\n    " + StatusFailed.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive starts the scenario picker.
func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}

// RunLive shows s directly, without the picker. It returns the step error
// that stopped the view, if any.
func RunLive(s *sim.Simulation, pot metrics.Potential, title string, fps int) error {
	final, err := tea.NewProgram(NewModel(s, pot, title, fps), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	return final.(Model).Err()
}
