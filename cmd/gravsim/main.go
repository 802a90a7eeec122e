package main

import (
	"context"
	"fmt"
	"maps"
	"math"
	"os"
	"os/signal"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	configFile string
	preset     string
	integrator string
	dt         float64
	years      float64
	rate       float64
	fps        int
	softening  float64
	tracers    int
	seed       int64

	orbitBody    int
	orbitRelTo   int
	perturbation float64
	body         int
	fraction     float64
	svgPath      string
	sweepPoints  int
	minDt        float64
	maxDt        float64
	tolerance    float64
)

var headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "newtonian n-body gravity simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
		SilenceUsage: true,
	}

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headless and report conservation metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().IntVar(&orbitBody, "orbit", -1, "body index to trace as an orbit portrait")
	runCmd.Flags().IntVar(&orbitRelTo, "relative-to", 0, "body index the portrait is drawn relative to (-1 for absolute)")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final orbits to an svg file")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [scenario] [integrator...]",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addConfigFlags(compareCmd)

	convergeCmd := &cobra.Command{
		Use:   "converge [integrator...]",
		Short: "measure the order of each integrator on a circular orbit",
		RunE:  convergence,
	}
	convergeCmd.Flags().Float64Var(&fraction, "fraction", 0.125, "fraction of an orbit to integrate")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [scenario]",
		Short: "estimate the divergence rate of nearby trajectories",
		Args:  cobra.MaximumNArgs(1),
		RunE:  lyapunov,
	}
	addConfigFlags(lyapunovCmd)
	lyapunovCmd.Flags().IntVar(&body, "body", 1, "body index to perturb")
	lyapunovCmd.Flags().Float64Var(&perturbation, "perturbation", 1000, "initial displacement in meters")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, name := range physics.ScenarioNames() {
				sc, _ := physics.LookupScenario(name)
				fmt.Fprintf(w, "%s\t%s\n", name, sc.Description)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, "")
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	addConfigFlags(initCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run a scripted batch of simulations from yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "sweep the timestep and report conservation metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&minDt, "min-dt", 3600, "smallest timestep in seconds")
	sweepCmd.Flags().Float64Var(&maxDt, "max-dt", 86400*4, "largest timestep in seconds")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 6, "number of timesteps")

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "find the cheapest integrator and timestep within an energy tolerance",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tune,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&minDt, "min-dt", 3600, "smallest timestep in seconds")
	tuneCmd.Flags().Float64Var(&maxDt, "max-dt", 86400*4, "largest timestep in seconds")
	tuneCmd.Flags().IntVar(&sweepPoints, "points", 6, "timesteps per integrator")
	tuneCmd.Flags().Float64Var(&tolerance, "tolerance", 1e-6, "maximum relative energy drift")

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, convergeCmd, lyapunovCmd, presetsCmd, scenariosCmd, initCmd, batchCmd, sweepCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&integrator, "integrator", def.Integrator, "integrator (euler, leapfrog, rk4)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep in seconds (default rate/fps)")
	cmd.Flags().Float64Var(&years, "years", def.Duration/physics.Year, "simulated duration in years")
	cmd.Flags().Float64Var(&rate, "rate", def.Rate, "simulated seconds per real second")
	cmd.Flags().IntVar(&fps, "fps", def.FPS, "frames per second")
	cmd.Flags().Float64Var(&softening, "softening", 0, "softening length in meters")
	cmd.Flags().IntVar(&tracers, "tracers", def.Tracers, "number of massless asteroid tracers")
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "random seed for tracer placement")
}

// loadConfig resolves defaults, then preset, then config file, then any
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command, scenario string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if scenario != "" {
		cfg.Scenario = scenario
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if scenario != "" {
			cfg.Scenario = scenario
		}
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("years") {
		cfg.Duration = years * physics.Year
	}
	if flags.Changed("rate") {
		cfg.Rate = rate
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("softening") {
		cfg.Softening = softening
	}
	if flags.Changed("tracers") {
		cfg.Tracers = tracers
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func scenarioArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, scenarioArg(args))
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	var portrait *analysis.OrbitPortrait
	if orbitBody >= 0 {
		if orbitBody >= exp.Simulation().Len() {
			return fmt.Errorf("orbit body %d out of range (%d bodies)", orbitBody, exp.Simulation().Len())
		}
		portrait = analysis.NewOrbitPortrait(orbitBody, orbitRelTo)
		exp.Simulation().AddObserver(portrait)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s with %s, dt=%s, %d steps...\n",
		cfg.Scenario, cfg.Kind(), formatSeconds(cfg.TimeStep()), cfg.Steps())
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("simulated: %s\n", formatSeconds(result.Time))

	fmt.Println("\n" + headerStyle.Render("metrics"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
		fmt.Fprintf(w, "  %s\t%.6e\n", name, result.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if series := exp.EnergySeries(); len(series) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("relative energy drift"),
		))
	}

	if svgPath != "" {
		if err := writeSVG(svgPath, result); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgPath)
	}

	if portrait != nil {
		fmt.Println("\n" + headerStyle.Render(fmt.Sprintf("orbit of %s", result.Final[orbitBody].Name)))
		fmt.Print(portrait.ASCII(60, 20))
		if p, ok := portrait.Period(); ok {
			fmt.Printf("period (crossings): %s\n", formatSeconds(p))
		}
		if p, err := analysis.DominantPeriod(portrait.XSeries(), cfg.TimeStep()); err == nil {
			fmt.Printf("period (spectrum):  %s\n", formatSeconds(p))
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, scenarioArg(args))
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	return viz.RunLive(exp.Simulation(), cfg.ForceModel(), cfg.Scenario, cfg.FPS)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	kinds := integrators.Kinds()
	if len(args) > 1 {
		kinds = nil
		for _, a := range args[1:] {
			k, err := integrators.ParseKind(a)
			if err != nil {
				return err
			}
			kinds = append(kinds, k)
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("comparing %d integrators on %s, dt=%s, %d steps\n\n",
		len(kinds), cfg.Scenario, formatSeconds(cfg.TimeStep()), cfg.Steps())

	start := time.Now()
	comps, err := experiment.Compare(ctx, cfg, experiment.NewRegistry(), kinds)
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tENERGY DRIFT\tMOMENTUM DRIFT\tCOM DRIFT (m)")
	series := make([][]float64, 0, len(comps))
	for _, c := range comps {
		if c.Result == nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\n", c.Kind)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%.3e\t%.3e\t%.3e\n",
			c.Kind,
			c.Result.StepsTaken,
			c.Result.Metrics["energy_drift"],
			c.Result.Metrics["momentum_drift"],
			c.Result.Metrics["com_drift"],
		)
		if len(c.Energy) > 1 {
			series = append(series, c.Energy)
		}
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	if len(series) > 0 {
		fmt.Println()
		fmt.Println(asciigraph.PlotMany(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Yellow, asciigraph.Green),
			asciigraph.Caption("relative energy drift ("+kindList(kinds)+")"),
		))
	}
	fmt.Printf("\ncompleted in %v\n", elapsed)
	return nil
}

func convergence(cmd *cobra.Command, args []string) error {
	kinds := integrators.Kinds()
	if len(args) > 0 {
		kinds = nil
		for _, a := range args {
			k, err := integrators.ParseKind(a)
			if err != nil {
				return err
			}
			kinds = append(kinds, k)
		}
	}
	if fraction <= 0 {
		return fmt.Errorf("fraction must be positive, got %g", fraction)
	}

	orbit := analysis.DefaultOrbit()
	duration := orbit.Period() * fraction
	steps := analysis.DefaultSteps()
	for k := range steps {
		steps[k] = max(1, int(float64(steps[k])*fraction/0.125))
	}

	ctx, cancel := signalContext()
	defer cancel()

	rows, err := orbit.Study(ctx, kinds, steps, duration)
	if err != nil {
		return err
	}

	fmt.Printf("circular orbit at %.2f AU, integrated for %s\n\n", orbit.Radius/physics.AU, formatSeconds(duration))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tDT\tERR(DT) m\tERR(DT/2) m\tRATIO\tORDER\tEXPECTED")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%.4e\t%.4e\t%.2f\t%.2f\t%d\n",
			r.Kind, formatSeconds(r.Dt), r.Error, r.HalfError, r.Ratio(), r.Order(), r.Kind.Order())
	}
	return w.Flush()
}

func lyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, scenarioArg(args))
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	div, err := analysis.LyapunovExponent(ctx, catalog, cfg.Kind(), cfg.ForceModel(), cfg.TimeStep(), cfg.Steps(), body, perturbation)
	if err != nil {
		return err
	}

	fmt.Printf("perturbed %s by %.3g m\n", catalog[body].Name, perturbation)
	fmt.Printf("exponent: %.4e 1/s (%.4f 1/yr)\n", div.Exponent(), div.Exponent()*physics.Year)
	if len(div.LogSeparation) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(div.LogSeparation,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("log separation"),
		))
	}
	return nil
}

func writeSVG(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteOrbits(f, result.Final, 800, 800); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return fmt.Errorf("failed to load batch: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if batch.Description != "" {
		fmt.Println(headerStyle.Render(batch.Name) + "  " + batch.Description)
	}
	results, err := automation.RunBatch(ctx, batch, experiment.NewRegistry(), func(i int, name string) {
		fmt.Printf("running %d/%d: %s\n", i+1, len(batch.Runs), name)
	})

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSCENARIO\tINTEG\tDT\tSTEPS\tENERGY DRIFT\tCOM DRIFT (m)")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.3e\t%.3e\n",
			r.Name, r.Config.Scenario, r.Config.Kind(), formatSeconds(r.Config.TimeStep()),
			r.Result.StepsTaken, r.Result.Metrics["energy_drift"], r.Result.Metrics["com_drift"])
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, scenarioArg(args))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.StepSweep{
		Base: cfg, MinDt: minDt, MaxDt: maxDt, Points: sweepPoints,
	}, experiment.NewRegistry())

	fmt.Printf("%s with %s over %s\n\n", cfg.Scenario, cfg.Kind(), formatSeconds(cfg.Duration))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tENERGY DRIFT\tMOMENTUM DRIFT")
	drifts := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Result == nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\n", formatSeconds(r.Dt))
			continue
		}
		d := r.Result.Metrics["energy_drift"]
		drifts = append(drifts, d)
		fmt.Fprintf(w, "%s\t%d\t%.3e\t%.3e\n", formatSeconds(r.Dt), r.Result.StepsTaken, d, r.Result.Metrics["momentum_drift"])
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}
	if len(drifts) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(drifts, asciigraph.Height(8), asciigraph.Caption("energy drift vs timestep")))
	}
	return nil
}

func tune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, scenarioArg(args))
	if err != nil {
		return err
	}
	if sweepPoints < 2 || minDt <= 0 || maxDt <= minDt {
		return fmt.Errorf("need --points >= 2 and 0 < --min-dt < --max-dt")
	}

	dts := make([]float64, sweepPoints)
	for i := range dts {
		dts[i] = minDt * math.Pow(maxDt/minDt, float64(i)/float64(sweepPoints-1))
	}

	ctx, cancel := signalContext()
	defer cancel()

	choice, err := optim.LargestStableStep(ctx, cfg, experiment.NewRegistry(), integrators.Kinds(), dts, tolerance)
	if err != nil {
		return err
	}
	fmt.Printf("integrator: %s\n", choice.Kind)
	fmt.Printf("dt:         %s\n", formatSeconds(choice.Dt))
	fmt.Printf("drift:      %.3e\n", choice.Drift)
	fmt.Printf("cost:       %.3g force passes per simulated day\n", choice.Cost*86400)
	return nil
}

func kindList(kinds []integrators.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func formatSeconds(s float64) string {
	const day = 86400.0
	switch {
	case s >= physics.Year:
		return fmt.Sprintf("%.3g yr", s/physics.Year)
	case s >= day:
		return fmt.Sprintf("%.3g d", s/day)
	case s >= 3600:
		return fmt.Sprintf("%.3g h", s/3600)
	default:
		return fmt.Sprintf("%.3g s", s)
	}
}
