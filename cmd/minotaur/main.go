// Command minotaur drives the reduced-order turbofan cycle solver: single
// point validation, bpr x opr sweeps, and multi-objective cycle
// optimization via NSGA-II.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/cstnsystems/minotaur/pkg/config"
	"github.com/cstnsystems/minotaur/pkg/cycle"
	"github.com/cstnsystems/minotaur/pkg/multiobjective/algorithms"
	"github.com/cstnsystems/minotaur/pkg/multiobjective/framework"
	"github.com/cstnsystems/minotaur/pkg/multiobjective/util"
	"github.com/cstnsystems/minotaur/pkg/report"
)

const usage = `usage: minotaur <command> [flags]

commands:
  run          solve a single design point
  sweep        run a bpr x opr grid sweep
  sensitivity  compute finite-difference sensitivities around the design point
  optimize     run NSGA-II cycle optimization and write the Pareto front
  validate     check a configuration file
  version      print version information
`

type options struct {
	configPath  string
	outPath     string
	jsonOut     bool
	plotPath    string
	popSize     int
	generations int
	seed        uint64
	noCache     bool
	step        float64
}

func main() {
	var opts options
	pflag.StringVarP(&opts.configPath, "config", "c", "", "path to YAML configuration file")
	pflag.StringVarP(&opts.outPath, "out", "o", "", "output path (CSV)")
	pflag.BoolVar(&opts.jsonOut, "json", false, "also write a JSON result bundle")
	pflag.StringVar(&opts.plotPath, "plot", "", "write an HTML scatter plot of the front")
	pflag.IntVar(&opts.popSize, "pop-size", 100, "population size")
	pflag.IntVar(&opts.generations, "generations", 50, "number of generations")
	pflag.Uint64Var(&opts.seed, "seed", 42, "random seed for reproducibility")
	pflag.BoolVar(&opts.noCache, "no-cache", false, "disable evaluator memoization")
	pflag.Float64Var(&opts.step, "step", 1e-6, "relative step size for finite differences")

	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	pflag.CommandLine.AddGoFlagSet(klogFlags)
	pflag.Parse()

	logger := klog.NewKlogr()

	var err error
	switch pflag.Arg(0) {
	case "run":
		err = runSingle(logger, opts)
	case "sensitivity":
		err = runSensitivity(logger, opts)
	case "optimize":
		err = runOptimize(logger, opts)
	case "sweep":
		err = runSweep(logger, opts)
	case "validate":
		err = runValidate(opts)
	case "version":
		printVersion()
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error(err, "command failed", "command", pflag.Arg(0))
		os.Exit(1)
	}
}

func loadConfig(opts options) (*config.Config, []byte, error) {
	if opts.configPath == "" {
		return nil, nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	text, err := os.ReadFile(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, text, nil
}

func baseInput(cfg *config.Config) cycle.Input {
	return cycle.Input{
		Mach:    cfg.Cycle.Mach,
		AltKm:   cfg.Cycle.AltKm,
		EtaComp: cfg.Cycle.EtaComp,
		EtaTurb: cfg.Cycle.EtaTurb,
		EtaNozz: cfg.Cycle.EtaNozz,
		FuelK:   cfg.Cycle.FuelK,
		MaxIter: cfg.Solver.MaxIter,
		Tol:     cfg.Solver.Tol,
		Damping: cfg.Solver.Damping,
		T4Max:   cfg.Constraints.T4Max,
	}
}

// nsga2Config merges optimizer settings: library defaults, then the
// config file's optimize section, then command-line flags for the knobs
// the CLI exposes directly.
func nsga2Config(cfg *config.Config, opts options, logger logr.Logger) algorithms.NSGA2Config {
	c := algorithms.DefaultConfig()
	c.Bounds = cycle.DefaultBounds()

	if o := cfg.Optimize; o != nil {
		if o.PopSize > 0 {
			c.PopSize = o.PopSize
		}
		if o.Generations > 0 {
			c.Generations = o.Generations
		}
		if o.Seed != 0 {
			c.Seed = o.Seed
		}
		if o.CrossoverProb > 0 {
			c.CrossoverProb = o.CrossoverProb
		}
		if o.MutationProb > 0 {
			c.MutationProb = o.MutationProb
		}
		if o.EtaC > 0 {
			c.EtaC = o.EtaC
		}
		if o.EtaM > 0 {
			c.EtaM = o.EtaM
		}
		if len(o.Bounds) > 0 {
			bounds := make([]framework.Bounds, len(o.Bounds))
			for i, b := range o.Bounds {
				bounds[i] = framework.Bounds{L: b[0], H: b[1]}
			}
			c.Bounds = bounds
		}
	}

	// Command-line flags beat the config file when set explicitly.
	if pflag.CommandLine.Changed("pop-size") {
		c.PopSize = opts.popSize
	}
	if pflag.CommandLine.Changed("generations") {
		c.Generations = opts.generations
	}
	if pflag.CommandLine.Changed("seed") {
		c.Seed = opts.seed
	}
	c.Logger = logger
	return c
}

func runOptimize(logger logr.Logger, opts options) error {
	cfg, cfgText, err := loadConfig(opts)
	if err != nil {
		return err
	}
	outPath := opts.outPath
	if outPath == "" {
		outPath = "results/pareto_front.csv"
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	nsgaConfig := nsga2Config(cfg, opts, logger)
	optimizer, err := algorithms.NewNSGA2(nsgaConfig)
	if err != nil {
		return err
	}

	var evaluator framework.Evaluator = cycle.NewEvaluator(baseInput(cfg))
	var cached *framework.CachedEvaluator
	if !opts.noCache {
		cached = framework.NewCachedEvaluator(evaluator)
		evaluator = cached
	}

	start := time.Now()
	front := optimizer.Run(evaluator)
	wallTime := time.Since(start)

	// Reference point on the (TSFC, -thrust) scale: worst acceptable
	// TSFC, zero thrust.
	refPoint := framework.ObjectiveSpacePoint{2.0, 0.0}
	hv := algorithms.Hypervolume2D(front.Solutions, refPoint)

	points := make([]framework.ObjectiveSpacePoint, len(front.Solutions))
	for i, sol := range front.Solutions {
		points[i] = framework.ObjectiveSpacePoint{sol.F[0], -sol.F[1]}
	}
	stats := util.Summarize(points)

	logger.Info("optimization finished",
		"frontSize", len(front.Solutions),
		"evaluations", humanize.Comma(int64(front.Evaluations)),
		"hypervolume", hv,
		"wallTime", wallTime.Round(time.Millisecond).String())
	if len(front.Solutions) > 0 {
		logger.Info("front objective ranges",
			"tsfcMin", stats.Min[0], "tsfcMax", stats.Max[0],
			"thrustMin", stats.Min[1], "thrustMax", stats.Max[1])
	}
	if cached != nil {
		calls, hits := cached.Stats()
		logger.V(1).Info("evaluator cache",
			"calls", humanize.Comma(int64(calls)),
			"hits", humanize.Comma(int64(hits)))
	}

	if err := report.WriteFrontCSV(outPath, front.Solutions); err != nil {
		return err
	}
	logger.Info("pareto front written", "path", outPath)

	if opts.jsonOut {
		jsonPath := replaceExt(outPath, ".json")
		bundle := report.OptimizationBundle{
			Manifest:    report.NewManifest(cfgText),
			Objectives:  []string{"minimize TSFC", "maximize Thrust"},
			ParetoFront: report.NewParetoSolutions(front.Solutions),
			Hypervolume: &hv,
			Generations: front.Generation,
			Evaluations: front.Evaluations,
			WallTimeMS:  float64(wallTime.Microseconds()) / 1000.0,
		}
		if err := report.WriteJSON(jsonPath, bundle); err != nil {
			return err
		}
		logger.Info("JSON bundle written", "path", jsonPath)
	}

	if opts.plotPath != "" {
		if err := util.PlotFront(points, nil, "Turbofan Cycle", algorithms.Name, opts.plotPath); err != nil {
			return err
		}
		logger.Info("plot written", "path", opts.plotPath)
	}

	return nil
}

// designPoint resolves the base input plus the bpr/opr the single-point
// modes require in the config file.
func designPoint(cfg *config.Config, mode string) (cycle.Input, error) {
	in := baseInput(cfg)
	if cfg.Cycle.BPR == nil || cfg.Cycle.OPR == nil {
		return in, fmt.Errorf("cycle.bpr and cycle.opr are required for %s mode", mode)
	}
	in.BPR = *cfg.Cycle.BPR
	in.OPR = *cfg.Cycle.OPR
	return in, nil
}

func runSingle(logger logr.Logger, opts options) error {
	cfg, cfgText, err := loadConfig(opts)
	if err != nil {
		return err
	}
	in, err := designPoint(cfg, "run")
	if err != nil {
		return err
	}
	outPath := opts.outPath
	if outPath == "" {
		outPath = "results/out.csv"
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	start := time.Now()
	out := cycle.Solve(in)
	wallTime := time.Since(start)

	row := report.SweepRow{
		Case: "baseline", BPR: in.BPR, OPR: in.OPR, Mach: in.Mach, AltKm: in.AltKm,
		Output: out,
	}
	if err := report.WriteSweepCSV(outPath, []report.SweepRow{row}); err != nil {
		return err
	}

	logger.Info("single point solved",
		"status", cycle.StatusName(out.Status),
		"iterations", out.Iterations,
		"residual", out.Residual,
		"t4", out.T4,
		"tsfc", out.TSFC,
		"thrust", out.Thrust,
		"path", outPath)
	if out.Status != cycle.StatusOK {
		logger.Info("solver did not converge cleanly", "status", cycle.StatusName(out.Status))
	}

	if opts.jsonOut {
		jsonPath := replaceExt(outPath, ".json")
		bundle := report.RunBundle{
			Manifest: report.NewManifest(cfgText),
			Summary:  report.NewRunSummary(out, float64(wallTime.Microseconds())/1000.0),
		}
		if err := report.WriteJSON(jsonPath, bundle); err != nil {
			return err
		}
		logger.Info("JSON bundle written", "path", jsonPath)
	}

	return nil
}

func runSensitivity(logger logr.Logger, opts options) error {
	cfg, cfgText, err := loadConfig(opts)
	if err != nil {
		return err
	}
	in, err := designPoint(cfg, "sensitivity")
	if err != nil {
		return err
	}
	outPath := opts.outPath
	if outPath == "" {
		outPath = "results/sensitivity.csv"
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	res, err := cycle.Sensitivity(in, opts.step)
	if err != nil {
		return err
	}

	if err := report.WriteSensitivityCSV(outPath, res); err != nil {
		return err
	}
	jsonPath := replaceExt(outPath, ".json")
	bundle := report.NewSensitivityBundle(res, report.NewManifest(cfgText))
	if err := report.WriteJSON(jsonPath, bundle); err != nil {
		return err
	}

	logger.Info("sensitivity analysis complete",
		"parameters", len(cycle.SensitivityParams),
		"step", opts.step,
		"csv", outPath,
		"json", jsonPath)
	return nil
}

func runSweep(logger logr.Logger, opts options) error {
	cfg, _, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if cfg.Sweep == nil {
		return fmt.Errorf("sweep section required for sweep mode")
	}
	outPath := opts.outPath
	if outPath == "" {
		outPath = "results/out_sweep.csv"
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	s := cfg.Sweep
	base := baseInput(cfg)
	var rows []report.SweepRow
	converged := 0

	for i := 0; i < s.BPRN; i++ {
		bpr := gridPoint(s.BPRMin, s.BPRMax, i, s.BPRN)
		for j := 0; j < s.OPRN; j++ {
			opr := gridPoint(s.OPRMin, s.OPRMax, j, s.OPRN)

			in := base
			in.BPR = bpr
			in.OPR = opr
			out := cycle.Solve(in)
			if out.Status == cycle.StatusOK {
				converged++
			}
			rows = append(rows, report.SweepRow{
				Case:   fmt.Sprintf("sweep_%04d_%04d", i, j),
				BPR:    bpr,
				OPR:    opr,
				Mach:   base.Mach,
				AltKm:  base.AltKm,
				Output: out,
			})
		}
	}

	if err := report.WriteSweepCSV(outPath, rows); err != nil {
		return err
	}
	logger.Info("sweep complete",
		"total", humanize.Comma(int64(len(rows))),
		"converged", humanize.Comma(int64(converged)),
		"path", outPath)
	return nil
}

func runValidate(opts options) error {
	if opts.configPath == "" {
		return fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	fmt.Printf("config valid: %s\n", opts.configPath)
	fmt.Printf("  program: %s %s v%s\n", cfg.Program.Name, cfg.Program.Module, cfg.Program.Version)
	fmt.Printf("  solver: maxIter=%d tol=%g damping=%g\n",
		cfg.Solver.MaxIter, cfg.Solver.Tol, cfg.Solver.Damping)
	fmt.Printf("  cycle: mach=%g altKm=%g t4Max=%g\n",
		cfg.Cycle.Mach, cfg.Cycle.AltKm, cfg.Constraints.T4Max)
	if cfg.Sweep != nil {
		fmt.Printf("  sweep: bpr=[%g,%g]x%d opr=[%g,%g]x%d\n",
			cfg.Sweep.BPRMin, cfg.Sweep.BPRMax, cfg.Sweep.BPRN,
			cfg.Sweep.OPRMin, cfg.Sweep.OPRMax, cfg.Sweep.OPRN)
	}
	return nil
}

func printVersion() {
	fmt.Printf("minotaur - deterministic reduced-order turbofan cycle toolkit\n")
	fmt.Printf("  program id:     %s\n", report.ProgramID)
	fmt.Printf("  solver version: %s\n", report.SolverVersion)
	fmt.Printf("  schema version: %s\n", report.SchemaVersion)
	fmt.Printf("  optimizer:      %s (bi-objective TSFC vs thrust)\n", algorithms.Name)
}

func gridPoint(lo, hi float64, i, n int) float64 {
	if n <= 1 {
		return lo
	}
	return lo + (hi-lo)*float64(i)/float64(n-1)
}

func replaceExt(path, ext string) string {
	return path[:len(path)-len(filepath.Ext(path))] + ext
}
