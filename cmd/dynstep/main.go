package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/renyard/dynstep/internal/config"
	"github.com/renyard/dynstep/internal/experiment"
	"github.com/renyard/dynstep/internal/export"
	"github.com/renyard/dynstep/internal/storage"
	"github.com/renyard/dynstep/internal/viz"
)

var (
	dataDir          string
	configFile       string
	method           string
	accuracy         float64
	consTol          float64
	duration         float64
	reportInterval   float64
	initialStep      float64
	theta            float64
	projectEveryStep bool
	noSave           bool
	svgFile          string
	sweepAccuracies  []float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dynstep",
		Short: "adaptive DAE integration lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dynstep", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a model and report statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runModel,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&method, "method", "merson", "integration method")
	runCmd.Flags().Float64Var(&accuracy, "accuracy", config.DefaultAccuracy, "requested accuracy")
	runCmd.Flags().Float64Var(&consTol, "constraint-tol", config.DefaultConstraintTol, "constraint tolerance")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().Float64Var(&reportInterval, "report", config.DefaultReportInterval, "report interval")
	runCmd.Flags().Float64Var(&initialStep, "h0", 0, "initial step size (0 = auto)")
	runCmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "initial angle")
	runCmd.Flags().BoolVar(&projectEveryStep, "project-every-step", false, "project constraints on every step")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip archiving the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the trajectory as an SVG file")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "run a model at several accuracy targets and compare",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepModel,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&method, "method", "merson", "integration method")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	sweepCmd.Flags().Float64Var(&reportInterval, "report", config.DefaultReportInterval, "report interval")
	sweepCmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "initial angle")
	sweepCmd.Flags().Float64SliceVar(&sweepAccuracies, "accuracies",
		[]float64{1e-2, 1e-4, 1e-6, 1e-8}, "accuracy targets")

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list available methods and models",
		RunE:  listMethods,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, sweepCmd, methodsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildConfig(model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.Model = model
	if method != "" {
		cfg.Method = method
	}
	cfg.Accuracy = accuracy
	cfg.ConstraintTol = consTol
	cfg.Duration = duration
	cfg.ReportInterval = reportInterval
	cfg.InitialStep = initialStep
	cfg.InitState.Theta = theta
	cfg.ProjectEveryStep = projectEveryStep
	return cfg, nil
}

func runModel(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(args[0])
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	d, err := reg.BuildDriver(cfg)
	if err != nil {
		return err
	}

	result, err := experiment.Run(context.Background(), d, cfg)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s / %s", cfg.Model, d.MethodName())))
	fmt.Println()
	fmt.Println(viz.PlotAll(result.States, nil))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "steps attempted\t%d\n", result.Stats.StepsAttempted)
	fmt.Fprintf(w, "steps taken\t%d\n", result.Stats.StepsTaken)
	fmt.Fprintf(w, "error test failures\t%d\n", result.Stats.ErrorTestFailures)
	fmt.Fprintf(w, "convergence failures\t%d\n", result.Stats.ConvergenceTestFailures)
	fmt.Fprintf(w, "initial step taken\t%g\n", result.ActualInitialStep)
	fmt.Fprintf(w, "last step size\t%g\n", result.LastStepSize)
	fmt.Fprintf(w, "constraint residual\t%g\n", result.ConstraintResidual)
	fmt.Fprintf(w, "max energy drift\t%g\n", result.MaxEnergyDrift)
	w.Flush()

	if result.ConstraintResidual <= cfg.ConstraintTol {
		fmt.Println(viz.StatGood.Render("constraints satisfied"))
	} else {
		fmt.Println(viz.StatBad.Render("constraints violated"))
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Model, cfg.Method, cfg.Accuracy, cfg.ConstraintTol, cfg.Duration, result)
	if err != nil {
		return err
	}
	fmt.Println(viz.Subtle.Render("saved as " + runID))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tmodel\tmethod\taccuracy\tsteps\ttimestamp")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%s\n",
			run.ID, run.Model, run.Method, run.Accuracy, run.StepsTaken,
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, states, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\nmodel: %s\nmethod: %s\nsamples: %d\n\n",
		meta.ID, meta.Model, meta.Method, len(states))

	var labels []string
	if meta.Model == "pendulum" {
		labels = []string{"x position", "y position", "x velocity", "y velocity"}
	}
	fmt.Println(viz.PlotAll(states, labels))

	if svgFile != "" {
		times, _, err := st.LoadStates(args[0])
		if err != nil {
			return err
		}
		// Pendulum runs plot the spatial path; everything else plots the
		// first component over time.
		xs, ys := times, column(states, 0)
		if meta.Model == "pendulum" && len(states[0]) >= 2 {
			xs, ys = column(states, 0), column(states, 1)
		}
		if err := export.WriteTrajectorySVG(svgFile, xs, ys, 800, 600, "#00ff00"); err != nil {
			return err
		}
		fmt.Println(viz.Subtle.Render("wrote " + svgFile))
	}
	return nil
}

func column(states [][]float64, i int) []float64 {
	out := make([]float64, len(states))
	for r, row := range states {
		out[r] = row[i]
	}
	return out
}

func sweepModel(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Model = args[0]
	cfg.Method = method
	cfg.Duration = duration
	cfg.ReportInterval = reportInterval
	cfg.InitState.Theta = theta

	reg := experiment.NewRegistry()
	sweep := experiment.NewSweep(reg, sweepAccuracies)
	results, err := sweep.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s / %s accuracy sweep", cfg.Model, cfg.Method)))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "accuracy\tsteps\trejected\tlast step\tenergy drift\tmax residual")
	for i, res := range results {
		fmt.Fprintf(w, "%g\t%d\t%d\t%.3g\t%.3g\t%.3g\n",
			sweep.Accuracies()[i], res.Stats.StepsTaken, res.Stats.ErrorTestFailures,
			res.LastStepSize, res.MaxEnergyDrift, res.MaxResidualSeen)
	}
	return w.Flush()
}

func listMethods(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	fmt.Println("methods:")
	for _, name := range reg.ListMethods() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("models:")
	for _, name := range reg.ListModels() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
