package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gowoa/adapters/export"
	"gowoa/app"
	"gowoa/internal"
	"gowoa/internal/config"
	"gowoa/internal/container"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliApp holds what every subcommand needs, built once per invocation.
type cliApp struct {
	*container.Container
}

func newRootCmd() *cobra.Command {
	var output string
	a := &cliApp{}

	rootCmd := &cobra.Command{
		Use:           "gowoa",
		Short:         "Mammogram classification and WOA/EWOA benchmarking from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutput(output); err != nil {
				return err
			}
			_ = godotenv.Load()
			return a.init()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format: json, table, markdown or html")

	rootCmd.AddCommand(
		newPredictCmd(a, &output),
		newCompareCmd(a, &output),
		newBenchCmd(a, &output),
		newFormatCmd(a, &output),
		newExportCmd(a),
	)
	return rootCmd
}

func (a *cliApp) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c, err := container.New(cfg, internal.NewDefaultLogger())
	if err != nil {
		return err
	}
	a.Container = c
	return nil
}

func newPredictCmd(a *cliApp, output *string) *cobra.Command {
	var image, model string

	cmd := &cobra.Command{
		Use:   "predict --image PATH",
		Short: "Classify one image with the configured model",
		Long: `Run the prediction entry points on an image and derive the ratio-rule decision.

Example: gowoa predict --image data/mdb001.pgm --output markdown`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.Prediction.Predict(cmd.Context(), app.PredictionRequest{ImagePath: image, ModelPath: model})
			if err != nil {
				return describe(err)
			}
			return render(cmd.OutOrStdout(), *output, rep, rep.Document())
		},
	}
	cmd.Flags().StringVar(&image, "image", "", "Image file to classify")
	cmd.Flags().StringVar(&model, "model", "", "Model file (default: first existing configured candidate)")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func newCompareCmd(a *cliApp, output *string) *cobra.Command {
	var image string

	cmd := &cobra.Command{
		Use:   "compare --image PATH",
		Short: "Compare the WOA and EWOA models on one image",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.Comparison.Compare(cmd.Context(), app.ComparisonRequest{ImagePath: image})
			if err != nil {
				return describe(err)
			}
			return render(cmd.OutOrStdout(), *output, rep, rep.Document())
		},
	}
	cmd.Flags().StringVar(&image, "image", "", "Image file to compare on; its base name is matched against the ground truth")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func newBenchCmd(a *cliApp, output *string) *cobra.Command {
	var o app.BenchmarkOverrides
	var functions string
	var seed int64

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the WOA vs EWOA optimizer benchmark",
		Long: `Run the optimizer on benchmark functions, recompute run blocks and the
Wilcoxon signed-rank test from the raw runs.

Example: gowoa bench --functions rosenbrock,griewank --runs 30 --seed 12345`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if functions != "" {
				o.Functions = strings.Split(functions, ",")
			}
			if cmd.Flags().Changed("seed") {
				o.Seed = &seed
			}
			rep, err := a.Benchmark.Run(cmd.Context(), o)
			if err != nil {
				return describe(err)
			}
			return render(cmd.OutOrStdout(), *output, rep, rep.Document())
		},
	}
	cmd.Flags().StringVar(&functions, "functions", "", "Comma-separated objective functions (default from BENCH_FUNCTIONS)")
	cmd.Flags().StringVar(&o.Algorithm, "algo", "", "woa, ewoa or both")
	cmd.Flags().IntVar(&o.Population, "pop", 0, "Population size")
	cmd.Flags().IntVar(&o.Iterations, "iters", 0, "Iterations per run")
	cmd.Flags().IntVar(&o.Runs, "runs", 0, "Independent runs")
	cmd.Flags().IntVar(&o.Dimension, "dim", 0, "Problem dimension")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (default: fresh seed per run)")
	cmd.Flags().IntVar(&o.BlockSize, "block-size", 0, "Runs per summary block")
	return cmd
}

func newFormatCmd(a *cliApp, output *string) *cobra.Command {
	var kind, in, functions string
	var blockSize int

	cmd := &cobra.Command{
		Use:   "format --kind KIND [--in FILE]",
		Short: "Re-render a saved tool document without running anything",
		Long: `Read a prediction, comparison or benchmark document (or a report previously
printed with --output json) and render it again. Reads stdin when --in is "-" or empty.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(cmd, kind, in, functions, blockSize)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), *output, doc, doc)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "prediction, comparison or benchmark")
	cmd.Flags().StringVar(&in, "in", "-", "Input JSON file")
	cmd.Flags().StringVar(&functions, "functions", "", "Benchmark functions to include (default: all)")
	cmd.Flags().IntVar(&blockSize, "block-size", 0, "Runs per summary block")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newExportCmd(a *cliApp) *cobra.Command {
	var kind, in, out, functions string
	var blockSize int

	cmd := &cobra.Command{
		Use:   "export --kind KIND --out FILE",
		Short: "Write a saved tool document as CSV or XLSX",
		Long: `Flatten a saved document into Category, Parameter, Value rows. The format
follows the --out extension: .xlsx writes a workbook, anything else CSV.

Example: gowoa export --kind benchmark --in bench.json --out bench.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(cmd, kind, in, functions, blockSize)
			if err != nil {
				return err
			}
			if err := export.WriteFile(out, string(doc.Kind), doc.Rows); err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(doc.Rows), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "prediction, comparison or benchmark")
	cmd.Flags().StringVar(&in, "in", "-", "Input JSON file")
	cmd.Flags().StringVar(&out, "out", "", "Output file (.csv or .xlsx)")
	cmd.Flags().StringVar(&functions, "functions", "", "Benchmark functions to include (default: all)")
	cmd.Flags().IntVar(&blockSize, "block-size", 0, "Runs per summary block")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
