package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/Mattkaye3/sjstats/adapters/brmsfile"
	"github.com/Mattkaye3/sjstats/adapters/postgres"
	"github.com/Mattkaye3/sjstats/app"
	"github.com/Mattkaye3/sjstats/domain/survey"
	"github.com/Mattkaye3/sjstats/internal/report"
	"github.com/Mattkaye3/sjstats/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sjstats",
		Short: "Mediation analysis and survey design tools for stored Bayesian models",
	}

	rootCmd.AddCommand(
		newMediateCmd(),
		newSummaryCmd(),
		newDesignEffectCmd(),
		newSampleSizeCmd(),
		newRescaleWeightsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type mediateOptions struct {
	treatment string
	mediator  string
	masses    []float64
	typical   string
	format    string
	digits    int
	persist   bool
}

func newMediateCmd() *cobra.Command {
	var opts mediateOptions

	cmd := &cobra.Command{
		Use:   "mediate [model-dir]",
		Short: "Estimate mediation effects from a stored multivariate model",
		Long: `Estimate direct, indirect and total treatment effects from a stored
fitted model directory (manifest.yaml plus a posterior draw matrix).

Treatment and mediator are detected from the model's equation structure
when not given explicitly.

Example: sjstats mediate ./models/jobs --mass 0.9 --format text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMediate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.treatment, "treatment", "", "Treatment variable (defaults to auto-detection)")
	cmd.Flags().StringVar(&opts.mediator, "mediator", "", "Mediator variable (defaults to auto-detection)")
	cmd.Flags().Float64SliceVar(&opts.masses, "mass", nil, "Interval mass, first value wins (default 0.9)")
	cmd.Flags().StringVar(&opts.typical, "typical", "", "Point summary: median|mean (default median)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text|markdown|json")
	cmd.Flags().IntVar(&opts.digits, "digits", 2, "Decimal places in text and markdown output")
	cmd.Flags().BoolVar(&opts.persist, "persist", false, "Store the result (requires DATABASE_URL)")

	return cmd
}

func runMediate(ctx context.Context, dir string, opts mediateOptions) error {
	fitted, err := brmsfile.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}

	var repo ports.AnalysisRepository
	if opts.persist {
		url := os.Getenv("DATABASE_URL")
		if url == "" {
			return fmt.Errorf("persisting requires DATABASE_URL")
		}
		db, err := sqlx.Connect("postgres", url)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		repo = postgres.NewAnalysisRepository(db)
	}

	svc := app.NewMediationService(repo)
	resp, err := svc.RunMediation(ctx, fitted, app.MediationRequest{
		ModelName:      fitted.Name(),
		Treatment:      opts.treatment,
		Mediator:       opts.mediator,
		IntervalMasses: opts.masses,
		Typical:        opts.typical,
		SourceHash:     fitted.SourceHash().String(),
		Persist:        opts.persist,
	})
	if err != nil {
		return err
	}

	switch opts.format {
	case "json":
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "markdown":
		fmt.Print(report.NewRenderer(report.Config{Digits: opts.digits}).Markdown(&resp.Result))
	case "text":
		fmt.Print(report.NewRenderer(report.Config{Digits: opts.digits}).Text(&resp.Result))
	default:
		return fmt.Errorf("invalid format: %s (expected text|markdown|json)", opts.format)
	}

	if resp.AnalysisID != nil {
		fmt.Printf("\nStored as analysis %s\n", resp.AnalysisID)
	}
	return nil
}

func newSummaryCmd() *cobra.Command {
	var mass float64
	var typical string
	var digits int

	cmd := &cobra.Command{
		Use:   "summary [model-dir]",
		Short: "Summarize every coefficient posterior of a stored model",
		Long: `Print a typical value, a highest-density interval and the probability
of direction for every coefficient in the model's draw matrix.

Example: sjstats summary ./models/jobs --mass 0.95 --typical mean`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd.Context(), args[0], mass, typical, digits)
		},
	}

	cmd.Flags().Float64Var(&mass, "mass", 0, "Interval mass (default 0.9)")
	cmd.Flags().StringVar(&typical, "typical", "", "Point summary: median|mean (default median)")
	cmd.Flags().IntVar(&digits, "digits", 3, "Decimal places")

	return cmd
}

func runSummary(ctx context.Context, dir string, mass float64, typical string, digits int) error {
	fitted, err := brmsfile.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}

	rows, err := app.NewSummaryService().RunSummary(ctx, fitted, app.SummaryRequest{
		IntervalMass: mass,
		Typical:      typical,
	})
	if err != nil {
		return err
	}

	keyWidth := len("Coefficient")
	for _, row := range rows {
		if len(row.Key) > keyWidth {
			keyWidth = len(row.Key)
		}
	}

	fmt.Printf("%-*s  %12s  %12s  %12s  %6s\n", keyWidth, "Coefficient", "Estimate", "Low", "High", "pd")
	for _, row := range rows {
		fmt.Printf("%-*s  %12.*f  %12.*f  %12.*f  %6.3f\n",
			keyWidth, row.Key, digits, row.Estimate, digits, row.Low, digits, row.High, row.PD)
	}
	return nil
}

func newDesignEffectCmd() *cobra.Command {
	var size, icc float64

	cmd := &cobra.Command{
		Use:   "design-effect",
		Short: "Compute the design effect of a clustered sample",
		Long: `Compute the variance inflation (Kish design effect) caused by
cluster sampling.

Example: sjstats design-effect --size 25 --icc 0.05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deff, err := survey.DesignEffect(size, icc)
			if err != nil {
				return err
			}
			fmt.Printf("Design effect: %.3f\n", deff)
			fmt.Printf("(average cluster size %g, ICC %g)\n", size, icc)
			return nil
		},
	}

	cmd.Flags().Float64Var(&size, "size", 0, "Average cluster size")
	cmd.Flags().Float64Var(&icc, "icc", survey.DefaultICC, "Intraclass correlation coefficient")

	return cmd
}

func newSampleSizeCmd() *cobra.Command {
	var req survey.SampleSizeRequest

	cmd := &cobra.Command{
		Use:   "samplesize",
		Short: "Compute the required sample size for a clustered two-group study",
		Long: `Compute the total number of subjects needed to detect a standardized
effect in a two-group comparison, inflated by the cluster design effect.

Example: sjstats samplesize --effect 0.5 --clusters 30 --size 25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			est, err := survey.SampleSize(req)
			if err != nil {
				return err
			}
			fmt.Printf("Total sample size:    %d\n", est.TotalN)
			fmt.Printf("Subjects per cluster: %d\n", est.SubjectsPerCluster)
			fmt.Printf("Design effect:        %.3f\n", est.DesignEffect)
			return nil
		},
	}

	cmd.Flags().Float64Var(&req.EffectSize, "effect", 0, "Standardized effect size to detect")
	cmd.Flags().Float64Var(&req.Power, "power", survey.DefaultPower, "Statistical power")
	cmd.Flags().Float64Var(&req.SigLevel, "sig-level", survey.DefaultSigLevel, "Two-sided significance level")
	cmd.Flags().IntVar(&req.Clusters, "clusters", 1, "Number of clusters")
	cmd.Flags().Float64Var(&req.AvgClusterSize, "size", 0, "Average cluster size")
	cmd.Flags().Float64Var(&req.ICC, "icc", survey.DefaultICC, "Intraclass correlation coefficient")
	cmd.Flags().IntVar(&req.DF, "df", 0, "Degrees of freedom for t-quantiles (0 uses the normal)")

	return cmd
}

func newRescaleWeightsCmd() *cobra.Command {
	var group, weights, output string

	cmd := &cobra.Command{
		Use:   "rescale-weights [data-file]",
		Short: "Rescale design weights for multilevel analysis",
		Long: `Append the two Carle rescaling factors (pweights_a, pweights_b) for
design weights in multilevel models to a CSV or XLSX data file and write
the result as CSV.

Example: sjstats rescale-weights survey.csv --group district --weights pweight -o rescaled.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRescaleWeights(args[0], group, weights, output)
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "Cluster identifier column")
	cmd.Flags().StringVar(&weights, "weights", "", "Design weight column")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV path (default stdout)")

	return cmd
}

func runRescaleWeights(path, group, weights, output string) error {
	if group == "" || weights == "" {
		return fmt.Errorf("both --group and --weights are required")
	}

	table, err := brmsfile.NewDataReader(path).ReadTable()
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	frame, err := brmsfile.BuildFrame(table, nil)
	if err != nil {
		return err
	}

	rescaled, err := survey.RescaleWeights(frame, group, weights)
	if err != nil {
		return err
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write(rescaled.Names()); err != nil {
		return err
	}
	for i := 0; i < rescaled.Rows(); i++ {
		row := make([]string, len(rescaled.Columns))
		for j := range rescaled.Columns {
			row[j] = rescaled.Columns[j].Values[i]
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if output != "" {
		fmt.Printf("Wrote %d rows with %s and %s to %s\n",
			rescaled.Rows(), survey.ColumnWeightsA, survey.ColumnWeightsB, output)
	}
	return nil
}
