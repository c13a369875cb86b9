package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rn518panel/internal/config"
	"rn518panel/internal/dataset"
	"rn518panel/internal/exporter"
	"rn518panel/internal/indicators"
	"rn518panel/internal/services"
	"rn518panel/pkg/contracts"
)

type reportOptions struct {
	configPath  string
	datasetPath string
	flaggedPath string
	verbose     bool

	years       []string
	quarters    []string
	modalities  []string
	sizes       []string
	entities    []string
	flaggedOnly bool
}

func (o *reportOptions) filter() indicators.FilterSpec {
	return indicators.FilterSpec{
		Years:             indicators.ParseInts(o.years),
		Quarters:          indicators.ParseInts(o.quarters),
		Modalities:        indicators.ParseStrings(o.modalities),
		SizeClasses:       indicators.ParseStrings(o.sizes),
		EntityIDs:         indicators.ParseStrings(o.entities),
		RestrictToFlagged: o.flaggedOnly,
	}
}

func (o *reportOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// panel loads the dataset named by flags or config into a panel service
func (o *reportOptions) panel(ctx context.Context, cmd *cobra.Command) (*services.PanelService, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, err
	}
	datasetPath := paths.DatasetFile
	if o.datasetPath != "" {
		datasetPath = o.datasetPath
	}
	flaggedPath := paths.FlaggedFile
	if o.flaggedPath != "" {
		flaggedPath = o.flaggedPath
	}

	logger := o.logger(cmd)
	opts := []dataset.Option{dataset.WithLogger(logger)}
	if cfg.Data.Sheet != "" {
		opts = append(opts, dataset.WithSheet(cfg.Data.Sheet))
	}
	if flaggedPath != "" {
		opts = append(opts, dataset.WithFlaggedList(flaggedPath))
	}

	svc := services.NewPanelService(dataset.NewLoader(opts...), datasetPath, services.WithPanelLogger(logger))
	if _, err := svc.Reload(ctx); err != nil {
		svc.Close()
		return nil, err
	}
	return svc, nil
}

func newRootCmd() *cobra.Command {
	opts := &reportOptions{}

	root := &cobra.Command{
		Use:           "panel-report",
		Short:         "Offline reports over an RN 518 indicator dataset",
		Version:       contracts.GetVersionString(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (YAML or TOML)")
	pf.StringVar(&opts.datasetPath, "dataset", "", "dataset file, overrides the configured path")
	pf.StringVar(&opts.flaggedPath, "flagged", "", "flagged entity list, overrides the configured path")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log loader diagnostics")
	pf.StringSliceVar(&opts.years, "year", nil, "filter by year")
	pf.StringSliceVar(&opts.quarters, "quarter", nil, "filter by quarter (1-4)")
	pf.StringSliceVar(&opts.modalities, "modality", nil, "filter by modality")
	pf.StringSliceVar(&opts.sizes, "size", nil, "filter by size class")
	pf.StringSliceVar(&opts.entities, "entity", nil, "filter by entity registration id")
	pf.BoolVar(&opts.flaggedOnly, "flagged-only", false, "restrict to flagged entities")

	root.AddCommand(newExportCmd(opts), newRankingCmd(opts), newClassifyCmd())
	return root
}

func newExportCmd(opts *reportOptions) *cobra.Command {
	var (
		formatName string
		outDir     string
		focus      string
		noBOM      bool
	)

	cmd := &cobra.Command{
		Use:   "export VIEW",
		Short: "Write a view (indicators, components, status, ranking, comparison, financial) to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := exporter.ParseView(args[0])
			if err != nil {
				return err
			}
			format, err := exporter.ParseFormat(formatName)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, err := opts.panel(ctx, cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			table, err := svc.Export(ctx, view, services.ViewRequest{Filter: opts.filter(), Entity: focus})
			if err != nil {
				return err
			}

			writer := exporter.NewCSVWriter(outDir)
			if noBOM {
				writer.WithoutBOM()
			}
			path, err := writer.WriteTable(table, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", string(exporter.FormatCSV), "output format: csv or xlsx")
	cmd.Flags().StringVarP(&outDir, "out", "o", config.DefaultExportDir, "output directory")
	cmd.Flags().StringVar(&focus, "focus", "", "entity for comparison and financial views")
	cmd.Flags().BoolVar(&noBOM, "no-bom", false, "omit the UTF-8 byte order mark from CSV output")
	return cmd
}

func newRankingCmd(opts *reportOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Print the latest-period ranking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := opts.panel(ctx, cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			ranking, err := svc.Ranking(ctx, opts.filter())
			if err != nil {
				return err
			}
			return printRanking(cmd.OutOrStdout(), ranking, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most n rows (0 for all)")
	return cmd
}

func printRanking(out io.Writer, ranking indicators.RankingTable, limit int) error {
	if ranking.State != indicators.StateReady {
		_, err := fmt.Fprintln(out, ranking.Message)
		return err
	}

	fmt.Fprintf(out, "%s (%s)\n", ranking.Title, ranking.Period.Label())
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROE RANK\tLOSS RANK\tENTITY\tMODALITY\tSIZE\tLOSS RATIO\tROE\tLIQUIDITY")
	for i, row := range ranking.Rows {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rankText(row.ProfitabilityRank), rankText(row.LossRatioRank),
			row.EntityName, row.Modality, row.SizeClass,
			row.LossRatioText, row.ReturnOnEquityText, row.CurrentLiquidityText)
	}
	return tw.Flush()
}

func rankText(r int) string {
	if r == 0 {
		return indicators.Placeholder
	}
	return fmt.Sprintf("%d", r)
}

func newClassifyCmd() *cobra.Command {
	var thresholds bool

	cmd := &cobra.Command{
		Use:   "classify FIELD VALUE",
		Short: "Print the status label of an indicator value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ind, ok := indicators.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown indicator %q", args[0])
			}
			out := cmd.OutOrStdout()
			v := dataset.ParseNumber(args[1])
			label := indicators.Classify(ind.Field, v)
			if _, err := fmt.Fprintf(out, "%s: %s %s\n", ind.Name, indicators.FormatMetric(v, ind.Kind), label); err != nil {
				return err
			}
			if !thresholds {
				return nil
			}
			ladder, ok := indicators.LadderFor(ind.Field)
			if !ok {
				return nil
			}
			return printLadder(out, ladder, ind.Kind)
		},
	}
	cmd.Flags().BoolVar(&thresholds, "thresholds", false, "also print the classification thresholds")
	return cmd
}

func printLadder(out io.Writer, ladder indicators.Ladder, kind indicators.Kind) error {
	op := "<="
	if ladder.Direction == indicators.HigherIsBetter {
		op = ">="
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, rung := range ladder.Rungs {
		fmt.Fprintf(tw, "  %s %s\t%s\n", op, indicators.FormatMetric(indicators.Some(rung.Bound), kind), rung.Label)
	}
	fmt.Fprintf(tw, "  otherwise\t%s\n", ladder.Otherwise)
	return tw.Flush()
}
