package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/hangry-labs/siteselect/internal/portfolio"
	"github.com/hangry-labs/siteselect/internal/store"
)

var portfolioFormat string

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Analyze existing branch performance against model predictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		analysis, err := env.Analyzer.Analyze(ctx)
		if err != nil {
			return eris.Wrap(err, "analyze portfolio")
		}

		saveRun(ctx, env.Store, store.KindPortfolio, nil, analysis)

		if portfolioFormat == "table" {
			formatPortfolio(os.Stdout, analysis)
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	},
}

func init() {
	portfolioCmd.Flags().StringVar(&portfolioFormat, "format", "json", "output format: json or table")
	rootCmd.AddCommand(portfolioCmd)
}

// formatPortfolio writes a tabular portfolio summary to w.
func formatPortfolio(out io.Writer, analysis *portfolio.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total branches:\t%d\n", analysis.Summary.TotalBranches)
	_, _ = fmt.Fprintf(w, "Avg performance:\t%.3f\n", analysis.Summary.AvgPerformance)
	_, _ = fmt.Fprintf(w, "Avg potential:\t%.3f\n", analysis.Summary.AvgPotential)
	_, _ = fmt.Fprintf(w, "Optimization gap:\t%.3f\n", analysis.Summary.OptimizationGap)
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "BRANCH\tDISTRICT\tCATEGORY\tACTUAL\tPREDICTED\tGAP\tSTATUS")
	_, _ = fmt.Fprintln(w, "------\t--------\t--------\t------\t---------\t---\t------")
	for _, r := range analysis.Rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.3f\t%+.3f\t%s\n",
			r.Branch.Name,
			r.Branch.District,
			r.Branch.Category,
			r.Branch.PerformanceScore,
			r.PredictedScore,
			r.Gap,
			r.Status,
		)
	}
	_ = w.Flush()
}
