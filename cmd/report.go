package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hangry-labs/siteselect/internal/report"
	"github.com/hangry-labs/siteselect/internal/store"
)

var (
	reportTarget     int
	reportCategories []string
	reportXLSX       string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate an expansion report",
	Long: `Assembles the full expansion report: portfolio snapshot, per-category
district opportunities, and ranked sample location recommendations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		exp, err := env.Builder.Expansion(ctx, reportTarget, reportCategories)
		if err != nil {
			return eris.Wrap(err, "build expansion report")
		}

		saveRun(ctx, env.Store, store.KindReport, map[string]any{
			"target_branches":  reportTarget,
			"focus_categories": reportCategories,
		}, exp)

		if reportXLSX != "" {
			if err := report.WriteXLSX(exp, reportXLSX); err != nil {
				return eris.Wrap(err, "write xlsx report")
			}
			zap.L().Info("xlsx report written", zap.String("path", reportXLSX))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(exp)
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportTarget, "target", 5, "target number of new branches")
	reportCmd.Flags().StringSliceVar(&reportCategories, "categories", nil, "focus categories (defaults to the standard focus set)")
	reportCmd.Flags().StringVar(&reportXLSX, "xlsx", "", "also write the report as an xlsx workbook to this path")
	rootCmd.AddCommand(reportCmd)
}
