package main

import (
	"encoding/json"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hangry-labs/siteselect/internal/scoring"
	"github.com/hangry-labs/siteselect/internal/store"
)

var compareCSV string

// candidateRow is one line of a candidate CSV file.
type candidateRow struct {
	Lat      float64 `csv:"latitude"`
	Lng      float64 `csv:"longitude"`
	District string  `csv:"district,omitempty"`
	Category string  `csv:"category,omitempty"`
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Score and rank candidate locations from a CSV file",
	Long: `Reads candidate locations from a CSV with columns
latitude, longitude, district, category and prints them ranked by score.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		candidates, err := readCandidates(compareCSV)
		if err != nil {
			return err
		}
		zap.L().Info("candidates parsed",
			zap.String("csv", compareCSV),
			zap.Int("count", len(candidates)),
		)

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		results, err := env.Engine.CompareLocations(ctx, candidates)
		if err != nil {
			return eris.Wrap(err, "compare locations")
		}

		saveRun(ctx, env.Store, store.KindCompare, candidates, results)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func readCandidates(path string) ([]scoring.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read candidate csv %s", path)
	}

	var rows []candidateRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, eris.Wrap(err, "parse candidate csv")
	}
	if len(rows) == 0 {
		return nil, eris.New("candidate csv has no rows")
	}

	locations := make([]scoring.Location, 0, len(rows))
	for _, r := range rows {
		locations = append(locations, scoring.Location{
			Lat:      r.Lat,
			Lng:      r.Lng,
			District: r.District,
			Category: r.Category,
		})
	}
	return locations, nil
}

func init() {
	compareCmd.Flags().StringVar(&compareCSV, "csv", "", "path to candidate CSV (required)")
	_ = compareCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(compareCmd)
}
