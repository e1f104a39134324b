package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hangry-labs/siteselect/internal/scoring"
	"github.com/hangry-labs/siteselect/internal/store"
)

var (
	scoreLat      float64
	scoreLng      float64
	scoreDistrict string
	scoreCategory string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single candidate location",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		loc := scoring.Location{
			Lat:      scoreLat,
			Lng:      scoreLng,
			District: scoreDistrict,
			Category: scoreCategory,
		}

		result, err := env.Engine.ScoreLocation(ctx, loc)
		if err != nil {
			return eris.Wrap(err, "score location")
		}

		saveRun(ctx, env.Store, store.KindScore, loc, result)

		zap.L().Info("location scored",
			zap.Float64("score", result.Score),
			zap.String("level", result.Level),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	scoreCmd.Flags().Float64Var(&scoreLat, "lat", 0, "latitude (required)")
	scoreCmd.Flags().Float64Var(&scoreLng, "lng", 0, "longitude (required)")
	scoreCmd.Flags().StringVar(&scoreDistrict, "district", "", "district name (inferred from boundaries when omitted)")
	scoreCmd.Flags().StringVar(&scoreCategory, "category", "", "restaurant category")
	_ = scoreCmd.MarkFlagRequired("lat")
	_ = scoreCmd.MarkFlagRequired("lng")
	rootCmd.AddCommand(scoreCmd)
}

// saveRun records a completed command invocation. Failures are logged and
// never fail the command.
func saveRun(ctx context.Context, st store.Store, kind string, request, result any) {
	run := &store.Run{ID: uuid.New().String(), Kind: kind}
	if request != nil {
		if data, err := json.Marshal(request); err == nil {
			run.Request = data
		}
	}
	if result != nil {
		if data, err := json.Marshal(result); err == nil {
			run.Result = data
		}
	}
	if err := st.SaveRun(ctx, run); err != nil {
		zap.L().Warn("save run failed", zap.String("kind", kind), zap.Error(err))
	}
}
