package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var (
	districtsCategory string
	districtsN        int
)

var districtsCmd = &cobra.Command{
	Use:   "districts",
	Short: "Rank districts by historical performance for a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		ranks := env.Analyzer.OptimalDistricts(districtsCategory, districtsN)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ranks)
	},
}

func init() {
	districtsCmd.Flags().StringVar(&districtsCategory, "category", "", "restaurant category (all when omitted)")
	districtsCmd.Flags().IntVar(&districtsN, "n", 3, "number of districts to return")
	rootCmd.AddCommand(districtsCmd)
}
