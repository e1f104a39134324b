package report

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WriteXLSX writes an expansion report to an XLSX workbook with Summary,
// Portfolio, Opportunities, and Recommendations sheets.
func WriteXLSX(exp *Expansion, path string) error {
	f := xlsx.NewFile()

	if err := writeSummarySheet(f, exp); err != nil {
		return err
	}
	if err := writePortfolioSheet(f, exp); err != nil {
		return err
	}
	if err := writeOpportunitiesSheet(f, exp); err != nil {
		return err
	}
	if err := writeRecommendationsSheet(f, exp); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}
	return nil
}

func writeSummarySheet(f *xlsx.File, exp *Expansion) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add Summary sheet")
	}

	addPair(sheet, "Target new branches", fmt.Sprintf("%d", exp.ExecutiveSummary.TargetNewBranches))
	addPair(sheet, "Focus categories", strings.Join(exp.ExecutiveSummary.FocusCategories, ", "))
	addPair(sheet, "Recommended districts", strings.Join(exp.ExecutiveSummary.RecommendedDistricts, ", "))
	addPair(sheet, "Investment estimate", exp.ExecutiveSummary.InvestmentEstimate)
	addPair(sheet, "", "")
	addPair(sheet, "Model confidence", exp.RiskAssessment.ModelConfidence)
	addPair(sheet, "Market risk", exp.RiskAssessment.MarketRisk)
	addPair(sheet, "Competition risk", exp.RiskAssessment.CompetitionRisk)
	addPair(sheet, "Location risk", exp.RiskAssessment.LocationRisk)
	addPair(sheet, "", "")
	for i, step := range exp.NextSteps {
		addPair(sheet, fmt.Sprintf("Next step %d", i+1), step)
	}
	return nil
}

func writePortfolioSheet(f *xlsx.File, exp *Expansion) error {
	sheet, err := f.AddSheet("Portfolio")
	if err != nil {
		return eris.Wrap(err, "report: add Portfolio sheet")
	}

	perf := exp.PortfolioOptimization.CurrentPerformance
	addPair(sheet, "Total branches", fmt.Sprintf("%d", perf.TotalBranches))
	addPair(sheet, "Avg performance", fmt.Sprintf("%.3f", perf.AvgPerformance))
	addPair(sheet, "Avg potential", fmt.Sprintf("%.3f", perf.AvgPotential))
	addPair(sheet, "Optimization gap", fmt.Sprintf("%.3f", perf.OptimizationGap))
	addPair(sheet, "Optimization candidates", fmt.Sprintf("%d", exp.PortfolioOptimization.OptimizationCandidates))
	addPair(sheet, "Best practice sources", fmt.Sprintf("%d", exp.PortfolioOptimization.BestPracticeSources))
	return nil
}

func writeOpportunitiesSheet(f *xlsx.File, exp *Expansion) error {
	sheet, err := f.AddSheet("Opportunities")
	if err != nil {
		return eris.Wrap(err, "report: add Opportunities sheet")
	}

	addRow(sheet, "Category", "District", "Avg performance", "Existing branches")
	for _, opp := range exp.CategoryOpportunities {
		for _, rank := range opp.OptimalDistricts {
			addRow(sheet, opp.Category, rank.District,
				fmt.Sprintf("%.3f", rank.AvgPerformance),
				fmt.Sprintf("%d", rank.ExistingBranches))
		}
	}
	return nil
}

func writeRecommendationsSheet(f *xlsx.File, exp *Expansion) error {
	sheet, err := f.AddSheet("Recommendations")
	if err != nil {
		return eris.Wrap(err, "report: add Recommendations sheet")
	}

	addRow(sheet, "Rank", "Latitude", "Longitude", "District", "Category",
		"Score", "Level", "Recommendation")
	for i, r := range exp.LocationRecommendations {
		addRow(sheet,
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.6f", r.Location.Lat),
			fmt.Sprintf("%.6f", r.Location.Lng),
			r.Location.District,
			r.Location.Category,
			fmt.Sprintf("%.3f", r.Score),
			r.Level,
			r.Recommendation,
		)
	}
	return nil
}

func addPair(sheet *xlsx.Sheet, key, value string) {
	addRow(sheet, key, value)
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
}
