// Package portfolio audits the existing branch portfolio against the
// existing-branch performance model.
package portfolio

import (
	"context"
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hangry-labs/siteselect/internal/artifact"
	"github.com/hangry-labs/siteselect/internal/feature"
)

// Status labels for the performance gap buckets.
const (
	StatusUnderperforming = "Underperforming"
	StatusAsExpected      = "As Expected"
	StatusOverperforming  = "Overperforming"
)

// Gap cut points: gap < -0.1 underperforming, gap > 0.1 overperforming.
const gapThreshold = 0.1

// Row is one reference branch with its model prediction attached.
type Row struct {
	Branch         artifact.Branch `json:"branch"`
	PredictedScore float64         `json:"predicted_score"`
	Gap            float64         `json:"performance_gap"`
	Status         string          `json:"status"`
}

// Summary aggregates the portfolio.
type Summary struct {
	TotalBranches   int     `json:"total_branches"`
	AvgPerformance  float64 `json:"avg_performance"`
	AvgPotential    float64 `json:"avg_potential"`
	OptimizationGap float64 `json:"optimization_gap"`
}

// GroupInsight is the per-district or per-category aggregate.
type GroupInsight struct {
	MeanScore float64 `json:"mean_score"`
	MeanGap   float64 `json:"mean_gap"`
}

// Report is the full portfolio analysis.
type Report struct {
	Summary                Summary                 `json:"portfolio_summary"`
	StatusDistribution     map[string]int          `json:"status_distribution"`
	TopPerformers          []Row                   `json:"top_performers"`
	OptimizationCandidates []Row                   `json:"optimization_candidates"`
	BestPracticeSources    []Row                   `json:"best_practice_sources"`
	DistrictInsights       map[string]GroupInsight `json:"district_insights"`
	CategoryInsights       map[string]GroupInsight `json:"category_insights"`
	Rows                   []Row                   `json:"rows"`
}

// DistrictRank is one entry of an optimal-district ranking.
type DistrictRank struct {
	District         string  `json:"district"`
	AvgPerformance   float64 `json:"avg_performance"`
	ExistingBranches int     `json:"existing_branches"`
}

// Analyzer runs the existing-branch model over the reference table.
type Analyzer struct {
	bundle  *artifact.Bundle
	encoder *feature.Encoder
}

// NewAnalyzer creates an Analyzer over a loaded bundle.
func NewAnalyzer(b *artifact.Bundle) *Analyzer {
	return &Analyzer{bundle: b, encoder: feature.NewEncoder(b)}
}

// Analyze scores every reference branch, derives gaps and status buckets,
// and aggregates by district and category. Each branch lands in exactly one
// bucket.
func (a *Analyzer) Analyze(ctx context.Context) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "portfolio: context done")
	}
	if len(a.bundle.Reference) == 0 {
		return nil, eris.New("portfolio: reference branch table is empty")
	}

	rows := make([]Row, 0, len(a.bundle.Reference))
	var sumActual, sumPredicted, sumGap float64

	for i := range a.bundle.Reference {
		br := a.bundle.Reference[i]

		vec := feature.Vector(a.bundle.ExistingFeatures, a.branchFeatures(&br))
		scaled := a.bundle.ExistingScaler.Transform(vec)
		predicted := a.bundle.ExistingModel.Predict(scaled)

		gap := br.PerformanceScore - predicted
		rows = append(rows, Row{
			Branch:         br,
			PredictedScore: round3(predicted),
			Gap:            round3(gap),
			Status:         gapStatus(gap),
		})

		sumActual += br.PerformanceScore
		sumPredicted += predicted
		sumGap += gap
	}

	n := float64(len(rows))
	report := &Report{
		Summary: Summary{
			TotalBranches:   len(rows),
			AvgPerformance:  round3(sumActual / n),
			AvgPotential:    round3(sumPredicted / n),
			OptimizationGap: round3(sumGap),
		},
		StatusDistribution:     statusDistribution(rows),
		TopPerformers:          topN(rows, 5, func(r Row) float64 { return r.Branch.PerformanceScore }),
		OptimizationCandidates: bottomN(rows, 5, func(r Row) float64 { return r.Gap }),
		BestPracticeSources:    topN(rows, 5, func(r Row) float64 { return r.Gap }),
		DistrictInsights:       groupInsights(rows, func(r Row) string { return r.Branch.District }),
		CategoryInsights:       groupInsights(rows, func(r Row) string { return r.Branch.Category }),
		Rows:                   rows,
	}

	zap.L().Info("portfolio: analysis complete",
		zap.Int("branches", len(rows)),
		zap.Float64("optimization_gap", report.Summary.OptimizationGap),
	)
	return report, nil
}

// OptimalDistricts ranks districts by mean historical performance for a
// category. When no reference branch matches the category, the ranking
// falls back to all categories and branch counts report zero.
func (a *Analyzer) OptimalDistricts(category string, n int) []DistrictRank {
	if n <= 0 {
		n = 3
	}

	normCat := feature.Normalize(category)
	matching := make([]artifact.Branch, 0, len(a.bundle.Reference))
	for _, br := range a.bundle.Reference {
		if feature.Normalize(br.Category) == normCat {
			matching = append(matching, br)
		}
	}

	pool := matching
	if len(matching) == 0 {
		pool = a.bundle.Reference
	}

	type agg struct {
		sum   float64
		count int
	}
	byDistrict := make(map[string]*agg)
	for _, br := range pool {
		g := byDistrict[br.District]
		if g == nil {
			g = &agg{}
			byDistrict[br.District] = g
		}
		g.sum += br.PerformanceScore
		g.count++
	}

	ranks := make([]DistrictRank, 0, len(byDistrict))
	for district, g := range byDistrict {
		existing := 0
		for _, br := range matching {
			if br.District == district {
				existing++
			}
		}
		ranks = append(ranks, DistrictRank{
			District:         district,
			AvgPerformance:   round3(g.sum / float64(g.count)),
			ExistingBranches: existing,
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].AvgPerformance != ranks[j].AvgPerformance {
			return ranks[i].AvgPerformance > ranks[j].AvgPerformance
		}
		return ranks[i].District < ranks[j].District
	})

	if len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

// branchFeatures builds the feature mapping for one reference branch,
// mirroring the column set the existing-branch model was trained on.
func (a *Analyzer) branchFeatures(br *artifact.Branch) map[string]float64 {
	return map[string]float64{
		"latitude":  br.Lat,
		"longitude": br.Lng,
		"revenue":   br.Revenue,
		"district":  float64(a.encoder.District(br.District)),
		"category":  float64(a.encoder.Category(br.Category)),
	}
}

// gapStatus buckets a performance gap. The boundaries belong to the middle
// bucket, so the three labels partition all branches exactly once.
func gapStatus(gap float64) string {
	switch {
	case gap < -gapThreshold:
		return StatusUnderperforming
	case gap > gapThreshold:
		return StatusOverperforming
	default:
		return StatusAsExpected
	}
}

func statusDistribution(rows []Row) map[string]int {
	dist := map[string]int{
		StatusUnderperforming: 0,
		StatusAsExpected:      0,
		StatusOverperforming:  0,
	}
	for _, r := range rows {
		dist[r.Status]++
	}
	return dist
}

// topN returns the n rows with the largest key, descending, without
// mutating the input.
func topN(rows []Row, n int, key func(Row) float64) []Row {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return key(sorted[i]) > key(sorted[j]) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// bottomN returns the n rows with the smallest key, ascending.
func bottomN(rows []Row, n int, key func(Row) float64) []Row {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return key(sorted[i]) < key(sorted[j]) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func groupInsights(rows []Row, key func(Row) string) map[string]GroupInsight {
	type agg struct {
		score float64
		gap   float64
		count int
	}
	groups := make(map[string]*agg)
	for _, r := range rows {
		k := key(r)
		g := groups[k]
		if g == nil {
			g = &agg{}
			groups[k] = g
		}
		g.score += r.Branch.PerformanceScore
		g.gap += r.Gap
		g.count++
	}

	out := make(map[string]GroupInsight, len(groups))
	for k, g := range groups {
		out[k] = GroupInsight{
			MeanScore: round3(g.score / float64(g.count)),
			MeanGap:   round3(g.gap / float64(g.count)),
		}
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
