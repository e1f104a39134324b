// Package report assembles the structured expansion report from portfolio
// analysis and sample location scoring.
package report

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hangry-labs/siteselect/internal/config"
	"github.com/hangry-labs/siteselect/internal/portfolio"
	"github.com/hangry-labs/siteselect/internal/scoring"
)

// DefaultFocusCategories is used when the caller passes none.
var DefaultFocusCategories = []string{
	"Fresh Juices", "Salads and Bowls", "Coffee and Hot Beverages",
}

// defaultSampleLocations are the fixed survey coordinates used when the
// config supplies none.
var defaultSampleLocations = []config.SampleLocation{
	{Lat: -6.225, Lng: 106.825, District: "Setia Budi"},
	{Lat: -6.235, Lng: 106.805, District: "Kebayoran Baru"},
	{Lat: -6.245, Lng: 106.795, District: "Kebayoran Baru"},
}

// ExecutiveSummary heads the expansion report.
type ExecutiveSummary struct {
	TargetNewBranches    int      `json:"target_new_branches"`
	FocusCategories      []string `json:"focus_categories"`
	RecommendedDistricts []string `json:"recommended_districts"`
	InvestmentEstimate   string   `json:"total_investment_estimate"`
}

// OptimizationSnapshot summarizes the portfolio section of the report.
type OptimizationSnapshot struct {
	CurrentPerformance     portfolio.Summary `json:"current_performance"`
	OptimizationCandidates int               `json:"optimization_candidates"`
	BestPracticeSources    int               `json:"best_practice_sources"`
}

// CategoryOpportunity pairs a focus category with its best districts.
type CategoryOpportunity struct {
	Category         string                   `json:"category"`
	OptimalDistricts []portfolio.DistrictRank `json:"optimal_districts"`
}

// RiskAssessment is static advisory text.
type RiskAssessment struct {
	ModelConfidence string `json:"model_confidence"`
	MarketRisk      string `json:"market_risk"`
	CompetitionRisk string `json:"competition_risk"`
	LocationRisk    string `json:"location_risk"`
}

// Expansion is the complete expansion report.
type Expansion struct {
	ExecutiveSummary        ExecutiveSummary      `json:"executive_summary"`
	PortfolioOptimization   OptimizationSnapshot  `json:"portfolio_optimization"`
	CategoryOpportunities   []CategoryOpportunity `json:"category_opportunities"`
	LocationRecommendations []scoring.Result      `json:"location_recommendations"`
	RiskAssessment          RiskAssessment        `json:"risk_assessment"`
	NextSteps               []string              `json:"next_steps"`
}

// Builder assembles expansion reports.
type Builder struct {
	engine   *scoring.Engine
	analyzer *portfolio.Analyzer
	cfg      config.ReportConfig
}

// NewBuilder creates a report Builder.
func NewBuilder(engine *scoring.Engine, analyzer *portfolio.Analyzer, cfg config.ReportConfig) *Builder {
	return &Builder{engine: engine, analyzer: analyzer, cfg: cfg}
}

// Expansion builds the full expansion report. Errors propagate like every
// other operation; the transport layer owns error shaping.
func (b *Builder) Expansion(ctx context.Context, targetBranches int, focusCategories []string) (*Expansion, error) {
	if targetBranches <= 0 {
		targetBranches = 5
	}
	if len(focusCategories) == 0 {
		focusCategories = DefaultFocusCategories
	}

	analysis, err := b.analyzer.Analyze(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "report: portfolio analysis")
	}

	opportunities := make([]CategoryOpportunity, 0, len(focusCategories))
	for _, category := range focusCategories {
		opportunities = append(opportunities, CategoryOpportunity{
			Category:         category,
			OptimalDistricts: b.analyzer.OptimalDistricts(category, 2),
		})
	}

	candidates := b.sampleCandidates(targetBranches, focusCategories)
	scores, err := b.engine.CompareLocations(ctx, candidates)
	if err != nil {
		return nil, eris.Wrap(err, "report: score sample locations")
	}

	exp := &Expansion{
		ExecutiveSummary: ExecutiveSummary{
			TargetNewBranches:    targetBranches,
			FocusCategories:      focusCategories,
			RecommendedDistricts: recommendedDistricts(b.samples()),
			InvestmentEstimate: fmt.Sprintf("%dM - %dM IDR",
				targetBranches*b.cfg.InvestmentLowM, targetBranches*b.cfg.InvestmentHighM),
		},
		PortfolioOptimization: OptimizationSnapshot{
			CurrentPerformance:     analysis.Summary,
			OptimizationCandidates: len(analysis.OptimizationCandidates),
			BestPracticeSources:    len(analysis.BestPracticeSources),
		},
		CategoryOpportunities:   opportunities,
		LocationRecommendations: scores,
		RiskAssessment: RiskAssessment{
			ModelConfidence: "Medium",
			MarketRisk:      "Low-Medium",
			CompetitionRisk: "Medium",
			LocationRisk:    "Medium - validate with market research",
		},
		NextSteps: []string{
			"Validate top locations with field research",
			"Analyze foot traffic patterns",
			"Study local competition details",
			"Optimize underperforming existing branches",
		},
	}

	zap.L().Info("report: expansion report assembled",
		zap.Int("target_branches", targetBranches),
		zap.Strings("focus_categories", focusCategories),
		zap.Int("recommendations", len(exp.LocationRecommendations)),
	)
	return exp, nil
}

// samples returns the configured sample coordinates, or the built-in
// defaults.
func (b *Builder) samples() []config.SampleLocation {
	if len(b.cfg.SampleLocations) > 0 {
		return b.cfg.SampleLocations
	}
	return defaultSampleLocations
}

// sampleCandidates cycles the focus categories across the sample
// coordinates and sizes the list to targetBranches: truncated when fewer
// are requested, extended by cycling coordinates when more are.
func (b *Builder) sampleCandidates(targetBranches int, focusCategories []string) []scoring.Location {
	samples := b.samples()

	out := make([]scoring.Location, 0, targetBranches)
	for i := 0; i < targetBranches; i++ {
		s := samples[i%len(samples)]
		out = append(out, scoring.Location{
			Lat:      s.Lat,
			Lng:      s.Lng,
			District: s.District,
			Category: focusCategories[i%len(focusCategories)],
		})
	}
	return out
}

// recommendedDistricts lists the distinct sample districts in first-seen
// order.
func recommendedDistricts(samples []config.SampleLocation) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range samples {
		if s.District == "" || seen[s.District] {
			continue
		}
		seen[s.District] = true
		out = append(out, s.District)
	}
	return out
}
