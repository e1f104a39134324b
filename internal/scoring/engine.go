// Package scoring implements the spatial scoring engine for candidate
// restaurant locations.
package scoring

import (
	"context"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hangry-labs/siteselect/internal/artifact"
	"github.com/hangry-labs/siteselect/internal/feature"
	"github.com/hangry-labs/siteselect/internal/geo"
)

// Landmark names referenced by key factors and insight rules. These are
// fixed for the Jakarta Selatan deployment and must match the metadata
// landmark table.
const (
	landmarkKemang  = "kemang"
	landmarkCBD     = "sudirman_cbd"
	landmarkSenayan = "senayan"
)

// Qualitative score levels.
const (
	LevelHigh    = "High"
	LevelMedium  = "Medium"
	LevelLow     = "Low"
	LevelVeryLow = "Very Low"
)

// Location is a user-supplied candidate location.
type Location struct {
	Lat      float64 `json:"latitude"`
	Lng      float64 `json:"longitude"`
	District string  `json:"district"`
	Category string  `json:"category"`
}

// KeyFactors surfaces the features that drive the score for reporting.
type KeyFactors struct {
	DistanceToKemangKM      float64 `json:"distance_to_kemang_km"`
	DistanceToCBDKM         float64 `json:"distance_to_cbd_km"`
	DistanceToSenayanKM     float64 `json:"distance_to_senayan_km"`
	Competitors1KM          int     `json:"competitors_1km"`
	MarketIntensityBillions float64 `json:"market_intensity_billions"`
}

// Result is the scoring outcome for one location.
type Result struct {
	Location       Location   `json:"location"`
	Score          float64    `json:"score"`
	Level          string     `json:"level"`
	Confidence     string     `json:"confidence"`
	Recommendation string     `json:"recommendation"`
	KeyFactors     KeyFactors `json:"key_factors"`
	Insights       []string   `json:"insights"`
}

// Engine scores candidate locations against the spatial model.
type Engine struct {
	bundle     *artifact.Bundle
	encoder    *feature.Encoder
	boundaries *geo.Boundaries

	// CompareConcurrency bounds parallel scoring in CompareLocations.
	CompareConcurrency int
}

// NewEngine creates an Engine over a loaded bundle. boundaries may be nil;
// when present, locations with an empty district are resolved by
// point-in-polygon lookup.
func NewEngine(b *artifact.Bundle, boundaries *geo.Boundaries) *Engine {
	return &Engine{
		bundle:             b,
		encoder:            feature.NewEncoder(b),
		boundaries:         boundaries,
		CompareConcurrency: 4,
	}
}

// ScoreLocation scores a single candidate location. The pipeline is
// deterministic: identical inputs against the same bundle yield identical
// results.
func (e *Engine) ScoreLocation(ctx context.Context, loc Location) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "scoring: context done")
	}
	if err := validateLocation(loc); err != nil {
		return nil, err
	}

	if loc.District == "" {
		if district, ok := e.boundaries.DistrictOf(geo.Point{Lat: loc.Lat, Lng: loc.Lng}); ok {
			loc.District = district
		}
	}

	feats := feature.Extract(e.bundle, geo.Point{Lat: loc.Lat, Lng: loc.Lng}, loc.Category)
	feats["district"] = float64(e.encoder.District(loc.District))
	feats["category"] = float64(e.encoder.Category(loc.Category))

	vec := feature.Vector(e.bundle.SpatialFeatures, feats)
	scaled := e.bundle.SpatialScaler.Transform(vec)
	score := round3(e.bundle.SpatialModel.Predict(scaled))

	result := &Result{
		Location:       loc,
		Score:          score,
		Level:          Level(score),
		Confidence:     "Medium",
		Recommendation: Recommendation(score),
		KeyFactors: KeyFactors{
			DistanceToKemangKM:      round2(feats[feature.DistKey(landmarkKemang)]),
			DistanceToCBDKM:         round2(feats[feature.DistKey(landmarkCBD)]),
			DistanceToSenayanKM:     round2(feats[feature.DistKey(landmarkSenayan)]),
			Competitors1KM:          int(feats[feature.CompetitorsKey(1.0)]),
			MarketIntensityBillions: round2(feats[feature.IntensityKey(1.0)] / 1e9),
		},
		Insights: insights(feats),
	}

	zap.L().Debug("scoring: location scored",
		zap.Float64("lat", loc.Lat),
		zap.Float64("lng", loc.Lng),
		zap.String("district", loc.District),
		zap.String("category", loc.Category),
		zap.Float64("score", score),
		zap.String("level", result.Level),
	)
	return result, nil
}

// Level maps a score onto its qualitative level.
func Level(score float64) string {
	switch {
	case score >= 0.3:
		return LevelHigh
	case score >= 0.2:
		return LevelMedium
	case score >= 0.1:
		return LevelLow
	default:
		return LevelVeryLow
	}
}

// Recommendation maps a score onto the business recommendation text.
func Recommendation(score float64) string {
	switch {
	case score >= 0.3:
		return "RECOMMENDED: Good potential location"
	case score >= 0.2:
		return "CONSIDER: Moderate potential, validate with research"
	case score >= 0.1:
		return "CAUTION: Low potential, consider alternatives"
	default:
		return "NOT RECOMMENDED: Very low potential"
	}
}

// insights applies the fixed additive rule list. Rules are mutually
// distinguishable, so no dedup is needed; order is preserved.
func insights(feats map[string]float64) []string {
	var out []string
	if feats[feature.DistKey(landmarkKemang)] < 2 {
		out = append(out, "Close to trendy Kemang area")
	}
	if feats[feature.DistKey(landmarkCBD)] < 3 {
		out = append(out, "Near main business district")
	}
	if feats[feature.CompetitorsKey(1.0)] > 5 {
		out = append(out, "High market activity area")
	}
	if feats[feature.IntensityKey(1.0)] > 1e9 {
		out = append(out, "Strong market demand indicated")
	}
	if len(out) == 0 {
		out = append(out, "Standard market conditions")
	}
	return out
}

// validateLocation rejects coordinates outside WGS84 bounds. District and
// category are soft inputs; the encoder handles unknown values.
func validateLocation(loc Location) error {
	if loc.Lat < -90 || loc.Lat > 90 {
		return eris.Errorf("scoring: latitude %.4f out of range", loc.Lat)
	}
	if loc.Lng < -180 || loc.Lng > 180 {
		return eris.Errorf("scoring: longitude %.4f out of range", loc.Lng)
	}
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
