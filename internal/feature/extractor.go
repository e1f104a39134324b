// Package feature turns raw coordinates into the model-ready feature
// mapping used by the spatial and existing-branch regressors.
package feature

import (
	"strconv"

	"github.com/hangry-labs/siteselect/internal/artifact"
	"github.com/hangry-labs/siteselect/internal/geo"
)

// Radii are the competition-scan radii in kilometers, in ascending order.
var Radii = []float64{0.5, 1.0, 2.0}

// Feature name helpers. Radius keys carry one decimal ("0.5", "1.0", "2.0")
// to match the names the models were trained with.
func radiusKey(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// CompetitorsKey returns the competitor-count feature name for a radius.
func CompetitorsKey(r float64) string {
	return "competitors_" + radiusKey(r) + "km"
}

// SameCategoryKey returns the same-category competitor-count feature name.
func SameCategoryKey(r float64) string {
	return "same_category_competitors_" + radiusKey(r) + "km"
}

// RevenueKey returns the summed competitor-revenue feature name.
func RevenueKey(r float64) string {
	return "competitor_revenue_" + radiusKey(r) + "km"
}

// IntensityKey returns the market-intensity feature name.
func IntensityKey(r float64) string {
	return "competition_intensity_" + radiusKey(r) + "km"
}

// DistKey returns the landmark-distance feature name.
func DistKey(landmark string) string {
	return "dist_to_" + landmark
}

// NearestLandmarkKey is the minimum landmark distance feature.
const NearestLandmarkKey = "dist_to_nearest_landmark"

// Extract computes the spatial feature mapping for a point and category:
// raw coordinates, distance to every landmark, the nearest-landmark
// distance, and per-radius competition features scanned over the reference
// branch table. Market intensity is revenue / (count + 1); the +1 avoids a
// zero division and biases intensity downward in sparse areas.
func Extract(b *artifact.Bundle, p geo.Point, category string) map[string]float64 {
	feats := map[string]float64{
		"latitude":  p.Lat,
		"longitude": p.Lng,
	}

	nearest := -1.0
	for _, lm := range b.Landmarks {
		d := geo.DistanceKM(p.Lat, p.Lng, lm.Lat, lm.Lng)
		feats[DistKey(lm.Name)] = d
		if nearest < 0 || d < nearest {
			nearest = d
		}
	}
	if nearest >= 0 {
		feats[NearestLandmarkKey] = nearest
	}

	normCat := Normalize(category)
	for _, radius := range Radii {
		var competitors, sameCategory float64
		var revenue float64

		for i := range b.Reference {
			br := &b.Reference[i]
			if geo.DistanceKM(p.Lat, p.Lng, br.Lat, br.Lng) > radius {
				continue
			}
			competitors++
			revenue += br.Revenue
			if Normalize(br.Category) == normCat {
				sameCategory++
			}
		}

		feats[CompetitorsKey(radius)] = competitors
		feats[SameCategoryKey(radius)] = sameCategory
		feats[RevenueKey(radius)] = revenue
		feats[IntensityKey(radius)] = revenue / (competitors + 1)
	}

	return feats
}

// Vector assembles a feature vector in the model-declared name order.
// Names absent from the mapping default to zero.
func Vector(names []string, feats map[string]float64) []float64 {
	vec := make([]float64, len(names))
	for i, name := range names {
		vec[i] = feats[name]
	}
	return vec
}
