package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangry-labs/siteselect/internal/artifact"
	"github.com/hangry-labs/siteselect/internal/geo"
)

func testBundle() *artifact.Bundle {
	return &artifact.Bundle{
		Landmarks: []artifact.Landmark{
			{Name: "kemang", Lat: -6.2608, Lng: 106.8139},
			{Name: "sudirman_cbd", Lat: -6.2113, Lng: 106.8217},
			{Name: "senayan", Lat: -6.2275, Lng: 106.8020},
		},
		Districts:  []string{"Kebayoran Baru", "Setia Budi", "Pancoran"},
		Categories: []string{"Fresh Juices", "Salads and Bowls", "Coffee and Hot Beverages"},
		Reference: []artifact.Branch{
			// ~0.44km north of kemang.
			{ID: "B001", Category: "Fresh Juices", Lat: -6.2568, Lng: 106.8139, Revenue: 2e9},
			// ~1.9km from kemang.
			{ID: "B002", Category: "Salads and Bowls", Lat: -6.2608, Lng: 106.8310, Revenue: 1e9},
			// Far away (Setia Budi side).
			{ID: "B003", Category: "Fresh Juices", Lat: -6.2113, Lng: 106.8217, Revenue: 3e9},
		},
	}
}

func TestExtractLandmarkSelfDistance(t *testing.T) {
	b := testBundle()
	feats := Extract(b, geo.Point{Lat: -6.2608, Lng: 106.8139}, "Fresh Juices")

	assert.InDelta(t, 0, feats["dist_to_kemang"], 1e-6)
	assert.InDelta(t, 0, feats[NearestLandmarkKey], 1e-6)
	assert.Greater(t, feats["dist_to_sudirman_cbd"], 0.0)
	assert.Greater(t, feats["dist_to_senayan"], 0.0)
}

func TestExtractCompetitionCounts(t *testing.T) {
	b := testBundle()
	feats := Extract(b, geo.Point{Lat: -6.2608, Lng: 106.8139}, "Fresh Juices")

	// B001 only within 0.5km; B001+B002 within 2km.
	assert.InDelta(t, 1, feats["competitors_0.5km"], 1e-9)
	assert.InDelta(t, 1, feats["competitors_1.0km"], 1e-9)
	assert.InDelta(t, 2, feats["competitors_2.0km"], 1e-9)

	assert.InDelta(t, 1, feats["same_category_competitors_0.5km"], 1e-9)
	assert.InDelta(t, 1, feats["same_category_competitors_2.0km"], 1e-9)

	assert.InDelta(t, 2e9, feats["competitor_revenue_0.5km"], 1)
	assert.InDelta(t, 3e9, feats["competitor_revenue_2.0km"], 1)

	// intensity = revenue / (count + 1).
	assert.InDelta(t, 1e9, feats["competition_intensity_0.5km"], 1)
	assert.InDelta(t, 1e9, feats["competition_intensity_2.0km"], 1)
}

func TestExtractCountsMonotonicInRadius(t *testing.T) {
	b := testBundle()

	points := []geo.Point{
		{Lat: -6.2608, Lng: 106.8139},
		{Lat: -6.2113, Lng: 106.8217},
		{Lat: -6.2400, Lng: 106.8100},
		{Lat: 0, Lng: 0},
	}
	for _, p := range points {
		feats := Extract(b, p, "Fresh Juices")
		assert.LessOrEqual(t, feats["competitors_0.5km"], feats["competitors_1.0km"])
		assert.LessOrEqual(t, feats["competitors_1.0km"], feats["competitors_2.0km"])
	}
}

func TestExtractEmptyArea(t *testing.T) {
	b := testBundle()
	feats := Extract(b, geo.Point{Lat: -6.5, Lng: 107.2}, "Fresh Juices")

	assert.InDelta(t, 0, feats["competitors_0.5km"], 1e-9)
	assert.InDelta(t, 0, feats["competitor_revenue_2.0km"], 1e-9)
	// Zero revenue over (0 + 1) competitors.
	assert.InDelta(t, 0, feats["competition_intensity_1.0km"], 1e-9)
}

func TestExtractDeterministic(t *testing.T) {
	b := testBundle()
	p := geo.Point{Lat: -6.2400, Lng: 106.8100}

	first := Extract(b, p, "Fresh Juices")
	second := Extract(b, p, "Fresh Juices")
	assert.Equal(t, first, second)
}

func TestVector(t *testing.T) {
	feats := map[string]float64{"a": 1.5, "b": -2}

	vec := Vector([]string{"b", "missing", "a"}, feats)
	require.Len(t, vec, 3)
	assert.InDelta(t, -2, vec[0], 1e-9)
	assert.InDelta(t, 0, vec[1], 1e-9)
	assert.InDelta(t, 1.5, vec[2], 1e-9)
}

func TestFeatureKeys(t *testing.T) {
	assert.Equal(t, "competitors_0.5km", CompetitorsKey(0.5))
	assert.Equal(t, "competitors_1.0km", CompetitorsKey(1.0))
	assert.Equal(t, "competition_intensity_2.0km", IntensityKey(2.0))
	assert.Equal(t, "same_category_competitors_1.0km", SameCategoryKey(1.0))
	assert.Equal(t, "competitor_revenue_0.5km", RevenueKey(0.5))
	assert.Equal(t, "dist_to_kemang", DistKey("kemang"))
}

func TestEncoder(t *testing.T) {
	e := NewEncoder(testBundle())

	tests := []struct {
		name  string
		value string
		want  int
		fn    func(string) int
	}{
		{"first district", "Kebayoran Baru", 0, e.District},
		{"second district", "Setia Budi", 1, e.District},
		{"district case and space folded", "  setia budi ", 1, e.District},
		{"unknown district defaults to 0", "Menteng", 0, e.District},
		{"first category", "Fresh Juices", 0, e.Category},
		{"third category", "Coffee and Hot Beverages", 2, e.Category},
		{"unknown category defaults to 0", "Bakery", 0, e.Category},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.value))
		})
	}
}

func TestNormalize(t *testing.T) {
	// Decomposed e + combining acute vs precomposed.
	assert.Equal(t, Normalize("Cafe\u0301"), Normalize("Caf\u00e9"))
	assert.Equal(t, "kebayoran baru", Normalize("  Kebayoran Baru\t"))
}
