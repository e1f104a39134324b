package scoring

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangry-labs/siteselect/internal/artifact"
)

// testBundle uses an identity scaler and a linear model that reads only the
// category code, so expected scores are easy to state: score = 0.05 +
// 0.1 * category_code.
func testBundle() *artifact.Bundle {
	return &artifact.Bundle{
		SpatialModel: &artifact.Linear{
			Intercept:    0.05,
			Coefficients: []float64{0, 0, 0.1},
		},
		SpatialScaler: &artifact.Scaler{
			Mean:  []float64{0, 0, 0},
			Scale: []float64{1, 1, 1},
		},
		SpatialFeatures: []string{"district", "dist_to_kemang", "category"},
		Landmarks: []artifact.Landmark{
			{Name: "kemang", Lat: -6.2608, Lng: 106.8139},
			{Name: "sudirman_cbd", Lat: -6.2113, Lng: 106.8217},
			{Name: "senayan", Lat: -6.2275, Lng: 106.8020},
		},
		Districts: []string{"Kebayoran Baru", "Setia Budi"},
		Categories: []string{
			"Fresh Juices", "Salads and Bowls",
			"Coffee and Hot Beverages", "Rice Bowls",
		},
		Reference: []artifact.Branch{
			{ID: "B001", Category: "Fresh Juices", Lat: -6.2568, Lng: 106.8139, Revenue: 2e9},
			{ID: "B002", Category: "Salads and Bowls", Lat: -6.2113, Lng: 106.8217, Revenue: 9e8},
		},
	}
}

func TestScoreLocationLevels(t *testing.T) {
	e := NewEngine(testBundle(), nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		category  string
		wantScore float64
		wantLevel string
	}{
		{"category code 0", "Fresh Juices", 0.05, LevelVeryLow},
		{"category code 1", "Salads and Bowls", 0.15, LevelLow},
		{"category code 2", "Coffee and Hot Beverages", 0.25, LevelMedium},
		{"category code 3", "Rice Bowls", 0.35, LevelHigh},
		{"unknown category encodes as 0", "Bakery", 0.05, LevelVeryLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := e.ScoreLocation(ctx, Location{
				Lat: -6.24, Lng: 106.81, District: "Setia Budi", Category: tt.category,
			})
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, r.Score, 1e-9)
			assert.Equal(t, tt.wantLevel, r.Level)
			assert.Equal(t, Recommendation(r.Score), r.Recommendation)
			assert.Equal(t, "Medium", r.Confidence)
		})
	}
}

func TestScoreLocationDeterministic(t *testing.T) {
	e := NewEngine(testBundle(), nil)
	loc := Location{Lat: -6.2400, Lng: 106.8100, District: "Setia Budi", Category: "Fresh Juices"}

	first, err := e.ScoreLocation(context.Background(), loc)
	require.NoError(t, err)
	second, err := e.ScoreLocation(context.Background(), loc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScoreLocationKeyFactors(t *testing.T) {
	e := NewEngine(testBundle(), nil)

	// Exactly at the kemang landmark: distance 0, B001 within 1km.
	r, err := e.ScoreLocation(context.Background(), Location{
		Lat: -6.2608, Lng: 106.8139, District: "Kebayoran Baru", Category: "Fresh Juices",
	})
	require.NoError(t, err)

	assert.InDelta(t, 0, r.KeyFactors.DistanceToKemangKM, 1e-9)
	assert.Equal(t, 1, r.KeyFactors.Competitors1KM)
	// 2e9 revenue over (1+1) competitors = 1e9 = 1.0 billions.
	assert.InDelta(t, 1.0, r.KeyFactors.MarketIntensityBillions, 1e-9)
	assert.Greater(t, r.KeyFactors.DistanceToCBDKM, 0.0)
}

func TestScoreLocationInvalidCoordinates(t *testing.T) {
	e := NewEngine(testBundle(), nil)

	_, err := e.ScoreLocation(context.Background(), Location{Lat: 91, Lng: 0})
	assert.Error(t, err)

	_, err = e.ScoreLocation(context.Background(), Location{Lat: 0, Lng: -181})
	assert.Error(t, err)
}

func TestLevelThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.35, LevelHigh},
		{0.3, LevelHigh},
		{0.299, LevelMedium},
		{0.2, LevelMedium},
		{0.15, LevelLow},
		{0.1, LevelLow},
		{0.099, LevelVeryLow},
		{-0.2, LevelVeryLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.score), "score %v", tt.score)
	}
}

func TestInsightsRules(t *testing.T) {
	tests := []struct {
		name  string
		feats map[string]float64
		want  []string
	}{
		{
			"all rules fire",
			map[string]float64{
				"dist_to_kemang":              1.2,
				"dist_to_sudirman_cbd":        2.5,
				"competitors_1.0km":           7,
				"competition_intensity_1.0km": 2e9,
			},
			[]string{
				"Close to trendy Kemang area",
				"Near main business district",
				"High market activity area",
				"Strong market demand indicated",
			},
		},
		{
			"no rules fire",
			map[string]float64{
				"dist_to_kemang":       5,
				"dist_to_sudirman_cbd": 8,
			},
			[]string{"Standard market conditions"},
		},
		{
			"competitor rule only",
			map[string]float64{
				"dist_to_kemang":       5,
				"dist_to_sudirman_cbd": 8,
				"competitors_1.0km":    6,
			},
			[]string{"High market activity area"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, insights(tt.feats))
		})
	}
}

func TestCompareLocationsSorted(t *testing.T) {
	e := NewEngine(testBundle(), nil)

	locs := []Location{
		{Lat: -6.24, Lng: 106.81, District: "Setia Budi", Category: "Fresh Juices"},              // 0.05
		{Lat: -6.24, Lng: 106.81, District: "Setia Budi", Category: "Rice Bowls"},                // 0.35
		{Lat: -6.24, Lng: 106.81, District: "Setia Budi", Category: "Coffee and Hot Beverages"},  // 0.25
	}

	results, err := e.CompareLocations(context.Background(), locs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, sort.SliceIsSorted(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	}))
	assert.Equal(t, "Rice Bowls", results[0].Location.Category)
	assert.Equal(t, "Fresh Juices", results[2].Location.Category)
}

func TestCompareLocationsStableTies(t *testing.T) {
	e := NewEngine(testBundle(), nil)

	// Same score for all three; distinct districts mark input order.
	locs := []Location{
		{Lat: -6.23, Lng: 106.81, District: "Kebayoran Baru", Category: "Fresh Juices"},
		{Lat: -6.24, Lng: 106.82, District: "Setia Budi", Category: "Fresh Juices"},
		{Lat: -6.25, Lng: 106.80, District: "Kebayoran Baru", Category: "Fresh Juices"},
	}

	results, err := e.CompareLocations(context.Background(), locs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.InDelta(t, results[0].Score, results[1].Score, 1e-9)
	assert.InDelta(t, -6.23, results[0].Location.Lat, 1e-9)
	assert.InDelta(t, -6.24, results[1].Location.Lat, 1e-9)
	assert.InDelta(t, -6.25, results[2].Location.Lat, 1e-9)
}

func TestCompareLocationsEmpty(t *testing.T) {
	e := NewEngine(testBundle(), nil)

	results, err := e.CompareLocations(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestCompareLocationsInvalidInput(t *testing.T) {
	e := NewEngine(testBundle(), nil)

	_, err := e.CompareLocations(context.Background(), []Location{
		{Lat: -6.24, Lng: 106.81, Category: "Fresh Juices"},
		{Lat: 123, Lng: 0},
	})
	assert.Error(t, err)
}
