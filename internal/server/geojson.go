package server

import (
	"net/http"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// handleLandmarksGeoJSON serves the bundle landmarks as a GeoJSON
// FeatureCollection for the dashboard map layer.
func (s *Server) handleLandmarksGeoJSON(w http.ResponseWriter, r *http.Request) {
	fc := &geojson.FeatureCollection{}
	for _, lm := range s.bundle.Landmarks {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       lm.Name,
			Geometry: geom.NewPointFlat(geom.XY, []float64{lm.Lng, lm.Lat}),
			Properties: map[string]any{
				"name": lm.Name,
			},
		})
	}
	respondJSON(w, http.StatusOK, fc)
}

// handleBranchesGeoJSON serves the reference branch table as GeoJSON.
func (s *Server) handleBranchesGeoJSON(w http.ResponseWriter, r *http.Request) {
	fc := &geojson.FeatureCollection{}
	for i := range s.bundle.Reference {
		br := &s.bundle.Reference[i]
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       br.ID,
			Geometry: geom.NewPointFlat(geom.XY, []float64{br.Lng, br.Lat}),
			Properties: map[string]any{
				"name":              br.Name,
				"district":          br.District,
				"category":          br.Category,
				"revenue":           br.Revenue,
				"performance_score": br.PerformanceScore,
			},
		})
	}
	respondJSON(w, http.StatusOK, fc)
}
