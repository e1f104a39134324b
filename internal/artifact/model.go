package artifact

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// Regressor predicts a score from a scaled feature vector.
type Regressor interface {
	// Predict returns the model output for one feature vector. The vector
	// must already be in the model's feature order and scaled.
	Predict(features []float64) float64
}

// Linear is a linear regression model: intercept + dot(coefficients, x).
type Linear struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// Predict implements Regressor.
func (m *Linear) Predict(features []float64) float64 {
	out := m.Intercept
	n := len(m.Coefficients)
	if len(features) < n {
		n = len(features)
	}
	for i := 0; i < n; i++ {
		out += m.Coefficients[i] * features[i]
	}
	return out
}

// TreeNode is one node of a flattened regression tree. Leaves have
// Left == -1 and Right == -1.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a single regression tree stored as a node array rooted at index 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Predict walks the tree to a leaf. Samples go left when
// feature <= threshold, matching the export convention of the training
// pipeline.
func (t *Tree) Predict(features []float64) float64 {
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.Left < 0 && node.Right < 0 {
			return node.Value
		}
		v := 0.0
		if node.Feature >= 0 && node.Feature < len(features) {
			v = features[node.Feature]
		}
		if v <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

// Forest is an averaged ensemble of regression trees.
type Forest struct {
	Trees []Tree `json:"trees"`
}

// Predict implements Regressor as the mean of the tree predictions.
func (f *Forest) Predict(features []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].Predict(features)
	}
	return sum / float64(len(f.Trees))
}

// modelFile is the on-disk model envelope written by the training pipeline.
type modelFile struct {
	Type         string    `json:"type"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	Trees        []Tree    `json:"trees"`
}

// loadModel reads a serialized regressor from a JSON file.
func loadModel(path string) (Regressor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "artifact: read model %s", path)
	}

	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, eris.Wrapf(err, "artifact: decode model %s", path)
	}

	switch mf.Type {
	case "linear":
		if len(mf.Coefficients) == 0 {
			return nil, eris.Errorf("artifact: linear model %s has no coefficients", path)
		}
		return &Linear{Intercept: mf.Intercept, Coefficients: mf.Coefficients}, nil
	case "forest":
		if len(mf.Trees) == 0 {
			return nil, eris.Errorf("artifact: forest model %s has no trees", path)
		}
		for ti, tree := range mf.Trees {
			if len(tree.Nodes) == 0 {
				return nil, eris.Errorf("artifact: forest model %s tree %d is empty", path, ti)
			}
		}
		return &Forest{Trees: mf.Trees}, nil
	default:
		return nil, eris.Errorf("artifact: model %s has unknown type %q", path, mf.Type)
	}
}

// Scaler applies standard scaling: (x - mean) / scale, per feature.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform scales a feature vector in model order. Vectors shorter or
// longer than the scaler are an upstream bug, so only the overlapping
// prefix is scaled.
func (s *Scaler) Transform(features []float64) []float64 {
	out := make([]float64, len(features))
	copy(out, features)
	n := len(s.Mean)
	if len(features) < n {
		n = len(features)
	}
	for i := 0; i < n; i++ {
		div := s.Scale[i]
		if div == 0 {
			div = 1
		}
		out[i] = (features[i] - s.Mean[i]) / div
	}
	return out
}

// loadScaler reads a serialized feature scaler from a JSON file.
func loadScaler(path string) (*Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "artifact: read scaler %s", path)
	}

	var s Scaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, eris.Wrapf(err, "artifact: decode scaler %s", path)
	}
	if len(s.Mean) != len(s.Scale) {
		return nil, eris.Errorf("artifact: scaler %s mean/scale length mismatch (%d vs %d)",
			path, len(s.Mean), len(s.Scale))
	}
	return &s, nil
}

// loadFeatures reads an ordered feature-name list from a JSON file.
func loadFeatures(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "artifact: read feature list %s", path)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, eris.Wrapf(err, "artifact: decode feature list %s", path)
	}
	if len(names) == 0 {
		return nil, eris.Errorf("artifact: feature list %s is empty", path)
	}
	return names, nil
}
