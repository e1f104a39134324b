// Package artifact loads the read-only model bundle produced by the
// training pipeline: regressors, feature scalers, ordered feature lists,
// landmark metadata, and the reference branch table. The bundle is loaded
// once at startup and shared by reference; nothing in it is mutated
// afterwards.
package artifact

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Landmark is a named reference coordinate from the training metadata.
type Landmark struct {
	Name string
	Lat  float64
	Lng  float64
}

// Metadata carries the training-time context the scoring pipeline must
// reproduce exactly: landmark coordinates and categorical code tables in
// training order.
type Metadata struct {
	ModelVersion string `yaml:"model_version"`
	Landmarks    []struct {
		Name string  `yaml:"name"`
		Lat  float64 `yaml:"lat"`
		Lng  float64 `yaml:"lng"`
	} `yaml:"landmarks"`
	Districts  []string `yaml:"districts"`
	Categories []string `yaml:"categories"`
}

// Bundle is the full set of model artifacts, assembled once by Load and
// passed by reference to every operation.
type Bundle struct {
	SpatialModel  Regressor
	ExistingModel Regressor

	SpatialScaler  *Scaler
	ExistingScaler *Scaler

	SpatialFeatures  []string
	ExistingFeatures []string

	Landmarks  []Landmark
	Districts  []string
	Categories []string

	Reference []Branch

	ModelVersion string
}

// Load reads every artifact under dir. Any missing or malformed file is
// fatal: callers must halt rather than score with a partial bundle.
func Load(dir string) (*Bundle, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "artifact: stat bundle dir %s", dir)
	}
	if !info.IsDir() {
		return nil, eris.Errorf("artifact: %s is not a directory", dir)
	}

	b := &Bundle{}

	if b.SpatialModel, err = loadModel(filepath.Join(dir, "models", "spatial_model.json")); err != nil {
		return nil, err
	}
	if b.ExistingModel, err = loadModel(filepath.Join(dir, "models", "existing_branch_model.json")); err != nil {
		return nil, err
	}

	if b.SpatialScaler, err = loadScaler(filepath.Join(dir, "scalers", "spatial_scaler.json")); err != nil {
		return nil, err
	}
	if b.ExistingScaler, err = loadScaler(filepath.Join(dir, "scalers", "existing_scaler.json")); err != nil {
		return nil, err
	}

	if b.SpatialFeatures, err = loadFeatures(filepath.Join(dir, "features", "spatial_features.json")); err != nil {
		return nil, err
	}
	if b.ExistingFeatures, err = loadFeatures(filepath.Join(dir, "features", "existing_features.json")); err != nil {
		return nil, err
	}

	meta, err := loadMetadata(filepath.Join(dir, "metadata.yaml"))
	if err != nil {
		return nil, err
	}
	b.ModelVersion = meta.ModelVersion
	b.Districts = meta.Districts
	b.Categories = meta.Categories
	for _, lm := range meta.Landmarks {
		b.Landmarks = append(b.Landmarks, Landmark{Name: lm.Name, Lat: lm.Lat, Lng: lm.Lng})
	}

	if b.Reference, err = LoadReference(filepath.Join(dir, "data", "reference_branches.csv")); err != nil {
		return nil, err
	}

	if err := b.validate(); err != nil {
		return nil, err
	}

	zap.L().Info("artifact: bundle loaded",
		zap.String("dir", dir),
		zap.String("model_version", b.ModelVersion),
		zap.Int("landmarks", len(b.Landmarks)),
		zap.Int("reference_branches", len(b.Reference)),
		zap.Int("spatial_features", len(b.SpatialFeatures)),
		zap.Int("existing_features", len(b.ExistingFeatures)),
	)
	return b, nil
}

// validate cross-checks the separately serialized artifacts against each
// other. The schema contract is fixed at training time; this only catches
// bundles assembled from mismatched runs.
func (b *Bundle) validate() error {
	if len(b.SpatialScaler.Mean) != len(b.SpatialFeatures) {
		return eris.Errorf("artifact: spatial scaler has %d features, feature list has %d",
			len(b.SpatialScaler.Mean), len(b.SpatialFeatures))
	}
	if len(b.ExistingScaler.Mean) != len(b.ExistingFeatures) {
		return eris.Errorf("artifact: existing scaler has %d features, feature list has %d",
			len(b.ExistingScaler.Mean), len(b.ExistingFeatures))
	}
	if len(b.Landmarks) == 0 {
		return eris.New("artifact: metadata has no landmarks")
	}
	if len(b.Reference) == 0 {
		return eris.New("artifact: reference branch table is empty")
	}
	return nil
}

// loadMetadata reads the training metadata YAML.
func loadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "artifact: read metadata %s", path)
	}

	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, eris.Wrapf(err, "artifact: decode metadata %s", path)
	}
	return &meta, nil
}
