package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hangry-labs/siteselect/internal/artifact"
	"github.com/hangry-labs/siteselect/internal/geo"
	"github.com/hangry-labs/siteselect/internal/portfolio"
	"github.com/hangry-labs/siteselect/internal/report"
	"github.com/hangry-labs/siteselect/internal/scoring"
	"github.com/hangry-labs/siteselect/internal/store"
)

// appEnv holds the loaded bundle and the wired services needed by the
// score/compare/portfolio/report/serve commands.
type appEnv struct {
	Bundle   *artifact.Bundle
	Engine   *scoring.Engine
	Analyzer *portfolio.Analyzer
	Builder  *report.Builder
	Store    store.Store
}

// Close releases resources held by the environment.
func (env *appEnv) Close() {
	if env.Store != nil {
		_ = env.Store.Close()
	}
}

// initEnv loads the model bundle, optional district boundaries, and the
// run-history store, then wires the services. Callers should defer
// env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	bundle, err := artifact.Load(cfg.Artifacts.Dir)
	if err != nil {
		return nil, eris.Wrap(err, "load model bundle")
	}
	zap.L().Info("model bundle loaded",
		zap.String("dir", cfg.Artifacts.Dir),
		zap.String("version", bundle.ModelVersion),
		zap.Int("landmarks", len(bundle.Landmarks)),
		zap.Int("reference_branches", len(bundle.Reference)),
	)

	var boundaries *geo.Boundaries
	if cfg.Geo.DistrictsShapefile != "" {
		boundaries, err = geo.LoadBoundaries(cfg.Geo.DistrictsShapefile)
		if err != nil {
			return nil, eris.Wrap(err, "load district boundaries")
		}
		zap.L().Info("district boundaries loaded",
			zap.String("shapefile", cfg.Geo.DistrictsShapefile),
		)
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	engine := scoring.NewEngine(bundle, boundaries)
	if cfg.Scoring.CompareConcurrency > 0 {
		engine.CompareConcurrency = cfg.Scoring.CompareConcurrency
	}
	analyzer := portfolio.NewAnalyzer(bundle)

	return &appEnv{
		Bundle:   bundle,
		Engine:   engine,
		Analyzer: analyzer,
		Builder:  report.NewBuilder(engine, analyzer, cfg.Report),
		Store:    st,
	}, nil
}

// initStore opens the configured run-history backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DSN
		if dsn == "" {
			dsn = "siteselect.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "none":
		return store.NoopStore{}, nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
