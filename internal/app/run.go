package app

import (
	"context"
	"fmt"

	"github.com/vk/energridgo/internal/ctxlog"
	"github.com/vk/energridgo/internal/engine"
)

// Run builds the optimization model of the loaded network and reports its
// size.
func (a *App) Run(ctx context.Context, appConfig *Config) (*engine.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	res, err := engine.Build(ctx, a.network, engine.Options{
		Name:    appConfig.NetworkPath,
		Mode:    appConfig.Mode,
		Workers: appConfig.WorkerCount,
	})
	if err != nil {
		return nil, fmt.Errorf("model build failed: %w", err)
	}

	for _, family := range res.Model.VariableFamilies() {
		a.logger.Debug("Variable family.", "family", family, "count", res.Stats.PerFamily[family])
	}
	for _, family := range res.Model.ConstraintFamilies() {
		a.logger.Debug("Constraint family.", "family", family, "count", res.Stats.PerFamily[family])
	}
	a.logger.Info("Model statistics.",
		"variables", res.Stats.Variables,
		"constraints", res.Stats.Constraints,
		"variable_families", res.Stats.VariableFamilies,
		"constraint_families", res.Stats.ConstraintFamilies,
	)

	if appConfig.StandardForm {
		sf, err := res.Model.StandardForm()
		if err != nil {
			return nil, fmt.Errorf("standard form export failed: %w", err)
		}
		rows, cols := sf.A.Dims()
		a.logger.Info("Standard form exported.", "rows", rows, "columns", cols)
	}

	a.logger.Debug("App.Run method finished.")
	return res, nil
}
