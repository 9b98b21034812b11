package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstage/internal/config"
	"github.com/goliatone/go-formstage/internal/observability"
	"github.com/goliatone/go-formstage/pkg/orchestrator"
	"github.com/goliatone/go-formstage/pkg/render"
	"github.com/goliatone/go-formstage/pkg/schema"
)

// loadConfig resolves the config file and applies flag overrides.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, err
	}
	if flags.form != "" {
		cfg.Form = flags.form
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	return cfg, nil
}

// buildEngine wires the form, logger and metrics described by cfg. A nil
// registerer leaves the engine without metrics.
func buildEngine(cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) (*orchestrator.Orchestrator, error) {
	form := schema.Default()
	if cfg.Form != "" {
		loaded, err := schema.LoadFile(cfg.Form)
		if err != nil {
			return nil, fmt.Errorf("formstage: %w", err)
		}
		form = loaded
	}
	if cfg.StartStage > 0 {
		form.StartStage = cfg.StartStage
	}

	options := []orchestrator.Option{
		orchestrator.WithForm(form),
		orchestrator.WithLogger(logger),
		orchestrator.WithAssets(render.Assets{HTMX: cfg.Assets.HTMX}),
		orchestrator.WithInlineStylesheet(cfg.Assets.InlineCSS),
	}
	if reg != nil {
		options = append(options, orchestrator.WithMetrics(observability.NewMetrics(reg)))
	}
	return orchestrator.New(options...)
}
