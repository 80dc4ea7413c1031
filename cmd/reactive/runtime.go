package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/AnatoleLucet/reactive"
	"github.com/AnatoleLucet/reactive/internal/config"
	"github.com/AnatoleLucet/reactive/internal/scenario"
	"github.com/AnatoleLucet/reactive/tracing"
)

// newRuntime builds a runtime wired to the observers cfg enables, plus extra.
func newRuntime(cfg *config.Config, logger *slog.Logger, extra ...reactive.Observer) *reactive.Runtime {
	observers := append([]reactive.Observer{}, extra...)
	if cfg.Log.Observe {
		observers = append(observers, reactive.LogObserver(logger))
	}
	if cfg.Tracing.Enabled {
		observers = append(observers, tracing.New(tracing.WithTracerName(cfg.Tracing.TracerName)))
	}

	return reactive.NewRuntime(
		reactive.WithLogger(logger),
		reactive.WithObserver(observers...),
	)
}

// selectScenarios resolves names, all of them when names is empty.
func selectScenarios(names []string) ([]scenario.Scenario, error) {
	if len(names) == 0 || (len(names) == 1 && names[0] == "all") {
		return scenario.All(), nil
	}

	selected := make([]scenario.Scenario, 0, len(names))
	for _, name := range names {
		s, ok := scenario.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		selected = append(selected, s)
	}

	return selected, nil
}

// replay runs each scenario on a fresh runtime. When out is not nil the
// scenario logs are written to it.
func replay(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer, scenarios []scenario.Scenario, extra ...reactive.Observer) error {
	opts := scenario.Options{TimerDelay: cfg.Scenarios.TimerDelay}

	for _, s := range scenarios {
		rt := newRuntime(cfg, logger.With("scenario", s.Name), extra...)

		lines, err := s.Run(ctx, rt, opts)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", s.Name, err)
		}

		if out != nil {
			fmt.Fprintf(out, "== %s: %s\n", s.Name, s.Description)
			for _, line := range lines {
				fmt.Fprintf(out, "  %s\n", line)
			}
		}
	}

	return nil
}
