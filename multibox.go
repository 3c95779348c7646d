package multibox

// multibox.go ties the pieces together: load a scheme, run it to a horizon,
// and write the table of events and occupancies

import (
	"fmt"
	"io"
	"log/slog"
)

// Simulate loads the scheme held in schemeDir, runs it to the horizon, and writes the
// occupancy table to outputPath.  Nothing is written if the scheme fails to validate
func Simulate(horizon float64, schemeDir, outputPath string, opts ...Option) error {
	eng := CreateEngine(opts...)
	_, err := eng.SimulateScheme(horizon, schemeDir, outputPath)
	return err
}

// SimulateScheme is Simulate on a configured engine; it also returns the run
func (eng *Engine) SimulateScheme(horizon float64, schemeDir, outputPath string) (*RunResult, error) {
	rr, err := eng.runScheme(horizon, schemeDir)
	if err != nil {
		return nil, err
	}
	if err := eng.writeTable(rr, outputPath); err != nil {
		return nil, err
	}
	return rr, nil
}

// runScheme loads, validates and runs the scheme held in schemeDir
func (eng *Engine) runScheme(horizon float64, schemeDir string) (*RunResult, error) {
	sd, err := LoadScheme(schemeDir)
	if err != nil {
		return nil, err
	}
	eng.logger.Debug("scheme loaded", "dir", schemeDir, "nodes", sd.NumNodes())
	if traps := sd.Traps(); len(traps) > 0 {
		eng.logger.Warn("particles entering these nodes never leave the system", "nodes", traps)
	}
	return eng.Run(sd, horizon)
}

// writeTable writes the occupancy table of a run to outputPath
func (eng *Engine) writeTable(rr *RunResult, outputPath string) error {
	tm := CreateTraceManager(rr.Scheme.Name, rr.Mode, rr.Table())
	if err := tm.WriteToFile(outputPath); err != nil {
		return err
	}
	eng.logger.Info("table written", "path", outputPath, "rows", len(tm.Rows))
	return nil
}

// Execute performs the run a RunConfig describes.  The trace and metrics files, when
// named, are written before the output table, so that a failure to write any of them
// leaves no output table behind.  A failure writing the table itself leaves the
// trace and metrics files in place
func Execute(cfg *RunConfig, logger *slog.Logger) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts = append(opts, WithLogger(logger))

	var rm *RunMetrics
	if cfg.Metrics != "" {
		rm = CreateRunMetrics()
		opts = append(opts, WithMetrics(rm))
	}

	eng := CreateEngine(opts...)
	rr, err := eng.runScheme(cfg.Horizon, cfg.Scheme)
	if err != nil {
		return nil, err
	}

	if cfg.Trace != "" {
		tm := CreateTraceManager(rr.Scheme.Name, rr.Mode, rr.Table())
		if err := tm.WriteToFile(cfg.Trace); err != nil {
			return nil, err
		}
	}
	if rm != nil {
		if err := rm.WriteToFile(cfg.Metrics); err != nil {
			return nil, fmt.Errorf("writing metrics: %w", err)
		}
	}
	if err := eng.writeTable(rr, cfg.Output); err != nil {
		return nil, err
	}
	return rr, nil
}
