package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"controlreport/internal/aggregate"
	"controlreport/internal/config"
	"controlreport/internal/console"
	"controlreport/internal/document"
	"controlreport/internal/events"
	"controlreport/internal/match"
	"controlreport/internal/pipeline"
	"controlreport/internal/profile"
	"controlreport/internal/sink"
	"controlreport/internal/telemetry"
)

type renderFlags struct {
	configPath string
	cfg        config.Config
}

func newRenderCmd(a *app) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Stream the console report and write the report document",
		Long: `render reads JSON-lines check events, prints the console report to stdout
as each control completes, and writes the full document when --output is set.

Settings come from defaults, then --config, then CONTROLREPORT_* variables,
then flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			if err := a.setLevel(cfg.LogLevel); err != nil {
				return err
			}
			return a.render(cmd, cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML config file")
	fl.StringVarP(&f.cfg.Metadata, "metadata", "m", "", "Profile metadata file (YAML or JSON)")
	fl.StringVarP(&f.cfg.Events, "events", "e", "-", `JSON-lines event file, "-" for stdin`)
	fl.StringVarP(&f.cfg.Output, "output", "o", "", "Write the report document to this path")
	fl.StringVarP(&f.cfg.Format, "format", "f", "json", "Document format: json or yaml")
	fl.StringVar(&f.cfg.Color, "color", config.ColorAuto, "Console colors: auto, always or never")
	fl.StringVar(&f.cfg.Target, "target", "", "Target shown in profile headers")
	fl.StringVar(&f.cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	return cmd
}

// resolve layers explicitly set flags over the config file and environment.
func (f *renderFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	fl := cmd.Flags()
	for name, pair := range map[string][2]*string{
		"metadata":  {&cfg.Metadata, &f.cfg.Metadata},
		"events":    {&cfg.Events, &f.cfg.Events},
		"output":    {&cfg.Output, &f.cfg.Output},
		"format":    {&cfg.Format, &f.cfg.Format},
		"color":     {&cfg.Color, &f.cfg.Color},
		"target":    {&cfg.Target, &f.cfg.Target},
		"log-level": {&cfg.LogLevel, &f.cfg.LogLevel},
	} {
		if fl.Changed(name) {
			*pair[0] = *pair[1]
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) render(cmd *cobra.Command, cfg *config.Config) error {
	format, err := document.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	profiles, err := profile.Load(cfg.Metadata)
	if err != nil {
		return fmt.Errorf("load metadata: %w", err)
	}

	in, closeIn, err := openEvents(cmd, cfg.Events)
	if err != nil {
		return err
	}
	defer closeIn()

	runID := uuid.NewString()
	logger := a.logger.With(zap.String("run_id", runID))
	logger.Debug("metadata loaded", zap.String("path", cfg.Metadata), zap.Int("profiles", len(profiles)))

	out := cmd.OutOrStdout()
	palette := console.PlainPalette()
	if cfg.UseColor(isTerminal(out)) {
		palette = console.ANSIPalette()
	}

	agg := aggregate.New(profiles)
	printer := console.NewPrinter(out, profiles, console.Options{Target: cfg.Target, Palette: palette})
	reg := telemetry.NewRegistry()
	p := pipeline.New(match.NewMatcher(profiles), []pipeline.Consumer{agg, printer}, pipeline.Options{
		Logger:    logger,
		Telemetry: reg,
	})

	stats, err := p.Run(cmd.Context(), events.NewReader(in, logger))
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		doc := document.Build(agg, document.Stats{Duration: stats.Duration, RunID: runID})
		err := sink.WriteFile(cfg.Output, func(w io.Writer) error {
			return document.Encode(w, doc, format)
		})
		if err != nil {
			return fmt.Errorf("write document: %w", err)
		}
		logger.Info("document written", zap.String("path", cfg.Output), zap.String("format", string(format)))
	}

	logger.Info("run complete",
		zap.Stringer("controls", printer.Groups()),
		zap.Stringer("outcomes", printer.Outcomes()),
		zap.Int("unmatched", len(agg.Unmatched())),
		zap.Any("counters", reg.Snapshot()),
	)
	return nil
}

func openEvents(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open events: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
