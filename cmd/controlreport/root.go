package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"controlreport/internal/version"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	verbose bool
	level   zap.AtomicLevel
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop(), level: zap.NewAtomicLevel()}

	root := &cobra.Command{
		Use:   "controlreport",
		Short: "Aggregate check outcomes into control reports",
		Long: `controlreport reads a stream of individual check outcomes, attaches each
one to the control declared in the profile metadata, and renders a
severity-colored console report plus an optional JSON or YAML document.`,
		Version:       version.FullString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if a.verbose {
				a.level.SetLevel(zapcore.DebugLevel)
			}
			config.Level = a.level
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// setLevel applies a configured log level unless --verbose already forced debug.
func (a *app) setLevel(name string) error {
	if a.verbose || name == "" {
		return nil
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return err
	}
	a.level.SetLevel(lvl)
	return nil
}
