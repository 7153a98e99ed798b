package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"controlreport/internal/profile"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate METADATA...",
		Short: "Check profile metadata files without rendering",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				profiles, err := profile.Load(path)
				if err != nil {
					a.logger.Debug("metadata invalid", zap.String("path", path), zap.Error(err))
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %v\n", err)
					failed++
					continue
				}
				var groups int
				for _, p := range profiles {
					groups += len(p.Groups)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s: %d profiles, %d controls\n", path, len(profiles), groups)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d metadata files are invalid", failed, len(args))
			}
			return nil
		},
	}
}
