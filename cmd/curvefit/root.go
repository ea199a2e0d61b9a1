package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/pkg/log"
)

const (
	logFormatConsole = "console"
	logFormatJSON    = "json"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curvefit",
		Short: "Fit text equations to sample data and plot them",
		Long: `curvefit estimates the free parameters of equations such as 'y = a*x + b'
by nonlinear least squares, writes the fitted values back into the equation
text ("y = 1.97*x + 1.07") together with R², and draws data and curves.

Single letters other than x are the parameters to fit. Functions come from
imported libraries: np (always available) and math.`,
		Version:           getVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogging,
	}

	cmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", logFormatConsole, "Log format (console, json)")

	cmd.AddCommand(NewFitCmd())
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// setupLogging installs the process logger on stderr.
func setupLogging(cmd *cobra.Command, _ []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	slogLevel, err := log.ParseLevel(level)
	if err != nil {
		return err
	}

	switch format {
	case logFormatJSON:
		log.SetupLoggerTo(cmd.ErrOrStderr(), level)
	case logFormatConsole:
		log.SetLogger(log.NewZerologLogger(cmd.ErrOrStderr(), log.Level(slogLevel), true))
	default:
		return errors.Newf("invalid log format: %s", format)
	}
	log.InstallWarnings(log.GetLogger())
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
