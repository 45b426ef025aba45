package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/launch-stub/internal/config"
	"github.com/oshokin/launch-stub/internal/console"
	"github.com/oshokin/launch-stub/internal/service/stub"
	"github.com/oshokin/launch-stub/internal/version"
)

var (
	// terminal prints status lines and renders fatal errors.
	terminal = console.New()

	// rootCmd updates the target program and starts it with every argument forwarded.
	rootCmd = &cobra.Command{
		Use:   version.Name + " [args...]",
		Short: "Keep the target program up to date and start it",
		Long: "Checks the release manifest, installs a newer package when one is published " +
			"and starts the installed program. Every argument is forwarded to the program unchanged.",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &stub.Options{
				ConfigPath: overrideFile(),
				Args:       args,
				Reporter:   terminal,
			}

			return stub.Run(ctx, options)
		},
	}
)

// Execute runs the stub, renders any failure and exits with non-zero status on error.
func Execute() {
	// The stub is meant to be started from the file manager.
	cobra.MousetrapHelpText = ""

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			terminal.RenderFatal(err)
		}

		os.Exit(1)
	}
}

// overrideFile locates the optional configuration file next to the running stub.
func overrideFile() string {
	exePath, err := os.Executable()
	if err != nil {
		return ""
	}

	return config.FindOverrideFile(exePath)
}
