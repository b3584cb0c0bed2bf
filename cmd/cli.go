package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/habedi/findstream/auth"
	"github.com/habedi/findstream/client"
	"github.com/habedi/findstream/config"
	"github.com/habedi/findstream/metrics"
	"github.com/habedi/findstream/pkg/clierr"
	"github.com/habedi/findstream/search"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by all subcommands.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// newStreamSource creates the Twitch client. Tests replace it with a fake.
var newStreamSource = func(ctx context.Context, settings config.Settings, m *metrics.Metrics) (search.StreamSource, error) {
	c, err := client.New(ctx, settings.Credentials(),
		client.WithAPIURL(settings.APIURL),
		client.WithTokenFetcher(auth.NewTwitchTokenFetcher(settings.TokenURL, nil)),
		client.WithMetrics(m),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Execute runs the root command with ctx and returns the process exit code.
func Execute(ctx context.Context) int {
	rootCmd := createRootCmd()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Command execution failed.")
		rootCmd.PrintErrln("Error:", err)
		return clierr.ExitCode(err)
	}
	return 0
}

func createRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "findstream",
		Short:         "A better search for Twitch streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
		},
	}

	rootCmd.PersistentFlags().BoolP("help", "h", false, "Show help for a command")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		fmt.Sprintf("Path to the settings file (default %s)", config.Path))
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"Log level (trace, debug, info, warn, error); overrides DEBUG_FINDSTREAM")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "console", "Log format: console or json")

	rootCmd.AddCommand(
		serveCmd(opts),
		searchCmd(opts),
		categoriesCmd(),
		versionCmd(),
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	return rootCmd
}

// configureLogging points the global logger at w. An empty level keeps the
// level chosen from the environment at start-up.
func configureLogging(w io.Writer, level, format string) error {
	if level != "" {
		lvl, err := zerolog.ParseLevel(level)
		if err != nil {
			return clierr.New(clierr.Validation, fmt.Sprintf("invalid log level %q", level), err)
		}
		zerolog.SetGlobalLevel(lvl)
	}

	switch format {
	case "console", "":
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	case "json":
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	default:
		return clierr.New(clierr.Validation, fmt.Sprintf("invalid log format %q (must be console or json)", format), nil)
	}
	return nil
}

// loadSettings resolves the settings file from --config, then FINDSTREAM_CONFIG,
// then the default path.
func loadSettings(opts *rootOptions) (config.Settings, error) {
	path := opts.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}
	if path == "" {
		path = config.Path
	}

	settings, err := config.Load(path)
	if err != nil {
		return config.Settings{}, clierr.New(clierr.Config, fmt.Sprintf("invalid settings: %v", err), err)
	}
	return settings, nil
}
