package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/corey/pokesrc/internal/app"
	"github.com/corey/pokesrc/internal/config"
	"github.com/corey/pokesrc/internal/domain/effectiveness"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagLogLevel string
	flagColor    string
	flagNoColor  bool
	flagNoCache  bool

	useColor bool
)

var rootCmd = &cobra.Command{
	Use:           "pokesrc",
	Short:         "Pokémon lookup with type matchups and usage stats",
	Long:          "Find a Pokémon by English key, Korean name or initial consonants (ㅍㅋㅊ), then show its type matchups and battle usage.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		useColor = resolveColor(flagColor, flagNoColor)
		return setupLogging(flagLogLevel)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, effectiveness.ErrInvalidType), errors.Is(err, effectiveness.ErrInvalidTypeSet):
		return 2
	case errors.Is(err, app.ErrInitialization):
		return 3
	default:
		return 1
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (default: $"+config.EnvPath+" or .pokesrc/config.yaml)")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (default: from config)")
	pf.StringVar(&flagColor, "color", "auto", "color output: auto, always, never")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable color output")
	pf.BoolVar(&flagNoCache, "no-cache", false, "do not open the on-disk cache")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// setupLogging points the global logger at stderr: a console writer on a
// terminal, JSON lines otherwise. An empty level leaves the level to config.
func setupLogging(level string) error {
	if isStderrTTY() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !useColor, TimeFormat: "15:04:05"})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	if level == "" {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
		return nil
	}
	return applyLevel(level)
}

func applyLevel(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// loadSettings reads the effective config file.
func loadSettings(root string) (string, config.Config, error) {
	path := app.NewPaths(root).ConfigPath(flagConfig)
	cfg, err := config.Load(path)
	if err != nil {
		return path, cfg, err
	}
	// --log-level wins over the file.
	if flagLogLevel == "" && cfg.LogLevel != "" {
		if err := applyLevel(cfg.LogLevel); err != nil {
			return path, cfg, err
		}
	}
	return path, cfg, nil
}

// openApp builds the App for the current directory.
func openApp() (*app.App, error) {
	root := projectRoot()
	path, settings, err := loadSettings(root)
	if err != nil {
		return nil, err
	}
	a, err := app.New(app.Config{
		ProjectRoot: root,
		ConfigPath:  path,
		Settings:    settings,
		NoCache:     flagNoCache,
	})
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%w\n%s", err, diagnoseDBLock(root))
		}
		return nil, err
	}
	return a, nil
}
