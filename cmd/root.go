// Package cmd provides the entrypoint for the media-webhook-relay cli.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/isometry/media-webhook-relay/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

var (
	configFilePath string
	logger         *slog.Logger
)

type boundEnvVar[T argType] struct {
	Name, Description string
	Env, Short        *string
	Hidden            bool
}

// New returns the root command for the media-webhook-relay.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "media-webhook-relay",
		Short:        "Relay media provider webhooks to a URL fetch or an email notification",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			config.Global.Mode = strings.TrimSpace(config.Global.Mode)
			logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				AddSource: config.Global.Logging.CallerTrace,
				Level:     slog.LevelWarn - slog.Level(config.Global.Logging.Verbosity*4),
			}))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch config.Global.Mode {
			case config.ModeService:
				return runService(cmd, args)
			case config.ModeLambda:
				return runLambdaHTTP(cmd, args)
			default:
				return fmt.Errorf("invalid mode: %s", config.Global.Mode)
			}
		},
	}

	// Root command flags
	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "config.yaml", "path to the configuration file")

	// Defaults are shown in the help output; the configuration file is loaded once flags are parsed
	if err := config.SetDefaults(); err != nil {
		panic(err)
	}

	// Dynamic flags
	overrides = nil
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		cmdLambda(),
		cmdService(),
		cmdUpload(),
	)

	return cmd
}

func setupDynamicFlags(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(replacer)

	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapCount)
	bindEnvMap(cmd, envMapUint)
	bindEnvMap(cmd, envMapDuration)

	// Mode specific flags live on the root so that --mode can start either runtime
	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapDuration)
	bindEnvMap(cmd, svcEnvMapUint)
	bindEnvMap(cmd, lambdaEnvMapString)
}

// loadConfig layers the configuration: defaults, then the configuration file, then environment and flags.
func loadConfig() error {
	if err := errors.Join(
		config.LoadFromFile(configFilePath),
		config.SetDefaults(),
		loadEnvFile(),
	); err != nil {
		return err
	}
	applyOverrides()
	return nil
}

// loadEnvFile populates the process environment from the optional dotenv file. Variables already set win.
func loadEnvFile() error {
	path := config.Global.EnvFile
	if v, ok := os.LookupEnv("ENV_FILE"); ok {
		path = v
	}
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil //nolint:nilerr // The dotenv file is optional.
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
