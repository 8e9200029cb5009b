package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/arthur-debert/nanotodos/nanotodos"
	"github.com/arthur-debert/nanotodos/nanotodos/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultMaxTitle = 100

// CLI is the Viper-driven command line front end for nanotodos
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper
	configErr error

	loggers *loggers
}

// NewCLI creates the CLI with configuration sources wired up
func NewCLI() *CLI {
	cli := &CLI{viperInst: viper.New()}
	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()
	return cli
}

// setupViperConfig configures Viper with environment variables and config files
func (cli *CLI) setupViperConfig() {
	// NANOTODOS_CONFIG points at a specific config file
	if configFile := os.Getenv("NANOTODOS_CONFIG"); configFile != "" {
		cli.viperInst.SetConfigFile(configFile)
	} else {
		cli.viperInst.SetConfigName("nanotodos")
		cli.viperInst.SetConfigType("yaml")
		cli.viperInst.AddConfigPath(".")
		cli.viperInst.AddConfigPath("$HOME/.nanotodos")
		cli.viperInst.AddConfigPath("/etc/nanotodos")
	}

	cli.viperInst.SetEnvPrefix("NANOTODOS")
	// --log-level -> NANOTODOS_LOG_LEVEL
	cli.viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cli.viperInst.AutomaticEnv()

	cli.viperInst.SetDefault("driver", string(store.DriverSQLite))
	cli.viperInst.SetDefault("db", "nanotodos.db")
	cli.viperInst.SetDefault("format", "table")
	cli.viperInst.SetDefault("log-level", "warn")
	cli.viperInst.SetDefault("log-queries", false)
	cli.viperInst.SetDefault("max-title", defaultMaxTitle)

	if err := cli.viperInst.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			cli.configErr = err
		}
	}
}

// createRootCommand creates the root Cobra command with Viper integration
func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "nanotodos",
		Short: "nanotodos - todo lists from the command line",
		Long: `nanotodos manages named todo lists stored in SQLite or a JSON file.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (NANOTODOS_*)
3. Configuration file
4. Defaults

Configuration File Discovery:
  NANOTODOS_CONFIG=/path/to/config.yaml  # Custom config file path
  ./nanotodos.yaml                       # Current directory
  ~/.nanotodos/nanotodos.yaml            # User directory
  /etc/nanotodos/nanotodos.yaml          # System directory

Examples:
  nanotodos seed
  nanotodos lists
  nanotodos new "Groceries"
  nanotodos add 5 "Buy milk"
  nanotodos --driver json --db todos.json show 5`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cli.configErr != nil {
				return NewConfigError("load configuration", cli.configErr.Error(), CommonSuggestions.CheckConfig)
			}
			l, err := initLogging(cli.viperInst.GetString("log-level"), cli.viperInst.GetBool("log-queries"))
			if err != nil {
				return NewConfigError("initialize logging", err.Error(), CommonSuggestions.CheckPerms)
			}
			cli.loggers = l.forCommand(cmd.Name())
			cli.loggers.main.Debug("command started", "args", args)
			return nil
		},
	}

	cli.addGlobalFlags()
}

// addGlobalFlags adds persistent flags that apply to all commands
func (cli *CLI) addGlobalFlags() {
	flags := cli.rootCmd.PersistentFlags()

	flags.String("driver", string(store.DriverSQLite), "Store backend (sqlite|json|memory)")
	flags.StringP("db", "d", "nanotodos.db", "Database or snapshot file path")
	flags.StringP("format", "f", "table", "Output format (table|json|yaml)")
	flags.String("log-level", "warn", "Log level (debug|info|warn|error)")
	flags.Bool("log-queries", false, "Also print store queries to stderr")
	flags.Int("max-title", defaultMaxTitle, "Maximum title length in characters")

	cli.bindFlags(flags, "driver", "db", "format", "log-level", "log-queries", "max-title")
}

// bindFlags makes viper read the named flags; unknown names are skipped
func (cli *CLI) bindFlags(flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		if flag := flags.Lookup(name); flag != nil {
			_ = cli.viperInst.BindPFlag(name, flag)
		}
	}
}

// storeConfig builds the store configuration from the merged settings
func (cli *CLI) storeConfig() (store.Config, error) {
	driver, err := store.ParseDriver(cli.viperInst.GetString("driver"))
	if err != nil {
		return store.Config{}, err
	}
	cfg := store.Config{
		Driver: driver,
		Path:   cli.viperInst.GetString("db"),
		Logger: cli.logger(),
	}
	if cli.loggers != nil && cli.loggers.queries != nil {
		cfg.Logger = cli.loggers.queries
	}
	return cfg, cfg.Validate()
}

func (cli *CLI) logger() *slog.Logger {
	if cli.loggers == nil {
		return slog.Default()
	}
	return cli.loggers.main
}

// withTodos opens the configured store for the duration of fn
func (cli *CLI) withTodos(cmd *cobra.Command, operation string, fn func(ctx context.Context, todos *nanotodos.Todos) error) error {
	cfg, err := cli.storeConfig()
	if err != nil {
		return NewConfigError(operation, err.Error(), CommonSuggestions.CheckDriver, CommonSuggestions.CheckConfig)
	}
	st, err := store.Open(cfg)
	if err != nil {
		return NewStoreError(operation, err, CommonSuggestions.CheckDB, CommonSuggestions.CheckPerms)
	}
	defer func() {
		if err := st.Close(); err != nil {
			cli.logger().Warn("failed to close store", "error", err)
		}
	}()

	todos := nanotodos.New(st, nanotodos.WithLogger(cli.logger()))
	if err := fn(cmd.Context(), todos); err != nil {
		cli.logger().Debug("command failed", "operation", operation, "error", err)
		return err
	}
	return nil
}

// print renders data in the configured output format
func (cli *CLI) print(out io.Writer, data interface{}) error {
	formatter := NewOutputFormatter(cli.viperInst.GetString("format"))
	s, err := formatter.Format(data)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = fmt.Fprintln(out, s)
	return err
}

// Execute runs the CLI
func (cli *CLI) Execute(ctx context.Context) error {
	defer func() {
		if cli.loggers != nil {
			cli.loggers.close()
		}
	}()
	return cli.rootCmd.ExecuteContext(ctx)
}

// GetConfig returns the current Viper configuration value for key
func (cli *CLI) GetConfig(key string) interface{} {
	return cli.viperInst.Get(key)
}

// GetRootCommand returns the root Cobra command for testing
func (cli *CLI) GetRootCommand() *cobra.Command {
	return cli.rootCmd
}
