package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	reverie "github.com/unowned-ai/reverie/pkg"
	"github.com/unowned-ai/reverie/pkg/config"
	pkgdb "github.com/unowned-ai/reverie/pkg/db"
	"github.com/unowned-ai/reverie/pkg/logging"
	"github.com/unowned-ai/reverie/pkg/utils"
)

var (
	configPath   string
	storeBackend string
	storePath    string
	logLevel     string
	walMode      bool
	syncMode     string

	cfg    = config.Default()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:     "reverie",
	Short:   "A dream journal that finds the patterns in your nights.",
	Long:    `Record dreams, then browse statistics, sentiment, recurring themes and insights across your journal.`,
	Version: fmt.Sprintf("v%s", reverie.Version),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadSettings(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for reverie.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(reverie completion bash)

  Bash (persist):
    $ reverie completion bash > /etc/bash_completion.d/reverie

  Zsh:
    $ reverie completion zsh > "${fpath[1]}/_reverie"

  Fish:
    $ reverie completion fish | source
    $ reverie completion fish > ~/.config/fish/completions/reverie.fish

  PowerShell:
    PS> reverie completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of reverie",
	Long:  `All software has versions. This is reverie's`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), reverie.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the reverie SQLite database",
	Long:  `Provides commands for managing the SQLite journal database, including schema upgrades.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the journal database schema to the latest version for the dreamsdb component",
	Long: `Connects to the SQLite database (--path, store.path, or the default reverie.db) and applies any
necessary schema migrations to bring the dreamsdb component up to the current application schema version.
If the database does not exist or is uninitialized for this component, it will be created
and initialized with the latest schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := utils.ResolveAndEnsurePath(upgradeTarget(cfg, cmd.Flags().Changed("path")), utils.DefaultStorePath(config.BackendSQLite))
		if err != nil {
			return err
		}
		if path == "" {
			return errors.New("database path is required")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Attempting to upgrade dreamsdb component in database at: %s (WAL: %t, Sync: %s)\n", path, cfg.SQLite.WAL, cfg.SQLite.Sync)

		dbConn, err := pkgdb.Open(path, pkgdb.Options{WAL: cfg.SQLite.WAL, Sync: cfg.SQLite.Sync})
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion, logger)
	},
}

// upgradeTarget picks the database db upgrade works on. An explicit --path
// always wins; a configured path is only used for the sqlite backend, since
// the json backend's path names a JSON file.
func upgradeTarget(c *config.Config, pathFlagSet bool) string {
	if pathFlagSet || c.Store.Backend == config.BackendSQLite {
		return c.Store.Path
	}
	return ""
}

// loadSettings layers command-line flags over the loaded config and builds
// the logger.
func loadSettings(cmd *cobra.Command) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		loaded.Store.Backend = strings.ToLower(storeBackend)
	}
	if flags.Changed("path") {
		loaded.Store.Path = storePath
	}
	if flags.Changed("log-level") {
		loaded.Log.Level = logLevel
	}
	if flags.Changed("wal") {
		loaded.SQLite.WAL = walMode
	}
	if flags.Changed("sync") {
		loaded.SQLite.Sync = syncMode
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	l, err := logging.New(loaded.Log.Level, loaded.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cfg = loaded
	logger = l
	return nil
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default ~/.config/reverie/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", config.BackendJSON, "Store backend: json or sqlite")
	rootCmd.PersistentFlags().StringVar(&storePath, "path", "", "Path to the journal file (uses a system-specific default if not provided)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")

	dbCmd.AddCommand(dbUpgradeCmd)

	initDreamsCmd()
	initReportCmds()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, dreamsCmd, reportCmd, exportCmd, chartsCmd, mcpCmd, tuiCmd)
}

func main() {
	initCmd()

	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
