// Package commands implements the mayactl command tree.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/maya-kin/internal/cli/ui"
	"github.com/zapponejosh/maya-kin/internal/config"
	"github.com/zapponejosh/maya-kin/internal/logger"
	"github.com/zapponejosh/maya-kin/internal/lookup"
)

const version = "0.1.0"

// app carries state shared by every subcommand.
type app struct {
	dataDir  string
	dbPath   string
	logLevel string

	svc *lookup.Service

	// load builds the service before a command runs. Tests replace it.
	load func(cmd *cobra.Command, a *app) (*lookup.Service, error)
}

// Execute executes the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree reading tables from configuration.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{load: loadService})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mayactl",
		Short:   "Maya KIN lookup CLI",
		Version: version,
		Long: `Look up KIN numbers and Maya birthdays in the reference tables.

Tables are read from the data directory (.csv, .xlsx, .db) and from an
optional SQLite store built by the import command.`,
		Example: `  # Matrix row for KIN 164
  $ mayactl kin 164

  # Maya birthday for July 26
  $ mayactl birthday 07/26

  # KIN of a date
  $ mayactl calc 2013-07-26

  # Loaded tables with three preview rows
  $ mayactl tables --preview 3

  # Menu driven mode
  $ mayactl interactive`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.svc != nil || cmd.Name() == "help" {
				return nil
			}
			svc, err := a.load(cmd, a)
			if err != nil {
				return err
			}
			a.svc = svc
			return nil
		},
	}

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "directory of reference tables (default $DATA_DIR or ./data)")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite reference store (default $DATABASE_PATH)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newKinCmd(a),
		newBirthdayCmd(a),
		newCalcCmd(a),
		newTablesCmd(a),
		newInteractiveCmd(a),
	)

	rootCmd.SetVersionTemplate(fmt.Sprintf("mayactl version %s\n", version))
	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())

	return rootCmd
}

// loadService reads configuration, applies flag overrides and loads tables.
// Logs go to stderr so stdout carries only results.
func loadService(cmd *cobra.Command, a *app) (*lookup.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.dbPath != "" {
		cfg.DatabasePath = a.dbPath
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	} else if cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.SetupWriter(cfg, os.Stderr)
	return lookup.Open(cmd.Context(), cfg, log)
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}` + ui.Styles.Bold.Render("GLOBAL OPTIONS") + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}
