package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/config"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage chlog configuration",
	Long: `Manage chlog configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (CHLOG_*)
  2. Project config (.chlog/config.yml)
  3. User config (~/.config/chlog/config.yml)
  4. Built-in defaults`,
	Example: `  # Show effective configuration
  chlog config show

  # Set a configuration value
  chlog config set dedupe true --project

  # Create a default config file
  chlog config init`,
}

func init() {
	configCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(configCmd)
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print config file locations",
	Long: `Print the locations chlog reads configuration from, marking which
files exist. Legacy JSON configs are flagged with a migration hint.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigPath(cmd)
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
}

func runConfigPath(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	userPath, err := config.UserConfigPath()
	if err != nil {
		return fmt.Errorf("resolving user config path: %w", err)
	}

	fmt.Fprintf(out, "User config:    %s%s\n", userPath, existsMarker(userPath))
	fmt.Fprintf(out, "Project config: %s%s\n", config.ProjectConfigPath(), existsMarker(config.ProjectConfigPath()))

	userJSON, projectJSON, err := config.DetectLegacyConfigs()
	if err != nil {
		return fmt.Errorf("detecting legacy configs: %w", err)
	}
	if userJSON != "" || projectJSON != "" {
		fmt.Fprintln(out)
		if userJSON != "" {
			fmt.Fprintf(out, "Legacy JSON config: %s\n", userJSON)
		}
		if projectJSON != "" {
			fmt.Fprintf(out, "Legacy JSON config: %s\n", projectJSON)
		}
		fmt.Fprintln(out, "Migrate with: chlog config migrate")
	}

	return nil
}

// existsMarker annotates a path with its on-disk status.
func existsMarker(path string) string {
	if _, err := os.Stat(path); err == nil {
		return " (exists)"
	}
	return " (not found)"
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print every configuration key with its effective value after all
sources are merged (env > project > user > defaults).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	values := cfg.Flatten()
	dim := color.New(color.Faint).SprintFunc()

	out := cmd.OutOrStdout()
	for _, key := range config.KeyOrder() {
		schema := config.KnownKeys[key]
		fmt.Fprintf(out, "%-18s %-14v %s\n", key, values[key], dim("# "+schema.Description))
	}

	return nil
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one effective configuration value",
	Example: `  chlog config get changelog.path
  chlog config get watch.debounce_ms`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigGet(cmd, args[0])
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

func runConfigGet(cmd *cobra.Command, key string) error {
	if _, err := config.GetKeySchema(key); err != nil {
		return clierrors.NewArgumentError(
			err.Error(),
			"List all keys with: chlog config show")
	}

	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%v\n", cfg.Flatten()[key])
	return nil
}

var configSetProjectFlag bool

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user config file, or in the project
config file with --project. Other keys in the file are preserved.

Values are validated against the key's type before writing.`,
	Example: `  chlog config set dedupe true
  chlog config set changelog.path docs/CHANGELOG.md --project
  chlog config set output.color never`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigSet(cmd, args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)

	configSetCmd.Flags().BoolVarP(&configSetProjectFlag, "project", "p", false, "Write to the project config (.chlog/config.yml)")
}

func runConfigSet(cmd *cobra.Command, key, rawValue string) error {
	schema, err := config.GetKeySchema(key)
	if err != nil {
		return clierrors.NewArgumentError(
			err.Error(),
			"List all keys with: chlog config show")
	}

	value, err := schema.CoerceValue(rawValue)
	if err != nil {
		return clierrors.NewArgumentError(err.Error())
	}

	var path, scope string
	if configSetProjectFlag {
		if _, err := os.Stat(config.ProjectConfigDir()); err != nil {
			return clierrors.NewConfigError(
				"not in a project directory (.chlog/ not found)",
				"Run 'chlog config init --project' to create the project config first")
		}
		path = config.ProjectConfigPath()
		scope = "project"
	} else {
		path, err = config.UserConfigPath()
		if err != nil {
			return fmt.Errorf("resolving user config path: %w", err)
		}
		scope = "user"
	}

	if err := config.SetKey(path, key, value); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v in %s config (%s)\n", key, value, scope, path)
	return nil
}

var (
	configInitProjectFlag bool
	configInitForceFlag   bool
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Write a fully commented default configuration file.

By default the user-level config is created, which applies to all your
projects. Use --project for a project-specific config that overrides
user settings. An existing file is left unchanged unless --force.`,
	Example: `  chlog config init
  chlog config init --project
  chlog config init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(cmd)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVarP(&configInitProjectFlag, "project", "p", false, "Create project-level config (.chlog/config.yml)")
	configInitCmd.Flags().BoolVar(&configInitForceFlag, "force", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command) error {
	var path string
	if configInitProjectFlag {
		path = config.ProjectConfigPath()
	} else {
		userPath, err := config.UserConfigPath()
		if err != nil {
			return fmt.Errorf("resolving user config path: %w", err)
		}
		path = userPath
	}

	if _, err := os.Stat(path); err == nil && !configInitForceFlag {
		return clierrors.NewConfigError(
			fmt.Sprintf("config file already exists: %s", path),
			"Use --force to overwrite it with defaults",
			"Or edit it directly; see 'chlog config show' for effective values")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}

var (
	configMigrateUserFlag    bool
	configMigrateProjectFlag bool
	configMigrateDryRunFlag  bool
)

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate legacy JSON configs to YAML",
	Long: `Migrate legacy JSON config files (~/.chlog.json, .chlog.json) to the
current YAML layout. The legacy file is kept as a .bak backup.

Without --user or --project, both locations are checked and any legacy
file found is migrated. --dry-run reports what would happen.`,
	Example: `  chlog config migrate
  chlog config migrate --project --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigMigrate(cmd)
	},
}

func init() {
	configCmd.AddCommand(configMigrateCmd)

	configMigrateCmd.Flags().BoolVar(&configMigrateUserFlag, "user", false, "Migrate only the user config")
	configMigrateCmd.Flags().BoolVar(&configMigrateProjectFlag, "project", false, "Migrate only the project config")
	configMigrateCmd.Flags().BoolVar(&configMigrateDryRunFlag, "dry-run", false, "Report planned actions without writing")
}

func runConfigMigrate(cmd *cobra.Command) error {
	migrateUser := configMigrateUserFlag
	migrateProject := configMigrateProjectFlag
	if !migrateUser && !migrateProject {
		migrateUser, migrateProject = true, true
	}

	out := cmd.OutOrStdout()

	if migrateUser {
		result, err := config.MigrateUserConfig(configMigrateDryRunFlag)
		if err != nil {
			return fmt.Errorf("migrating user config: %w", err)
		}
		if err := reportMigration(out, result); err != nil {
			return err
		}
	}

	if migrateProject {
		result, err := config.MigrateProjectConfig(configMigrateDryRunFlag)
		if err != nil {
			return fmt.Errorf("migrating project config: %w", err)
		}
		if err := reportMigration(out, result); err != nil {
			return err
		}
	}

	return nil
}

// reportMigration prints the migration outcome and backs up the legacy
// file after a successful migration.
func reportMigration(out io.Writer, result *config.MigrationResult) error {
	fmt.Fprintln(out, result.Message)

	if result.Success && !result.DryRun {
		if err := config.RemoveLegacyConfig(result.SourcePath, false); err != nil {
			return err
		}
		fmt.Fprintf(out, "Legacy config kept as %s.bak\n", result.SourcePath)
	}

	return nil
}
