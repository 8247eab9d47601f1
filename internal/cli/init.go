package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
)

var initForceFlag bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a fresh changelog",
	Long: `Create a fresh changelog with the standard Keep a Changelog preamble
and an empty Unreleased section.

The target defaults to the configured changelog path (CHANGELOG.md).
An existing file is never overwritten unless --force is given.`,
	Example: `  chlog init
  chlog init docs/CHANGELOG.md
  chlog init --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd, args)
	},
}

func init() {
	initCmd.GroupID = GroupGettingStarted
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForceFlag, "force", false, "Overwrite an existing changelog")
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	path := fileFlag
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		path = cfg.Changelog.Path
	}

	if _, err := os.Stat(path); err == nil && !initForceFlag {
		return clierrors.ChangelogExists(path)
	}

	if err := changelog.Save(path, changelog.NewDocument()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", symbolsFor(cfg).Checkmark, path)
	fmt.Fprintf(cmd.OutOrStdout(), "\nRecord your first change with:\n  chlog add added \"initial release\"\n")
	return nil
}
