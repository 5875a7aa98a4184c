// Package cli implements the command-line front end over the
// repository core: init, item, record, config and upgrade. It is
// deliberately thin; every command here does nothing a caller couldn't
// do directly against internal/repository.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javanhut/sit/internal/repository"
)

const sitVersion = "0.1.0"
const repoDirName = ".sit"

var rootCmd = &cobra.Command{
	Use:   "sit",
	Short: "sit is a content-addressed artifact repository",
	Long:  "sit stores durable artifacts as items composed of immutable, content-addressed records.",
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Printf("sit version %s\n", sitVersion)
			return
		}
		cmd.Help()
	},
}

var showVersion bool

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print the version and exit")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(itemCmd)
	itemCmd.AddCommand(itemCreateCmd, itemListCmd)
	rootCmd.AddCommand(recordCmd)
	recordCmd.AddCommand(recordNewCmd, recordListCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd, configSetCmd)
	rootCmd.AddCommand(upgradeCmd)
}

// openRepository discovers and opens the nearest repository at or
// above the current directory, failing with a message pointing at
// `sit init` rather than a bare os.Open error.
func openRepository() (*repository.Repository, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}
	path, ok := repository.FindInOrAbove(repoDirName, wd)
	if !ok {
		return nil, fmt.Errorf("no %s repository found in %s or above; run `sit init` first", repoDirName, wd)
	}
	repo, err := repository.Open(path)
	if _, needsUpgrade := err.(repository.ErrUpgradeRequired); needsUpgrade {
		return nil, fmt.Errorf("%w; run `sit upgrade`", err)
	}
	return repo, err
}
