package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/javanhut/sit/internal/repository"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Apply any pending repository format upgrades",
	Run:   runUpgrade,
}

func runUpgrade(cmd *cobra.Command, args []string) {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("upgrade: getwd: %v", err)
	}
	path, ok := repository.FindInOrAbove(repoDirName, wd)
	if !ok {
		log.Fatalf("upgrade: no %s repository found in %s or above", repoDirName, wd)
	}

	if _, err := repository.OpenAndUpgrade(path, []repository.Upgrade{repository.IssuesToItems}); err != nil {
		log.Fatalf("upgrade: %v", err)
	}
	fmt.Printf("%s repository at %s is up to date\n", successText("✓"), infoText(path))
}
