package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javanhut/sit/internal/repository"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new repository",
	Long:  "Creates a new " + repoDirName + " repository in the current directory.",
	Run:   runInit,
}

func runInit(cmd *cobra.Command, args []string) {
	if len(args) > 0 {
		log.Fatalf("init takes no arguments, got %d", len(args))
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("getwd: %v", err)
	}
	path := filepath.Join(wd, repoDirName)

	repo, err := repository.New(path)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	if err := repo.PopulateDefaults(); err != nil {
		log.Fatalf("init: populate defaults: %v", err)
	}

	fmt.Printf("%s repository initialized at %s\n", successText("✓"), infoText(path))
}
