package cli

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect repository configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	Run:   runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a forward-compatible extra configuration value",
	Long: "Sets a value in the configuration's extra bag. The structural fields " +
		"(hashing_algorithm, encoding, id_generator) are fixed at `sit init` time " +
		"and cannot be changed afterward without invalidating existing records.",
	Args: cobra.ExactArgs(2),
	Run:  runConfigSet,
}

func runConfigGet(cmd *cobra.Command, args []string) {
	repo, err := openRepository()
	if err != nil {
		log.Fatalf("config get: %v", err)
	}
	cfg := repo.Config()

	switch key := args[0]; key {
	case "hashing_algorithm":
		fmt.Println(cfg.HashingAlgorithm)
	case "encoding":
		fmt.Println(cfg.Encoding)
	case "id_generator":
		fmt.Println(cfg.IdGenerator)
	case "version":
		fmt.Println(cfg.Version)
	default:
		raw, ok := cfg.Extra[key]
		if !ok {
			fmt.Println(grayText("(not set)"))
			return
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			fmt.Println(string(raw))
			return
		}
		fmt.Printf("%v\n", v)
	}
}

func runConfigSet(cmd *cobra.Command, args []string) {
	key, value := args[0], args[1]
	switch key {
	case "hashing_algorithm", "encoding", "id_generator", "version":
		log.Fatalf("config set: %q is fixed at init time and cannot be changed", key)
	}

	repo, err := openRepository()
	if err != nil {
		log.Fatalf("config set: %v", err)
	}

	if err := repo.SetExtra(key, value); err != nil {
		log.Fatalf("config set: %v", err)
	}
	fmt.Printf("%s set %s = %s\n", successText("✓"), infoText(key), infoText(value))
}
