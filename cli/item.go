package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage items",
}

var itemCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new item",
	Long:  "Creates an item with the given name, or a generated id if none is given.",
	Args:  cobra.MaximumNArgs(1),
	Run:   runItemCreate,
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items in the repository",
	Run:   runItemList,
}

func runItemCreate(cmd *cobra.Command, args []string) {
	repo, err := openRepository()
	if err != nil {
		log.Fatalf("item create: %v", err)
	}

	if len(args) == 1 {
		it, err := repo.NewNamedItem(args[0])
		if err != nil {
			log.Fatalf("item create: %v", err)
		}
		fmt.Printf("%s created item %s\n", successText("✓"), infoText(it.Id()))
		return
	}

	it, err := repo.NewItem()
	if err != nil {
		log.Fatalf("item create: %v", err)
	}
	fmt.Printf("%s created item %s\n", successText("✓"), infoText(it.Id()))
}

func runItemList(cmd *cobra.Command, args []string) {
	repo, err := openRepository()
	if err != nil {
		log.Fatalf("item list: %v", err)
	}

	items, err := repo.ItemIter()
	if err != nil {
		log.Fatalf("item list: %v", err)
	}
	if len(items) == 0 {
		fmt.Println(grayText("(no items)"))
		return
	}
	for _, it := range items {
		fmt.Println(it.Id())
	}
}
