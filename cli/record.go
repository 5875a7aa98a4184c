package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/javanhut/sit/internal/orderedfiles"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Create and inspect records",
}

var linkParents bool

var recordNewCmd = &cobra.Command{
	Use:   "new [item] [source-dir]",
	Short: "Create a new record in an item from a directory's contents",
	Args:  cobra.ExactArgs(2),
	Run:   runRecordNew,
}

var recordListCmd = &cobra.Command{
	Use:   "list [item]",
	Short: "List an item's records by generation",
	Args:  cobra.ExactArgs(1),
	Run:   runRecordList,
}

func init() {
	recordNewCmd.Flags().BoolVar(&linkParents, "link-parents", true, "link the item's current tips as this record's parents")
}

func runRecordNew(cmd *cobra.Command, args []string) {
	itemName, sourceDir := args[0], args[1]

	repo, err := openRepository()
	if err != nil {
		log.Fatalf("record new: %v", err)
	}
	it, err := repo.Item(itemName)
	if err != nil {
		log.Fatalf("record new: %v", err)
	}

	files, err := collectFiles(sourceDir)
	if err != nil {
		log.Fatalf("record new: %v", err)
	}

	rec, err := it.NewRecord(orderedfiles.New(files), linkParents)
	if err != nil {
		log.Fatalf("record new: %v", err)
	}
	fmt.Printf("%s created record %s in item %s\n", successText("✓"), infoText(rec.EncodedHash()), infoText(it.Id()))
}

func runRecordList(cmd *cobra.Command, args []string) {
	repo, err := openRepository()
	if err != nil {
		log.Fatalf("record list: %v", err)
	}
	it, err := repo.Item(args[0])
	if err != nil {
		log.Fatalf("record list: %v", err)
	}

	dagIt, err := it.RecordIter()
	if err != nil {
		log.Fatalf("record list: %v", err)
	}
	generations := dagIt.All()
	if len(generations) == 0 {
		fmt.Println(grayText("(no records)"))
		return
	}
	for i, gen := range generations {
		fmt.Println(sectionHeader(fmt.Sprintf("generation %d:", i+1)))
		for _, rec := range gen {
			size, err := recordSize(rec.Path())
			if err != nil {
				fmt.Printf("  %s\n", rec.EncodedHash())
				continue
			}
			fmt.Printf("  %s  %s\n", rec.EncodedHash(), grayText(humanize.Bytes(size)))
		}
	}
}

// collectFiles walks sourceDir and builds an orderedfiles.File per
// regular file, named by its slash-normalized path relative to
// sourceDir.
func collectFiles(sourceDir string) ([]orderedfiles.File, error) {
	var files []orderedfiles.File
	err := filepath.WalkDir(sourceDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		name := strings.ReplaceAll(rel, string(filepath.Separator), "/")
		p := path
		files = append(files, orderedfiles.File{
			Name: name,
			Open: func() (io.ReadCloser, error) {
				return os.Open(p)
			},
		})
		return nil
	})
	return files, err
}

func recordSize(recordPath string) (uint64, error) {
	var total uint64
	err := filepath.WalkDir(recordPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += uint64(info.Size())
		return nil
	})
	return total, err
}
