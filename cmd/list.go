package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/arimxyer/svlt/internal/crypto"
	"github.com/arimxyer/svlt/internal/keymanager"
	"github.com/arimxyer/svlt/internal/vaultlog"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: "credentials",
	Short:   "List credentials in the vault",
	Long: `List replays the vault log and displays (id, title) pairs.

By default it shows the active set: the last-write-wins view with
tombstoned entries removed. Use --all to see the raw append-order log
instead, including superseded records and tombstones.`,
	Example: `  # List active credentials
  svlt list

  # List the raw log, including history and deletions
  svlt list --all`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listAll, "all", false, "show the raw append-order log instead of the active set")
}

func runList(cmd *cobra.Command, args []string) error {
	vaultPath := GetVaultPath()
	if _, err := os.Stat(vaultPath); os.IsNotExist(err) {
		return fmt.Errorf("vault not found at %s\nRun 'svlt init' to create a vault first", vaultPath)
	}

	fmt.Print("Master password: ")
	master, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read master password: %w", err)
	}
	fmt.Println()
	defer crypto.ClearBytes(master)

	var entries []vaultlog.EntryTitle

	err = keymanager.WithDEK(vaultPath, master, func(dek []byte) error {
		store, err := keymanager.Store(vaultPath)
		if err != nil {
			return err
		}
		if listAll {
			entries, err = store.ListEntries(dek)
		} else {
			entries, err = store.ListActiveEntries(dek)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list credentials: %w", err)
	}

	if !listAll {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Title < entries[j].Title })
	}

	if len(entries) == 0 {
		fmt.Println("No credentials found.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Id", "Title"})
	var rows [][]string
	for _, e := range entries {
		rows = append(rows, []string{e.ID.String(), e.Title})
	}
	_ = table.Bulk(rows)
	_ = table.Render()

	fmt.Printf("\nTotal: %d\n", len(entries))
	return nil
}
