package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arimxyer/svlt/internal/crypto"
	"github.com/arimxyer/svlt/internal/keymanager"
	"github.com/arimxyer/svlt/internal/vaulterr"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	GroupID: "credentials",
	Aliases: []string{"rm", "remove"},
	Short:   "Delete a credential from the vault",
	Long: `Delete appends a tombstone record for id. The previous versions of the
entry remain in the log's history (use 'svlt list --all' to see them)
but no longer appear in the active set.`,
	Example: `  # Delete a credential
  svlt delete 3fa85f64-5717-4562-b3fc-2c963f66afa6

  # Skip the confirmation prompt
  svlt delete 3fa85f64-5717-4562-b3fc-2c963f66afa6 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}

	vaultPath := GetVaultPath()
	if _, err := os.Stat(vaultPath); os.IsNotExist(err) {
		return fmt.Errorf("vault not found at %s\nRun 'svlt init' to create a vault first", vaultPath)
	}

	if !deleteForce {
		confirm, err := promptYesNo(fmt.Sprintf("Delete credential %s?", id), false)
		if err != nil {
			return err
		}
		if !confirm {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	fmt.Print("Master password: ")
	master, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read master password: %w", err)
	}
	fmt.Println()
	defer crypto.ClearBytes(master)

	err = keymanager.WithDEK(vaultPath, master, func(dek []byte) error {
		store, err := keymanager.Store(vaultPath)
		if err != nil {
			return err
		}

		current, err := store.GetEntry(dek, id)
		if err != nil {
			return err
		}
		if current.IsTombstone() {
			return vaulterr.ErrNotFound
		}

		return store.DeleteEntry(dek, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	color.Green("Deleted: %s", id)
	return nil
}
