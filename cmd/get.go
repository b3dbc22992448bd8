package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arimxyer/svlt/internal/crypto"
	"github.com/arimxyer/svlt/internal/keymanager"
	"github.com/arimxyer/svlt/internal/vaulterr"
)

var (
	getField   string
	getCopy    bool
	getMasked  bool
)

var getCmd = &cobra.Command{
	Use:     "get <id>",
	GroupID: "credentials",
	Short:   "Retrieve a credential from the vault",
	Long: `Get replays the vault log and returns the most recent record for id.

A deleted entry (its last record is a tombstone) is reported as not
found, the same as an id that never existed.`,
	Example: `  # Show a credential
  svlt get 3fa85f64-5717-4562-b3fc-2c963f66afa6

  # Print only the username
  svlt get 3fa85f64-5717-4562-b3fc-2c963f66afa6 --field username

  # Copy the password to the clipboard
  svlt get 3fa85f64-5717-4562-b3fc-2c963f66afa6 --copy`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringVarP(&getField, "field", "f", "", "field to print alone: title, username, password")
	getCmd.Flags().BoolVar(&getCopy, "copy", false, "copy the password to the clipboard")
	getCmd.Flags().BoolVar(&getMasked, "masked", false, "display the password as asterisks")
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}

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

	var result struct {
		title, username, password string
	}

	err = keymanager.WithDEK(vaultPath, master, func(dek []byte) error {
		store, err := keymanager.Store(vaultPath)
		if err != nil {
			return err
		}
		entry, err := store.GetEntry(dek, id)
		if err != nil {
			return err
		}
		if entry.IsTombstone() {
			return vaulterr.ErrNotFound
		}
		result.title, result.username, result.password = entry.Title, entry.Username, entry.Password
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to get credential: %w", err)
	}

	if getField != "" {
		switch strings.ToLower(getField) {
		case "title":
			fmt.Println(result.title)
		case "username", "user":
			fmt.Println(result.username)
		case "password", "pass":
			fmt.Println(result.password)
		default:
			return fmt.Errorf("invalid field: %s (valid: title, username, password)", getField)
		}
	} else {
		fmt.Printf("Title:    %s\n", result.title)
		fmt.Printf("Username: %s\n", result.username)
		if getMasked {
			fmt.Printf("Password: %s\n", strings.Repeat("*", len(result.password)))
		} else {
			fmt.Printf("Password: %s\n", result.password)
		}
	}

	if getCopy {
		if err := clipboard.WriteAll(result.password); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to copy to clipboard: %v\n", err)
		} else {
			fmt.Println("Password copied to clipboard")
		}
	}

	return nil
}
