package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arimxyer/svlt/internal/crypto"
	"github.com/arimxyer/svlt/internal/keymanager"
)

var unlockCmd = &cobra.Command{
	Use:     "unlock",
	GroupID: "vault",
	Short:   "Verify the master password against the vault",
	Long: `Unlock derives the key-encryption key from the master password and
attempts to unwrap the vault's data-encryption key. It does not start a
session and does not print any vault contents - it only reports whether
the password is correct.`,
	Example: `  # Check the master password is correct
  svlt unlock`,
	RunE: runUnlock,
}

func init() {
	rootCmd.AddCommand(unlockCmd)
}

func runUnlock(cmd *cobra.Command, args []string) error {
	vaultPath := GetVaultPath()

	if _, err := os.Stat(vaultPath); os.IsNotExist(err) {
		return fmt.Errorf("vault not found at %s\nRun 'svlt init' to create a vault first", vaultPath)
	}

	fmt.Print("Master password: ")
	password, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()
	defer crypto.ClearBytes(password)

	if err := keymanager.Unlock(vaultPath, password); err != nil {
		return fmt.Errorf("failed to unlock vault: %w", err)
	}

	color.Green("Vault unlocked successfully")
	return nil
}
