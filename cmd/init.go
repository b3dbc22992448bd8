package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arimxyer/svlt/internal/crypto"
	"github.com/arimxyer/svlt/internal/keymanager"
	"github.com/arimxyer/svlt/internal/security"
)

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: "vault",
	Short:   "Initialize a new password vault",
	Long: `Initialize creates a new encrypted vault for storing credentials.

You will be prompted to create a master password that will be used to
derive the key that encrypts and decrypts your vault. This password
should be strong and memorable - it cannot be recovered if lost.

By default, your vault will be stored at ~/.svlt/vault.svlt

To use a custom vault location, set vault_path in your config file:
  ~/.svlt/config.yaml`,
	Example: `  # Initialize a new vault
  svlt init`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	vaultPath := GetVaultPath()

	if _, err := os.Stat(vaultPath); err == nil {
		return fmt.Errorf("vault already exists at %s", vaultPath)
	}

	fmt.Println("Initializing new password vault")
	fmt.Printf("Vault location: %s\n\n", vaultPath)

	fmt.Print("Enter master password (min 12 characters with uppercase, lowercase, digit, symbol): ")
	password, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()
	defer crypto.ClearBytes(password)

	if err := security.DefaultPasswordPolicy.Validate(password); err != nil {
		return err
	}

	fmt.Print("Confirm master password: ")
	confirmPassword, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read confirmation password: %w", err)
	}
	fmt.Println()
	defer crypto.ClearBytes(confirmPassword)

	if string(password) != string(confirmPassword) {
		return fmt.Errorf("passwords do not match")
	}

	memKiB, iterations, parallelism := crypto.ArgonCost()
	logVerbose(IsVerbose(), "argon2id params: mem_kib=%d iterations=%d parallelism=%d", memKiB, iterations, parallelism)

	if err := keymanager.Create(vaultPath, password, memKiB, iterations, parallelism); err != nil {
		return fmt.Errorf("failed to initialize vault at %s: %w", vaultPath, err)
	}

	color.Green("Vault initialized successfully!")
	fmt.Printf("Location: %s\n", vaultPath)
	fmt.Println("Remember your master password - it cannot be recovered if lost!")
	fmt.Println("\nNext steps:")
	fmt.Println("  * Add a credential: svlt add <title>")
	fmt.Println("  * View help:        svlt --help")

	return nil
}
