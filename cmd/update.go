package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arimxyer/svlt/internal/codec"
	"github.com/arimxyer/svlt/internal/crypto"
	"github.com/arimxyer/svlt/internal/keymanager"
	"github.com/arimxyer/svlt/internal/passgen"
	"github.com/arimxyer/svlt/internal/vaulterr"
)

var (
	updateTitle    string
	updateUsername string
	updatePassword string
	updateGenerate bool
	updatePreset   string
)

var updateCmd = &cobra.Command{
	Use:     "update <id>",
	GroupID: "credentials",
	Short:   "Update an existing credential",
	Long: `Update appends a new record under the same id, superseding the
previous values on replay. Fields whose flag is not given keep their
current value; only the master password is prompted for.`,
	Example: `  # Change the title of a credential
  svlt update 3fa85f64-5717-4562-b3fc-2c963f66afa6 --title work-github

  # Rotate the password
  svlt update 3fa85f64-5717-4562-b3fc-2c963f66afa6 --generate`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new title")
	updateCmd.Flags().StringVarP(&updateUsername, "username", "u", "", "new username")
	updateCmd.Flags().StringVarP(&updatePassword, "password", "p", "", "new password")
	updateCmd.Flags().BoolVarP(&updateGenerate, "generate", "g", false, "generate a new password")
	updateCmd.Flags().StringVar(&updatePreset, "preset", "default", "preset used with --generate: default, safe, balanced, fast")
	updateCmd.MarkFlagsMutuallyExclusive("password", "generate")
}

func runUpdate(cmd *cobra.Command, args []string) error {
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

	if updateGenerate {
		rules, ok := passgen.Preset(updatePreset)
		if !ok {
			return fmt.Errorf("unknown preset: %s", updatePreset)
		}
		generated, err := passgen.Generate(rules)
		if err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}
		updatePassword = generated

		if err := clipboard.WriteAll(updatePassword); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to copy password to clipboard: %v\n", err)
		} else {
			fmt.Println("Generated new password (copied to clipboard)")
		}
	}

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

		title, username, password := current.Title, current.Username, current.Password
		if updateTitle != "" {
			title = updateTitle
		}
		if updateUsername != "" {
			username = updateUsername
		}
		if updatePassword != "" {
			password = updatePassword
		}

		entry := codec.Entry{ID: id, Title: title, Username: username, Password: password}
		return store.UpdateEntry(dek, entry)
	})
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}

	color.Green("Credential updated successfully!")
	return nil
}
