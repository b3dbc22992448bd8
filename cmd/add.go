package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arimxyer/svlt/internal/codec"
	"github.com/arimxyer/svlt/internal/crypto"
	"github.com/arimxyer/svlt/internal/keymanager"
	"github.com/arimxyer/svlt/internal/passgen"
	"github.com/arimxyer/svlt/internal/vaultlog"
)

var (
	addUsername string
	addPassword string
	addGenerate bool
	addPreset   string
)

var addCmd = &cobra.Command{
	Use:     "add <title>",
	GroupID: "credentials",
	Short:   "Add a new credential to the vault",
	Long: `Add appends a new entry (title, username, password) to the vault log.

You will be prompted for the username and password. The password input
is hidden. Use --generate to have a password generated for you instead
of typing one.`,
	Example: `  # Add a credential with prompts
  svlt add github

  # Add with username flag
  svlt add github --username me@example.com

  # Add with a generated password
  svlt add github --username me@example.com --generate`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addUsername, "username", "u", "", "username for the credential")
	addCmd.Flags().StringVarP(&addPassword, "password", "p", "", "password for the credential (not recommended, use prompt instead)")
	addCmd.Flags().BoolVarP(&addGenerate, "generate", "g", false, "generate a password instead of prompting")
	addCmd.Flags().StringVar(&addPreset, "preset", "default", "preset used with --generate: default, safe, balanced, fast")
	addCmd.MarkFlagsMutuallyExclusive("password", "generate")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(args[0])
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	vaultPath := GetVaultPath()
	if _, err := os.Stat(vaultPath); os.IsNotExist(err) {
		return fmt.Errorf("vault not found at %s\nRun 'svlt init' to create a vault first", vaultPath)
	}

	if addUsername == "" {
		fmt.Print("Username: ")
		username, err := readLineInput()
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		addUsername = username
	}

	if addPassword == "" {
		if addGenerate {
			rules, ok := passgen.Preset(addPreset)
			if !ok {
				return fmt.Errorf("unknown preset: %s", addPreset)
			}
			generated, err := passgen.Generate(rules)
			if err != nil {
				return fmt.Errorf("failed to generate password: %w", err)
			}
			addPassword = generated

			if err := clipboard.WriteAll(addPassword); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to copy password to clipboard: %v\n", err)
			} else {
				fmt.Println("Generated password (copied to clipboard)")
			}
		} else {
			fmt.Print("Password: ")
			password, err := readPassword()
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			fmt.Println()
			addPassword = string(password)
			crypto.ClearBytes(password)
		}
	}

	if addPassword == "" {
		return fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Master password: ")
	master, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read master password: %w", err)
	}
	fmt.Println()
	defer crypto.ClearBytes(master)

	id := vaultlog.NewEntryID()

	err = keymanager.WithDEK(vaultPath, master, func(dek []byte) error {
		store, err := keymanager.Store(vaultPath)
		if err != nil {
			return err
		}
		entry := codec.Entry{ID: id, Title: title, Username: addUsername, Password: addPassword}
		return store.WriteEntry(dek, entry)
	})
	if err != nil {
		return fmt.Errorf("failed to add credential: %w", err)
	}

	color.Green("Credential added successfully!")
	fmt.Printf("Id:    %s\n", id)
	fmt.Printf("Title: %s\n", title)
	if addUsername != "" {
		fmt.Printf("User:  %s\n", addUsername)
	}

	return nil
}
