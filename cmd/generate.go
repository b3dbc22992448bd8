package cmd

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/arimxyer/svlt/internal/passgen"
)

var (
	genPreset        string
	genLength        int
	genPronounceable bool
	genNoClipboard   bool
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	GroupID: "utilities",
	Aliases: []string{"gen", "pwd"},
	Short:   "Generate a password",
	Long: `Generate builds a password using cryptographically secure randomness.

Use --preset to pick one of the built-in rule sets (default, safe,
balanced, fast), or --pronounceable for an alternating consonant/vowel
password instead of the rule-driven generator.`,
	Example: `  # Generate with the default rules
  svlt generate

  # Generate with the safe preset (20 characters)
  svlt generate --preset safe

  # Generate a pronounceable password
  svlt generate --pronounceable --length 14`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&genPreset, "preset", "default", "preset: default, safe, balanced, fast")
	generateCmd.Flags().IntVarP(&genLength, "length", "l", 0, "override the preset length (also used by --pronounceable)")
	generateCmd.Flags().BoolVar(&genPronounceable, "pronounceable", false, "generate an alternating consonant/vowel password")
	generateCmd.Flags().BoolVar(&genNoClipboard, "no-clipboard", false, "do not copy to clipboard")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	var password string
	var err error

	if genPronounceable {
		length := genLength
		if length <= 0 {
			length = 16
		}
		password, err = passgen.Pronounceable(length)
		if err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}
	} else {
		rules, ok := passgen.Preset(genPreset)
		if !ok {
			return fmt.Errorf("unknown preset: %s (valid: default, safe, balanced, fast)", genPreset)
		}
		if genLength > 0 {
			rules.Length = genLength
		}
		password, err = passgen.Generate(rules)
		if err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}
	}

	fmt.Printf("Generated password:\n  %s\n\n", password)
	fmt.Printf("Strength: %s\n", passgen.Classify(password))

	if !genNoClipboard {
		if err := clipboard.WriteAll(password); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to copy to clipboard: %v\n", err)
		} else {
			fmt.Println("Copied to clipboard")
		}
	}

	return nil
}
