package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arimxyer/svlt/internal/svltconfig"
)

var (
	cfgFile string
	verbose bool

	// Version information (set via ldflags during build).
	version = "dev"
	commit  = "none"
	date    = "unknown"

	rootCmd = &cobra.Command{
		Use:   "svlt",
		Short: "A local, offline, encrypted password vault",
		Long: `svlt stores credential entries (title, username, password) in a
single-file, append-only, authenticated-encrypted log protected by a
master password. Every write appends a new authenticated record; nothing
is ever rewritten in place.

Examples:
  # Initialize a new vault
  svlt init

  # Add a new credential
  svlt add github

  # Retrieve a credential by its id
  svlt get 3fa85f64-5717-4562-b3fc-2c963f66afa6

  # List active credentials
  svlt list`,
		PersistentPreRunE: initConfig,
	}
)

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.svlt/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddGroup(
		&cobra.Group{ID: "vault", Title: "Vault Management:"},
		&cobra.Group{ID: "credentials", Title: "Credential Operations:"},
		&cobra.Group{ID: "utilities", Title: "Utilities:"},
	)
}

// GetVaultPath returns the configured vault file path, applying the
// --config flag override if one was set.
func GetVaultPath() string {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		_ = viper.ReadInConfig()
	}
	if viper.IsSet("vault_path") {
		return viper.GetString("vault_path")
	}

	cfg, err := svltconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return svltconfig.DefaultVaultName
	}
	return cfg.VaultPath
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose || viper.GetBool("verbose")
}

// initConfig loads the config file, if any, before any subcommand runs.
func initConfig(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "version", "help":
		return nil
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		viper.AddConfigPath(home + "/.svlt")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && IsVerbose() {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	return nil
}
