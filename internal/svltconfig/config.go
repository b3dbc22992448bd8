// Package svltconfig resolves the vault file path and optional Argon2id
// cost values from a YAML config file and SVLT_-prefixed environment
// variables, in that increasing order of precedence, using spf13/viper.
package svltconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configDirName  = ".svlt"
	configFileName = "config"
	configFileType = "yaml"

	// DefaultVaultName is the file name used inside configDirName when no
	// vault_path is configured.
	DefaultVaultName = "vault.svlt"
)

// Config is the resolved set of user-configurable values. Argon2 holds the
// argon2.* values as read; vault creation does not use them, since it takes
// its cost from crypto.ArgonCost, which reads only the SVLT_ARGON2_*
// environment variables.
type Config struct {
	VaultPath string `mapstructure:"vault_path"`

	Argon2 struct {
		MemKiB      int `mapstructure:"mem_kib"`
		Iterations  int `mapstructure:"iterations"`
		Parallelism int `mapstructure:"parallelism"`
	} `mapstructure:"argon2"`
}

// Load reads ~/.svlt/config.yaml if present, applies SVLT_-prefixed
// environment variable overrides, and returns the resolved Config. A
// missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("svltconfig: resolve home directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(filepath.Join(home, configDirName))
	v.SetEnvPrefix("SVLT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("vault_path", filepath.Join(home, configDirName, DefaultVaultName))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("svltconfig: read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("svltconfig: parse config: %w", err)
	}

	cfg.VaultPath = expandPath(cfg.VaultPath, home)

	return &cfg, nil
}

func expandPath(path, home string) string {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~") {
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(home, path)
	}
	return path
}
