package config

import (
	"os"
	"path/filepath"
)

const (
	ConfigDirEnv   = "ENVRUN_CONFIG_DIR"
	ConfigSubdir   = "envrun"
	ConfigFileName = "config.yaml"
)

func ConfigDir() string {
	if d := os.Getenv(ConfigDirEnv); d != "" {
		return d
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return filepath.Join(".", ConfigSubdir)
	}
	return filepath.Join(home, ".config", ConfigSubdir)
}

func Path() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}
