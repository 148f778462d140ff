package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xmazu/envrun/internal/audit"
	"github.com/xmazu/envrun/internal/config"
	"github.com/xmazu/envrun/internal/envfile"
	"github.com/xmazu/envrun/internal/tui"
)

var setCmd = &cobra.Command{
	Use:   "set KEY[=VALUE]",
	Short: "Set a variable in an env file",
	Long: `Write a variable into the env file, preserving comments and layout.
With KEY alone the value is read interactively. Values with whitespace or
special characters are quoted so they re-parse unambiguously.`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

var setFile string
var setHidden bool

func init() {
	setCmd.Flags().StringVarP(&setFile, "file", "f", ".env", "Path to env file")
	setCmd.Flags().BoolVar(&setHidden, "hidden", false, "Hide the value while typing (interactive mode)")
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}

	key, value, inline := strings.Cut(args[0], "=")
	if key == "" {
		return fmt.Errorf("invalid key: use envrun set KEY or envrun set KEY=VALUE")
	}

	if !inline {
		value, err = readSetValue(key)
		if err != nil {
			return err
		}
	}

	envFile, err := envfile.Load(setFile)
	if err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	envFile.Set(key, value)
	if err := envFile.Save(); err != nil {
		return fmt.Errorf("save env file: %w", err)
	}

	if cfg.AuditEnabled() {
		_ = audit.Log("", audit.OpSet, audit.WithFiles([]string{setFile}), audit.WithKeys([]string{key}))
	}

	fmt.Fprintf(os.Stderr, "%s %s set\n", tui.Success("✓"), tui.Label(key))
	return nil
}

func readSetValue(key string) (string, error) {
	if setHidden {
		return tui.HiddenInput(fmt.Sprintf("Value for %s", key))
	}
	return tui.Input(fmt.Sprintf("Value for %s", key))
}
