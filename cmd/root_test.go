package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

func TestRootCommand(t *testing.T) {
	t.Run("root command has correct metadata", func(t *testing.T) {
		if rootCmd.Use != "envrun" {
			t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "envrun")
		}
		if rootCmd.Long == "" {
			t.Error("rootCmd.Long should not be empty")
		}
	})

	t.Run("root command executes without error with --help", func(t *testing.T) {
		testCmd := &cobra.Command{
			Use:   rootCmd.Use,
			Short: rootCmd.Short,
			Long:  rootCmd.Long,
			Run:   func(cmd *cobra.Command, args []string) {},
		}

		testCmd.SetArgs([]string{"--help"})
		var buf bytes.Buffer
		testCmd.SetOut(&buf)

		if err := testCmd.Execute(); err != nil {
			t.Errorf("Execute() with --help error = %v", err)
		}
		if buf.String() == "" {
			t.Error("--help should produce output")
		}
	})

	t.Run("root command has subcommands", func(t *testing.T) {
		commands := []string{"run", "get", "set", "check", "ls", "audit"}
		for _, cmdName := range commands {
			found := false
			for _, sub := range rootCmd.Commands() {
				if sub.Name() == cmdName {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("rootCmd is missing subcommand %q", cmdName)
			}
		}
	})
}
