package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "envrun",
	Short:         "Strict .env parsing and command running",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `envrun parses .env files with strict, unambiguous rules and runs commands
with the variables injected. Unquoted values may not contain raw whitespace;
quoted values support \" and \\ escapes and inline # comments. Ambiguous
files fail loudly instead of silently misparsing.

EXAMPLES:

  envrun run -- node server.js
  envrun run -f .env -f .env.local --overload -- make test
  envrun get DATABASE_URL
  envrun check '**/.env*'
  envrun set LOG_LEVEL=debug

Discovery: inside a workspace (go.work, pnpm-workspace.yaml, .git, ...)
envrun finds every .env file below the root; see envrun ls.`,
}

func init() {
	// Cobra adds --version when Version is set; use a clear template
	rootCmd.SetVersionTemplate("envrun version {{.Version}}\n")
}

// SetVersion sets the version string shown by --version (e.g. from ldflags).
func SetVersion(v string) { rootCmd.Version = v }

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
