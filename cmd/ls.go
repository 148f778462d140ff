package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/xmazu/envrun/internal/config"
	"github.com/xmazu/envrun/internal/tui"
	"github.com/xmazu/envrun/internal/workspace"
)

var lsCmd = &cobra.Command{
	Use:   "ls [directory]",
	Short: "List env files in a directory tree",
	Long: `Discover and list .env and .env.* files under the given directory.
Auto-detects the workspace root when no directory is given.
Output is a simple tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}

	explicitDir := len(args) == 1

	var root string
	if explicitDir {
		root = args[0]
	} else {
		wsRoot, err := workspace.FindRoot(".")
		if err != nil {
			return fmt.Errorf("detect workspace: %w", err)
		}
		if workspace.IsWorkspace(wsRoot) {
			root = wsRoot
		} else {
			root = "."
		}
	}

	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}

	files, err := workspace.ListEnvFiles(root, cfg.Exclude)
	if err != nil {
		return fmt.Errorf("list env files: %w", err)
	}

	var paths []string
	for _, f := range files {
		rel, _ := filepath.Rel(root, f)
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil
	}

	var stdout io.Writer = os.Stdout
	if cmd != nil {
		stdout = cmd.OutOrStdout()
	}

	if !explicitDir && workspace.IsWorkspace(root) {
		marker := workspace.FindMarker(root)
		fmt.Fprintf(stdout, "%s%s (%s)\n\n", tui.Label("Workspace: "), root, workspace.FormatMarkerForDisplay(marker))
	}

	tree := workspace.BuildEnvTree(paths)
	workspace.PrintEnvTree(stdout, tree, "", true)
	return nil
}
