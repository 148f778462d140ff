package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/xmazu/envrun/internal/audit"
	"github.com/xmazu/envrun/internal/config"
	"github.com/xmazu/envrun/internal/dotenv"
	"github.com/xmazu/envrun/internal/tui"
	"github.com/xmazu/envrun/internal/workspace"
)

var checkCmd = &cobra.Command{
	Use:   "check [FILE|GLOB...]",
	Short: "Check env files for format errors",
	Long: `Parse each file and report values the parser rejects, with line numbers.
Arguments may be paths or doublestar globs like '**/.env*'. Without
arguments every env file discovered in the workspace is checked.
Exits non-zero when any file fails.`,
	RunE: runCheck,
}

var checkQuiet bool

func init() {
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "Only report failures")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}

	paths, err := resolveCheckTargets(args, cfg.Exclude)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no env files to check")
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range paths {
		vars, err := dotenv.Load(path)
		if err != nil {
			failed++
			fmt.Fprintf(out, "%s %s: %s\n", tui.Error("✗"), path, formatCheckError(err))
			continue
		}
		if !checkQuiet {
			fmt.Fprintf(out, "%s %s %s\n", tui.Success("✓"), path, tui.Muted(fmt.Sprintf("(%d variables)", len(vars))))
		}
	}

	if cfg.AuditEnabled() {
		_ = audit.Log("", audit.OpCheck, audit.WithFiles(paths), audit.WithExitCode(failed))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func formatCheckError(err error) string {
	var ferr *dotenv.FormatError
	if errors.As(err, &ferr) {
		return fmt.Sprintf("line %d: %s", ferr.Line, ferr.Msg)
	}
	var perr *dotenv.PathError
	if errors.As(err, &perr) {
		return fmt.Sprintf("unreadable: %v", perr.Err)
	}
	return err.Error()
}

// resolveCheckTargets expands args into file paths. Bare paths pass through,
// globs expand with doublestar, and no args means workspace discovery.
func resolveCheckTargets(args, excludes []string) ([]string, error) {
	if len(args) == 0 {
		wsRoot, err := workspace.FindRoot(".")
		if err != nil {
			return nil, err
		}
		files, err := workspace.ListEnvFiles(wsRoot, excludes)
		if err != nil {
			return nil, fmt.Errorf("list env files: %w", err)
		}
		rel := make([]string, 0, len(files))
		cwd, _ := os.Getwd()
		for _, f := range files {
			if r, err := filepath.Rel(cwd, f); err == nil {
				rel = append(rel, r)
			} else {
				rel = append(rel, f)
			}
		}
		return rel, nil
	}

	var paths []string
	seen := make(map[string]bool)
	for _, arg := range args {
		expanded := []string{arg}
		if containsGlobMeta(arg) {
			matches, err := doublestar.Glob(os.DirFS("."), filepath.ToSlash(arg))
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
			}
			expanded = expanded[:0]
			for _, m := range matches {
				expanded = append(expanded, filepath.FromSlash(m))
			}
		}
		for _, p := range expanded {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func containsGlobMeta(s string) bool {
	for _, c := range s {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
