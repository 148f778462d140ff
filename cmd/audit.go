package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xmazu/envrun/internal/audit"
	"github.com/xmazu/envrun/internal/tui"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View and verify the audit log",
	Long: `View the local audit log and verify chain integrity.

envrun records parse, run, check and set operations in .envrun/audit.jsonl.
Each entry links to the previous one, forming a tamper-evident chain.`,
}

var auditShowCmd = &cobra.Command{
	Use:   "show [--last=N]",
	Short: "Show audit log entries",
	RunE:  runAuditShow,
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify audit log chain integrity",
	RunE:  runAuditVerify,
}

var (
	auditLastN   int
	auditWorkdir string
)

func init() {
	auditShowCmd.Flags().IntVarP(&auditLastN, "last", "n", 10, "Number of entries to show")
	auditShowCmd.Flags().StringVarP(&auditWorkdir, "workdir", "w", "", "Working directory (default: current)")

	auditVerifyCmd.Flags().StringVarP(&auditWorkdir, "workdir", "w", "", "Working directory (default: current)")

	auditCmd.AddCommand(auditShowCmd)
	auditCmd.AddCommand(auditVerifyCmd)

	rootCmd.AddCommand(auditCmd)
}

func runAuditShow(cmd *cobra.Command, args []string) error {
	entries, err := audit.Show(auditWorkdir, auditLastN)
	if err != nil {
		if err == audit.ErrNoAuditLog {
			fmt.Fprintln(cmd.OutOrStdout(), "No audit log found. Operations are logged as you use envrun here.")
			return nil
		}
		return fmt.Errorf("read audit log: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No entries in audit log.")
		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	result, err := audit.Verify(auditWorkdir)
	if err != nil {
		if err == audit.ErrNoAuditLog {
			fmt.Fprintln(cmd.OutOrStdout(), "No audit log found.")
			return nil
		}
		return fmt.Errorf("verify audit log: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Audit log verified: %d entries\n", result.TotalEntries)

	if len(result.Breaks) == 0 {
		fmt.Fprintf(out, "%s\n", tui.Success("Chain integrity: OK"))
		return nil
	}

	fmt.Fprintf(out, "%s at entries %v\n", tui.Error("Chain broken"), result.Breaks)
	return fmt.Errorf("audit chain broken at %d entries", len(result.Breaks))
}
