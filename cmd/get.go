package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xmazu/envrun/internal/runenv"
)

var getCmd = &cobra.Command{
	Use:   "get [KEY]",
	Short: "Print parsed environment variable(s)",
	Long: `Print one or all variables from the env file.
Without KEY, outputs all variables as JSON. With KEY, outputs the single
value (for scripts: $(envrun get KEY)). Use --format shell or --format eval
for shell-friendly output. Use --masked to print a masked value.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGet,
}

var getFile string
var getFormat string
var getMasked bool

func init() {
	getCmd.Flags().StringVarP(&getFile, "file", "f", ".env", "Path to env file")
	getCmd.Flags().StringVar(&getFormat, "format", "json", "Output format: json, shell, or eval (raw value when KEY given)")
	getCmd.Flags().BoolVar(&getMasked, "masked", false, "Show masked value instead of plaintext (requires KEY)")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	envFilePath, err := runenv.ResolveEnvPath(getFile, "")
	if err != nil {
		return fmt.Errorf("resolve env path: %w", err)
	}

	vars, err := runenv.LoadEnvFromFiles([]string{envFilePath}, false, true)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		key := args[0]
		value, ok := vars[key]
		if !ok {
			return fmt.Errorf("key %q not found", key)
		}

		if getMasked {
			output := map[string]interface{}{
				"key":          key,
				"masked_value": runenv.MaskValue(value),
				"value_length": len(value),
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(output)
		}

		switch getFormat {
		case "shell":
			fmt.Fprint(cmd.OutOrStdout(), shellEscape(key)+"="+shellEscape(value))
			return nil
		case "eval":
			fmt.Fprint(cmd.OutOrStdout(), shellEscape(key)+"="+evalQuoted(value))
			return nil
		default:
			fmt.Fprint(cmd.OutOrStdout(), value)
			return nil
		}
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	switch getFormat {
	case "shell":
		var b strings.Builder
		for i, k := range keys {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(shellEscape(k))
			b.WriteString("=")
			b.WriteString(shellEscape(vars[k]))
		}
		fmt.Fprint(cmd.OutOrStdout(), b.String())
		return nil
	case "eval":
		for _, k := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), shellEscape(k)+"="+evalQuoted(vars[k]))
		}
		return nil
	default:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		return enc.Encode(vars)
	}
}

func shellEscape(s string) string {
	if strings.ContainsAny(s, " \t\n\"'") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}

func evalQuoted(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
}
