package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rsjslint/rsjslint/internal/adapters/outbound/tui"
	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	var (
		jsonOutput bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "rules [path]",
		Short: "List the registered rules",
		Long:  "List built-in rules and the custom rules declared in the project's config with their default severities.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			svc, err := newLintService(configPath, newLogger(cmd.ErrOrStderr(), false))
			if err != nil {
				return invalid(err)
			}
			cfg, err := svc.LoadConfig(root)
			if err != nil {
				return invalid(err)
			}
			registry, err := svc.Registry(cfg)
			if err != nil {
				return invalid(err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(registry.All())
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(registry.All()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default <path>/.rsjslint.yaml)")

	return cmd
}
