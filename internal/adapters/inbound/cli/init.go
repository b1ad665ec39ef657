package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rsjslint/rsjslint/internal/adapters/outbound/config"
	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/rsjslint/rsjslint/internal/domain/rules"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		behaviorsDir string
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .rsjslint.yaml configuration file",
		Long:  "Create a .rsjslint.yaml with the default settings and every rule listed for tuning.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return invalid(fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName))
				}
			}

			if behaviorsDir == "" || strings.ContainsAny(behaviorsDir, `/\`) {
				return invalid(fmt.Errorf("--behaviors-dir must be a single directory name (got %q)", behaviorsDir))
			}

			if err := os.WriteFile(dest, []byte(generateConfig(behaviorsDir)), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&behaviorsDir, "behaviors-dir", "behaviors", "Directory name holding behavior files")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing "+config.FileName)

	return cmd
}

func generateConfig(behaviorsDir string) string {
	cfg := domain.DefaultConfig()

	var b strings.Builder
	b.WriteString("# rsjslint configuration\n# See: https://github.com/rsjslint/rsjslint\n\n")
	fmt.Fprintf(&b, "behaviors_dirs:\n  - %s\n", behaviorsDir)
	b.WriteString("helpers_dirs:\n")
	for _, d := range cfg.HelpersDirs {
		fmt.Fprintf(&b, "  - %s\n", d)
	}
	fmt.Fprintf(&b, "\nthreshold: %s\nformat: %s\n\n", cfg.Threshold, cfg.Format)

	b.WriteString("rules:\n")
	for _, r := range rules.Default().All() {
		fmt.Fprintf(&b, "  %s:\n    severity: %s\n", r.ID, r.Severity)
	}

	b.WriteString(`
# Selectors present on every page, so listeners bound to them need no guard.
# global_selectors:
#   - "[data-js-app]"

# Library names that belong in a vendor bundle.
# vendor_libraries:
#   - jquery
#   - lodash

# exclude:
#   - "**/legacy/**"

# custom_rules:
#   - id: no-id-selectors
#     severity: warning
#     message: "script queries element by id"
#     expr: 'selector.kind == "id" && file.kind == "script"'
`)
	return b.String()
}
