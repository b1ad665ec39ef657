package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/rsjslint/rsjslint/internal/adapters/outbound/config"
	"github.com/rsjslint/rsjslint/internal/adapters/outbound/report"
	"github.com/rsjslint/rsjslint/internal/application"
	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/spf13/cobra"
)

// checkOptions are the flags shared by check and watch.
type checkOptions struct {
	include    []string
	exclude    []string
	threshold  string
	format     string
	jobs       int
	configPath string
	disable    []string
	changed    bool
	verbose    bool
}

func (o *checkOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&o.include, "include", nil, "Glob of files to scan (repeatable, replaces the defaults)")
	cmd.Flags().StringArrayVar(&o.exclude, "exclude", nil, "Glob of files to skip (repeatable)")
	cmd.Flags().StringVar(&o.threshold, "threshold", "", "Lowest severity that fails the check: error, warning or info (default error)")
	cmd.Flags().StringVar(&o.format, "format", "", "Output format: text, json or sarif (default text)")
	cmd.Flags().IntVar(&o.jobs, "jobs", 0, "Parallel workers (default GOMAXPROCS)")
	cmd.Flags().StringVar(&o.configPath, "config", "", "Config file (default <path>/.rsjslint.yaml)")
	cmd.Flags().StringArrayVar(&o.disable, "disable", nil, "Rule id to disable (repeatable)")
	cmd.Flags().BoolVar(&o.changed, "changed", false, "Report only files changed in the git worktree")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Log debug output to stderr")
}

// prepare builds the service and the effective config for root. Flags win
// over env, env over the config file.
func (o *checkOptions) prepare(cmd *cobra.Command, root string) (*application.LintService, domain.ProjectConfig, error) {
	svc, err := newLintService(o.configPath, newLogger(cmd.ErrOrStderr(), o.verbose))
	if err != nil {
		return nil, domain.ProjectConfig{}, invalid(err)
	}
	cfg, err := svc.LoadConfig(root)
	if err != nil {
		return nil, domain.ProjectConfig{}, invalid(err)
	}
	cfg, err = config.Apply(cfg, config.Overrides{
		Include:   o.include,
		Exclude:   o.exclude,
		Threshold: o.threshold,
		Format:    o.format,
		Jobs:      o.jobs,
		JobsSet:   cmd.Flags().Changed("jobs"),
		Disable:   o.disable,
	})
	if err != nil {
		return nil, domain.ProjectConfig{}, invalid(&domain.ConfigurationError{Source: "flags", Err: err})
	}
	return svc, cfg, nil
}

// run lints root once and writes the report to the command's output.
func (o *checkOptions) run(ctx context.Context, cmd *cobra.Command, svc *application.LintService, root string, cfg domain.ProjectConfig) (*domain.Report, error) {
	rep, err := svc.Lint(ctx, application.LintRequest{Root: root, Config: cfg, ChangedOnly: o.changed})
	if err != nil {
		return nil, invalid(err)
	}
	registry, err := svc.Registry(cfg)
	if err != nil {
		return nil, invalid(err)
	}
	if err := report.New(registry.All(), version).Write(cmd.OutOrStdout(), cfg.Format, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func newCheckCmd() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Check a project against the rsjs conventions",
		Long: "Scan markup, scripts and stylesheets under path (default: current directory) and report " +
			"violations. Exits 1 when any violation reaches the threshold and 2 on invalid input.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			svc, cfg, err := opts.prepare(cmd, root)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
			defer stop()

			rep, err := opts.run(ctx, cmd, svc, root, cfg)
			if err != nil {
				return err
			}
			if rep.Failed() {
				return thresholdError(rep)
			}
			return nil
		},
	}
	opts.register(cmd)

	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// invalid marks err as an invocation error unless it already carries a code.
func invalid(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: ExitInvalid, Err: err}
}
