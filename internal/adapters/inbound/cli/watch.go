package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rsjslint/rsjslint/internal/adapters/outbound/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		opts     checkOptions
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-run the check whenever sources change",
		Long:  "Run the check, then watch path and run it again after each burst of changes to markup, scripts, stylesheets or the config file. Stop with Ctrl-C.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			if _, err := os.Stat(root); err != nil {
				return invalid(err)
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
			defer stop()

			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
			// Failures are reported and the watch goes on.
			once := func(ctx context.Context) {
				svc, cfg, err := opts.prepare(cmd, root)
				if err == nil {
					_, err = opts.run(ctx, cmd, svc, root, cfg)
				}
				if err != nil && ctx.Err() == nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "rsjslint: %v\n", err)
				}
			}

			once(ctx)
			w := watcher.New(root, debounce, logger)
			return w.Run(ctx, func(ctx context.Context) error {
				fmt.Fprintln(cmd.OutOrStdout())
				once(ctx)
				return nil
			})
		},
	}
	opts.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "Quiet period before re-running")

	return cmd
}
