package cli

import (
	"io"
	"log/slog"

	"github.com/rsjslint/rsjslint/internal/adapters/outbound/celrule"
	"github.com/rsjslint/rsjslint/internal/adapters/outbound/config"
	"github.com/rsjslint/rsjslint/internal/adapters/outbound/gitinfo"
	"github.com/rsjslint/rsjslint/internal/adapters/outbound/markup"
	"github.com/rsjslint/rsjslint/internal/adapters/outbound/scanner"
	"github.com/rsjslint/rsjslint/internal/adapters/outbound/script"
	"github.com/rsjslint/rsjslint/internal/adapters/outbound/stylesheet"
	"github.com/rsjslint/rsjslint/internal/application"
)

// newLogger writes structured logs to w. Verbose enables debug output.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newLintService wires the outbound adapters into a LintService. An empty
// configPath reads .rsjslint.yaml from the project root.
func newLintService(configPath string, logger *slog.Logger) (*application.LintService, error) {
	loader := config.New()
	if configPath != "" {
		loader = config.NewWithPath(configPath)
	}
	compiler, err := celrule.New()
	if err != nil {
		return nil, err
	}
	return application.NewLintService(
		scanner.New(),
		application.Extractors{
			Markup:     markup.New(),
			Script:     script.New(),
			Stylesheet: stylesheet.New(),
		},
		compiler,
		loader,
		application.WithLogger(logger),
		application.WithChangeDetector(gitinfo.New()),
	), nil
}
