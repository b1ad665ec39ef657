package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/rsjslint/rsjslint/internal/domain/rules"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/rsjslint/rsjslint/internal/application"

// RuleCompiler turns a custom rule declaration into a registry entry.
type RuleCompiler interface {
	Compile(cr domain.CustomRule) (rules.Rule, error)
}

// LintService orchestrates one conformance check:
// load config → scan → extract facts → evaluate rules → sorted report.
type LintService struct {
	scanner      domain.ProjectScanner
	extractors   Extractors
	compiler     RuleCompiler
	configLoader domain.ConfigLoader
	git          domain.ChangeDetector
	logger       *slog.Logger
	tracer       trace.Tracer
}

// Option configures a LintService.
type Option func(*LintService)

// WithLogger sets the structured logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *LintService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracerProvider sets the provider spans are recorded with. The default
// is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *LintService) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithChangeDetector enables --changed filtering and commit stamping.
func WithChangeDetector(cd domain.ChangeDetector) Option {
	return func(s *LintService) { s.git = cd }
}

func NewLintService(
	scanner domain.ProjectScanner,
	extractors Extractors,
	compiler RuleCompiler,
	configLoader domain.ConfigLoader,
	opts ...Option,
) *LintService {
	s := &LintService{
		scanner:      scanner,
		extractors:   extractors,
		compiler:     compiler,
		configLoader: configLoader,
		logger:       slog.New(slog.DiscardHandler),
		tracer:       otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "lint")
	return s
}

// LintRequest selects what one check covers.
type LintRequest struct {
	Root   string
	Config domain.ProjectConfig
	// ChangedOnly keeps only violations in files changed in the git worktree.
	ChangedOnly bool
	// Files keeps only violations in these project-relative files. The whole
	// project is still scanned since rules relate files to each other.
	Files []string
}

// LoadConfig reads the project configuration.
func (s *LintService) LoadConfig(projectPath string) (domain.ProjectConfig, error) {
	cfg, err := s.configLoader.Load(projectPath)
	if err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Registry returns the built-in rules plus the compiled custom rules of cfg.
func (s *LintService) Registry(cfg domain.ProjectConfig) (*rules.Registry, error) {
	registry := rules.Default()
	for _, cr := range cfg.CustomRules {
		if s.compiler == nil {
			return nil, &domain.ConfigurationError{Source: "custom_rules", Err: errors.New("custom rules are not supported")}
		}
		rule, err := s.compiler.Compile(cr)
		if err != nil {
			return nil, &domain.ConfigurationError{Source: "custom_rules", Err: err}
		}
		if err := registry.Register(rule); err != nil {
			return nil, &domain.ConfigurationError{Source: "custom_rules", Err: err}
		}
	}
	return registry, nil
}

// Lint runs a full check. Configuration problems are returned as
// *domain.ConfigurationError before any file is read; an unreadable root is
// a *domain.IOError. Per-file failures are part of the report.
func (s *LintService) Lint(ctx context.Context, req LintRequest) (_ *domain.Report, err error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.With("run_id", runID)

	ctx, span := s.tracer.Start(ctx, "lint", trace.WithAttributes(
		attribute.String("rsjslint.run_id", runID),
		attribute.String("rsjslint.root", req.Root),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	cfg := req.Config
	if err := cfg.Validate(); err != nil {
		return nil, &domain.ConfigurationError{Err: err}
	}
	registry, err := s.Registry(cfg)
	if err != nil {
		return nil, err
	}
	engine, err := rules.NewEngine(registry, cfg.Rules, cfg.Jobs)
	if err != nil {
		return nil, &domain.ConfigurationError{Source: "rules", Err: err}
	}

	var changed []string
	if req.ChangedOnly {
		if s.git == nil || !s.git.IsGitRepo(req.Root) {
			return nil, &domain.ConfigurationError{Source: "--changed", Err: errors.New("project is not inside a git repository")}
		}
		if changed, err = s.git.ChangedFiles(req.Root); err != nil {
			return nil, fmt.Errorf("listing changed files: %w", err)
		}
	}

	scan, err := s.scan(ctx, req.Root, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("scan complete", "files", len(scan.Files), "diagnostics", len(scan.Diagnostics))

	project, extractDiags, err := s.extract(ctx, scan, cfg)
	if err != nil {
		return nil, err
	}

	results, err := s.evaluate(ctx, engine, project)
	if err != nil {
		return nil, err
	}
	for _, d := range append(scan.Diagnostics, extractDiags...) {
		results[d.Rule] = append(results[d.Rule], d)
	}

	threshold := cfg.Threshold
	if threshold == "" {
		threshold = domain.SeverityError
	}
	report := domain.NewReport(scan.Root, countFiles(scan), threshold, results)
	if s.git != nil && s.git.IsGitRepo(req.Root) {
		if commit, err := s.git.CommitHash(req.Root); err == nil {
			report.Commit = commit
		}
	}
	if req.ChangedOnly {
		report.FilterFiles(changed)
	}
	if len(req.Files) > 0 {
		report.FilterFiles(req.Files)
	}

	counts := report.Counts()
	span.SetAttributes(
		attribute.Int("rsjslint.files", report.Files),
		attribute.Int("rsjslint.violations", len(report.Violations)),
	)
	log.Info("lint complete",
		"files", report.Files,
		"violations", len(report.Violations),
		"error", counts[domain.SeverityError],
		"warning", counts[domain.SeverityWarning],
		"info", counts[domain.SeverityInfo],
		"unknown", counts[domain.SeverityUnknown],
		"duration", time.Since(start),
	)
	return report, nil
}

func (s *LintService) scan(ctx context.Context, root string, cfg domain.ProjectConfig) (*domain.ScanResult, error) {
	ctx, span := s.tracer.Start(ctx, "scan")
	defer span.End()

	scan, err := s.scanner.Scan(ctx, root, domain.ScanOptions{
		Include: cfg.EffectiveInclude(),
		Exclude: cfg.EffectiveExclude(),
		Jobs:    cfg.Jobs,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	span.SetAttributes(attribute.Int("rsjslint.files", len(scan.Files)))
	return scan, nil
}

func (s *LintService) extract(ctx context.Context, scan *domain.ScanResult, cfg domain.ProjectConfig) (*domain.Project, []domain.Violation, error) {
	ctx, span := s.tracer.Start(ctx, "extract")
	defer span.End()

	project, diags, err := BuildProject(ctx, scan, cfg.Settings(), s.extractors, cfg.Jobs)
	if err != nil {
		span.RecordError(err)
		return nil, nil, fmt.Errorf("extracting facts: %w", err)
	}
	span.SetAttributes(
		attribute.Int("rsjslint.markup", len(project.Markup)),
		attribute.Int("rsjslint.scripts", len(project.Scripts)),
		attribute.Int("rsjslint.stylesheets", len(project.Stylesheets)),
		attribute.Int("rsjslint.behaviors", len(project.Behaviors)),
	)
	return project, diags, nil
}

func (s *LintService) evaluate(ctx context.Context, engine *rules.Engine, project *domain.Project) (domain.RuleResult, error) {
	ctx, span := s.tracer.Start(ctx, "evaluate")
	defer span.End()

	results, err := engine.Evaluate(ctx, project)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("evaluating rules: %w", err)
	}
	for id, vs := range results {
		s.logger.Debug("rule evaluated", "rule", id, "violations", len(vs))
	}
	return results, nil
}

// countFiles counts files read plus files that could not be decoded or read.
func countFiles(scan *domain.ScanResult) int {
	seen := make(map[string]bool, len(scan.Files)+len(scan.Diagnostics))
	for _, f := range scan.Files {
		seen[f.Path] = true
	}
	for _, d := range scan.Diagnostics {
		if d.File != "" {
			seen[d.File] = true
		}
	}
	return len(seen)
}
