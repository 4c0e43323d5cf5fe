package service

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/ludo-technologies/ktscan/domain"
	"github.com/ludo-technologies/ktscan/internal/analyzer"
	"github.com/ludo-technologies/ktscan/internal/config"
	"github.com/ludo-technologies/ktscan/internal/logging"
	"github.com/ludo-technologies/ktscan/internal/parser"
	"github.com/ludo-technologies/ktscan/internal/version"
)

// analysis stages reported to the progress manager
var complexityStages = []string{"reading", "parsing", "analyzing", "ranking"}

var _ domain.ComplexityService = (*ComplexityServiceImpl)(nil)

// ComplexityServiceImpl implements the ComplexityService interface
type ComplexityServiceImpl struct {
	progress domain.ProgressManager
	logger   *slog.Logger
	reader   domain.FileReader
}

// NewComplexityService creates a new complexity service implementation
func NewComplexityService() *ComplexityServiceImpl {
	return &ComplexityServiceImpl{
		logger: logging.Discard(),
	}
}

// NewComplexityServiceWithProgress creates a new complexity service with progress reporting and logging
func NewComplexityServiceWithProgress(pm domain.ProgressManager, logger *slog.Logger) *ComplexityServiceImpl {
	return &ComplexityServiceImpl{
		progress: pm,
		logger:   logging.OrDiscard(logger),
	}
}

// WithFileReader makes AnalyzeFile read sources through reader instead of the
// local filesystem
func (s *ComplexityServiceImpl) WithFileReader(reader domain.FileReader) *ComplexityServiceImpl {
	s.reader = reader
	return s
}

// AnalyzeFile reads and analyzes a single Kotlin file
func (s *ComplexityServiceImpl) AnalyzeFile(ctx context.Context, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	task := s.startTask(req.FilePath)
	defer task.Complete()

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	task.Describe(complexityStages[0])
	content, err := s.readFile(req.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(req.FilePath, err)
		}
		return nil, domain.NewAnalysisError("failed to read "+req.FilePath, err)
	}
	task.Increment(1)
	s.logger.Debug("read source", "file", req.FilePath, "bytes", len(content), "elapsed", time.Since(start))

	return s.analyze(ctx, req.FilePath, content, req, task, start)
}

// AnalyzeSource analyzes in-memory Kotlin source labelled with filename
func (s *ComplexityServiceImpl) AnalyzeSource(ctx context.Context, filename string, source []byte, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	task := s.startTask(filename)
	defer task.Complete()
	task.Increment(1)

	return s.analyze(ctx, filename, source, req, task, time.Now())
}

// analyze runs the parse, analyze and rank stages, checking for cancellation between them
func (s *ComplexityServiceImpl) analyze(
	ctx context.Context,
	filename string,
	source []byte,
	req domain.ComplexityRequest,
	task domain.TaskProgress,
	start time.Time,
) (*domain.ComplexityResponse, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	task.Describe(complexityStages[1])
	stageStart := time.Now()
	ast, err := parser.ParseKotlinFile(ctx, filename, source)
	if err != nil {
		var syntaxErr *parser.ParseError
		if errors.As(err, &syntaxErr) {
			// already located as file:line:col
			return nil, domain.NewDomainError(domain.ErrCodeParseError, "syntax error", err)
		}
		return nil, domain.NewParseError(filename, err)
	}
	task.Increment(1)
	s.logger.Debug("parsed source", "file", filename, "elapsed", time.Since(stageStart))

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	task.Describe(complexityStages[2])
	stageStart = time.Now()
	cfg := complexityConfigFrom(req)
	branchAnalyzer := analyzer.NewBranchComplexityAnalyzer(cfg)
	metrics, err := branchAnalyzer.AnalyzeFile(ast)
	if err != nil {
		return nil, domain.NewAnalysisError("complexity analysis failed for "+filename, err)
	}
	task.Increment(1)
	s.logger.Debug("analyzed branches", "file", filename, "functions", metrics.Len(), "elapsed", time.Since(stageStart))

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	task.Describe(complexityStages[3])
	metric := analyzer.MetricBranchCount
	if req.Metric != "" {
		metric, err = analyzer.ParseMetric(string(req.Metric))
		if err != nil {
			return nil, domain.NewInvalidInputError("invalid metric", err)
		}
	}

	functions := s.buildFunctions(filename, metrics, metric, branchAnalyzer)
	ranked := s.rankFunctions(filename, metrics, metric, branchAnalyzer, req.Top)
	task.Increment(1)

	summary := s.generateSummary(functions, metrics)
	summary.FileSize = int64(len(source))
	summary.DurationMs = time.Since(start).Milliseconds()

	var warnings []string
	if summary.TopLevelBranches > 0 {
		warnings = append(warnings, "branches outside any function are not ranked")
	}

	s.logger.Debug("ranked functions", "file", filename, "metric", string(metric), "listed", len(ranked))

	return &domain.ComplexityResponse{
		FilePath:    filename,
		Metric:      domain.MetricType(metric),
		Top:         req.Top,
		Ranked:      ranked,
		Functions:   functions,
		Summary:     summary,
		Warnings:    warnings,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.GetVersion(),
		Config:      s.buildConfigForResponse(cfg, metric, req),
	}, nil
}

// buildFunctions converts every named record to the domain model in first-seen order
func (s *ComplexityServiceImpl) buildFunctions(
	filename string,
	metrics *analyzer.Metrics,
	metric analyzer.Metric,
	branchAnalyzer *analyzer.BranchComplexityAnalyzer,
) []domain.FunctionComplexity {
	names := lo.Filter(metrics.Functions(), func(name string, _ int) bool { return name != "" })

	return lo.Map(names, func(name string, _ int) domain.FunctionComplexity {
		record, _ := metrics.RecordFor(name)
		return toFunctionComplexity(filename, analyzer.RankedFunction{
			Name:   name,
			Value:  metric.Value(record),
			Record: record,
		}, 0, branchAnalyzer)
	})
}

// rankFunctions sorts named functions by the metric and keeps the top entries
func (s *ComplexityServiceImpl) rankFunctions(
	filename string,
	metrics *analyzer.Metrics,
	metric analyzer.Metric,
	branchAnalyzer *analyzer.BranchComplexityAnalyzer,
	top int,
) []domain.FunctionComplexity {
	ranked := lo.Filter(analyzer.Rank(metrics, metric), func(r analyzer.RankedFunction, _ int) bool {
		return r.Name != ""
	})

	return lo.Map(analyzer.Top(ranked, top), func(r analyzer.RankedFunction, i int) domain.FunctionComplexity {
		return toFunctionComplexity(filename, r, i+1, branchAnalyzer)
	})
}

func toFunctionComplexity(
	filename string,
	r analyzer.RankedFunction,
	rank int,
	branchAnalyzer *analyzer.BranchComplexityAnalyzer,
) domain.FunctionComplexity {
	return domain.FunctionComplexity{
		Rank:         rank,
		Name:         r.Name,
		FilePath:     filename,
		Value:        r.Value,
		BranchCount:  r.Record.BranchCount,
		MaxDepth:     r.Record.MaxDepth,
		StartLine:    r.Record.StartLine,
		EndLine:      r.Record.EndLine,
		DeepestLine:  r.Record.DeepestLine,
		Declarations: r.Record.Declarations,
		RiskLevel:    domain.RiskLevel(branchAnalyzer.RiskLevel(r.Record)),
	}
}

// generateSummary generates a summary of the complexity analysis
func (s *ComplexityServiceImpl) generateSummary(functions []domain.FunctionComplexity, metrics *analyzer.Metrics) domain.ComplexitySummary {
	summary := domain.ComplexitySummary{
		TotalFunctions: len(functions),
	}

	if topLevel, ok := metrics.RecordFor(""); ok {
		summary.TopLevelBranches = topLevel.BranchCount
	}

	if len(functions) == 0 {
		return summary
	}

	for _, fn := range functions {
		summary.TotalBranches += fn.BranchCount
		summary.MaxBranches = max(summary.MaxBranches, fn.BranchCount)
		summary.MaxDepth = max(summary.MaxDepth, fn.MaxDepth)

		switch fn.RiskLevel {
		case domain.RiskLevelHigh:
			summary.HighRiskFunctions++
		case domain.RiskLevelMedium:
			summary.MediumRiskFunctions++
		case domain.RiskLevelLow:
			summary.LowRiskFunctions++
		}
	}

	summary.AverageBranches = float64(summary.TotalBranches) / float64(len(functions))
	return summary
}

// buildConfigForResponse builds the configuration section for the response
func (s *ComplexityServiceImpl) buildConfigForResponse(cfg *config.ComplexityConfig, metric analyzer.Metric, req domain.ComplexityRequest) map[string]interface{} {
	return map[string]interface{}{
		"low_threshold":           cfg.LowThreshold,
		"medium_threshold":        cfg.MediumThreshold,
		"reset_depth_at_function": cfg.ResetDepthAtFunction,
		"metric":                  string(metric),
		"top":                     req.Top,
	}
}

func (s *ComplexityServiceImpl) readFile(path string) ([]byte, error) {
	if s.reader == nil {
		return os.ReadFile(path)
	}
	return s.reader.ReadFile(path)
}

func (s *ComplexityServiceImpl) startTask(filename string) domain.TaskProgress {
	if s.progress == nil {
		return &NoOpTaskProgress{}
	}
	return s.progress.StartTask("Analyzing "+filename, len(complexityStages))
}

// complexityConfigFrom builds analyzer configuration from a request, falling back to defaults
func complexityConfigFrom(req domain.ComplexityRequest) *config.ComplexityConfig {
	cfg := config.DefaultConfig().Complexity
	if req.LowThreshold > 0 {
		cfg.LowThreshold = req.LowThreshold
	}
	if req.MediumThreshold > 0 {
		cfg.MediumThreshold = req.MediumThreshold
	}
	cfg.MaxBranches = req.MaxBranches
	cfg.MaxDepth = req.MaxDepth
	cfg.ResetDepthAtFunction = req.ResetDepthAtFunction
	return &cfg
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "complexity analysis cancelled")
	default:
		return nil
	}
}
