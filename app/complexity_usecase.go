package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/ludo-technologies/ktscan/domain"
)

// ComplexityUseCase orchestrates the complexity analysis workflow
type ComplexityUseCase struct {
	service    domain.ComplexityService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewComplexityUseCase creates a new complexity use case
func NewComplexityUseCase(service domain.ComplexityService, formatter domain.OutputFormatter) *ComplexityUseCase {
	return &ComplexityUseCase{
		service:   service,
		formatter: formatter,
	}
}

// Execute validates the request, analyzes the file and writes the report to
// req.OutputWriter when one is set
func (uc *ComplexityUseCase) Execute(ctx context.Context, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	response, err := uc.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.OutputWriter != nil {
		if err := uc.Write(response, req.OutputFormat, req.OutputWriter); err != nil {
			return response, err
		}
	}

	return response, nil
}

// Analyze validates the request and analyzes the file without writing output
func (uc *ComplexityUseCase) Analyze(ctx context.Context, req domain.ComplexityRequest) (*domain.ComplexityResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	if err := uc.checkFile(req); err != nil {
		return nil, err
	}

	response, err := uc.service.AnalyzeFile(ctx, req)
	if err != nil {
		if domain.CodeOf(err) != "" {
			return nil, err
		}
		return nil, domain.NewAnalysisError("complexity analysis failed", err)
	}

	return response, nil
}

// Write renders a response with the configured formatter
func (uc *ComplexityUseCase) Write(response *domain.ComplexityResponse, format domain.OutputFormat, writer io.Writer) error {
	if uc.formatter == nil {
		return domain.NewOutputError("no output formatter configured", nil)
	}
	if format == "" {
		format = domain.OutputFormatText
	}
	return uc.formatter.Write(response, format, writer)
}

// checkFile verifies the file is an accepted, existing Kotlin file
func (uc *ComplexityUseCase) checkFile(req domain.ComplexityRequest) error {
	helper := uc.fileHelper
	if helper == nil {
		helper = NewFileHelperWithPatterns(req.Extensions, req.ExcludePatterns)
	}

	if !helper.hasKotlinExtension(req.FilePath) {
		return domain.NewInvalidInputError(fmt.Sprintf("not a Kotlin file: %s", req.FilePath), nil)
	}
	if helper.IsExcluded(req.FilePath) {
		return domain.NewInvalidInputError(fmt.Sprintf("file is excluded by configuration: %s", req.FilePath), nil)
	}

	exists, err := helper.FileExists(req.FilePath)
	if err != nil {
		return domain.NewFileNotFoundError(req.FilePath, err)
	}
	if !exists {
		return domain.NewFileNotFoundError(req.FilePath, errors.New("file does not exist"))
	}
	return nil
}

// validateRequest validates the complexity request
func (uc *ComplexityUseCase) validateRequest(req domain.ComplexityRequest) error {
	if strings.TrimSpace(req.FilePath) == "" {
		return errors.New("no input file specified")
	}

	if req.Top < 0 {
		return errors.New("top cannot be negative")
	}

	if req.LowThreshold < 0 || req.MediumThreshold < 0 {
		return errors.New("thresholds cannot be negative")
	}

	if req.LowThreshold > 0 && req.MediumThreshold > 0 && req.MediumThreshold <= req.LowThreshold {
		return errors.New("medium threshold must be greater than low threshold")
	}

	switch req.Metric {
	case "", domain.MetricBranchCount, domain.MetricMaxDepth:
	default:
		return errors.Errorf("unknown metric %q", req.Metric)
	}

	return nil
}

// ComplexityUseCaseBuilder provides a builder pattern for creating ComplexityUseCase
type ComplexityUseCaseBuilder struct {
	service    domain.ComplexityService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewComplexityUseCaseBuilder creates a new builder
func NewComplexityUseCaseBuilder() *ComplexityUseCaseBuilder {
	return &ComplexityUseCaseBuilder{}
}

// WithService sets the complexity service
func (b *ComplexityUseCaseBuilder) WithService(service domain.ComplexityService) *ComplexityUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *ComplexityUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *ComplexityUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithFileHelper sets the file helper; without one it is built from each request
func (b *ComplexityUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *ComplexityUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the ComplexityUseCase with the configured dependencies
func (b *ComplexityUseCaseBuilder) Build() (*ComplexityUseCase, error) {
	if b.service == nil {
		return nil, errors.New("complexity service is required")
	}

	return &ComplexityUseCase{
		service:    b.service,
		formatter:  b.formatter,
		fileHelper: b.fileHelper,
	}, nil
}
