package service

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/ludo-technologies/ktscan/domain"
)

// stageBarWidth is the bar width in cells; a run has only a handful of stages
const stageBarWidth = 12

// ProgressManagerImpl draws one stage bar per analyzed file
type ProgressManagerImpl struct {
	writer io.Writer
	bars   []*progressbar.ProgressBar
}

// NewProgressManager returns a drawing manager on an interactive stderr and a no-op otherwise
func NewProgressManager(enabled bool) domain.ProgressManager {
	if !enabled || !IsInteractiveEnvironment() {
		return &NoOpProgressManager{}
	}
	return NewProgressManagerWithWriter(os.Stderr)
}

// NewProgressManagerWithWriter creates a progress manager drawing on writer
func NewProgressManagerWithWriter(writer io.Writer) *ProgressManagerImpl {
	return &ProgressManagerImpl{writer: writer}
}

// IsInteractiveEnvironment reports whether stderr is a terminal outside CI
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// IsStdinInteractive reports whether stdin is a terminal
func IsStdinInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// StartTask starts a bar labelled label that completes after stages increments
func (pm *ProgressManagerImpl) StartTask(label string, stages int) domain.TaskProgress {
	bar := progressbar.NewOptions(stages,
		progressbar.OptionSetWriter(pm.writer),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(stageBarWidth),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	)
	pm.bars = append(pm.bars, bar)
	return &TaskProgressImpl{bar: bar, label: label}
}

// IsInteractive is always true for a drawing manager
func (pm *ProgressManagerImpl) IsInteractive() bool {
	return true
}

// Close finishes any bar left open
func (pm *ProgressManagerImpl) Close() {
	for _, bar := range pm.bars {
		if !bar.IsFinished() {
			_ = bar.Finish()
		}
	}
	pm.bars = nil
}

// TaskProgressImpl reports the stages of one file on a bar
type TaskProgressImpl struct {
	bar   *progressbar.ProgressBar
	label string
}

// Increment advances n stages
func (tp *TaskProgressImpl) Increment(n int) {
	_ = tp.bar.Add(n)
}

// Describe shows the current stage after the task label
func (tp *TaskProgressImpl) Describe(stage string) {
	tp.bar.Describe(tp.label + ": " + stage)
}

// Complete finishes the bar
func (tp *TaskProgressImpl) Complete() {
	_ = tp.bar.Finish()
}

// NoOpProgressManager is used for piped output, CI and machine-readable formats
type NoOpProgressManager struct{}

// StartTask returns a task that ignores every update
func (pm *NoOpProgressManager) StartTask(_ string, _ int) domain.TaskProgress {
	return &NoOpTaskProgress{}
}

// IsInteractive returns false
func (pm *NoOpProgressManager) IsInteractive() bool {
	return false
}

// Close does nothing
func (pm *NoOpProgressManager) Close() {}

// NoOpTaskProgress ignores every update
type NoOpTaskProgress struct{}

func (tp *NoOpTaskProgress) Increment(_ int) {}

func (tp *NoOpTaskProgress) Describe(_ string) {}

func (tp *NoOpTaskProgress) Complete() {}
