package output

import (
	"io"
	"os"

	"github.com/sdejongh/ddupe/pkg/models"
)

// JSONFormatter stays silent during the scan and emits the report at the end
// Keeping stdout clean makes the output safe to pipe into other tools
type JSONFormatter struct {
	writer io.Writer
	errors []error
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(writer io.Writer) *JSONFormatter {
	if writer == nil {
		writer = os.Stdout
	}
	return &JSONFormatter{writer: writer}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, op *models.ScanOperation) error {
	if writer != nil {
		f.writer = writer
	}
	return nil
}

func (f *JSONFormatter) Progress(update ProgressUpdate) error { return nil }

func (f *JSONFormatter) Analysis(analysis *models.DuplicateAnalysis) error { return nil }

func (f *JSONFormatter) Group(index int, group models.DuplicateGroup) error { return nil }

func (f *JSONFormatter) Decision(group models.DuplicateGroup, decision models.GroupDecision) error {
	return nil
}

func (f *JSONFormatter) Outcome(result models.DeletionResult) error { return nil }

func (f *JSONFormatter) Notice(level NoticeLevel, msg string) error { return nil }

// Complete writes the report as indented JSON
func (f *JSONFormatter) Complete(report *models.ScanReport) error {
	return EncodeReport(f.writer, report, models.ReportJSON)
}

// Error records an error; the command's exit path reports it
func (f *JSONFormatter) Error(err error) error {
	f.errors = append(f.errors, err)
	return nil
}

// Errors returns every error reported so far
func (f *JSONFormatter) Errors() []error {
	return f.errors
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
