package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sdejongh/ddupe/pkg/models"
)

// ReportDocument is the serialized form of a scan report
type ReportDocument struct {
	ID              string             `json:"id" yaml:"id"`
	Generated       time.Time          `json:"generated" yaml:"generated"`
	Roots           []string           `json:"roots" yaml:"roots"`
	Algorithm       string             `json:"algorithm" yaml:"algorithm"`
	DuplicateGroups []ReportGroup      `json:"duplicate_groups" yaml:"duplicate_groups"`
	RemovableCount  int                `json:"removable_count" yaml:"removable_count"`
	SavingsBytes    int64              `json:"savings_bytes" yaml:"savings_bytes"`
	UnsizedFiles    []string           `json:"unsized_files" yaml:"unsized_files"`
	HashErrors      []models.ScanError `json:"hash_errors" yaml:"hash_errors"`
	DryRun          bool               `json:"dry_run" yaml:"dry_run"`
	Interactive     bool               `json:"interactive" yaml:"interactive"`
	Mode            string             `json:"mode" yaml:"mode"`
}

// ReportGroup lists the files of one group, keep first
type ReportGroup struct {
	Digest models.Digest `json:"digest" yaml:"digest"`
	Files  []string      `json:"files" yaml:"files"`
}

// NewReportDocument builds the serialized view of report
// Reports never delete anything, so DryRun is always true
func NewReportDocument(report *models.ScanReport) *ReportDocument {
	doc := &ReportDocument{
		ID:              report.OperationID,
		Generated:       report.EndTime,
		Roots:           []string{report.Root},
		Algorithm:       string(report.Algorithm),
		DuplicateGroups: []ReportGroup{},
		UnsizedFiles:    []string{},
		HashErrors:      []models.ScanError{},
		DryRun:          true,
		Interactive:     report.Interactive,
		Mode:            string(report.Mode),
	}
	if doc.Generated.IsZero() {
		doc.Generated = time.Now()
	}
	doc.HashErrors = append(doc.HashErrors, report.HashErrors...)

	if a := report.Analysis; a != nil {
		for _, g := range a.Groups {
			doc.DuplicateGroups = append(doc.DuplicateGroups, ReportGroup{Digest: g.Digest, Files: g.Candidates()})
		}
		doc.RemovableCount = a.TotalDupes()
		doc.SavingsBytes = a.TotalSavingBytes
		doc.UnsizedFiles = append(doc.UnsizedFiles, a.UnsizedFiles...)
	}
	return doc
}

// EncodeReport writes report to w in the given format
func EncodeReport(w io.Writer, report *models.ScanReport, format models.ReportFormat) error {
	doc := NewReportDocument(report)

	switch format {
	case "", models.ReportJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)

	case models.ReportYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return err
		}
		return encoder.Close()

	case models.ReportText:
		return writeText(w, doc, report)

	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteReport writes report to path, creating missing parent directories
// Scanned files are never touched
func WriteReport(report *models.ScanReport, path string, format models.ReportFormat) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := EncodeReport(file, report, format); err != nil {
		file.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeText(w io.Writer, doc *ReportDocument, report *models.ScanReport) error {
	var err error
	printf := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("ddupe report %s\n", doc.ID)
	printf("Generated: %s\n", doc.Generated.Format(time.RFC3339))
	printf("Root:      %s\n", report.Root)
	printf("Algorithm: %s\n", doc.Algorithm)
	printf("Files:     %d scanned, %d hashed\n", report.FilesScanned, report.FilesHashed)
	if report.Duration > 0 {
		printf("Duration:  %s\n", formatDuration(report.Duration.Seconds()))
	}

	for i, g := range doc.DuplicateGroups {
		printf("\n--- Duplicate Group %d (%s)\n", i+1, g.Digest.Short())
		for j, file := range g.Files {
			tag := "[DUPE]"
			if j == 0 {
				tag = "[KEEP]"
			}
			printf("%s %s\n", tag, file)
		}
	}

	printf("\nSummary: %d duplicate file(s) can be removed, freeing approximately %s.\n",
		doc.RemovableCount, FormatBytes(doc.SavingsBytes))

	for _, path := range doc.UnsizedFiles {
		printf("Size unknown: %s\n", path)
	}
	for _, e := range doc.HashErrors {
		printf("Unreadable: %s: %s\n", e.Path, e.Error)
	}
	return err
}
