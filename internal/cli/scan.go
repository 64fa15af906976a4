package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/ddupe/pkg/config"
	"github.com/sdejongh/ddupe/pkg/models"
	"github.com/sdejongh/ddupe/pkg/output"
)

// ScanFlags holds scan command flags
type ScanFlags struct {
	DryRun       bool
	Interactive  bool
	JSONOutput   string
	Report       string
	ReportFormat string
	Output       string
	Algorithm    string
	Exclude      []string
	Parallel     int
	Bandwidth    string
	NoPrefilter  bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var scanFlags ScanFlags

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan PATH",
		Short: "Find duplicate files and remove them",
		Long: `Scan a directory tree, group files by content hash and delete every
copy but one. By default a single confirmation covers all groups; use
--interactive to choose the file to keep in each group.`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}

	cmd.Flags().BoolVar(&scanFlags.DryRun, "dry-run", false, "list duplicates without deleting anything")
	cmd.Flags().BoolVarP(&scanFlags.Interactive, "interactive", "i", false, "choose which file to keep for each group")
	cmd.Flags().StringVar(&scanFlags.JSONOutput, "json-output", "", "write a JSON report to file and exit without deleting")
	cmd.Flags().StringVar(&scanFlags.Report, "report", "", "write a report to file and exit without deleting")
	cmd.Flags().StringVar(&scanFlags.ReportFormat, "report-format", "json", "report format: json, yaml, text")
	cmd.Flags().StringVarP(&scanFlags.Output, "output", "o", "", "output format: human, json (json implies report only)")
	addHashingFlags(cmd)

	// Logging flags
	cmd.Flags().StringVar(&scanFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&scanFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&scanFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

// addHashingFlags registers the flags shared by scan and report
func addHashingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scanFlags.Algorithm, "algorithm", "", "digest algorithm: sha256, blake3")
	cmd.Flags().StringSliceVar(&scanFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().IntVarP(&scanFlags.Parallel, "parallel", "p", 0, "number of hashing workers (default: 1)")
	cmd.Flags().StringVarP(&scanFlags.Bandwidth, "bandwidth", "b", "", "read bandwidth limit (e.g., \"10M\", \"1G\")")
	cmd.Flags().BoolVar(&scanFlags.NoPrefilter, "no-prefilter", false, "hash every file instead of only size/prefix candidates")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	root, err := validateScanArgs(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := applyFlagsToConfig(cfg); err != nil {
		return err
	}

	reportPath, reportFormat, err := scanReportTarget()
	if err != nil {
		return err
	}

	operation, err := createScanOperation(cfg, root, resolveMode(cfg, reportPath), reportPath, reportFormat)
	if err != nil {
		return fmt.Errorf("failed to create scan operation: %w", err)
	}

	logger, err := createLogger(cmd, cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	var formatter output.Formatter
	if cfg.Output.Format == "json" && reportPath == "" {
		formatter = output.NewJSONFormatter(cmd.OutOrStdout())
	} else {
		formatter = newHumanOutput(cmd, cfg, operation)
	}

	report, err := runEngine(ctx, cmd, operation, formatter, logger)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if reportPath != "" {
		if err := output.WriteReport(report, reportPath, reportFormat); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), reportWrittenMessage(reportFormat, reportPath))
	}

	return nil
}

// scanReportTarget resolves --json-output and --report into one destination
func scanReportTarget() (string, models.ReportFormat, error) {
	if scanFlags.JSONOutput != "" && scanFlags.Report != "" {
		return "", "", fmt.Errorf("--json-output and --report cannot be used together")
	}
	if scanFlags.JSONOutput != "" {
		return scanFlags.JSONOutput, models.ReportJSON, nil
	}

	format, err := parseReportFormat(scanFlags.ReportFormat)
	if err != nil {
		return "", "", err
	}
	return scanFlags.Report, format, nil
}

// resolveMode picks the resolution mode; report output always wins, then dry-run
func resolveMode(cfg *config.Config, reportPath string) models.ResolutionMode {
	switch {
	case reportPath != "" || cfg.Output.Format == "json":
		return models.ModeReport
	case scanFlags.DryRun:
		return models.ModeDryRun
	case scanFlags.Interactive:
		return models.ModeInteractive
	default:
		return models.ModeBatch
	}
}

func reportWrittenMessage(format models.ReportFormat, path string) string {
	if format == models.ReportJSON {
		return "JSON report written to: " + path
	}
	return "Report written to: " + path
}
