package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sdejongh/ddupe/pkg/models"
	"github.com/sdejongh/ddupe/pkg/output"
)

// ReportFlags holds report command flags
type ReportFlags struct {
	Output string
	Format string
}

var reportFlags ReportFlags

// NewReportCommand creates the report command
func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report PATH",
		Short: "Report duplicate files without deleting anything",
		Long: `Scan a directory tree and write the duplicate groups as a structured
report. The report goes to stdout unless --output names a file. No file is
ever deleted and no question is asked.`,
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}

	cmd.Flags().StringVarP(&reportFlags.Output, "output", "o", "", "write the report to file instead of stdout")
	cmd.Flags().StringVarP(&reportFlags.Format, "format", "f", "json", "report format: json, yaml, text")
	addHashingFlags(cmd)

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	root, err := validateScanArgs(args)
	if err != nil {
		return err
	}

	format, err := parseReportFormat(reportFlags.Format)
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

	operation, err := createScanOperation(cfg, root, models.ModeReport, reportFlags.Output, format)
	if err != nil {
		return fmt.Errorf("failed to create scan operation: %w", err)
	}

	logger, err := createLogger(cmd, cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	// stdout carries the report itself, so nothing else may be written there
	var formatter output.Formatter
	switch {
	case reportFlags.Output != "":
		formatter = newHumanOutput(cmd, cfg, operation)
	case format == models.ReportJSON:
		formatter = output.NewJSONFormatter(cmd.OutOrStdout())
	default:
		formatter = output.NewJSONFormatter(io.Discard)
	}

	report, err := runEngine(ctx, cmd, operation, formatter, logger)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if reportFlags.Output == "" {
		if n := len(report.HashErrors); n > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d file(s) could not be read and were excluded from grouping.\n", n)
		}
		if format != models.ReportJSON {
			return output.EncodeReport(cmd.OutOrStdout(), report, format)
		}
		return nil
	}

	if err := output.WriteReport(report, reportFlags.Output, format); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), reportWrittenMessage(format, reportFlags.Output))
	return nil
}
