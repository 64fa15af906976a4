package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/ddupe/internal/platform"
	"github.com/sdejongh/ddupe/pkg/config"
	"github.com/sdejongh/ddupe/pkg/models"
)

// validateScanArgs checks the scan root before any configuration is loaded
func validateScanArgs(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected exactly one PATH argument")
	}
	return platform.ValidateTarget(args[0])
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config) error {
	if scanFlags.Algorithm != "" {
		algorithm, err := models.ParseDigestAlgorithm(scanFlags.Algorithm)
		if err != nil {
			return err
		}
		cfg.Scan.Algorithm = algorithm
	}

	if scanFlags.NoPrefilter {
		cfg.Scan.SizePrefilter = false
		cfg.Scan.PrefixPrefilter = false
	}

	if scanFlags.Parallel > 0 {
		cfg.Performance.MaxWorkers = scanFlags.Parallel
	}

	if scanFlags.Bandwidth != "" {
		cfg.Performance.BandwidthLimit = scanFlags.Bandwidth
	}

	if len(scanFlags.Exclude) > 0 {
		cfg.Exclude = scanFlags.Exclude
	}

	if scanFlags.Output != "" {
		cfg.Output.Format = scanFlags.Output
	}

	// Logging: a log file enables logging
	if scanFlags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = scanFlags.LogFile
	}
	if scanFlags.LogFormat != "" {
		cfg.Logging.Format = scanFlags.LogFormat
	}
	if scanFlags.LogLevel != "" {
		cfg.Logging.Level = scanFlags.LogLevel
	}

	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	if globalFlags.NoColor {
		cfg.Output.Color = "never"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func parseReportFormat(s string) (models.ReportFormat, error) {
	switch format := models.ReportFormat(s); format {
	case "":
		return models.ReportJSON, nil
	case models.ReportJSON, models.ReportYAML, models.ReportText:
		return format, nil
	default:
		return "", fmt.Errorf("invalid report format: %s (valid: json, yaml, text)", s)
	}
}

// createScanOperation creates a scan operation from configuration
func createScanOperation(
	cfg *config.Config,
	root string,
	mode models.ResolutionMode,
	reportPath string,
	reportFormat models.ReportFormat,
) (*models.ScanOperation, error) {
	bandwidth, err := cfg.BandwidthBytes()
	if err != nil {
		return nil, err
	}

	operation := &models.ScanOperation{
		ID:              uuid.New().String(),
		Root:            root,
		Mode:            mode,
		Algorithm:       cfg.Scan.Algorithm,
		ExcludePatterns: cfg.Exclude,
		MaxWorkers:      cfg.Performance.MaxWorkers,
		BufferSize:      cfg.Performance.BufferSize,
		BandwidthLimit:  bandwidth,
		SizePrefilter:   cfg.Scan.SizePrefilter,
		PrefixPrefilter: cfg.Scan.PrefixPrefilter,
		ReportPath:      reportPath,
		ReportFormat:    reportFormat,
		Interactive:     scanFlags.Interactive,
		CreatedAt:       time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}
