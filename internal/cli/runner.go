package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/ddupe/pkg/config"
	"github.com/sdejongh/ddupe/pkg/hasher"
	"github.com/sdejongh/ddupe/pkg/logging"
	"github.com/sdejongh/ddupe/pkg/models"
	"github.com/sdejongh/ddupe/pkg/output"
	"github.com/sdejongh/ddupe/pkg/ratelimit"
	"github.com/sdejongh/ddupe/pkg/scan"
	"github.com/sdejongh/ddupe/pkg/storage"
	"github.com/sdejongh/ddupe/pkg/terminal"
)

// runEngine wires storage, hashing and prompting around one scan engine run
func runEngine(
	ctx context.Context,
	cmd *cobra.Command,
	operation *models.ScanOperation,
	formatter output.Formatter,
	logger logging.Logger,
) (*models.ScanReport, error) {
	backend, err := storage.NewLocal(operation.Root, operation.ExcludePatterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	defer backend.Close()

	opts := []hasher.Option{hasher.WithChunkSize(operation.BufferSize)}
	if limiter := ratelimit.NewLimiter(operation.BandwidthLimit); limiter != nil {
		opts = append(opts, hasher.WithLimiter(limiter))
	}
	if _, ok := formatter.(*output.ProgressFormatter); ok {
		opts = append(opts, hasher.WithProgress(func(path string, current, total int64) {
			formatter.Progress(output.ProgressUpdate{
				Type:       "hash_progress",
				FilePath:   path,
				BytesRead:  current,
				TotalBytes: total,
			})
		}))
	}

	h, err := hasher.New(backend, operation.Algorithm, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create hasher: %w", err)
	}

	var prompter terminal.Prompter
	if operation.Mode.Deletes() {
		prompter = terminal.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	engine := scan.NewEngine(backend, h, formatter, logger, prompter, operation)
	return engine.Run(ctx)
}

// newHumanOutput creates the human or progress formatter for the command's streams
func newHumanOutput(cmd *cobra.Command, cfg *config.Config, operation *models.ScanOperation) output.Formatter {
	out := cmd.OutOrStdout()
	if cfg.Output.Quiet && operation.Mode == models.ModeReport {
		out = io.Discard
	}
	color := colorEnabled(cfg, out)

	if cfg.Output.Progress && !cfg.Output.Quiet {
		return output.NewProgressFormatter(out, cmd.ErrOrStderr(), color)
	}
	return output.NewHumanFormatter(out, cmd.ErrOrStderr(), color)
}

func colorEnabled(cfg *config.Config, w io.Writer) bool {
	switch cfg.Output.Color {
	case "never":
		return false
	case "always":
		return true
	}
	file, ok := w.(*os.File)
	return ok && output.ColorEnabled(file)
}

// createLogger builds the logger from flags and config
// --log-file or logging.enabled write to a file, --verbose alone logs to stderr
func createLogger(cmd *cobra.Command, cfg *config.Config) (logging.Logger, error) {
	if !cfg.Logging.Enabled {
		if globalFlags.Verbose {
			return logging.NewConsoleLogger(cmd.ErrOrStderr(), logging.DebugLevel, colorEnabled(cfg, cmd.ErrOrStderr())), nil
		}
		return logging.NewNullLogger(), nil
	}

	path := cfg.Logging.File
	if path == "" {
		defaultPath, err := config.DefaultLogPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	format := logging.FormatJSON
	if cfg.Logging.Format == "text" {
		format = logging.FormatText
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	if globalFlags.Verbose {
		level = logging.DebugLevel
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       path,
		Format:     format,
		Level:      level,
		MaxSize:    logging.DefaultMaxSize,
		MaxBackups: 5,
	})
}
