package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/ddupe/pkg/models"
)

const (
	progressTemplate = `{{counters . }} files {{bar . "[" "#" ">" "-" "]"}} {{percent . }} {{etime . }} {{string . "file"}}`
	refreshRate      = 100 * time.Millisecond
	maxBarWidth      = 120
)

// ProgressFormatter renders a hashing progress bar on top of the human formatter
// The bar is only drawn when the writer is a terminal
type ProgressFormatter struct {
	*HumanFormatter

	mu       sync.Mutex
	bar      *pb.ProgressBar
	terminal bool
	width    int
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter(writer, errWriter io.Writer, color bool) *ProgressFormatter {
	f := &ProgressFormatter{HumanFormatter: NewHumanFormatter(writer, errWriter, color)}
	f.detectTerminal(f.HumanFormatter.writer)
	return f
}

// Start prints the banner and resets any previous bar
func (f *ProgressFormatter) Start(writer io.Writer, op *models.ScanOperation) error {
	if writer != nil {
		f.detectTerminal(writer)
	}
	f.mu.Lock()
	f.bar = nil
	f.mu.Unlock()
	return f.HumanFormatter.Start(writer, op)
}

// Progress drives the bar; other events fall through to the human formatter
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch update.Type {
	case "list_complete":
		if err := f.HumanFormatter.Progress(update); err != nil {
			return err
		}
		if f.terminal && update.TotalFiles > 0 {
			f.bar = pb.ProgressBarTemplate(progressTemplate).New(update.TotalFiles)
			f.bar.SetWriter(f.HumanFormatter.writer)
			f.bar.SetRefreshRate(refreshRate)
			f.bar.SetMaxWidth(f.width)
			f.bar.Start()
		}
		return nil

	case "hash_start":
		if f.bar != nil {
			f.bar.Set("file", truncateLeft(update.FilePath, f.width/3))
		}
		return nil

	case "hash_progress":
		if f.bar != nil && update.TotalBytes > 0 {
			pct := update.BytesRead * 100 / update.TotalBytes
			f.bar.Set("file", fmt.Sprintf("%s %d%%", truncateLeft(update.FilePath, f.width/3), pct))
		}
		return nil

	case "hash_complete", "hash_skipped":
		if f.bar != nil {
			f.bar.Increment()
		}
		return nil

	case "hash_error":
		if f.bar != nil {
			f.bar.Increment()
		}
		return f.HumanFormatter.Progress(update)

	case "hash_done":
		if f.bar != nil {
			f.bar.Set("file", "")
			f.bar.SetCurrent(f.bar.Total())
			f.bar.Finish()
			f.bar = nil
		}
		return nil
	}

	return f.HumanFormatter.Progress(update)
}

// Error stops the bar before reporting
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	f.mu.Unlock()
	return f.HumanFormatter.Error(err)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

func (f *ProgressFormatter) detectTerminal(w io.Writer) {
	f.terminal = false
	f.width = 80

	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return
	}
	f.terminal = true
	if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
		f.width = width
	}
	if f.width > maxBarWidth {
		f.width = maxBarWidth
	}
}

// truncateLeft keeps the end of a path, which is usually the informative part
func truncateLeft(s string, max int) string {
	if max < 4 || len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
