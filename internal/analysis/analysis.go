package analysis

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Runner executes the analysis views for one report file. Views are
// independent: a failing view (missing column, empty group) is logged and
// skipped, the rest still run. Only an unreadable input file is fatal.
type Runner struct {
	Logger    zerolog.Logger
	Out       io.Writer
	OutputDir string
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

func (r *Runner) outputDir() string {
	if r.OutputDir == "" {
		return "."
	}
	return r.OutputDir
}

func (r *Runner) ensureOutputDir() error {
	return os.MkdirAll(r.outputDir(), 0o755)
}

func (r *Runner) chartPath(name string) string {
	return filepath.Join(r.outputDir(), name)
}

// runView runs one analysis step, converting its failure into a logged skip.
func (r *Runner) runView(name string, fn func() error) {
	if err := fn(); err != nil {
		r.Logger.Warn().Str("view", name).Err(err).Msg("analysis view skipped")
		return
	}
	r.Logger.Info().Str("view", name).Msg("analysis view rendered")
}

var hourLabels = buildHourLabels()

func buildHourLabels() []string {
	out := make([]string, 24)
	for h := 0; h < 24; h++ {
		out[h] = fmt.Sprintf("%02d:00", h)
	}
	return out
}

var dayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func fileSafe(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	return name
}
