// Package extract normalizes image, PDF and DOCX uploads into one
// (text, tables) result by sending each visual unit to the model API,
// one unit at a time.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/docgrab/docgrab/constants"
	"github.com/docgrab/docgrab/internal/common"
	"github.com/docgrab/docgrab/internal/llm"
)

// Table is one extracted table. Rows are not validated for a consistent
// column count; downstream rendering tolerates jagged rows.
type Table struct {
	Title string
	Data  [][]string
}

// Result is the unit of hand-off to presentation and export. One Result
// is built per run and replaced wholesale by the next run. Warnings
// record units that were skipped (transport or parse failures).
type Result struct {
	Text     string
	Tables   []Table
	Warnings []string
}

// ProgressFunc receives per-unit progress. Purely informational; the
// pipeline output does not depend on it.
type ProgressFunc func(stage string, current, total int)

type Config struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // rasterization DPI for PDF pages, default 150
	MaxPages int    // 0 = no limit
	Progress ProgressFunc
}

// Extractor dispatches an uploaded file to the extraction path for its
// format and owns construction of the Result.
type Extractor struct {
	cfg     Config
	invoker llm.Invoker
	runner  Runner
	logger  *slog.Logger
}

func NewExtractor(cfg Config, invoker llm.Invoker, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 150
	}
	return &Extractor{cfg: cfg, invoker: invoker, runner: execRunner{}, logger: logger}
}

// Extract picks a pipeline based on the uploaded filename's extension.
// Units are processed strictly in order, one at a time; a failed unit
// contributes nothing beyond a warning and never aborts the document.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(filename))
	e.logger.Debug("extract.start", "filename", filename, "ext", ext, "bytes", len(data))

	var res Result
	var err error
	switch constants.MapExtToFormat(ext) {
	case constants.IMAGE:
		res = e.extractImage(ctx, ext, data)
	case constants.PDF:
		res, err = e.extractPDF(ctx, data)
	case constants.DOCX:
		res, err = e.extractDOCX(ctx, data)
	default:
		return Result{}, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Result{}, err
	}

	e.logger.Info("extract.done",
		"filename", filename,
		"text_bytes", len(res.Text),
		"tables", len(res.Tables),
		"warnings", len(res.Warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) progress(stage string, current, total int) {
	if e.cfg.Progress != nil {
		e.cfg.Progress(stage, current, total)
	}
}
