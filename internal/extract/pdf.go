package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/docgrab/docgrab/internal/llm"
)

// extractPDF rasterizes each page at the configured DPI and sends it to
// the model as one unit, strictly in page order. A page whose call or
// reply fails contributes nothing beyond a warning.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) (Result, error) {
	tmpDir, err := os.MkdirTemp("", "docgrab-pdf-*")
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.logger.Warn("extract.pdf.tmp_cleanup_failed", "path", tmpDir, "error", rerr)
		}
	}()

	src := filepath.Join(tmpDir, "source.pdf")
	if err := os.WriteFile(src, data, 0o600); err != nil {
		return Result{}, err
	}

	// The rasterizer is the authority on what renders; the pdfcpu count
	// only feeds progress totals and early diagnostics.
	total, err := api.PageCountFile(src)
	if err != nil {
		e.logger.Warn("extract.pdf.page_count_failed", "error", err)
		total = 0
	}

	prefix := filepath.Join(tmpDir, "page")
	args := []string{"-r", strconv.Itoa(e.cfg.DPI), "-png"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-f", "1", "-l", strconv.Itoa(e.cfg.MaxPages))
		if total > e.cfg.MaxPages {
			total = e.cfg.MaxPages
		}
	}
	args = append(args, src, prefix)

	if _, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, args...); err != nil {
		return Result{}, fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	pages := orderByPageNumber(matches)
	if len(pages) == 0 {
		return Result{}, fmt.Errorf("pdftoppm produced no page images")
	}
	if total == 0 {
		total = len(pages)
	}

	var res Result
	var text strings.Builder
	for _, pg := range pages {
		e.progress("page", pg.n, total)
		e.logger.Info("extract.pdf.page", "page", pg.n, "pages", total)

		img, err := os.ReadFile(pg.path)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not read rendered page %d: %v", pg.n, err))
			continue
		}
		raw, err := e.invoker.Invoke(ctx, llm.InvokeRequest{
			Image:    img,
			MIMEType: "image/png",
			Prompt:   llm.ExtractionPrompt,
		})
		if err != nil {
			e.logger.Warn("extract.pdf.page_failed", "page", pg.n, "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not process page %d: %v", pg.n, err))
			continue
		}
		p, err := llm.ExtractPayload(raw)
		if err != nil {
			e.logger.Warn("extract.pdf.parse_failed", "page", pg.n, "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not parse data from page %d, skipping", pg.n))
			continue
		}

		if p.Text != "" {
			fmt.Fprintf(&text, "\n\n--- Page %d ---\n%s", pg.n, p.Text)
		}
		if len(p.Table) > 0 {
			res.Tables = append(res.Tables, Table{
				Title: fmt.Sprintf("Table from Page %d", pg.n),
				Data:  p.Table,
			})
		}
	}
	res.Text = text.String()
	return res, nil
}

type pageFile struct {
	n    int
	path string
}

// orderByPageNumber sorts pdftoppm output (prefix-1.png, prefix-2.png,
// ...) by the numeric page suffix so documents past nine pages keep
// page order.
func orderByPageNumber(paths []string) []pageFile {
	out := make([]pageFile, 0, len(paths))
	for _, p := range paths {
		base := strings.TrimSuffix(filepath.Base(p), ".png")
		i := strings.LastIndex(base, "-")
		if i < 0 {
			continue
		}
		n, err := strconv.Atoi(base[i+1:])
		if err != nil {
			continue
		}
		out = append(out, pageFile{n: n, path: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].n < out[j].n })
	return out
}
