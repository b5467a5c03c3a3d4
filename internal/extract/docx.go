package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/docgrab/docgrab/internal/docx"
	"github.com/docgrab/docgrab/internal/llm"
)

// extractDOCX runs three passes over a Word document: native paragraph
// text, native tables (both deterministic, no model calls), then one
// model call per embedded image. Native tables always precede
// embedded-image tables in the result; embedded images are visited in
// relationship-enumeration order, which may differ from visual order.
func (e *Extractor) extractDOCX(ctx context.Context, data []byte) (Result, error) {
	doc, err := docx.NewReader(data)
	if err != nil {
		return Result{}, fmt.Errorf("open docx: %w", err)
	}

	var res Result
	parts := doc.Paragraphs()

	for i, rows := range doc.Tables() {
		res.Tables = append(res.Tables, Table{
			Title: fmt.Sprintf("Native Table %d", i+1),
			Data:  rows,
		})
	}

	refs := doc.ImageRefs()
	if len(refs) > 0 {
		e.logger.Info("extract.docx.images_found", "count", len(refs))
	}
	for i, ref := range refs {
		n := i + 1
		e.progress("embedded image", n, len(refs))
		e.logger.Info("extract.docx.image", "image", n, "images", len(refs), "target", ref.Target)

		img, err := doc.ImageData(ref)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not read embedded image %d: %v", n, err))
			continue
		}
		mime, err := sniffImage(img)
		if err != nil {
			e.logger.Warn("extract.docx.image_decode_failed", "image", n, "error", err)
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("could not process embedded image %d, it might be a non-standard format: %v", n, err))
			continue
		}

		raw, err := e.invoker.Invoke(ctx, llm.InvokeRequest{
			Image:    img,
			MIMEType: mime,
			Prompt:   llm.EmbeddedImagePrompt,
		})
		if err != nil {
			e.logger.Warn("extract.docx.image_failed", "image", n, "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not process embedded image %d: %v", n, err))
			continue
		}
		p, err := llm.ExtractPayload(raw)
		if err != nil {
			e.logger.Warn("extract.docx.parse_failed", "image", n, "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not parse data from embedded image %d, skipping", n))
			continue
		}

		if p.Text != "" {
			parts = append(parts, fmt.Sprintf("\n--- Text from Embedded Image %d ---\n%s", n, p.Text))
		}
		if len(p.Table) > 0 {
			res.Tables = append(res.Tables, Table{
				Title: fmt.Sprintf("Table from Embedded Image %d", n),
				Data:  p.Table,
			})
		}
	}

	res.Text = strings.Join(parts, "\n")
	return res, nil
}

// sniffImage verifies the bytes decode as a known image format and
// returns the MIME type to declare on the model call.
func sniffImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	switch format {
	case "jpeg":
		return "image/jpeg", nil
	case "png":
		return "image/png", nil
	case "gif":
		return "image/gif", nil
	case "bmp":
		return "image/bmp", nil
	case "tiff":
		return "image/tiff", nil
	}
	return "image/" + format, nil
}
