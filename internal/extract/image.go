package extract

import (
	"context"
	"fmt"

	"github.com/docgrab/docgrab/constants"
	"github.com/docgrab/docgrab/internal/llm"
)

// extractImage handles a direct image upload: the whole file is one
// unit. A failed call or unparseable reply leaves the result empty with
// a warning, matching the per-unit policy of the multi-unit paths.
func (e *Extractor) extractImage(ctx context.Context, ext string, data []byte) Result {
	var res Result
	e.progress("image", 1, 1)

	raw, err := e.invoker.Invoke(ctx, llm.InvokeRequest{
		Image:    data,
		MIMEType: constants.ImageMIMEType(ext),
		Prompt:   llm.ExtractionPrompt,
	})
	if err != nil {
		e.logger.Warn("extract.image.invoke_failed", "error", err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("could not analyze image: %v", err))
		return res
	}

	p, err := llm.ExtractPayload(raw)
	if err != nil {
		e.logger.Warn("extract.image.parse_failed", "error", err)
		res.Warnings = append(res.Warnings, "failed to decode JSON from the model reply")
		return res
	}

	res.Text = p.Text
	if len(p.Table) > 0 {
		res.Tables = append(res.Tables, Table{Title: "Table from Image", Data: p.Table})
	}
	return res
}
