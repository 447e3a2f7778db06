package pipeline

import (
	"context"
	"fmt"

	"github.com/matthew-salter/the-big-question-sub000/internal/export"
	"github.com/matthew-salter/the-big-question-sub000/internal/report"
)

const StageExport = "Export"

type PDFRenderer interface {
	Render(ctx context.Context, doc report.ParsedDocument) ([]byte, error)
}

// SetPDFRenderer enables PDF output for the export stage. Without one the
// stage still produces the HTML preview.
func (e *Engine) SetPDFRenderer(r PDFRenderer) { e.pdf = r }

// RunExport reads the stored canonical report for the run and writes the
// HTML preview, plus a PDF when a renderer is configured.
func (e *Engine) RunExport(ctx context.Context, req Request) Result {
	ctx, span := e.tracer.Start(ctx, "pipeline.export")
	defer span.End()

	textPath := e.layout.StagePath(StageReport, req.RunID, "txt")
	blob, err := e.store.Get(ctx, textPath)
	if err != nil {
		span.RecordError(err)
		return errorResult(req.RunID, newError(KindUpstreamUnavailable, StageExport, fmt.Errorf("read %s: %w", textPath, err)))
	}
	doc := report.Parse(string(blob))

	html, err := export.ReportHTML(doc)
	if err != nil {
		span.RecordError(err)
		return errorResult(req.RunID, newError(KindInputMalformed, StageExport, err))
	}
	htmlPath := e.layout.StagePath(StageExport, req.RunID, "html")
	if err := e.store.Put(ctx, htmlPath, []byte(html)); err != nil {
		span.RecordError(err)
		return errorResult(req.RunID, newError(KindUpstreamUnavailable, StageExport, err))
	}

	res := okResult(req.RunID, htmlPath)
	res.Derived = map[string]string{}

	if e.pdf != nil {
		pdf, err := e.pdf.Render(ctx, doc)
		if err != nil {
			// PDF is best-effort on top of the HTML artifact.
			span.RecordError(err)
			res.Derived["pdf_error"] = err.Error()
			return res
		}
		pdfPath := e.layout.StagePath(StageExport, req.RunID, "pdf")
		if err := e.store.Put(ctx, pdfPath, pdf); err != nil {
			span.RecordError(err)
			res.Derived["pdf_error"] = err.Error()
			return res
		}
		res.Derived["pdf_path"] = pdfPath
	}
	return res
}
