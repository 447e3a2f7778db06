// Package pipeline orchestrates the report stages: single-report assembly,
// the checkpointed question-asset batch, and the convergence-gated merge.
// One invocation is one linear synchronous task; only the batch runs in the
// background, and it is itself strictly sequential.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/matthew-salter/the-big-question-sub000/internal/converge"
	"github.com/matthew-salter/the-big-question-sub000/internal/llm"
	"github.com/matthew-salter/the-big-question-sub000/internal/locale"
	"github.com/matthew-salter/the-big-question-sub000/internal/report"
	"github.com/matthew-salter/the-big-question-sub000/internal/storage"
)

type Engine struct {
	store  storage.Store
	exec   *llm.Executor
	terms  locale.TermMap
	waiter *converge.Waiter
	layout storage.Layout
	tracer trace.Tracer
	pdf    PDFRenderer
}

func NewEngine(store storage.Store, exec *llm.Executor, terms locale.TermMap, layout storage.Layout) *Engine {
	return &Engine{
		store:  store,
		exec:   exec,
		terms:  terms,
		waiter: converge.NewWaiter(),
		layout: layout,
		tracer: otel.Tracer("report-engine/pipeline"),
	}
}

// RunReport assembles one canonical report: generate (or accept) the raw
// text, normalize locale terms, parse, format, render, and persist both the
// flat-file and CSV forms. Malformed text degrades to a sparse document; it
// never fails the stage.
func (e *Engine) RunReport(ctx context.Context, req Request) Result {
	ctx, span := e.tracer.Start(ctx, "pipeline.report")
	defer span.End()

	text := req.ReportText
	if strings.TrimSpace(text) == "" {
		if strings.TrimSpace(req.Prompt) == "" {
			return errorResult(req.RunID, newError(KindInputMalformed, StageReport, fmt.Errorf("neither report_text nor prompt supplied")))
		}
		generated, err := e.exec.Run(ctx, StageReport, req.Prompt)
		if err != nil {
			span.RecordError(err)
			return errorResult(req.RunID, newError(KindUpstreamUnavailable, StageReport, err))
		}
		text = generated
	}

	text = locale.Apply(text, e.terms)
	doc := report.FormatDocument(report.Parse(text))
	rendered, rows := report.Render(doc)

	textPath := e.layout.StagePath(StageReport, req.RunID, "txt")
	if err := e.store.Put(ctx, textPath, []byte(rendered)); err != nil {
		span.RecordError(err)
		return errorResult(req.RunID, newError(KindUpstreamUnavailable, StageReport, err))
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rows); err != nil {
		span.RecordError(err)
		return errorResult(req.RunID, newError(KindInputMalformed, StageReport, err))
	}
	csvPath := e.layout.StagePath(StageReportCsv, req.RunID, "csv")
	if err := e.store.Put(ctx, csvPath, buf.Bytes()); err != nil {
		span.RecordError(err)
		return errorResult(req.RunID, newError(KindUpstreamUnavailable, StageReport, err))
	}

	res := okResult(req.RunID, textPath)
	res.Derived = map[string]string{
		"csv_path":     csvPath,
		"report_title": doc.Intro[report.KeyReportTitle],
		"sections":     fmt.Sprintf("%d", len(doc.Sections)),
	}
	return res
}

// RunMerge waits for the individual question outputs to converge, reads them
// in listing order, merges them into one document, and writes the canonical
// merged filename. A timed-out wait proceeds with whatever is present.
func (e *Engine) RunMerge(ctx context.Context, req Request) Result {
	ctx, span := e.tracer.Start(ctx, "pipeline.merge")
	defer span.End()

	prefix := e.layout.QuestionAssetDir(req.RunID, storage.IndividualOutputsDir)
	checkpoint := e.layout.CheckpointPath(req.RunID)
	listOutputs := func(ctx context.Context) ([]string, error) {
		keys, err := e.store.List(ctx, prefix)
		if err != nil {
			return nil, err
		}
		var out []string
		for _, k := range keys {
			if k != checkpoint {
				out = append(out, k)
			}
		}
		return out, nil
	}

	keys, err := e.waiter.AwaitStableCount(ctx, listOutputs, req.ExpectedCount)
	if err != nil {
		span.RecordError(err)
		return errorResult(req.RunID, newError(KindUpstreamUnavailable, StageMerge, err))
	}
	if len(keys) == 0 {
		return errorResult(req.RunID, newError(KindInputMalformed, StageMerge, fmt.Errorf("no individual outputs under %s", prefix)))
	}
	if len(keys) < req.ExpectedCount {
		log.Printf("report-engine merge_degraded run=%s expected=%d observed=%d", req.RunID, req.ExpectedCount, len(keys))
	}

	var docs []report.ParsedDocument
	for _, key := range keys {
		blob, err := e.store.Get(ctx, key)
		if err != nil {
			span.RecordError(err)
			return errorResult(req.RunID, newError(KindUpstreamUnavailable, StageMerge, fmt.Errorf("read %s: %w", key, err)))
		}
		docs = append(docs, report.Parse(locale.Apply(string(blob), e.terms)))
	}

	merged := report.FormatDocument(report.Merge(docs))
	rendered, _ := report.Render(merged)

	variant := req.Variant
	if variant == "" {
		variant = storage.MergedQuestionJsons
	}
	filename := storage.MergedFilename(req.FirstName, req.LastName, req.Condition, variant, req.Date)
	path := e.layout.MergedPath(req.RunID, filename)
	if err := e.store.Put(ctx, path, []byte(rendered)); err != nil {
		span.RecordError(err)
		return errorResult(req.RunID, newError(KindUpstreamUnavailable, StageMerge, err))
	}

	res := okResult(req.RunID, path)
	res.Derived = map[string]string{
		"merged_filename": filename,
		"merged_count":    fmt.Sprintf("%d", len(docs)),
	}
	return res
}
