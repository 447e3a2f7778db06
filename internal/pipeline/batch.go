package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/matthew-salter/the-big-question-sub000/internal/storage"
)

// BatchCheckpoint is the persisted cursor for a question-asset batch. It is
// written after every successful item so a crashed run resumes where it
// stopped; re-running skips indices at or below LastCompleted.
type BatchCheckpoint struct {
	RunID         string      `json:"run_id"`
	LastCompleted int         `json:"last_completed"`
	Items         []BatchItem `json:"items"`
}

type BatchItem struct {
	Index  int    `json:"index"`
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Error  string `json:"error,omitempty"`
}

// StartQuestionBatch kicks the batch onto a background goroutine so the
// triggering webhook is not held open, and returns an accepted envelope
// immediately. The goroutine owns no shared state beyond its checkpoint and
// output files.
func (e *Engine) StartQuestionBatch(ctx context.Context, req Request) Result {
	if len(req.Templates) == 0 {
		return errorResult(req.RunID, newError(KindInputMalformed, StageQuestions, fmt.Errorf("no templates supplied")))
	}
	go func() {
		// Detach from the request context; the batch outlives the webhook.
		if _, err := e.RunQuestionBatch(context.WithoutCancel(ctx), req); err != nil {
			log.Printf("report-engine question_batch_failed run=%s err=%q", req.RunID, err.Error())
		}
	}()
	res := okResult(req.RunID, e.layout.QuestionAssetDir(req.RunID, storage.IndividualOutputsDir))
	res.Derived = map[string]string{"queued": fmt.Sprintf("%d", len(req.Templates))}
	return res
}

// RunQuestionBatch processes templates strictly sequentially. A failed item
// is recorded and the batch continues; only checkpoint persistence failures
// abort, since without the cursor the resume contract is broken.
func (e *Engine) RunQuestionBatch(ctx context.Context, req Request) (BatchCheckpoint, error) {
	ctx, span := e.tracer.Start(ctx, "pipeline.question_batch")
	defer span.End()

	cp, err := e.loadCheckpoint(ctx, req.RunID)
	if err != nil {
		span.RecordError(err)
		return cp, newError(KindUpstreamUnavailable, StageQuestions, err)
	}

	failed := 0
	for i, template := range req.Templates {
		if i <= cp.LastCompleted {
			continue
		}

		text, err := e.exec.Run(ctx, fmt.Sprintf("%s[%d]", StageQuestions, i), template)
		if err != nil {
			failed++
			cp.Items = append(cp.Items, BatchItem{Index: i, Status: StatusError, Error: err.Error()})
			log.Printf("report-engine question_item_failed run=%s index=%d err=%q", req.RunID, i, err.Error())
			continue
		}

		path := e.layout.IndividualPath(req.RunID, i, templateSlug(template))
		if err := e.store.Put(ctx, path, []byte(text)); err != nil {
			failed++
			cp.Items = append(cp.Items, BatchItem{Index: i, Status: StatusError, Error: err.Error()})
			log.Printf("report-engine question_item_write_failed run=%s index=%d err=%q", req.RunID, i, err.Error())
			continue
		}

		cp.LastCompleted = i
		cp.Items = append(cp.Items, BatchItem{Index: i, Status: StatusOK, Path: path})
		if err := e.saveCheckpoint(ctx, req.RunID, cp); err != nil {
			span.RecordError(err)
			return cp, newError(KindUpstreamUnavailable, StageQuestions, err)
		}
	}

	if failed > 0 {
		return cp, newError(KindPartialBatchFailure, StageQuestions,
			fmt.Errorf("%d of %d items failed", failed, len(req.Templates)))
	}
	return cp, nil
}

func (e *Engine) loadCheckpoint(ctx context.Context, runID string) (BatchCheckpoint, error) {
	cp := BatchCheckpoint{RunID: runID, LastCompleted: -1}
	blob, err := e.store.Get(ctx, e.layout.CheckpointPath(runID))
	if errors.Is(err, storage.ErrNotFound) {
		return cp, nil
	}
	if err != nil {
		return cp, fmt.Errorf("load checkpoint: %w", err)
	}
	if err := json.Unmarshal(blob, &cp); err != nil {
		// A corrupt checkpoint restarts the batch; item writes are
		// idempotent per index so this is safe, just slower.
		log.Printf("report-engine checkpoint_corrupt run=%s err=%q", runID, err.Error())
		return BatchCheckpoint{RunID: runID, LastCompleted: -1}, nil
	}
	return cp, nil
}

func (e *Engine) saveCheckpoint(ctx context.Context, runID string, cp BatchCheckpoint) error {
	blob, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return err
	}
	if err := e.store.Put(ctx, e.layout.CheckpointPath(runID), blob); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func templateSlug(template string) string {
	fields := strings.Fields(template)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}
