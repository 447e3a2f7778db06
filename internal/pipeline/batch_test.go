package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/matthew-salter/the-big-question-sub000/internal/storage"
)

// failNthCaller fails the generation at one zero-based index and succeeds
// everywhere else.
type failNthCaller struct {
	failAt int
	calls  int
}

func (c *failNthCaller) GenerateText(_ context.Context, _ string) (string, error) {
	i := c.calls
	c.calls++
	if i == c.failAt {
		return "", errors.New("status 400: bad request")
	}
	return "Question: generated\nAnswer:\ntext\n", nil
}

func (c *failNthCaller) ModelName() string { return "fail-nth" }

func TestRunQuestionBatchWritesAllItems(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	e := testEngine(store, &failNthCaller{failAt: -1}, nil)

	req := Request{RunID: "batch-1", Templates: []string{"question one", "question two", "question three"}}
	cp, err := e.RunQuestionBatch(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if cp.LastCompleted != 2 || len(cp.Items) != 3 {
		t.Fatalf("checkpoint = %+v", cp)
	}
	keys, err := store.List(ctx, testLayout().QuestionAssetDir("batch-1", storage.IndividualOutputsDir))
	if err != nil {
		t.Fatal(err)
	}
	// Three outputs plus the checkpoint file.
	if len(keys) != 4 {
		t.Fatalf("keys = %v", keys)
	}
}

func TestRunQuestionBatchPartialFailureContinues(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	e := testEngine(store, &failNthCaller{failAt: 1}, nil)

	req := Request{RunID: "batch-2", Templates: []string{"a", "b", "c"}}
	cp, err := e.RunQuestionBatch(ctx, req)
	if err == nil {
		t.Fatal("expected partial failure error")
	}
	if KindOf(err) != KindPartialBatchFailure {
		t.Fatalf("kind = %s", KindOf(err))
	}
	if cp.LastCompleted != 2 {
		t.Fatalf("later items should still complete: %+v", cp)
	}
	var failedItem *BatchItem
	for i := range cp.Items {
		if cp.Items[i].Index == 1 {
			failedItem = &cp.Items[i]
		}
	}
	if failedItem == nil || failedItem.Status != StatusError {
		t.Fatalf("failed item not recorded: %+v", cp.Items)
	}
}

func TestRunQuestionBatchResumesFromCheckpoint(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	caller := &failNthCaller{failAt: -1}
	e := testEngine(store, caller, nil)

	prior := BatchCheckpoint{RunID: "batch-3", LastCompleted: 1, Items: []BatchItem{
		{Index: 0, Status: StatusOK}, {Index: 1, Status: StatusOK},
	}}
	blob, err := json.Marshal(prior)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, testLayout().CheckpointPath("batch-3"), blob); err != nil {
		t.Fatal(err)
	}

	req := Request{RunID: "batch-3", Templates: []string{"a", "b", "c"}}
	cp, err := e.RunQuestionBatch(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if caller.calls != 1 {
		t.Fatalf("caller calls = %d, want 1 (resume skips completed items)", caller.calls)
	}
	if cp.LastCompleted != 2 {
		t.Fatalf("checkpoint = %+v", cp)
	}
}

func TestRunQuestionBatchCorruptCheckpointRestarts(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	caller := &failNthCaller{failAt: -1}
	e := testEngine(store, caller, nil)

	if err := store.Put(ctx, testLayout().CheckpointPath("batch-4"), []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	req := Request{RunID: "batch-4", Templates: []string{"a", "b"}}
	cp, err := e.RunQuestionBatch(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if caller.calls != 2 || cp.LastCompleted != 1 {
		t.Fatalf("restart did not process all items: calls=%d cp=%+v", caller.calls, cp)
	}
}

func TestStartQuestionBatchRequiresTemplates(t *testing.T) {
	e := testEngine(storage.NewMemoryStore(), &failNthCaller{failAt: -1}, nil)
	res := e.StartQuestionBatch(context.Background(), Request{RunID: "batch-5"})
	if res.Status != StatusError || res.ErrorKind != KindInputMalformed {
		t.Fatalf("res = %+v", res)
	}
}

func TestErrorKindClassification(t *testing.T) {
	err := newError(KindPartialBatchFailure, StageQuestions, errors.New("2 of 5 items failed"))
	if KindOf(err) != KindPartialBatchFailure {
		t.Fatalf("kind = %s", KindOf(err))
	}
	var pe *Error
	if !errors.As(err, &pe) || pe.Stage != StageQuestions {
		t.Fatalf("error shape wrong: %+v", err)
	}
	if KindOf(errors.New("anonymous")) != KindUpstreamUnavailable {
		t.Fatal("unclassified errors default to upstream_unavailable")
	}
}
