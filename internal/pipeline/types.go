package pipeline

import "github.com/matthew-salter/the-big-question-sub000/internal/storage"

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Stage directory names under Ai_Responses/. Part of the storage contract.
const (
	StageReport    = "Report"
	StageReportCsv = "Report_Csv"
	StageQuestions = "Question_Assets"
	StageMerge     = "Merge"
)

// Request carries one webhook submission into a named stage. ReportText is
// the raw upstream block when the caller already has it; Prompt asks the
// text-generation service to produce it. Templates drive the question batch.
type Request struct {
	RunID         string                `json:"run_id"`
	FirstName     string                `json:"first_name"`
	LastName      string                `json:"last_name"`
	Condition     string                `json:"condition"`
	Date          string                `json:"date"`
	ReportText    string                `json:"report_text,omitempty"`
	Prompt        string                `json:"prompt,omitempty"`
	Templates     []string              `json:"templates,omitempty"`
	ExpectedCount int                   `json:"expected_count,omitempty"`
	Variant       storage.MergedVariant `json:"variant,omitempty"`
}

// Result is the envelope every stage returns. No stage terminates the
// process; failures come back as Status "error" with the kind and message
// filled in.
type Result struct {
	Status      string            `json:"status"`
	RunID       string            `json:"run_id"`
	StoragePath string            `json:"storage_path,omitempty"`
	ErrorKind   ErrorKind         `json:"error_kind,omitempty"`
	Message     string            `json:"message,omitempty"`
	Derived     map[string]string `json:"derived,omitempty"`
}

func okResult(runID, path string) Result {
	return Result{Status: StatusOK, RunID: runID, StoragePath: path}
}

func errorResult(runID string, err error) Result {
	return Result{Status: StatusError, RunID: runID, ErrorKind: KindOf(err), Message: err.Error()}
}
