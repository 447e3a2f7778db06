// Package httpapi is the webhook dispatch layer: it routes incoming form
// submissions to named pipeline stages and always answers with the stage
// result envelope. Handlers never panic the process and never return a bare
// 500 for pipeline failures; those come back as status "error" envelopes.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/matthew-salter/the-big-question-sub000/internal/pipeline"
	"github.com/matthew-salter/the-big-question-sub000/internal/storage"
)

const maxPayloadBytes = 4 << 20

type StageFunc func(ctx context.Context, req pipeline.Request) pipeline.Result

type Server struct {
	engine *pipeline.Engine
	secret string
}

func NewServer(engine *pipeline.Engine, secret string) http.Handler {
	s := &Server{engine: engine, secret: secret}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/run/report", s.stageHandler(engine.RunReport))
	mux.HandleFunc("/v1/run/questions", s.stageHandler(engine.StartQuestionBatch))
	mux.HandleFunc("/v1/run/merge", s.stageHandler(engine.RunMerge))
	mux.HandleFunc("/v1/run/export", s.stageHandler(engine.RunExport))
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) stageHandler(run StageFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if s.secret != "" && r.Header.Get("X-Webhook-Secret") != s.secret {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"status": pipeline.StatusError, "message": "invalid webhook secret"})
			return
		}
		blob, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"status": pipeline.StatusError, "message": "unreadable payload"})
			return
		}
		writeJSON(w, http.StatusOK, run(r.Context(), decodeRequest(blob)))
	}
}

// decodeRequest pulls the stage request out of a webhook payload. Form
// providers wrap fields differently (top level, under "data", under "form"),
// so each field resolves through the first path that matches. A missing
// run_id gets a fresh UUID so storage stays namespaced per run.
func decodeRequest(blob []byte) pipeline.Request {
	body := string(blob)
	req := pipeline.Request{
		RunID:      firstString(body, "run_id", "data.run_id", "form.run_id"),
		FirstName:  firstString(body, "first_name", "data.first_name", "form.first_name"),
		LastName:   firstString(body, "last_name", "data.last_name", "form.last_name"),
		Condition:  firstString(body, "condition", "data.condition", "form.condition"),
		Date:       firstString(body, "date", "data.date", "form.date"),
		ReportText: firstString(body, "report_text", "data.report_text"),
		Prompt:     firstString(body, "prompt", "data.prompt"),
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	if v := gjson.Get(body, "templates"); v.IsArray() {
		for _, item := range v.Array() {
			if t := strings.TrimSpace(item.String()); t != "" {
				req.Templates = append(req.Templates, t)
			}
		}
	}
	if v := gjson.Get(body, "expected_count"); v.Exists() {
		req.ExpectedCount = int(v.Int())
	}
	if v := firstString(body, "variant", "data.variant"); v != "" {
		req.Variant = storage.MergedVariant(v)
	}
	return req
}

func firstString(body string, paths ...string) string {
	for _, path := range paths {
		if v := gjson.Get(body, path); v.Exists() {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}
