package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/matthew-salter/the-big-question-sub000/internal/export"
	"github.com/matthew-salter/the-big-question-sub000/internal/httpapi"
	"github.com/matthew-salter/the-big-question-sub000/internal/llm"
	"github.com/matthew-salter/the-big-question-sub000/internal/locale"
	"github.com/matthew-salter/the-big-question-sub000/internal/pipeline"
	"github.com/matthew-salter/the-big-question-sub000/internal/storage"
	"github.com/matthew-salter/the-big-question-sub000/internal/telemetry"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "report-engine.db", "SQLite artifact store path")
	termMapPath := flag.String("term-map", "", "Locale term map YAML (optional)")
	root := flag.String("root", "The_Big_Question", "Storage root segment")
	domain := flag.String("domain", "Panelitix", "Storage domain segment")
	enablePDF := flag.Bool("pdf", false, "Enable headless-Chromium PDF export")
	flag.Parse()

	secret := requiredEnv("REPORT_WEBHOOK_SECRET")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Init(ctx, "report-engine")
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = shutdownTracing(shutdownCtx)
	}()

	sqlStore, err := storage.NewSQLiteStore(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlStore.Close()
	store := storage.WithRetry(sqlStore)

	terms := locale.TermMap{}
	if *termMapPath != "" {
		terms, err = locale.Load(*termMapPath)
		if err != nil {
			log.Printf("report-engine term_map_load_failed path=%s err=%v", *termMapPath, err)
			terms = locale.TermMap{}
		}
	}

	caller, err := llm.NewAnthropicCallerFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	exec := llm.NewExecutor(caller)

	layout := storage.Layout{Root: *root, Domain: *domain}
	engine := pipeline.NewEngine(store, exec, terms, layout)
	if *enablePDF {
		engine.SetPDFRenderer(export.NewChromiumPDFRenderer())
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewServer(engine, secret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("report-engine listening addr=%s db=%s model=%s", *addr, *dbPath, caller.ModelName())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Printf("report-engine shutting down")
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("report-engine shutdown err=%v", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}
}

func requiredEnv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		log.Fatalf("missing required env var %s", key)
	}
	return v
}
