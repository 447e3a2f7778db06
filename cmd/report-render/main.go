// report-render is the offline companion to the webhook engine: it takes a
// raw report text file, runs the same normalize/parse/format path, and writes
// the canonical text, CSV, and HTML renditions next to the input.
package main

import (
	"bytes"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/matthew-salter/the-big-question-sub000/internal/export"
	"github.com/matthew-salter/the-big-question-sub000/internal/locale"
	"github.com/matthew-salter/the-big-question-sub000/internal/report"
)

func main() {
	input := flag.String("in", "", "Raw report text file")
	outDir := flag.String("out", "", "Output directory (default: input directory)")
	termMapPath := flag.String("term-map", "", "Locale term map YAML (optional)")
	flag.Parse()

	if *input == "" {
		log.Fatal("missing -in")
	}
	raw, err := os.ReadFile(*input)
	if err != nil {
		log.Fatal(err)
	}

	terms := locale.TermMap{}
	if *termMapPath != "" {
		terms, err = locale.Load(*termMapPath)
		if err != nil {
			log.Fatalf("load term map: %v", err)
		}
	}

	doc := report.FormatDocument(report.Parse(locale.Apply(string(raw), terms)))
	rendered, rows := report.Render(doc)

	dir := *outDir
	if dir == "" {
		dir = filepath.Dir(*input)
	}
	base := strings.TrimSuffix(filepath.Base(*input), filepath.Ext(*input))

	write := func(ext string, data []byte) string {
		path := filepath.Join(dir, base+"_canonical."+ext)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Fatal(err)
		}
		return path
	}

	textPath := write("txt", []byte(rendered))

	var csvBuf bytes.Buffer
	if err := report.WriteCSV(&csvBuf, rows); err != nil {
		log.Fatal(err)
	}
	csvPath := write("csv", csvBuf.Bytes())

	html, err := export.ReportHTML(doc)
	if err != nil {
		log.Fatal(err)
	}
	htmlPath := write("html", []byte(html))

	log.Printf("report-render sections=%d rows=%d", len(doc.Sections), len(rows))
	log.Printf("report-render wrote %s %s %s", textPath, csvPath, htmlPath)
}
