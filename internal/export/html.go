// Package export turns canonical report text into shareable artifacts: an
// HTML preview and a print-quality PDF.
package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/matthew-salter/the-big-question-sub000/internal/report"
)

// BuildMarkdown converts a formatted document to a markdown rendition: the
// report title becomes the top heading, sections and sub-sections become
// nested headings, bullet-list fields stay bullet lists, opaque table blocks
// are fenced verbatim.
func BuildMarkdown(doc report.ParsedDocument) string {
	var b strings.Builder

	if title, ok := doc.Intro[report.KeyReportTitle]; ok {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	for _, key := range report.IntroKeys() {
		if key == report.KeyReportTitle {
			continue
		}
		writeField(&b, key, doc.Intro, 2)
	}

	for _, sec := range doc.Sections {
		title := sec.Fields[report.KeySectionTitle]
		if title == "" {
			title = fmt.Sprintf("Section %d", sec.Number)
		}
		fmt.Fprintf(&b, "## %d. %s\n\n", sec.Number, title)
		for _, key := range report.SectionKeys() {
			if key == report.KeySectionTitle {
				continue
			}
			writeField(&b, key, sec.Fields, 3)
		}
		for _, sub := range sec.Subsections {
			subTitle := sub.Fields[report.KeySubSectionTitle]
			if subTitle == "" {
				subTitle = fmt.Sprintf("Sub-Section %s", sub.Label())
			}
			fmt.Fprintf(&b, "### %s %s\n\n", sub.Label(), subTitle)
			for _, key := range report.SubSectionKeys() {
				if key == report.KeySubSectionTitle {
					continue
				}
				writeField(&b, key, sub.Fields, 4)
			}
		}
	}

	for _, key := range report.OutroKeys() {
		writeField(&b, key, doc.Outro, 2)
	}
	return b.String()
}

func writeField(b *strings.Builder, key report.FieldKey, fields map[report.FieldKey]string, level int) {
	value, ok := fields[key]
	if !ok || strings.TrimSpace(value) == "" {
		return
	}
	spec, _ := report.Lookup(key)
	fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", level), key)
	if spec.Opaque {
		fmt.Fprintf(b, "```\n%s\n```\n\n", value)
		return
	}
	fmt.Fprintf(b, "%s\n\n", value)
}

// ReportHTML renders the document to a standalone HTML page via goldmark.
func ReportHTML(doc report.ParsedDocument) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(BuildMarkdown(doc)), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	title := doc.Intro[report.KeyReportTitle]
	if title == "" {
		title = "Report"
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" +
		"body{font-family:Georgia,serif;max-width:880px;margin:0 auto;padding:1rem;color:#1c1917;}" +
		"h1,h2,h3,h4{font-family:Helvetica,Arial,sans-serif;}" +
		"pre{background:#f5f5f4;border:1px solid #d6d3d1;padding:0.6rem;overflow-x:auto;font-size:0.85rem;}" +
		"li{margin:0.15rem 0;}" +
		"@media print{ @page{size:auto;margin:12mm;} h2{break-before:page;page-break-before:always;} h2:first-of-type{break-before:auto;page-break-before:auto;} }" +
		"</style></head><body>" + content.String() + "</body></html>", nil
}
