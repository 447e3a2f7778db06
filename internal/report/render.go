package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Render walks doc in fixed vocabulary order and emits the canonical text
// form plus the denormalized tabular form. The text layout is load-bearing
// for downstream parsers: every field is "{Key}:\n{value}\n" with exactly one
// blank line between field blocks, and sections/sub-sections are announced by
// "Section #: N" / "Section #: N.M" marker lines.
func Render(doc ParsedDocument) (string, []FlatRow) {
	return renderText(doc), Rows(doc)
}

func renderText(doc ParsedDocument) string {
	var blocks []string

	appendFields := func(keys []FieldKey, fields map[FieldKey]string) {
		for _, key := range keys {
			value, ok := fields[key]
			if !ok {
				continue
			}
			blocks = append(blocks, fmt.Sprintf("%s:\n%s\n", key, value))
		}
	}

	appendFields(IntroKeys(), doc.Intro)

	for _, sec := range sortedSections(doc.Sections) {
		blocks = append(blocks, fmt.Sprintf("%s: %d\n", SectionMarker, sec.Number))
		appendFields(SectionKeys(), sec.Fields)
		for _, sub := range sortedSubSections(sec.Subsections) {
			blocks = append(blocks, fmt.Sprintf("%s: %s\n", SectionMarker, sub.Label()))
			appendFields(SubSectionKeys(), sub.Fields)
		}
	}

	appendFields(OutroKeys(), doc.Outro)

	return strings.Join(blocks, "\n")
}

// Rows flattens doc to one row per (section, sub-section) pair. Sections
// without sub-sections still contribute one row with empty sub-section
// columns; a document with no sections yields a single report-level row.
// Every declared column is present in every row.
func Rows(doc ParsedDocument) []FlatRow {
	base := FlatRow{}
	for _, col := range Columns() {
		base[col] = ""
	}
	for key, value := range doc.Intro {
		base[Column(key)] = value
	}
	for key, value := range doc.Outro {
		base[Column(key)] = value
	}

	var rows []FlatRow
	for _, sec := range sortedSections(doc.Sections) {
		secRow := cloneRow(base)
		secRow[ColumnSectionNo] = strconv.Itoa(sec.Number)
		for key, value := range sec.Fields {
			secRow[Column(key)] = value
		}
		if len(sec.Subsections) == 0 {
			rows = append(rows, secRow)
			continue
		}
		for _, sub := range sortedSubSections(sec.Subsections) {
			row := cloneRow(secRow)
			row[ColumnSubSectionNo] = sub.Label()
			for key, value := range sub.Fields {
				row[Column(key)] = value
			}
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		rows = append(rows, cloneRow(base))
	}
	return rows
}

func sortedSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func sortedSubSections(subs []SubSection) []SubSection {
	out := make([]SubSection, len(subs))
	copy(out, subs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func cloneRow(row FlatRow) FlatRow {
	out := FlatRow{}
	for k, v := range row {
		out[k] = v
	}
	return out
}
