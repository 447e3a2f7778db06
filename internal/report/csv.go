package report

import (
	"encoding/csv"
	"io"
	"regexp"
	"strings"
)

const (
	ColumnSectionNo    = "section_no"
	ColumnSubSectionNo = "sub_section_no"
)

// columns is filled by the vocabulary init in vocab.go. Same-package init
// functions run in lexical file order, so building it here would read the key
// lists before they exist.
var columns []string

// Columns is the fixed export column order: intro and outro columns first,
// then section columns, then sub-section columns. Stable across versions;
// downstream import tooling depends on it.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// WriteCSV writes a header row plus one record per row. Missing cells are
// emitted as empty strings so every declared column is present in every row.
func WriteCSV(w io.Writer, rows []FlatRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = row[col]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var headerLineRe = regexp.MustCompile(`(?m)^[ \t]*([A-Za-z][A-Za-z #\-]*):[ \t]*(.*)$`)

// ExtractAssets re-extracts named fields from rendered canonical text by
// regex position scanning, then flattens them to export rows. Unlike the
// line-machine parser it does not track state: every header match is sliced
// against the next match and resolved through the vocabulary.
func ExtractAssets(text string) []FlatRow {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var matches [][]int
	for _, m := range headerLineRe.FindAllStringSubmatchIndex(text, -1) {
		label := strings.TrimSpace(text[m[2]:m[3]])
		if label == SectionMarker {
			matches = append(matches, m)
			continue
		}
		if _, ok := Lookup(FieldKey(label)); ok {
			matches = append(matches, m)
		}
	}

	var triples []FieldTriple
	marker := ""
	for i, m := range matches {
		label := strings.TrimSpace(text[m[2]:m[3]])
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		value := strings.Trim(text[m[4]:end], " \t\n")
		if label == SectionMarker {
			marker = value
			continue
		}
		triples = append(triples, FieldTriple{Key: FieldKey(label), Number: marker, Value: value})
	}
	return Rows(Build(triples))
}

// SplitKeyValues scans a text blob for top-level "key: value" pairs without
// vocabulary awareness, for question-asset JSON-ish blocks where the key set
// is prompt-defined. Keys are snake_cased; repeated keys are last-write-wins.
func SplitKeyValues(text string) map[string]string {
	out := map[string]string{}
	var key string
	var buf []string
	flush := func() {
		if key != "" {
			out[key] = strings.Trim(strings.Join(buf, "\n"), " \t\n")
		}
		buf = nil
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if i := strings.Index(trimmed, ":"); i > 0 && !strings.ContainsAny(trimmed[:i], "{}\"") {
			flush()
			key = snakeCase(trimmed[:i])
			rest := strings.TrimSpace(trimmed[i+1:])
			if rest != "" {
				buf = append(buf, rest)
			}
			continue
		}
		if key != "" {
			buf = append(buf, line)
		}
	}
	flush()
	return out
}

func snakeCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), "_")
}
