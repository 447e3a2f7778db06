package report

import (
	"bytes"
	"encoding/csv"
	"testing"
)

func TestColumnNames(t *testing.T) {
	cases := []struct {
		key  FieldKey
		want string
	}{
		{KeyReportTitle, "report_title"},
		{KeyReportSubTitle, "report_sub_title"},
		{KeySubSectionSubHeader, "sub_section_sub_header"},
		{KeyArticleRelevance, "section_related_article_relevance"},
	}
	for _, c := range cases {
		if got := Column(c.key); got != c.want {
			t.Errorf("Column(%q) = %q, want %q", c.key, got, c.want)
		}
	}
}

func TestColumnsPopulatedBeforeUse(t *testing.T) {
	if got, want := len(Columns()), len(Vocabulary)+2; got != want {
		t.Fatalf("Columns() has %d entries, want %d", got, want)
	}
}

func TestColumnsCoverVocabulary(t *testing.T) {
	cols := Columns()
	seen := map[string]bool{}
	for _, c := range cols {
		if seen[c] {
			t.Fatalf("duplicate column %q", c)
		}
		seen[c] = true
	}
	for _, spec := range Vocabulary {
		if !seen[Column(spec.Key)] {
			t.Errorf("vocabulary key %q has no column", spec.Key)
		}
	}
	if !seen[ColumnSectionNo] || !seen[ColumnSubSectionNo] {
		t.Fatal("numbering columns missing")
	}
}

func TestWriteCSVAllColumnsEveryRow(t *testing.T) {
	doc := Parse("Report Title:\nQ3 Outlook\n\nSection #: 1\nSection Title:\nDemand Shift\n")
	var buf bytes.Buffer
	if err := WriteCSV(&buf, Rows(doc)); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want header + 1 row", len(records))
	}
	header, row := records[0], records[1]
	if len(header) != len(Columns()) || len(row) != len(header) {
		t.Fatalf("ragged csv: header=%d row=%d", len(header), len(row))
	}
	byName := map[string]string{}
	for i, col := range header {
		byName[col] = row[i]
	}
	if byName["report_title"] != "Q3 Outlook" || byName["section_no"] != "1" || byName["section_title"] != "Demand Shift" {
		t.Fatalf("row values wrong: %+v", byName)
	}
}

func TestExtractAssetsMatchesRows(t *testing.T) {
	text := "Report Title:\nQ3 Outlook\n\nSection #: 1\nSection Title: Demand Shift\n\nSection Summary:\nBuyers moved east.\nNote: draft.\n"
	rows := ExtractAssets(text)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row["report_title"] != "Q3 Outlook" || row["section_title"] != "Demand Shift" {
		t.Fatalf("row wrong: %+v", row)
	}
	if row["section_summary"] != "Buyers moved east.\nNote: draft." {
		t.Fatalf("non-vocabulary header split a value: %q", row["section_summary"])
	}
}

func TestSplitKeyValues(t *testing.T) {
	text := "Question: What drives demand?\nAnswer:\nSeasonal buying.\nWeather.\nImage-Prompt: a busy port\n"
	got := SplitKeyValues(text)
	if got["question"] != "What drives demand?" {
		t.Errorf("question = %q", got["question"])
	}
	if got["answer"] != "Seasonal buying.\nWeather." {
		t.Errorf("answer = %q", got["answer"])
	}
	if got["image_prompt"] != "a busy port" {
		t.Errorf("image_prompt = %q", got["image_prompt"])
	}
}
