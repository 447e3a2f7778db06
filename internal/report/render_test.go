package report

import (
	"reflect"
	"strings"
	"testing"
)

func sampleDocument() ParsedDocument {
	return ParsedDocument{
		Intro: map[FieldKey]string{
			KeyReportTitle:      "Q3 Outlook",
			KeyExecutiveSummary: "Demand rose.\n\nSupply lagged.",
			KeyKeyFindings:      "- First finding\n- Second finding",
		},
		Sections: []Section{
			{
				Number: 1,
				Fields: map[FieldKey]string{
					KeySectionTitle:   "Demand Shift",
					KeySectionSummary: "Buyers moved east.",
				},
				Subsections: []SubSection{
					{Section: 1, Number: 1, Fields: map[FieldKey]string{
						KeySubSectionTitle:   "Asia",
						KeySubSectionSummary: "Growth concentrated in Asia.",
					}},
				},
			},
			{
				Number: 3,
				Fields: map[FieldKey]string{KeySectionTitle: "Outliers"},
			},
		},
		Outro: map[FieldKey]string{
			KeyConclusion: "Markets tightened.",
		},
	}
}

func TestRenderTextLayout(t *testing.T) {
	text, _ := Render(sampleDocument())

	for _, want := range []string{
		"Report Title:\nQ3 Outlook\n",
		"Section #: 1\n",
		"Section #: 1.1\n",
		"Section #: 3\n",
		"Conclusion:\nMarkets tightened.\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "\n\n\n") {
		t.Fatalf("blocks separated by more than one blank line:\n%s", text)
	}
}

// Rendered canonical text must re-parse to the same document.
func TestRenderParseRoundTrip(t *testing.T) {
	doc := sampleDocument()
	text, _ := Render(doc)
	got := Parse(text)
	if !reflect.DeepEqual(doc, got) {
		t.Fatalf("round trip diverged:\nwant %+v\ngot  %+v", doc, got)
	}
}

func TestRowsDenormalizesIntroAndOutro(t *testing.T) {
	rows := Rows(sampleDocument())
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for i, row := range rows {
		if row[Column(KeyReportTitle)] != "Q3 Outlook" {
			t.Errorf("row %d missing report title: %+v", i, row)
		}
		if row[Column(KeyConclusion)] != "Markets tightened." {
			t.Errorf("row %d missing conclusion", i)
		}
	}
	if rows[0][ColumnSectionNo] != "1" || rows[0][ColumnSubSectionNo] != "1.1" {
		t.Fatalf("first row numbering wrong: %+v", rows[0])
	}
	if rows[1][ColumnSectionNo] != "3" || rows[1][ColumnSubSectionNo] != "" {
		t.Fatalf("second row numbering wrong: %+v", rows[1])
	}
}

func TestRowsNoSectionsYieldsOneRow(t *testing.T) {
	doc := NewParsedDocument()
	doc.Intro[KeyReportTitle] = "Sparse"
	rows := Rows(doc)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0][Column(KeyReportTitle)] != "Sparse" || rows[0][ColumnSectionNo] != "" {
		t.Fatalf("report-level row wrong: %+v", rows[0])
	}
}

func TestEndToEndSingleSection(t *testing.T) {
	input := "Report Title:\nQ3 Outlook\n\nSection #: 1\nSection Title:\nDemand Shift\n"
	doc := FormatDocument(Parse(input))
	_, rows := Render(doc)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row["report_title"] != "Q3 Outlook" {
		t.Errorf("report_title = %q", row["report_title"])
	}
	if row["section_no"] != "1" {
		t.Errorf("section_no = %q", row["section_no"])
	}
	if row["section_title"] != "Demand Shift" {
		t.Errorf("section_title = %q", row["section_title"])
	}
}

func TestMergeRenumbersAcrossDocuments(t *testing.T) {
	a := Parse("Section #: 1\nSection Title:\nFrom A\n")
	b := Parse("Section #: 1\nSection Title:\nFrom B\n\nSection #: 1.1\nSub-Section Title:\nB Sub\n")
	merged := Merge([]ParsedDocument{a, b})
	if len(merged.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(merged.Sections))
	}
	if merged.Sections[0].Number != 1 || merged.Sections[1].Number != 2 {
		t.Fatalf("renumbering wrong: %d, %d", merged.Sections[0].Number, merged.Sections[1].Number)
	}
	sub := merged.Sections[1].Subsections[0]
	if sub.Section != 2 || sub.Label() != "2.1" {
		t.Fatalf("subsection not re-parented: %+v", sub)
	}
}

func TestMergeIntroLastWriteWins(t *testing.T) {
	a := Parse("Report Title:\nOld\n")
	b := Parse("Report Title:\nNew\n")
	merged := Merge([]ParsedDocument{a, b})
	if merged.Intro[KeyReportTitle] != "New" {
		t.Fatalf("intro merge = %q, want New", merged.Intro[KeyReportTitle])
	}
}
