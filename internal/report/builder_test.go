package report

import "testing"

func TestBuildPreservesExplicitGaps(t *testing.T) {
	triples := []FieldTriple{
		{Key: KeySectionTitle, Number: "1", Value: "First"},
		{Key: KeySectionTitle, Number: "3", Value: "Third"},
	}
	doc := Build(triples)
	if len(doc.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(doc.Sections))
	}
	if doc.Sections[0].Number != 1 || doc.Sections[1].Number != 3 {
		t.Fatalf("section numbers = %d, %d; want 1, 3", doc.Sections[0].Number, doc.Sections[1].Number)
	}
}

func TestBuildUnnumberedSectionsAutoNumber(t *testing.T) {
	triples := []FieldTriple{
		{Key: KeyReportTitle, Value: "Title"},
		{Key: KeySectionTitle, Value: "A"},
		{Key: KeySectionSummary, Value: "a summary"},
		{Key: KeySubSectionTitle, Value: "A.1"},
		{Key: KeySectionTitle, Value: "B"},
	}
	doc := Build(triples)
	if len(doc.Sections) != 2 {
		t.Fatalf("got %d sections, want 2: %+v", len(doc.Sections), doc.Sections)
	}
	if doc.Sections[0].Number != 1 || doc.Sections[1].Number != 2 {
		t.Fatalf("auto numbers = %d, %d; want 1, 2", doc.Sections[0].Number, doc.Sections[1].Number)
	}
	if doc.Sections[0].Fields[KeySectionSummary] != "a summary" {
		t.Fatal("consecutive section fields should share a section")
	}
	if len(doc.Sections[0].Subsections) != 1 {
		t.Fatalf("got %d subsections, want 1", len(doc.Sections[0].Subsections))
	}
}

func TestBuildRepeatedSubSectionKeyOpensNewGroup(t *testing.T) {
	triples := []FieldTriple{
		{Key: KeySectionTitle, Value: "S"},
		{Key: KeySubSectionTitle, Value: "First"},
		{Key: KeySubSectionSummary, Value: "one"},
		{Key: KeySubSectionTitle, Value: "Second"},
		{Key: KeySubSectionSummary, Value: "two"},
	}
	doc := Build(triples)
	subs := doc.Sections[0].Subsections
	if len(subs) != 2 {
		t.Fatalf("got %d subsections, want 2: %+v", len(subs), subs)
	}
	if subs[0].Number != 1 || subs[1].Number != 2 {
		t.Fatalf("sub numbers = %d, %d; want 1, 2", subs[0].Number, subs[1].Number)
	}
	if subs[1].Fields[KeySubSectionSummary] != "two" {
		t.Fatalf("second group fields wrong: %+v", subs[1].Fields)
	}
}

func TestBuildSubSectionCounterResetsPerSection(t *testing.T) {
	triples := []FieldTriple{
		{Key: KeySectionTitle, Value: "A"},
		{Key: KeySubSectionTitle, Value: "A.1"},
		{Key: KeySectionTitle, Value: "B"},
		{Key: KeySubSectionTitle, Value: "B.1"},
	}
	doc := Build(triples)
	if len(doc.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(doc.Sections))
	}
	for i, sec := range doc.Sections {
		if len(sec.Subsections) != 1 || sec.Subsections[0].Number != 1 {
			t.Fatalf("section %d subsections wrong: %+v", i, sec.Subsections)
		}
	}
}

func TestBuildExplicitMarkerFindsExistingSection(t *testing.T) {
	triples := []FieldTriple{
		{Key: KeySectionTitle, Number: "2", Value: "Two"},
		{Key: KeySectionSummary, Number: "2", Value: "still two"},
		{Key: KeySubSectionTitle, Number: "2.1", Value: "Two point one"},
	}
	doc := Build(triples)
	if len(doc.Sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(doc.Sections))
	}
	sec := doc.Sections[0]
	if sec.Number != 2 || sec.Fields[KeySectionSummary] != "still two" {
		t.Fatalf("section wrong: %+v", sec)
	}
	if len(sec.Subsections) != 1 || sec.Subsections[0].Label() != "2.1" {
		t.Fatalf("subsection wrong: %+v", sec.Subsections)
	}
}

func TestBuildOutroAfterSections(t *testing.T) {
	triples := []FieldTriple{
		{Key: KeySectionTitle, Number: "1", Value: "One"},
		{Key: KeyConclusion, Number: "1", Value: "done."},
	}
	doc := Build(triples)
	if doc.Outro[KeyConclusion] != "done." {
		t.Fatalf("outro field missing: %+v", doc.Outro)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("outro field leaked into sections: %+v", doc.Sections)
	}
}
