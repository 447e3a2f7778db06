package report

import "fmt"

// ParsedDocument is the tree form of a report: report-level fields, numbered
// sections with nested sub-sections, and closing fields. Absent fields are
// absent from the maps; no key is ever created with a placeholder value.
type ParsedDocument struct {
	Intro    map[FieldKey]string
	Sections []Section
	Outro    map[FieldKey]string
}

// Section numbers are positive and strictly increasing in document order.
// Gaps are preserved as-is; the builder never renumbers an explicit section.
type Section struct {
	Number      int
	Fields      map[FieldKey]string
	Subsections []SubSection
}

type SubSection struct {
	Section int
	Number  int
	Fields  map[FieldKey]string
}

// Label renders the sub-section marker value, e.g. "3.1".
func (s SubSection) Label() string {
	return fmt.Sprintf("%d.%d", s.Section, s.Number)
}

func NewParsedDocument() ParsedDocument {
	return ParsedDocument{
		Intro: map[FieldKey]string{},
		Outro: map[FieldKey]string{},
	}
}

// FieldTriple is the flat intermediate form between the line scanner and the
// tree builder: a recognized key, the explicit section/sub-section marker it
// was scanned under ("", "3", or "3.1"), and its buffered raw value.
type FieldTriple struct {
	Key    FieldKey
	Number string
	Value  string
}

// FlatRow is one denormalized CSV record: report-level and outro fields
// repeated per (section, sub-section) pair. Keys are CSV column names.
type FlatRow map[string]string
