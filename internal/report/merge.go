package report

// Merge folds per-unit documents into one. Report-level and outro fields are
// last-write-wins in input order; sections are appended and renumbered
// sequentially so units that each start at "Section #: 1" do not collide.
// Within a single document, explicit numbering (including gaps) is preserved
// by the parser; renumbering happens only here, across documents.
func Merge(docs []ParsedDocument) ParsedDocument {
	out := NewParsedDocument()
	next := 1
	for _, doc := range docs {
		for k, v := range doc.Intro {
			out.Intro[k] = v
		}
		for k, v := range doc.Outro {
			out.Outro[k] = v
		}
		for _, sec := range sortedSections(doc.Sections) {
			renumbered := Section{Number: next, Fields: map[FieldKey]string{}}
			for k, v := range sec.Fields {
				renumbered.Fields[k] = v
			}
			for _, sub := range sortedSubSections(sec.Subsections) {
				rsub := SubSection{Section: next, Number: sub.Number, Fields: map[FieldKey]string{}}
				for k, v := range sub.Fields {
					rsub.Fields[k] = v
				}
				renumbered.Subsections = append(renumbered.Subsections, rsub)
			}
			out.Sections = append(out.Sections, renumbered)
			next++
		}
	}
	return out
}
