package report

import (
	"strconv"
	"strings"
)

// Build groups flat triples into the section/sub-section tree. Explicit
// markers win: a triple scanned under "3" or "3.1" lands in that section or
// sub-section, created on demand, and explicit numbers are never rewritten.
// Unnumbered triples fall back to a boundary heuristic:
//
//   - a section-class key seen while reading intro or sub-section fields
//     opens a new section (counter seeded at 1, monotonically increasing);
//   - a sub-section-class key opens a new sub-section when no sub-section is
//     open, when the previous key was not sub-section-class, or when the key
//     repeats within the open sub-section (a repeat marks the next group);
//   - sub-section counters reset at each new section.
//
// The heuristic is best-effort by design; pathological interleavings group
// the way the rules above say, not the way a human might.
func Build(triples []FieldTriple) ParsedDocument {
	doc := NewParsedDocument()
	b := builder{doc: &doc}
	for _, t := range triples {
		b.add(t)
	}
	return doc
}

type builder struct {
	doc        *ParsedDocument
	curSection int // index into doc.Sections, -1 style via hasSection
	curSub     int
	hasSection bool
	hasSub     bool
	lastClass  KeyClass
}

func (b *builder) add(t FieldTriple) {
	spec, ok := Lookup(t.Key)
	if !ok {
		return
	}

	switch spec.Class {
	case ClassIntro:
		b.doc.Intro[t.Key] = t.Value
	case ClassOutro:
		b.doc.Outro[t.Key] = t.Value
	case ClassSection:
		sec := b.sectionFor(t.Number, true)
		sec.Fields[t.Key] = t.Value
	case ClassSubSection:
		sub := b.subSectionFor(t.Number, t.Key)
		sub.Fields[t.Key] = t.Value
	}
	b.lastClass = spec.Class
}

// sectionFor resolves the target section for an explicit marker ("3" or
// "3.1") or, with boundary true and no marker, applies the heuristic.
func (b *builder) sectionFor(marker string, boundary bool) *Section {
	if marker != "" {
		n := sectionNumber(marker)
		return b.openSection(n)
	}
	if !b.hasSection || (boundary && (b.lastClass == ClassIntro || b.lastClass == ClassSubSection)) {
		return b.openSection(b.nextSectionNumber())
	}
	b.hasSub = false
	return &b.doc.Sections[b.curSection]
}

func (b *builder) subSectionFor(marker string, key FieldKey) *SubSection {
	if marker != "" && strings.Contains(marker, ".") {
		parts := strings.SplitN(marker, ".", 2)
		secNo, _ := strconv.Atoi(parts[0])
		subNo, _ := strconv.Atoi(parts[1])
		sec := b.openSection(secNo)
		return b.openSubSection(sec, subNo)
	}

	var sec *Section
	if marker != "" {
		sec = b.openSection(sectionNumber(marker))
	} else if b.hasSection {
		sec = &b.doc.Sections[b.curSection]
	} else {
		sec = b.openSection(b.nextSectionNumber())
	}

	if b.hasSub && b.curSub < len(sec.Subsections) {
		open := &sec.Subsections[b.curSub]
		_, repeat := open.Fields[key]
		if b.lastClass == ClassSubSection && !repeat {
			return open
		}
	}
	next := 1
	if len(sec.Subsections) > 0 {
		next = sec.Subsections[len(sec.Subsections)-1].Number + 1
	}
	return b.openSubSection(sec, next)
}

func (b *builder) openSection(n int) *Section {
	for i := range b.doc.Sections {
		if b.doc.Sections[i].Number == n {
			b.curSection = i
			b.hasSection = true
			b.hasSub = false
			return &b.doc.Sections[i]
		}
	}
	b.doc.Sections = append(b.doc.Sections, Section{Number: n, Fields: map[FieldKey]string{}})
	b.curSection = len(b.doc.Sections) - 1
	b.hasSection = true
	b.hasSub = false
	return &b.doc.Sections[b.curSection]
}

func (b *builder) openSubSection(sec *Section, n int) *SubSection {
	for i := range sec.Subsections {
		if sec.Subsections[i].Number == n {
			b.curSub = i
			b.hasSub = true
			return &sec.Subsections[i]
		}
	}
	sec.Subsections = append(sec.Subsections, SubSection{Section: sec.Number, Number: n, Fields: map[FieldKey]string{}})
	b.curSub = len(sec.Subsections) - 1
	b.hasSub = true
	return &sec.Subsections[b.curSub]
}

func (b *builder) nextSectionNumber() int {
	max := 0
	for _, s := range b.doc.Sections {
		if s.Number > max {
			max = s.Number
		}
	}
	return max + 1
}

func sectionNumber(marker string) int {
	if i := strings.Index(marker, "."); i >= 0 {
		marker = marker[:i]
	}
	n, _ := strconv.Atoi(marker)
	if n <= 0 {
		n = 1
	}
	return n
}
