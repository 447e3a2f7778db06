package report

import (
	"regexp"
	"strings"
)

// Only exact vocabulary matches open a new key; any other "Word:" line is
// swallowed into the open buffer. This is the tolerance policy for loosely
// structured upstream text: prefer absorbing ambiguous lines over
// mis-splitting them.
var sectionMarkerRe = regexp.MustCompile(`^Section #:\s*(\d+(?:\.\d+)?)\s*$`)

// Parse scans a raw text blob into a ParsedDocument. It never fails on
// malformed input; worst case the whole blob is buffered under the first
// recognized key, or nothing is recognized and the document is empty.
func Parse(text string) ParsedDocument {
	return Build(Scan(text))
}

// Scan partitions text into ordered (key, marker, value) triples. The marker
// is the most recent explicit "Section #:" value ("", "3", or "3.1").
func Scan(text string) []FieldTriple {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")

	var triples []FieldTriple
	var openKey FieldKey
	var buf []string
	haveOpen := false
	marker := ""

	flush := func() {
		if !haveOpen {
			return
		}
		triples = append(triples, FieldTriple{Key: openKey, Number: marker, Value: trimBuffer(buf)})
		buf = nil
		haveOpen = false
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if m := sectionMarkerRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			marker = m[1]
			continue
		}

		if key, inline, ok := matchKeyLine(trimmed); ok {
			flush()
			openKey = key
			haveOpen = true
			if inline != "" {
				buf = append(buf, inline)
			}
			continue
		}

		// Lines before the first recognized key are dropped; there is no
		// key to attach them to.
		if haveOpen {
			buf = append(buf, line)
		}
	}
	flush()
	return triples
}

// matchKeyLine reports whether a trimmed line opens a vocabulary key. The
// label before the colon must match a key exactly; anything after the colon
// is an inline value.
func matchKeyLine(line string) (FieldKey, string, bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	label := FieldKey(strings.TrimSpace(line[:idx]))
	if _, ok := Lookup(label); !ok {
		return "", "", false
	}
	return label, strings.TrimSpace(line[idx+1:]), true
}

// trimBuffer joins buffered lines and strips leading/trailing blank lines.
// A buffer of only blank lines yields the empty string, not omission.
func trimBuffer(buf []string) string {
	return strings.Trim(strings.Join(buf, "\n"), " \t\n")
}
