package report

import (
	"strings"
	"time"
	"unicode"
)

// Words kept lowercase by TitleCase unless they open the string: articles,
// coordinating conjunctions, and short prepositions.
var titleStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"and": {}, "but": {}, "or": {}, "nor": {}, "for": {}, "so": {}, "yet": {},
	"as": {}, "at": {}, "by": {}, "in": {}, "of": {}, "off": {}, "on": {},
	"per": {}, "to": {}, "up": {}, "via": {}, "with": {},
}

// Format applies the vocabulary rule for key to value. It is pure and total:
// unrecognized keys and rule precondition failures return the input unchanged.
func Format(key FieldKey, value string) string {
	spec, ok := Lookup(key)
	if !ok {
		return value
	}
	switch spec.Rule {
	case RuleTitleCase:
		return TitleCase(value)
	case RuleSentenceCase:
		return SentenceCase(value)
	case RuleParagraphCase:
		return ParagraphCase(value)
	case RuleBulletList:
		return BulletList(value)
	case RuleDateNormalize:
		return NormalizeDate(value)
	default:
		return value
	}
}

// FormatDocument returns a copy of doc with every field rendered through its
// vocabulary rule.
func FormatDocument(doc ParsedDocument) ParsedDocument {
	out := NewParsedDocument()
	for k, v := range doc.Intro {
		out.Intro[k] = Format(k, v)
	}
	for k, v := range doc.Outro {
		out.Outro[k] = Format(k, v)
	}
	for _, sec := range doc.Sections {
		fs := Section{Number: sec.Number, Fields: map[FieldKey]string{}}
		for k, v := range sec.Fields {
			fs.Fields[k] = Format(k, v)
		}
		for _, sub := range sec.Subsections {
			fsub := SubSection{Section: sub.Section, Number: sub.Number, Fields: map[FieldKey]string{}}
			for k, v := range sub.Fields {
				fsub.Fields[k] = Format(k, v)
			}
			fs.Subsections = append(fs.Subsections, fsub)
		}
		out.Sections = append(out.Sections, fs)
	}
	return out
}

// TitleCase capitalizes every word except stopwords, which stay lowercase
// unless they open the string. Whitespace runs collapse to single spaces.
func TitleCase(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	for i, w := range fields {
		lower := strings.ToLower(w)
		if i > 0 {
			if _, stop := titleStopwords[lower]; stop {
				fields[i] = lower
				continue
			}
		}
		fields[i] = capitalize(lower)
	}
	return strings.Join(fields, " ")
}

// SentenceCase trims the string and upper-cases its first alphabetic
// character, leaving everything after it unchanged.
func SentenceCase(s string) string {
	t := strings.TrimSpace(s)
	runes := []rune(t)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}

// ParagraphCase applies SentenceCase per blank-line-separated paragraph and
// rejoins with one blank line.
func ParagraphCase(s string) string {
	paras := splitParagraphs(s)
	if len(paras) == 0 {
		return strings.TrimSpace(s)
	}
	for i, p := range paras {
		paras[i] = SentenceCase(p)
	}
	return strings.Join(paras, "\n\n")
}

// BulletList rewrites each non-empty line as "- item", stripping any existing
// bullet punctuation first.
func BulletList(s string) string {
	var items []string
	for _, line := range strings.Split(s, "\n") {
		item := strings.TrimSpace(line)
		item = strings.TrimLeft(item, "-*• \t")
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		items = append(items, "- "+item)
	}
	if len(items) == 0 {
		return s
	}
	return strings.Join(items, "\n")
}

// Accepted date layouts, day/month/year preferred. Padded and unpadded forms
// are distinct layouts to time.Parse, so both are listed.
var dateLayouts = []string{
	"02/01/2006",
	"01/02/2006",
	"2/1/2006",
	"1/2/2006",
	"02-01-2006",
	"01-02-2006",
	"2-1-2006",
	"1-2-2006",
	"2006-01-02",
}

// NormalizeDate reformats the first layout that parses as zero-padded
// day/month/year. Unparseable input is returned unchanged, never an error.
func NormalizeDate(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return s
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, t); err == nil {
			return d.Format("02/01/2006")
		}
	}
	return s
}

func capitalize(w string) string {
	runes := []rune(w)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}

func splitParagraphs(s string) []string {
	var paras []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			paras = append(paras, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return paras
}
