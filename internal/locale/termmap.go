// Package locale rewrites source-locale terms to target-locale terms in
// generated text, preserving the casing pattern of each matched word.
package locale

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// TermMap maps a lowercase source term to its canonical (lowercase)
// replacement. Lookup is case-insensitive; substitution preserves the case
// pattern of the matched text.
type TermMap map[string]string

// Load reads a flat YAML mapping of source term to target term. Keys are
// lowercased on load. Callers treat a load failure as ConfigMissing: log a
// warning and proceed with an empty map rather than failing the pipeline.
func Load(path string) (TermMap, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read term map: %w", err)
	}
	raw := map[string]string{}
	if err := yaml.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("parse term map: %w", err)
	}
	m := TermMap{}
	for k, v := range raw {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		m[k] = strings.TrimSpace(v)
	}
	return m, nil
}

// Apply rewrites every whole-word, case-insensitive occurrence of a mapped
// term. Overlapping terms resolve longest-first. A nil or empty map returns
// text unchanged.
func Apply(text string, m TermMap) string {
	if len(m) == 0 || text == "" {
		return text
	}
	re := m.pattern()
	return re.ReplaceAllStringFunc(text, func(match string) string {
		repl, ok := m[strings.ToLower(match)]
		if !ok || repl == "" {
			return match
		}
		return matchCase(match, repl)
	})
}

// pattern builds one alternation over all terms, longest term first so that
// overlapping terms prefer the longest match. Word boundaries are enforced on
// both sides: "color" never matches inside "colorful".
func (m TermMap) pattern() *regexp.Regexp {
	terms := make([]string, 0, len(m))
	for term := range m {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	for i, term := range terms {
		terms[i] = regexp.QuoteMeta(term)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(terms, "|") + `)\b`)
}

// matchCase projects the source word's casing onto the replacement: all-caps
// stays all-caps, leading capital keeps the replacement's first letter
// capitalized (internal casing untouched), anything else uses the stored
// canonical form.
func matchCase(source, repl string) string {
	letters := 0
	uppers := 0
	for _, r := range source {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	if letters == 0 {
		return repl
	}
	if uppers == letters && letters > 1 {
		return strings.ToUpper(repl)
	}
	first, _ := firstLetter(source)
	if unicode.IsUpper(first) {
		runes := []rune(repl)
		for i, r := range runes {
			if unicode.IsLetter(r) {
				runes[i] = unicode.ToUpper(r)
				break
			}
		}
		return string(runes)
	}
	return repl
}

func firstLetter(s string) (rune, bool) {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return r, true
		}
	}
	return 0, false
}
