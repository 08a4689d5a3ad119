package match

import (
	"fmt"
	"strings"

	"github.com/pergunte-russel/russel-bot-go/internal/textnorm"
)

// Rule maps a synonym to its canonical form. Both sides are normalized
// before use, so rules may be stored with accents and punctuation.
type Rule struct {
	Synonym   string
	Canonical string
}

// Substitute normalizes text and applies each rule in order, replacing
// whole-word occurrences of the synonym with the canonical form.
// A synonym never matches inside a larger word: a rule "usg" -> "ultrassom"
// leaves "usgtotal" untouched. Rules whose synonym or canonical normalize
// to the empty string are skipped.
//
// Rules are applied in the order given. With overlapping rules the result
// is order-dependent; callers that care must control rule order.
func Substitute(text string, rules []Rule) string {
	normalized := textnorm.Normalize(text)
	if normalized == "" {
		return ""
	}

	for _, rule := range rules {
		synonym := textnorm.Normalize(rule.Synonym)
		canonical := textnorm.Normalize(rule.Canonical)
		if synonym == "" || canonical == "" {
			continue
		}
		normalized = replaceWholeWord(normalized, synonym, canonical)
	}

	return normalized
}

// replaceWholeWord replaces occurrences of old in text with new, where an
// occurrence must be delimited by start/end of string or a space.
// Both text and old are assumed normalized (single-space separated).
func replaceWholeWord(text, old, new string) string {
	var b strings.Builder
	rest := text
	for {
		idx := strings.Index(rest, old)
		if idx < 0 {
			b.WriteString(rest)
			return b.String()
		}

		end := idx + len(old)
		startOK := idx == 0 || rest[idx-1] == ' '
		endOK := end == len(rest) || rest[end] == ' '

		if startOK && endOK {
			b.WriteString(rest[:idx])
			b.WriteString(new)
		} else {
			b.WriteString(rest[:end])
		}
		rest = rest[end:]
	}
}

// Overlaps reports order-sensitive interactions between rules: duplicate
// synonyms and rules whose canonical form is another rule's synonym
// (chained substitution). These are allowed but worth surfacing to admins.
func Overlaps(rules []Rule) []string {
	var warnings []string

	synonymAt := make(map[string]int)
	canonicals := make(map[string][]int)
	for i, rule := range rules {
		synonym := textnorm.Normalize(rule.Synonym)
		canonical := textnorm.Normalize(rule.Canonical)
		if synonym == "" || canonical == "" {
			continue
		}
		if prev, ok := synonymAt[synonym]; ok {
			warnings = append(warnings, fmt.Sprintf(
				"synonym %q mapped more than once (rules %d and %d); only the first applies", synonym, prev+1, i+1))
		} else {
			synonymAt[synonym] = i
		}
		canonicals[canonical] = append(canonicals[canonical], i)
	}

	for synonym, first := range synonymAt {
		for _, i := range canonicals[synonym] {
			if i != first {
				warnings = append(warnings, fmt.Sprintf(
					"rule %d rewrites to %q which rule %d rewrites again; result depends on rule order", i+1, synonym, first+1))
			}
		}
	}

	return warnings
}
