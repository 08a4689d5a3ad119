package match

import (
	"fmt"

	"github.com/pergunte-russel/russel-bot-go/internal/textnorm"
)

// Default score thresholds, on the 0-100 token-set ratio scale.
const (
	// DefaultThreshold is the minimum score for a question match.
	DefaultThreshold = 70

	// DefaultKeywordThreshold is the minimum score for a keyword match.
	// Keyword phrases are short, so partial overlap scores lower than
	// full-question comparison and the bar is lower.
	DefaultKeywordThreshold = 50
)

// Entry is one catalog item: a canonical question with its answer, and
// optionally a list of keyword phrases that should also trigger it.
type Entry struct {
	ID       string
	Question string
	Answer   string
	Keywords []string
}

// Policy selects how the catalog scan picks a winner.
type Policy int

const (
	// PolicyFirstMatch returns the first entry, in catalog order, whose
	// score reaches the threshold. Catalog order is part of the contract:
	// admins put specific questions before generic ones.
	PolicyFirstMatch Policy = iota

	// PolicyBestMatch scans the whole catalog and returns the highest
	// scoring entry. On ties the earliest entry wins.
	PolicyBestMatch
)

// ParsePolicy converts a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "first_match":
		return PolicyFirstMatch, nil
	case "best_match":
		return PolicyBestMatch, nil
	default:
		return PolicyFirstMatch, fmt.Errorf("unknown match policy %q", s)
	}
}

// String returns the configuration name of the policy.
func (p Policy) String() string {
	if p == PolicyBestMatch {
		return "best_match"
	}
	return "first_match"
}

// Result is the outcome of a catalog scan. When Matched is false the
// Entry is the zero value and Score is the best score seen (useful for
// logging near misses).
type Result struct {
	Entry   Entry
	Score   int
	Matched bool
}

// Matcher scores user queries against a catalog with synonym-aware
// token-set ratios. A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	policy           Policy
	threshold        int
	keywordThreshold int
}

// NewMatcher creates a Matcher. Non-positive thresholds fall back to the
// package defaults.
func NewMatcher(policy Policy, threshold, keywordThreshold int) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if keywordThreshold <= 0 {
		keywordThreshold = DefaultKeywordThreshold
	}
	return &Matcher{
		policy:           policy,
		threshold:        threshold,
		keywordThreshold: keywordThreshold,
	}
}

// Policy returns the configured selection policy.
func (m *Matcher) Policy() Policy {
	return m.policy
}

// Threshold returns the question match threshold.
func (m *Matcher) Threshold() int {
	return m.threshold
}

// FindBestAnswer scores the query against every entry's question and
// returns the winner according to the configured policy. The same
// synonym rules are applied to the query and to every catalog question,
// so both sides are compared in the same vocabulary. Entries whose
// question normalizes to the empty string are skipped.
func (m *Matcher) FindBestAnswer(query string, entries []Entry, rules []Rule) Result {
	q := Substitute(query, rules)
	if q == "" {
		return Result{}
	}

	var best Entry
	bestScore := 0
	for _, entry := range entries {
		if textnorm.Normalize(entry.Question) == "" {
			continue
		}

		score := TokenSetRatio(q, Substitute(entry.Question, rules))
		if m.policy == PolicyFirstMatch {
			if score >= m.threshold {
				return Result{Entry: entry, Score: score, Matched: true}
			}
			// Only the score survives a first-match miss; it is
			// reported for near-miss logging.
			if score > bestScore {
				bestScore = score
			}
			continue
		}

		if score > bestScore {
			best, bestScore = entry, score
		}
	}

	if m.policy == PolicyBestMatch && bestScore >= m.threshold {
		return Result{Entry: best, Score: bestScore, Matched: true}
	}
	return Result{Score: bestScore}
}

// FindByKeywords scores the query against each entry's keyword phrases
// (and its question, when present) taking the per-entry maximum, then
// returns the best entry across the catalog. Keyword scanning never
// early-exits: short phrases produce spurious high scores too easily, so
// the whole catalog competes. Entries with neither usable keywords nor a
// usable question are skipped.
func (m *Matcher) FindByKeywords(query string, entries []Entry, rules []Rule) Result {
	q := Substitute(query, rules)
	if q == "" {
		return Result{}
	}

	best := Result{}
	for _, entry := range entries {
		score := -1
		for _, keyword := range entry.Keywords {
			if textnorm.Normalize(keyword) == "" {
				continue
			}
			if s := TokenSetRatio(q, Substitute(keyword, rules)); s > score {
				score = s
			}
		}
		if textnorm.Normalize(entry.Question) != "" {
			if s := TokenSetRatio(q, Substitute(entry.Question, rules)); s > score {
				score = s
			}
		}
		if score < 0 {
			continue
		}

		if score > best.Score {
			best = Result{Entry: entry, Score: score, Matched: score >= m.keywordThreshold}
		}
	}

	if !best.Matched {
		return Result{Score: best.Score}
	}
	return best
}
