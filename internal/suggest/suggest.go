// Package suggest provides "did you mean" question suggestions for
// unmatched queries, using BM25 keyword scoring over the catalog.
package suggest

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	bm25 "github.com/iwilltry42/bm25-go/bm25"

	"github.com/pergunte-russel/russel-bot-go/internal/logger"
	"github.com/pergunte-russel/russel-bot-go/internal/textnorm"
)

// Suggestion is a catalog question ranked against an unmatched query.
// Confidence is derived from BM25 rank position, not semantic similarity.
type Suggestion struct {
	EntryID    string
	Question   string
	Score      float64 // BM25 score (higher is better)
	Confidence float32 // Rank-based confidence (0-1)
}

// Index ranks catalog questions with BM25. It is rebuilt whenever the
// catalog changes; reads and rebuilds may run concurrently.
type Index struct {
	bm25Okapi *bm25.BM25Okapi
	entryIDs  []string // document index -> entry id
	questions []string // document index -> original question
	logger    *logger.Logger
	mu        sync.RWMutex
}

// NewIndex creates an empty suggestion index.
func NewIndex(log *logger.Logger) *Index {
	return &Index{logger: log}
}

// Document pairs an entry id with its question text.
type Document struct {
	EntryID  string
	Question string
}

// Rebuild replaces the index contents with the given documents.
// Documents whose question normalizes to the empty string are skipped.
func (idx *Index) Rebuild(docs []Document) error {
	if idx == nil {
		return nil
	}

	var corpus, questions []string
	var entryIDs []string
	for _, doc := range docs {
		normalized := textnorm.Normalize(doc.Question)
		if normalized == "" {
			continue
		}
		corpus = append(corpus, normalized)
		questions = append(questions, doc.Question)
		entryIDs = append(entryIDs, doc.EntryID)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(corpus) == 0 {
		idx.bm25Okapi = nil
		idx.entryIDs = nil
		idx.questions = nil
		return nil
	}

	// k1=1.5, b=0.75 are standard BM25 parameters
	bm25Okapi, err := bm25.NewBM25Okapi(corpus, tokenize, 1.5, 0.75, nil)
	if err != nil {
		return fmt.Errorf("failed to build suggestion index: %w", err)
	}

	idx.bm25Okapi = bm25Okapi
	idx.entryIDs = entryIDs
	idx.questions = questions

	idx.logger.WithField("docs", len(corpus)).Debug("Suggestion index rebuilt")
	return nil
}

// Suggest returns up to topN catalog questions ranked by BM25 score
// against the query. Questions that score zero are omitted; an empty or
// unindexed catalog yields no suggestions.
func (idx *Index) Suggest(query string, topN int) ([]Suggestion, error) {
	if idx == nil || strings.TrimSpace(query) == "" || topN <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.bm25Okapi == nil {
		return nil, nil
	}

	tokens := tokenize(textnorm.Normalize(query))
	if len(tokens) == 0 {
		return nil, nil
	}

	scores, err := idx.bm25Okapi.GetScores(tokens)
	if err != nil {
		return nil, fmt.Errorf("suggestion scoring failed: %w", err)
	}

	results := make([]Suggestion, 0, len(scores))
	for docID, score := range scores {
		if score <= 0 {
			continue
		}
		results = append(results, Suggestion{
			EntryID:  idx.entryIDs[docID],
			Question: idx.questions[docID],
			Score:    score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topN {
		results = results[:topN]
	}
	for i := range results {
		results[i].Confidence = rankConfidence(i + 1)
	}

	return results, nil
}

// Count returns the number of indexed questions.
func (idx *Index) Count() int {
	if idx == nil {
		return 0
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.questions)
}

// rankConfidence converts a rank position into a confidence score.
// BM25 scores are unbounded and query-dependent, so rank is the proxy.
//
// Formula: 1 / (1 + 0.05 * rank)
//   - rank 1 → 0.95
//   - rank 5 → 0.80
func rankConfidence(rank int) float32 {
	if rank <= 0 {
		return 0
	}
	return float32(1.0 / (1.0 + 0.05*float64(rank)))
}

// tokenize splits normalized text on spaces. Normalization has already
// lowercased, deaccented and stripped punctuation.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	return fields
}
