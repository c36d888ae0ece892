package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"assessrec/internal/domain"
	"assessrec/internal/port"
)

// indexArrayPattern matches the first bracketed integer array in the
// ranking service's free-text reply, e.g. "[3, 1, 7]".
var indexArrayPattern = regexp.MustCompile(`\[[\d,\s]+\]`)

// Recommender orders and balances retrieval candidates. When a ranking
// service is configured it may reorder candidates first; any ranking
// failure degrades to the original retrieval order. The balancer runs
// unconditionally afterwards, so ranking only ever affects the relative
// order within each category.
type Recommender struct {
	ranker      port.Ranker // nil when reranking is disabled
	balancer    *Balancer
	rankTimeout time.Duration
	log         *zap.Logger
}

// NewRecommender creates a recommender. ranker may be nil.
func NewRecommender(ranker port.Ranker, balancer *Balancer, rankTimeout time.Duration, log *zap.Logger) *Recommender {
	if log == nil {
		log = zap.NewNop()
	}
	if rankTimeout <= 0 {
		rankTimeout = 30 * time.Second
	}
	return &Recommender{
		ranker:      ranker,
		balancer:    balancer,
		rankTimeout: rankTimeout,
		log:         log,
	}
}

// Recommend classifies the query, optionally reranks the candidates via
// the external ranking service, and always balances the result. Ranking
// failures are absorbed here and never surface to the caller.
func (r *Recommender) Recommend(ctx context.Context, query string, candidates []domain.Candidate, finalCount int) []domain.Candidate {
	label := ClassifyDomain(query)

	ordered := candidates
	if r.ranker != nil && len(candidates) > 0 {
		reranked, err := r.rank(ctx, query, candidates, finalCount)
		if err != nil {
			// Rule-based fallback: keep retrieval order.
			r.log.Warn("reranking failed, using rule-based ordering",
				zap.String("model", r.ranker.ModelName()),
				zap.Error(err))
		} else {
			ordered = reranked
		}
	}

	return r.balancer.Balance(ordered, label, finalCount)
}

// rank asks the ranking service for an ordering of candidate indices and
// maps it back onto the candidates. The returned error makes the fallback
// an explicit branch in Recommend rather than a swallowed exception.
func (r *Recommender) rank(ctx context.Context, query string, candidates []domain.Candidate, finalCount int) ([]domain.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, r.rankTimeout)
	defer cancel()

	prompt := buildRankingPrompt(query, candidates, finalCount)

	reply, err := r.ranker.Rank(ctx, prompt)
	if err != nil {
		return nil, err
	}

	indices, err := parseIndexArray(reply)
	if err != nil {
		return nil, err
	}

	reranked := make([]domain.Candidate, 0, len(indices))
	used := make(map[int]bool, len(indices))
	for _, idx := range indices {
		// 1-based; out-of-range and repeated indices are dropped.
		if idx < 1 || idx > len(candidates) || used[idx] {
			continue
		}
		used[idx] = true
		reranked = append(reranked, candidates[idx-1])
	}
	if len(reranked) == 0 {
		return nil, fmt.Errorf("ranking reply contained no usable indices")
	}

	return reranked, nil
}

func buildRankingPrompt(query string, candidates []domain.Candidate, finalCount int) string {
	var list strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&list, "%d. %s (%s)\n", i+1, c.Name, c.TestType)
		fmt.Fprintf(&list, "   Category: %s\n", c.Category)
		fmt.Fprintf(&list, "   Description: %s\n\n", c.Description)
	}

	return fmt.Sprintf(`You are an expert HR assessment advisor. Given a hiring query and a list of candidate assessments,
rank the assessments by relevance to the query.

Query: %s

Candidate Assessments:
%s
Instructions:
1. Analyze the query to understand required skills and competencies
2. Rank assessments by relevance (most relevant first)
3. Consider both technical (K-type) and behavioral (P-type) assessments
4. Return the top %d most relevant assessment numbers

Return ONLY a JSON array of assessment numbers in order of relevance.
Example format: [3, 1, 7, 2, 5, 9, 4, 6, 8, 10]
`, query, list.String(), finalCount)
}

// parseIndexArray extracts the first bracketed integer array from the
// reply. Everything else in the reply is ignored.
func parseIndexArray(reply string) ([]int, error) {
	match := indexArrayPattern.FindString(reply)
	if match == "" {
		return nil, fmt.Errorf("no index array found in ranking reply")
	}

	var indices []int
	if err := json.Unmarshal([]byte(match), &indices); err != nil {
		return nil, fmt.Errorf("malformed index array %q: %w", match, err)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("empty index array in ranking reply")
	}
	return indices, nil
}
