package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"assessrec/internal/domain"
	"assessrec/internal/port"
)

// EvalProgress reports per-query progress during an evaluation run.
type EvalProgress func(processed, total int)

// QueryRecall is the evaluation outcome for a single labeled query.
type QueryRecall struct {
	Query  string
	Recall float64
}

// EvalResult aggregates an offline evaluation run.
type EvalResult struct {
	Queries    []QueryRecall
	MeanRecall float64
	Skipped    int // rows without relevant URLs
}

// EvalUseCase replays labeled queries through the full pipeline and
// scores the predictions with Recall@K.
type EvalUseCase struct {
	retriever   port.Retriever
	recommender *Recommender
	topK        int
	finalCount  int
}

func NewEvalUseCase(retriever port.Retriever, recommender *Recommender, topK, finalCount int) *EvalUseCase {
	return &EvalUseCase{
		retriever:   retriever,
		recommender: recommender,
		topK:        topK,
		finalCount:  finalCount,
	}
}

// LoadLabeledQueries reads an evaluation CSV with columns
// query,relevant_urls where relevant_urls is semicolon-separated.
func LoadLabeledQueries(path string) ([]domain.LabeledQuery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseLabeledQueries(f)
}

// ParseLabeledQueries parses labeled query rows from CSV data.
func ParseLabeledQueries(r io.Reader) ([]domain.LabeledQuery, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	queryIdx, urlsIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "query":
			queryIdx = i
		case "relevant_urls":
			urlsIdx = i
		}
	}
	if queryIdx < 0 {
		return nil, fmt.Errorf("missing required column %q", "query")
	}

	var queries []domain.LabeledQuery
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if queryIdx >= len(row) || strings.TrimSpace(row[queryIdx]) == "" {
			continue
		}

		lq := domain.LabeledQuery{Query: strings.TrimSpace(row[queryIdx])}
		if urlsIdx >= 0 && urlsIdx < len(row) {
			lq.RelevantURLs = splitURLs(row[urlsIdx])
		}
		queries = append(queries, lq)
	}

	return queries, nil
}

func splitURLs(s string) []string {
	var urls []string
	for _, part := range strings.Split(s, ";") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}

// RecallAtK returns the fraction of relevant URLs found in the top k
// predictions. An empty relevant set scores zero.
func RecallAtK(predicted, relevant []string, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}

	if len(predicted) > k {
		predicted = predicted[:k]
	}
	top := make(map[string]bool, len(predicted))
	for _, url := range predicted {
		top[url] = true
	}

	found := 0
	for _, url := range relevant {
		if top[url] {
			found++
		}
	}
	return float64(found) / float64(len(relevant))
}

// Evaluate runs every labeled query through retrieval, reranking and
// balancing, and averages Recall@finalCount over the queries that carry
// relevance labels.
func (u *EvalUseCase) Evaluate(ctx context.Context, queries []domain.LabeledQuery, progress EvalProgress) (EvalResult, error) {
	var result EvalResult

	for i, lq := range queries {
		if len(lq.RelevantURLs) == 0 {
			result.Skipped++
			if progress != nil {
				progress(i+1, len(queries))
			}
			continue
		}

		predicted, err := u.predict(ctx, lq.Query)
		if err != nil {
			return result, fmt.Errorf("evaluate %q: %w", lq.Query, err)
		}

		recall := RecallAtK(predicted, lq.RelevantURLs, u.finalCount)
		result.Queries = append(result.Queries, QueryRecall{Query: lq.Query, Recall: recall})

		if progress != nil {
			progress(i+1, len(queries))
		}
	}

	if len(result.Queries) > 0 {
		var sum float64
		for _, q := range result.Queries {
			sum += q.Recall
		}
		result.MeanRecall = sum / float64(len(result.Queries))
	}

	return result, nil
}

// Predict runs the pipeline for every query and writes one
// Query,Assessment_url row per recommendation to w.
func (u *EvalUseCase) Predict(ctx context.Context, queries []domain.LabeledQuery, w io.Writer, progress EvalProgress) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Query", "Assessment_url"}); err != nil {
		return err
	}

	for i, lq := range queries {
		predicted, err := u.predict(ctx, lq.Query)
		if err != nil {
			return fmt.Errorf("predict %q: %w", lq.Query, err)
		}

		for _, url := range predicted {
			if err := writer.Write([]string{lq.Query, url}); err != nil {
				return err
			}
		}
		if progress != nil {
			progress(i+1, len(queries))
		}
	}

	writer.Flush()
	return writer.Error()
}

func (u *EvalUseCase) predict(ctx context.Context, query string) ([]string, error) {
	candidates, err := u.retriever.Retrieve(query, u.topK)
	if err != nil {
		return nil, err
	}

	recommended := u.recommender.Recommend(ctx, query, candidates, u.finalCount)

	urls := make([]string, len(recommended))
	for i, rec := range recommended {
		urls[i] = rec.URL
	}
	return urls, nil
}
