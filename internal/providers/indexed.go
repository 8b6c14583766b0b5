// internal/providers/indexed.go
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"carematch/internal/common/errors"
	"carematch/internal/common/logger"
	"carematch/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// candidatePageSize is the number of hits fetched per search_after page.
const candidatePageSize = 1000

// IndexedStore mirrors providers into an Elasticsearch index and answers
// candidate queries from it. The wrapped store stays the source of truth.
type IndexedStore struct {
	Store
	es       *elasticsearch.Client
	index    string
	pageSize int
	logger   logger.Logger
}

func NewIndexedStore(inner Store, es *elasticsearch.Client, index string, log logger.Logger) *IndexedStore {
	return &IndexedStore{
		Store:    inner,
		es:       es,
		index:    index,
		pageSize: candidatePageSize,
		logger:   log.WithFields(map[string]interface{}{"component": "provider-index", "index": index}),
	}
}

func (s *IndexedStore) GetCandidateProviders(ctx context.Context, q CandidateQuery) ([]models.ProviderProfile, error) {
	found, err := s.search(ctx, q)
	if err != nil {
		s.logger.Warn("candidate search failed, using primary store", map[string]interface{}{"error": err})
		return s.Store.GetCandidateProviders(ctx, q)
	}
	return found, nil
}

func (s *IndexedStore) CreateProvider(ctx context.Context, p models.ProviderProfile) (models.ProviderProfile, error) {
	created, err := s.Store.CreateProvider(ctx, p)
	if err != nil {
		return models.ProviderProfile{}, err
	}
	if err := s.IndexProvider(ctx, created); err != nil {
		s.logger.Warn("failed to index provider", map[string]interface{}{"providerId": created.ID, "error": err})
	}
	return created, nil
}

// IndexProvider writes one provider document keyed by its id.
func (s *IndexedStore) IndexProvider(ctx context.Context, p models.ProviderProfile) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}

	res, err := s.es.Index(s.index, bytes.NewReader(body),
		s.es.Index.WithContext(ctx),
		s.es.Index.WithDocumentID(p.ID),
		s.es.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return errors.NewSearchQueryFailedError(s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewSearchQueryFailedError(s.index, fmt.Errorf("index response: %s", res.Status()))
	}
	return nil
}

// Reindex copies every provider of the primary store into the index.
func (s *IndexedStore) Reindex(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	indexed := 0
	for skip := 0; ; skip += batchSize {
		page, err := s.Store.ListProviders(ctx, skip, batchSize)
		if err != nil {
			return indexed, err
		}
		for _, p := range page {
			if err := s.IndexProvider(ctx, p); err != nil {
				return indexed, err
			}
			indexed++
		}
		if len(page) < batchSize {
			return indexed, nil
		}
	}
}

type searchHit struct {
	Source models.ProviderProfile `json:"_source"`
	Sort   []json.RawMessage      `json:"sort"`
}

// search pages through every matching document with search_after. A result
// shorter than hits.total is an error so the caller falls back to the
// primary store instead of ranking a partial pool.
func (s *IndexedStore) search(ctx context.Context, q CandidateQuery) ([]models.ProviderProfile, error) {
	out := make([]models.ProviderProfile, 0)
	total := -1

	var after []json.RawMessage
	for {
		hits, pageTotal, err := s.searchPage(ctx, q, after)
		if err != nil {
			return nil, err
		}
		if total < 0 {
			total = pageTotal
		}
		for _, hit := range hits {
			out = append(out, hit.Source)
		}
		if len(hits) < s.pageSize {
			break
		}

		after = hits[len(hits)-1].Sort
		if len(after) == 0 {
			return nil, errors.NewSearchQueryFailedError(s.index, fmt.Errorf("search hit carries no sort values"))
		}
	}

	if len(out) < total {
		return nil, errors.NewSearchQueryFailedError(s.index,
			fmt.Errorf("search returned %d of %d candidates", len(out), total))
	}
	return out, nil
}

func (s *IndexedStore) searchPage(ctx context.Context, q CandidateQuery, after []json.RawMessage) ([]searchHit, int, error) {
	body := buildCandidateQuery(q)
	body["size"] = s.pageSize
	body["track_total_hits"] = true
	if len(after) > 0 {
		body["search_after"] = after
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, 0, err
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, 0, errors.NewSearchQueryFailedError(s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, errors.NewSearchQueryFailedError(s.index, fmt.Errorf("search response: %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []searchHit `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, errors.NewSearchQueryFailedError(s.index, err)
	}
	return parsed.Hits.Hits, parsed.Hits.Total.Value, nil
}

func buildCandidateQuery(q CandidateQuery) map[string]interface{} {
	filters := []map[string]interface{}{}
	if q.ServiceType != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"service_types": string(q.ServiceType)},
		})
	}
	if q.MaxBudget != nil {
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{"price": map[string]interface{}{"lte": *q.MaxBudget}},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		},
		"sort": []interface{}{
			map[string]interface{}{"created_at": "asc"},
			map[string]interface{}{"id": "asc"},
		},
	}
}
