package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// SearchService queries the search indexes. Only published content and
// map-visible practices are ever indexed, so results need no further
// visibility filtering.
type SearchService struct {
	ES      *elasticsearch.Client
	Indexes []string
}

type SearchHit struct {
	ID     string         `json:"id"`
	Source map[string]any `json:"source"`
}

func (s *SearchService) Search(ctx context.Context, q string, size int) ([]SearchHit, error) {
	if s.ES == nil || len(s.Indexes) == 0 {
		return []SearchHit{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query": q,
				"fields": []string{
					"title^3", "name^3", "summary^2", "excerpt^2",
					"description^2", "body", "quote", "category",
					"specialty", "city", "country", "treatment_type",
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.Indexes...),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]SearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, SearchHit{ID: h.ID, Source: h.Source})
	}
	return out, nil
}
