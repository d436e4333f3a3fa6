package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/mirskikh/inkwell/internal/models"
)

// ErrUnavailable signals that no elasticsearch backend is configured; callers
// fall back to the database query path.
var ErrUnavailable = errors.New("search backend unavailable")

// PostIndex keeps published posts searchable. A nil client makes every method
// report ErrUnavailable (indexing becomes a no-op).
type PostIndex struct {
	ES    *elasticsearch.Client
	Index string
}

type postDoc struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	Category uint   `json:"category_id"`
}

func (x *PostIndex) enabled() bool { return x != nil && x.ES != nil }

func (x *PostIndex) IndexPost(ctx context.Context, p *models.Post) error {
	if !x.enabled() {
		return nil
	}

	doc := postDoc{ID: p.ID, Title: p.Title, Slug: p.Slug, Excerpt: p.Excerpt, Content: p.Content, Category: p.CategoryID}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}

	res, err := x.ES.Index(
		x.Index,
		&buf,
		x.ES.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
		x.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: index post: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index post: %s", res.Status())
	}
	return nil
}

func (x *PostIndex) DeletePost(ctx context.Context, id uint) error {
	if !x.enabled() {
		return nil
	}

	res, err := x.ES.Delete(
		x.Index,
		strconv.FormatUint(uint64(id), 10),
		x.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: delete post: %w", err)
	}
	defer res.Body.Close()
	// 404 is fine, the post was never indexed
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: delete post: %s", res.Status())
	}
	return nil
}

func (x *PostIndex) Search(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	if !x.enabled() {
		return 0, nil, ErrUnavailable
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "excerpt", "content"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: query: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source postDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	ids := make([]uint, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		ids[i] = hit.Source.ID
	}
	return r.Hits.Total.Value, ids, nil
}
