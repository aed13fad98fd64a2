package search

import (
	"encoding/json"
	"fmt"

	"github.com/22mk294/Tempo-Home/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "maisons",
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	// Configure searchable attributes
	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"title",
		"description",
		"location",
		"ownerName",
	})
	if err != nil {
		return err
	}

	// Configure filterable attributes
	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"price",
		"nbRooms",
		"surface",
		"location",
		"available",
	})
	if err != nil {
		return err
	}

	// Configure sortable attributes
	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"price",
		"surface",
		"nbRooms",
		"createdAt",
	})
	if err != nil {
		return err
	}

	return nil
}

// IndexMaison indexes a single listing
func (s *SearchClient) IndexMaison(maison models.MaisonWithOwner) error {
	_, err := s.client.Index(s.index).AddDocuments([]models.MaisonWithOwner{maison})
	return err
}

// DeleteMaison removes a listing from the index
func (s *SearchClient) DeleteMaison(id int64) error {
	_, err := s.client.Index(s.index).DeleteDocument(fmt.Sprintf("%d", id))
	return err
}

// Search searches available listings by free text
func (s *SearchClient) Search(query string, limit int64) ([]models.MaisonWithOwner, error) {
	if limit <= 0 {
		limit = 20
	}

	searchRes, err := s.client.Index(s.index).Search(query, &meilisearch.SearchRequest{
		Limit:  limit,
		Filter: "available = true",
	})
	if err != nil {
		return nil, err
	}

	maisons := make([]models.MaisonWithOwner, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		maison, err := parseMaisonFromHit(hit)
		if err != nil {
			continue
		}
		maisons = append(maisons, maison)
	}

	return maisons, nil
}

// ReindexAll replaces the index contents with the given listings and
// returns the number of documents indexed.
func (s *SearchClient) ReindexAll(maisons []models.AdminMaison) (int, error) {
	if _, err := s.client.Index(s.index).DeleteAllDocuments(); err != nil {
		return 0, err
	}

	if len(maisons) == 0 {
		return 0, nil
	}

	docs := make([]models.MaisonWithOwner, 0, len(maisons))
	for _, m := range maisons {
		docs = append(docs, models.MaisonWithOwner{Maison: m.Maison, OwnerName: m.OwnerName})
	}

	if _, err := s.client.Index(s.index).AddDocuments(docs); err != nil {
		return 0, err
	}

	return len(docs), nil
}

// parseMaisonFromHit converts a raw search hit back into a listing
func parseMaisonFromHit(hit interface{}) (models.MaisonWithOwner, error) {
	var maison models.MaisonWithOwner
	raw, err := json.Marshal(hit)
	if err != nil {
		return maison, err
	}
	if err := json.Unmarshal(raw, &maison); err != nil {
		return maison, err
	}
	return maison, nil
}
