package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kapu/pokemon-catalog-go/internal/domain"
)

// pokemonRaw is the upstream shape. List endpoints send "id" and "types",
// the detail endpoint sends "_id" and "type".
type pokemonRaw struct {
	ID        domain.Identifier `json:"id"`
	MongoID   domain.Identifier `json:"_id"`
	Name      string            `json:"name"`
	Image     string            `json:"image"`
	Type      domain.TagList    `json:"type"`
	Types     domain.TagList    `json:"types"`
	Abilities domain.TagList    `json:"abilities"`
}

func (r *pokemonRaw) normalize() *domain.Pokemon {
	id := string(r.ID)
	if id == "" {
		id = string(r.MongoID)
	}

	types := []string(r.Types)
	if len(types) == 0 {
		types = []string(r.Type)
	}
	if types == nil {
		types = []string{}
	}

	abilities := []string(r.Abilities)
	if abilities == nil {
		abilities = []string{}
	}

	return &domain.Pokemon{
		ID:        id,
		Name:      r.Name,
		Image:     r.Image,
		Types:     types,
		Abilities: abilities,
	}
}

type newsRaw struct {
	ID      domain.Identifier `json:"id"`
	MongoID domain.Identifier `json:"_id"`
	Title   string            `json:"title"`
	Content string            `json:"content"`
}

// decodeArray returns the elements of a JSON array. A valid document that is
// not an array yields no elements; invalid JSON is an error.
func decodeArray(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	if body[0] != '[' {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func isNullOrEmpty(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// decodePokemonList skips entries that are not objects or whose fields have
// the wrong JSON type; only an invalid document fails.
func decodePokemonList(body []byte) ([]*pokemonRaw, error) {
	items, err := decodeArray(body)
	if err != nil {
		return nil, err
	}
	result := make([]*pokemonRaw, 0, len(items))
	for _, item := range items {
		if isNullOrEmpty(item) || bytes.TrimSpace(item)[0] != '{' {
			continue
		}
		var raw pokemonRaw
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		result = append(result, &raw)
	}
	return result, nil
}

// decodePokemon returns nil without error for an empty or null body.
func decodePokemon(body []byte) (*pokemonRaw, error) {
	if isNullOrEmpty(body) {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	if bytes.TrimSpace(body)[0] != '{' {
		return nil, nil
	}
	var raw pokemonRaw
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

func decodeNewsList(body []byte) ([]*domain.News, error) {
	items, err := decodeArray(body)
	if err != nil {
		return nil, err
	}
	result := make([]*domain.News, 0, len(items))
	for _, item := range items {
		if isNullOrEmpty(item) || bytes.TrimSpace(item)[0] != '{' {
			continue
		}
		var raw newsRaw
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		id := string(raw.ID)
		if id == "" {
			id = string(raw.MongoID)
		}
		result = append(result, &domain.News{
			ID:      id,
			Title:   raw.Title,
			Content: raw.Content,
		})
	}
	return result, nil
}
