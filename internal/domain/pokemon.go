package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// TagList is a category or ability collection. Upstream sends either a single
// string or an array of strings for the same field; both resolve to a slice.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*t = TagList{}
		return nil
	}

	switch data[0] {
	case '"':
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		single = strings.TrimSpace(single)
		if single == "" {
			*t = TagList{}
			return nil
		}
		*t = TagList{single}
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		tags := make(TagList, 0, len(raw))
		for _, entry := range raw {
			var s string
			if err := json.Unmarshal(entry, &s); err != nil {
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				tags = append(tags, s)
			}
		}
		*t = tags
	default:
		// null, numbers and objects carry no usable tags
		*t = TagList{}
	}
	return nil
}

// Identifier accepts both string and numeric JSON ids.
type Identifier string

func (id *Identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = Identifier(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*id = ""
		return nil
	}
	if i, err := n.Int64(); err == nil {
		*id = Identifier(strconv.FormatInt(i, 10))
		return nil
	}
	*id = Identifier(n.String())
	return nil
}

// Pokemon is a single catalog entry, normalized at the client boundary.
type Pokemon struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	Types     []string `json:"types"`
	Abilities []string `json:"abilities"`
}

// News is a home page news entry.
type News struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AllTypesLabel is the type-select option that clears the filter.
const AllTypesLabel = "All Types"

// PokemonTypes lists the category tags offered by the listing type select.
var PokemonTypes = []string{
	"Normal", "Fire", "Water", "Electric", "Grass", "Ice",
	"Fighting", "Poison", "Ground", "Flying", "Psychic", "Bug",
	"Rock", "Ghost", "Dragon", "Dark", "Steel", "Fairy",
}

// IsAllTypes reports whether a type selection means "no filter".
func IsAllTypes(selection string) bool {
	s := strings.ToLower(strings.TrimSpace(selection))
	return s == "" || s == "all" || s == strings.ToLower(AllTypesLabel)
}
