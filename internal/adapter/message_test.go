package adapter

import (
	"strings"
	"testing"

	"github.com/kapu/pokemon-catalog-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseMessage(t *testing.T) {
	ma := NewMessageAdapter()

	cases := []struct {
		name   string
		raw    string
		want   domain.ActionType
		params map[string]any
	}{
		{"search", `{"action":"search","query":"  char\tmander "}`, domain.ActionSearch, map[string]any{"query": "char mander"}},
		{"search alias with value", `{"action":"Q","value":"pika"}`, domain.ActionSearch, map[string]any{"query": "pika"}},
		{"filter", `{"action":"filter","type":"Fire"}`, domain.ActionFilter, map[string]any{"type": "Fire"}},
		{"filter alias", `{"action":"type","value":"All Types"}`, domain.ActionFilter, map[string]any{"type": "All Types"}},
		{"reload", `{"action":"retry"}`, domain.ActionReload, map[string]any{}},
		{"unknown action", `{"action":"evolve"}`, domain.ActionUnknown, map[string]any{}},
		{"not json", `search char`, domain.ActionUnknown, map[string]any{}},
		{"empty", ``, domain.ActionUnknown, map[string]any{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := ma.ParseMessage([]byte(tc.raw))
			assert.Equal(t, tc.want, cmd.Type)
			assert.Equal(t, tc.params, cmd.Params)
		})
	}
}

func TestParseMessageCapsQuery(t *testing.T) {
	cmd := NewMessageAdapter().ParseMessage([]byte(`{"action":"search","query":"` + strings.Repeat("x", 300) + `"}`))
	assert.Len(t, cmd.Params["query"], MaxQueryLength)
}
