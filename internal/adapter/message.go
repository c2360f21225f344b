package adapter

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kapu/pokemon-catalog-go/internal/domain"
)

var (
	controlCharsPattern = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// MaxQueryLength caps a search box value received over the live channel.
const MaxQueryLength = 100

// MessageAdapter converts live channel frames to listing actions.
type MessageAdapter struct{}

func NewMessageAdapter() *MessageAdapter {
	return &MessageAdapter{}
}

// ParsedCommand is a decoded live action.
type ParsedCommand struct {
	Type       domain.ActionType
	Params     map[string]any
	RawMessage string
}

type actionFrame struct {
	Action string `json:"action"`
	Query  string `json:"query"`
	Type   string `json:"type"`
	Value  string `json:"value"`
}

// ParseMessage decodes a frame such as {"action":"search","query":"char"}.
// "value" is accepted in place of the action specific field.
func (ma *MessageAdapter) ParseMessage(raw []byte) *ParsedCommand {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return ma.createUnknownCommand("")
	}

	var frame actionFrame
	if err := json.Unmarshal([]byte(text), &frame); err != nil {
		return ma.createUnknownCommand(text)
	}

	action := strings.ToLower(strings.TrimSpace(frame.Action))
	switch {
	case ma.isSearchAction(action):
		query := frame.Query
		if query == "" {
			query = frame.Value
		}
		return &ParsedCommand{
			Type:       domain.ActionSearch,
			Params:     map[string]any{"query": ma.sanitizeQuery(query)},
			RawMessage: text,
		}
	case ma.isFilterAction(action):
		selected := frame.Type
		if selected == "" {
			selected = frame.Value
		}
		return &ParsedCommand{
			Type:       domain.ActionFilter,
			Params:     map[string]any{"type": strings.TrimSpace(selected)},
			RawMessage: text,
		}
	case ma.isReloadAction(action):
		return &ParsedCommand{
			Type:       domain.ActionReload,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	}

	return ma.createUnknownCommand(text)
}

func (ma *MessageAdapter) isSearchAction(action string) bool {
	return action == "search" || action == "q"
}

func (ma *MessageAdapter) isFilterAction(action string) bool {
	return action == "filter" || action == "type"
}

func (ma *MessageAdapter) isReloadAction(action string) bool {
	return action == "reload" || action == "retry"
}

func (ma *MessageAdapter) createUnknownCommand(text string) *ParsedCommand {
	return &ParsedCommand{
		Type:       domain.ActionUnknown,
		Params:     make(map[string]any),
		RawMessage: text,
	}
}

func (ma *MessageAdapter) sanitizeQuery(input string) string {
	withoutControl := controlCharsPattern.ReplaceAllString(input, " ")
	normalized := strings.TrimSpace(whitespacePattern.ReplaceAllString(withoutControl, " "))

	runes := []rune(normalized)
	if len(runes) > MaxQueryLength {
		return strings.TrimSpace(string(runes[:MaxQueryLength]))
	}
	return normalized
}
