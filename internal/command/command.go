package command

import (
	"context"

	"go.uber.org/zap"
)

// ListingTarget is the live listing a command acts on.
type ListingTarget interface {
	Search(query string)
	FilterType(pokemonType string)
	Reload()
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, target ListingTarget, params map[string]any) error
}

type Dependencies struct {
	Logger *zap.Logger
}

func stringParam(params map[string]any, key string) string {
	if params == nil {
		return ""
	}
	if s, ok := params[key].(string); ok {
		return s
	}
	return ""
}
