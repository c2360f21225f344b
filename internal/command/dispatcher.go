package command

import (
	"context"

	"github.com/kapu/pokemon-catalog-go/internal/domain"
)

// CommandEvent is one decoded live action.
type CommandEvent struct {
	Type   domain.ActionType
	Params map[string]any
}

type Dispatcher interface {
	Publish(ctx context.Context, target ListingTarget, events ...CommandEvent) (int, error)
}

// NormalizeFunc converts an action type plus params into the registry key
// and normalized parameter map used for execution.
type NormalizeFunc func(domain.ActionType, map[string]any) (string, map[string]any)

// DefaultNormalize uses the action name as the registry key.
func DefaultNormalize(action domain.ActionType, params map[string]any) (string, map[string]any) {
	return action.String(), params
}

type sequentialDispatcher struct {
	registry  *Registry
	normalize NormalizeFunc
}

// NewSequentialDispatcher creates a dispatcher that executes command events in
// the order they are received.
func NewSequentialDispatcher(registry *Registry, normalize NormalizeFunc) Dispatcher {
	if normalize == nil {
		normalize = DefaultNormalize
	}
	return &sequentialDispatcher{registry: registry, normalize: normalize}
}

func (d *sequentialDispatcher) Publish(ctx context.Context, target ListingTarget, events ...CommandEvent) (int, error) {
	if d == nil || d.registry == nil || target == nil {
		return 0, nil
	}

	executed := 0
	for _, event := range events {
		if event.Type == domain.ActionUnknown {
			continue
		}

		normalizedParams := cloneParams(event.Params)
		key, params := d.normalize(event.Type, normalizedParams)
		if err := d.registry.Execute(ctx, target, key, params); err != nil {
			return executed, err
		}
		executed++
	}
	return executed, nil
}

func cloneParams(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	clone := make(map[string]any, len(src))
	for k, v := range src {
		clone[k] = v
	}
	return clone
}
