package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrUnknownCommand is returned when a command dispatch is attempted for an
// unregistered key.
var ErrUnknownCommand = errors.New("unknown command")

// Registry stores command handlers keyed by their canonical names.
type Registry struct {
	mu        sync.RWMutex
	handlers  map[string]Command
	aliasKeys map[string]string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers:  make(map[string]Command),
		aliasKeys: make(map[string]string),
	}
}

// NewListingRegistry registers the live listing actions.
func NewListingRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	deps := &Dependencies{Logger: logger}

	r := NewRegistry()
	r.Register(NewSearchCommand(deps), "q")
	r.Register(NewFilterCommand(deps), "type")
	r.Register(NewReloadCommand(deps), "retry")
	return r
}

// Register adds a command handler and its aliases. Names are stored in
// lowercase form to provide case-insensitive lookups.
func (r *Registry) Register(handler Command, aliases ...string) {
	if handler == nil {
		return
	}

	name := strings.ToLower(handler.Name())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
	for _, alias := range aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if alias == "" || alias == name {
			continue
		}
		r.aliasKeys[alias] = name
	}
}

// Execute runs the handler registered for the provided key or alias.
func (r *Registry) Execute(ctx context.Context, target ListingTarget, key string, params map[string]any) error {
	if r == nil {
		return fmt.Errorf("command registry is nil")
	}

	handler := r.getHandler(key)
	if handler == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, key)
	}

	return handler.Execute(ctx, target, params)
}

// Count returns the number of registered command handlers.
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

func (r *Registry) getHandler(key string) Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil
	}
	if handler, ok := r.handlers[key]; ok {
		return handler
	}
	if name, ok := r.aliasKeys[key]; ok {
		return r.handlers[name]
	}
	return nil
}
