package command

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type SearchCommand struct {
	deps *Dependencies
}

func NewSearchCommand(deps *Dependencies) *SearchCommand {
	return &SearchCommand{deps: deps}
}

func (c *SearchCommand) Name() string {
	return "search"
}

func (c *SearchCommand) Description() string {
	return "Debounced search by name"
}

func (c *SearchCommand) Execute(ctx context.Context, target ListingTarget, params map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	query := stringParam(params, "query")
	c.deps.Logger.Debug("Search edit", zap.String("query", query))
	target.Search(query)
	return nil
}

type FilterCommand struct {
	deps *Dependencies
}

func NewFilterCommand(deps *Dependencies) *FilterCommand {
	return &FilterCommand{deps: deps}
}

func (c *FilterCommand) Name() string {
	return "filter"
}

func (c *FilterCommand) Description() string {
	return "Filter by type, \"All Types\" clears the filter"
}

func (c *FilterCommand) Execute(ctx context.Context, target ListingTarget, params map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	selected, ok := params["type"].(string)
	if !ok {
		return fmt.Errorf("filter: missing type param")
	}
	c.deps.Logger.Debug("Type selected", zap.String("type", selected))
	target.FilterType(selected)
	return nil
}

type ReloadCommand struct {
	deps *Dependencies
}

func NewReloadCommand(deps *Dependencies) *ReloadCommand {
	return &ReloadCommand{deps: deps}
}

func (c *ReloadCommand) Name() string {
	return "reload"
}

func (c *ReloadCommand) Description() string {
	return "Re-run the current search or filter"
}

func (c *ReloadCommand) Execute(ctx context.Context, target ListingTarget, _ map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target.Reload()
	return nil
}
