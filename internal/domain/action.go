package domain

// ActionType is a live listing action sent by the browser.
type ActionType string

const (
	ActionSearch  ActionType = "search"
	ActionFilter  ActionType = "filter"
	ActionReload  ActionType = "reload"
	ActionUnknown ActionType = "unknown"
)

func (a ActionType) String() string {
	return string(a)
}

func (a ActionType) IsValid() bool {
	switch a {
	case ActionSearch, ActionFilter, ActionReload:
		return true
	default:
		return false
	}
}
