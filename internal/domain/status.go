package domain

// Status is the fetch state of a page.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

func (s Status) String() string {
	return string(s)
}

// IsSettled reports whether a fetch has finished, successfully or not.
func (s Status) IsSettled() bool {
	return s == StatusSuccess || s == StatusError
}
