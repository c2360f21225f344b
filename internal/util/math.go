package util

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Head returns at most n leading elements of items.
func Head[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	return items[:Min(len(items), n)]
}
