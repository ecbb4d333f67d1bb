package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Counts tallies how many times each item occurs.
func Counts[T comparable](slice []T) map[T]int {
	out := make(map[T]int, len(slice))
	for _, v := range slice {
		out[v]++
	}
	return out
}
