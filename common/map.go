package common

func SliceToMap[T any, K comparable, V any](slice []T, mapper func(i int, t T) (K, V)) map[K]V {
	m := make(map[K]V, len(slice))
	for i, t := range slice {
		k, v := mapper(i, t)
		m[k] = v
	}
	return m
}

// Unique returns the slice without repeated elements, keeping the first occurrence.
func Unique[T comparable](slice []T) []T {
	seen := make(map[T]struct{}, len(slice))
	res := make([]T, 0, len(slice))
	for _, v := range slice {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	return res
}
