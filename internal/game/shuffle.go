package game

import "math/rand"

// Shuffle returns a Fisher-Yates permutation of a copy of list. The same seed
// always yields the same order.
func Shuffle[T any](list []T, seed int64) []T {
	out := append([]T(nil), list...)
	rnd := rand.New(rand.NewSource(seed))
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
