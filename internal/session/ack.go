package session

import "math/rand/v2"

// Pick returns one entry of pool chosen by r. It returns "" for an empty pool.
func Pick(pool []string, r *rand.Rand) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[r.IntN(len(pool))]
}
