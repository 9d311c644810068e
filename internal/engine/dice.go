package engine

import "math/rand"

// Die size used by every contested check. A natural 20 is always a critical.
const d20 = 20

// NaturalMax is the roll value that always crits.
const NaturalMax = d20

// RollD20 draws a die roll in [1,20] from the provided source. The engine
// itself never rolls: callers roll and pass the value in so every outcome is
// replayable from the persisted log.
func RollD20(rng *rand.Rand) int {
	return rng.Intn(d20) + 1
}
