// Package rng provides the seeded randomness used by chunk generation.
//
// Every generator receives its own *rand.Rand built from a seed string, so two
// chunks generated with the same seed see the same sequence no matter what else
// has been generated in the process.
package rng

import (
	"math/rand"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// SeedLength is the number of characters in a derived seed.
const SeedLength = 21

// seedAlphabet is the character set derived seeds are drawn from.
const seedAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_-"

// Hash maps a seed string onto the 64-bit value fed to the RNG source.
func Hash(seed string) int64 {
	return int64(xxhash.Sum64String(seed))
}

// New returns a generator seeded from seed.
func New(seed string) *rand.Rand {
	return rand.New(rand.NewSource(Hash(seed)))
}

// FromInt formats an integer seed so it hashes identically wherever it is used.
func FromInt(seed int64) string {
	return strconv.FormatInt(seed, 10)
}

// DeriveSeeds returns the seeds of the four neighbours of the chunk seeded by
// seed, in Up, Right, Down, Left order. It is a pure function of seed and never
// returns seed itself or the same value twice.
func DeriveSeeds(seed string) [4]string {
	// The derivation stream is salted so it never overlaps with the
	// generation stream of the same seed.
	r := New(seed + "/near")

	var out [4]string
	seen := map[string]bool{seed: true}
	for i := range out {
		s := randomSeed(r)
		for seen[s] {
			s = randomSeed(r)
		}
		seen[s] = true
		out[i] = s
	}
	return out
}

func randomSeed(r *rand.Rand) string {
	b := make([]byte, SeedLength)
	for i := range b {
		b[i] = seedAlphabet[r.Intn(len(seedAlphabet))]
	}
	return string(b)
}
