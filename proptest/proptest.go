// Package proptest runs property-based tests with seeded random generation.
// A failing trial logs its seed, and setting PROPTEST_SEED replays the exact
// input sequence that failed.
package proptest

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// Generator produces random test inputs from a single seed, so a whole
// trial sequence can be replayed from one number.
type Generator struct {
	rng  *rand.Rand
	seed int64
}

// New creates a Generator. A zero seed picks one from the clock.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the seed this generator was built with.
func (g *Generator) Seed() int64 { return g.seed }

// Intn returns a random int in [0, n). Panics if n <= 0.
func (g *Generator) Intn(n int) int { return g.rng.Intn(n) }

// IntRange returns a random int in [min, max] inclusive.
func (g *Generator) IntRange(min, max int) int {
	if min > max {
		panic("proptest: IntRange min > max")
	}
	return min + g.rng.Intn(max-min+1)
}

// Bool returns a fair coin flip.
func (g *Generator) Bool() bool { return g.rng.Intn(2) == 1 }

// Float64 returns a random float64 in [0.0, 1.0).
func (g *Generator) Float64() float64 { return g.rng.Float64() }

const (
	lowerChars = "abcdefghijklmnopqrstuvwxyz"
	identChars = lowerChars + "0123456789_"
)

// IdentifierLower returns a random lowercase identifier of length [1, maxLen]
// starting with a letter, suitable as an unquoted SQL name.
func (g *Generator) IdentifierLower(maxLen int) string {
	if maxLen < 1 {
		panic("proptest: IdentifierLower maxLen < 1")
	}
	n := g.IntRange(1, maxLen)
	buf := make([]byte, n)
	buf[0] = lowerChars[g.Intn(len(lowerChars))]
	for i := 1; i < n; i++ {
		buf[i] = identChars[g.Intn(len(identChars))]
	}
	return string(buf)
}

// UniqueIdentifiers returns up to n distinct lowercase identifiers. Short
// maxLen values can exhaust the namespace, so fewer than n may come back.
func (g *Generator) UniqueIdentifiers(n, maxLen int) []string {
	seen := make(map[string]bool, n)
	result := make([]string, 0, n)
	for attempts := 0; attempts < n*10 && len(result) < n; attempts++ {
		id := g.IdentifierLower(maxLen)
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	return result
}

// OneOf returns a random element of values. Panics if values is empty.
func OneOf[T any](g *Generator, values ...T) T {
	if len(values) == 0 {
		panic("proptest: OneOf called with no values")
	}
	return values[g.Intn(len(values))]
}

// Shuffle returns a shuffled copy of the slice.
func Shuffle[T any](g *Generator, slice []T) []T {
	result := make([]T, len(slice))
	copy(result, slice)
	g.rng.Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})
	return result
}

// Assert passes a bare condition through, for readable property returns.
func Assert(condition bool) bool { return condition }

// Config controls a Check run.
type Config struct {
	NumTrials int   // iterations per property, default 100
	Seed      int64 // 0 picks a seed from the clock; PROPTEST_SEED beats both
}

// DefaultConfig returns the standard 100-trial configuration.
func DefaultConfig() Config {
	return Config{NumTrials: 100}
}

func effectiveSeed(cfg Config) int64 {
	if env := os.Getenv("PROPTEST_SEED"); env != "" {
		if seed, err := strconv.ParseInt(env, 10, 64); err == nil {
			return seed
		}
	}
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

// Check runs a property cfg.NumTrials times against one seeded generator.
// The first failing trial stops the run and logs the seed to replay it.
func Check(t *testing.T, name string, cfg Config, prop func(g *Generator) bool) {
	t.Helper()

	if cfg.NumTrials <= 0 {
		cfg.NumTrials = 100
	}
	seed := effectiveSeed(cfg)
	g := New(seed)

	for i := 0; i < cfg.NumTrials; i++ {
		if !prop(g) {
			t.Errorf("property %q failed on trial %d (replay with PROPTEST_SEED=%d)",
				name, i+1, seed)
			return
		}
	}
}
