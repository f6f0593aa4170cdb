package embedding

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// seedSpace bounds the PRNG seed; texts whose hashes agree modulo seedSpace
// share a vector.
const seedSpace = 10000

// ModelSeeded labels vectors produced by Generator in metrics and logs.
const ModelSeeded = "seeded"

// Generator produces deterministic pseudo-random vectors from text.
// The vectors carry no semantic meaning: equal texts map to equal vectors,
// in every process, and nothing else is guaranteed.
type Generator struct {
	dimensions int
}

// Compile-time check: Generator implements domain.Embedder.
var _ domain.Embedder = (*Generator)(nil)

// NewGenerator creates a generator of dim-length vectors; dim <= 0 selects
// domain.DefaultDimensions.
func NewGenerator(dim int) *Generator {
	if dim <= 0 {
		dim = domain.DefaultDimensions
	}
	return &Generator{dimensions: dim}
}

// Embed returns the vector for text: a stable 64-bit hash of the text, reduced
// modulo seedSpace, seeds a PCG source that yields the values in [0,1).
func (g *Generator) Embed(text string) []float32 {
	return vectorFromSeed(seedOf(text), g.dimensions)
}

// Dimensions returns the vector length.
func (g *Generator) Dimensions() int {
	return g.dimensions
}

func seedOf(text string) uint64 {
	return xxhash.Sum64String(text) % seedSpace
}

func vectorFromSeed(seed uint64, dim int) []float32 {
	rng := rand.New(rand.NewPCG(seed, 0)) //nolint:gosec // deterministic by contract

	v := make([]float32, dim)
	for i := range v {
		v[i] = rng.Float32()
	}
	return v
}
