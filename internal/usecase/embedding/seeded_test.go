package embedding

import (
	"slices"
	"sync"
	"testing"

	"github.com/cespare/xxhash/v2"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

func TestGenerator_Deterministic(t *testing.T) {
	g := NewGenerator(128)

	a := g.Embed("The quick brown fox")
	b := NewGenerator(128).Embed("The quick brown fox")

	if !slices.Equal(a, b) {
		t.Fatal("same text must produce identical vectors across generators")
	}
}

func TestGenerator_LengthAndRange(t *testing.T) {
	for _, text := range []string{"", "a", "hello world", "Привет, мир", "🙂🙂🙂"} {
		v := NewGenerator(128).Embed(text)
		if len(v) != 128 {
			t.Fatalf("len(Embed(%q)) = %d, want 128", text, len(v))
		}
		for i, x := range v {
			if x < 0 || x >= 1 {
				t.Fatalf("Embed(%q)[%d] = %v, want in [0,1)", text, i, x)
			}
		}
	}
}

func TestGenerator_DefaultDimensions(t *testing.T) {
	g := NewGenerator(0)
	if g.Dimensions() != domain.DefaultDimensions {
		t.Errorf("Dimensions() = %d, want %d", g.Dimensions(), domain.DefaultDimensions)
	}
	if len(g.Embed("x")) != domain.DefaultDimensions {
		t.Error("vector length must follow the default dimensions")
	}
}

func TestGenerator_SeedDerivation(t *testing.T) {
	text := "ragdex"
	want := vectorFromSeed(xxhash.Sum64String(text)%10000, 16)
	if got := NewGenerator(16).Embed(text); !slices.Equal(got, want) {
		t.Errorf("Embed(%q) does not match the vector of its reduced hash seed", text)
	}
	if seedOf(text) >= seedSpace {
		t.Errorf("seed %d outside [0,%d)", seedOf(text), seedSpace)
	}
}

func TestGenerator_GoldenSeeds(t *testing.T) {
	tests := []struct {
		text string
		seed uint64
	}{
		{"", 6921},
		{"abc", 2249},
		{"hello world", 7592},
		{"the cat sat", 1053},
		{"a dog ran", 5603},
	}
	for _, tt := range tests {
		if got := seedOf(tt.text); got != tt.seed {
			t.Errorf("seedOf(%q) = %d, want %d", tt.text, got, tt.seed)
		}
	}
}

func TestGenerator_GoldenVector(t *testing.T) {
	// Float32 draws 24 bits, so every component is exact as n / 2^24.
	want := []float32{
		float32(7225241) / (1 << 24),
		float32(12173481) / (1 << 24),
		float32(3279450) / (1 << 24),
		float32(14111591) / (1 << 24),
	}
	if got := NewGenerator(4).Embed("hello world"); !slices.Equal(got, want) {
		t.Errorf("Embed(%q) = %v, want %v", "hello world", got, want)
	}
}

func TestGenerator_SeedCollisionSharesVector(t *testing.T) {
	// both texts reduce to seed 2394
	g := NewGenerator(32)
	if seedOf("doc-43") != seedOf("doc-126") {
		t.Fatalf("seeds differ: %d vs %d", seedOf("doc-43"), seedOf("doc-126"))
	}
	if !slices.Equal(g.Embed("doc-43"), g.Embed("doc-126")) {
		t.Error("texts with equal reduced seeds must produce equal vectors")
	}
}

func TestGenerator_ShorterIsPrefix(t *testing.T) {
	long := NewGenerator(128).Embed("prefix")
	short := NewGenerator(32).Embed("prefix")
	if !slices.Equal(long[:32], short) {
		t.Error("a shorter vector must be a prefix of the longer one for the same text")
	}
}

func TestGenerator_DistinctSeedsDiffer(t *testing.T) {
	if slices.Equal(vectorFromSeed(1, 8), vectorFromSeed(2, 8)) {
		t.Error("different seeds should produce different vectors")
	}
}

func TestGenerator_ConcurrentUse(t *testing.T) {
	g := NewGenerator(64)
	want := g.Embed("concurrent")

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !slices.Equal(g.Embed("concurrent"), want) {
				t.Error("concurrent Embed produced a different vector")
			}
		}()
	}
	wg.Wait()
}
