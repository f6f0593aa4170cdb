package domain

// DefaultDimensions is the embedding length used when none is configured.
const DefaultDimensions = 128

// Embedder maps text to a fixed-length vector. Implementations must be deterministic.
type Embedder interface {
	Embed(text string) []float32
	Dimensions() int
}
