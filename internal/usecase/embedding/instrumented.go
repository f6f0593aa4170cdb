package embedding

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

// InstrumentedEmbedder wraps an Embedder with request metrics and debug logging.
type InstrumentedEmbedder struct {
	inner  domain.Embedder
	model  string
	logger *zap.Logger
}

// Compile-time check: InstrumentedEmbedder implements domain.Embedder.
var _ domain.Embedder = (*InstrumentedEmbedder)(nil)

// NewInstrumentedEmbedder wraps an embedder with observability.
func NewInstrumentedEmbedder(inner domain.Embedder, model string, logger *zap.Logger) *InstrumentedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.EmbeddingDimensions.WithLabelValues(model).Set(float64(inner.Dimensions()))
	return &InstrumentedEmbedder{inner: inner, model: model, logger: logger}
}

// Embed delegates to the inner embedder and records the request.
func (p *InstrumentedEmbedder) Embed(text string) []float32 {
	start := time.Now()

	v := p.inner.Embed(text)

	duration := time.Since(start)
	metrics.EmbeddingRequestsTotal.WithLabelValues(p.model).Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(p.model).Observe(duration.Seconds())

	p.logger.Debug("Embedding computed",
		zap.String("model", p.model),
		zap.Int("text_len", len(text)),
		zap.Int("dimensions", len(v)),
		zap.Duration("duration", duration),
	)

	return v
}

// Dimensions returns the inner embedder's vector length.
func (p *InstrumentedEmbedder) Dimensions() int {
	return p.inner.Dimensions()
}
