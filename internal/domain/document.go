package domain

// KeyPrefix namespaces every key ragdex writes to a shared Redis/Valkey instance.
const KeyPrefix = "ragdex:"

// Document is a stored text with its embedding. Insert-only.
type Document struct {
	ID     int
	Text   string
	Vector []float32
}

// StoreStatus is a read-only snapshot of the document store mode.
type StoreStatus struct {
	BackendReady     bool
	FallbackDocCount int
}
