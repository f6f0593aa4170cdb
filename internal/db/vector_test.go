package db

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestEncodeVector(t *testing.T) {
	b := EncodeVector([]float32{1.0, -2.5})
	if len(b) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(b))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32([]byte(b[4:]))); got != -2.5 {
		t.Errorf("second component = %v, want -2.5", got)
	}
}

func TestEncodeVector_Empty(t *testing.T) {
	if b := EncodeVector(nil); b != "" {
		t.Errorf("expected empty blob, got %d bytes", len(b))
	}
}
